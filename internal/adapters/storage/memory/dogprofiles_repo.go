package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"puebla-barf/internal/domain/dogprofiles"
)

type dogProfilesRepo struct {
	mu   sync.RWMutex
	byID map[string]dogprofiles.DogProfile
}

func NewDogProfilesRepo() dogprofiles.Repository {
	return &dogProfilesRepo{
		byID: make(map[string]dogprofiles.DogProfile),
	}
}

func (r *dogProfilesRepo) Create(ctx context.Context, p dogprofiles.DogProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("profile already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *dogProfilesRepo) Update(ctx context.Context, p dogprofiles.DogProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *dogProfilesRepo) GetByID(ctx context.Context, id string) (dogprofiles.DogProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return dogprofiles.DogProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *dogProfilesRepo) List(ctx context.Context) ([]dogprofiles.DogProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dogprofiles.DogProfile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
