package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"puebla-barf/internal/domain/subscriptions"
)

type subscriptionsRepo struct {
	mu   sync.RWMutex
	byID map[string]subscriptions.Subscription
}

func NewSubscriptionsRepo() subscriptions.Repository {
	return &subscriptionsRepo{
		byID: make(map[string]subscriptions.Subscription),
	}
}

func (r *subscriptionsRepo) Create(ctx context.Context, s subscriptions.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("subscription id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("subscription already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *subscriptionsRepo) Update(ctx context.Context, s subscriptions.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *subscriptionsRepo) GetByID(ctx context.Context, id string) (subscriptions.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return subscriptions.Subscription{}, ErrNotFound
	}
	return s, nil
}

func (r *subscriptionsRepo) List(ctx context.Context, status subscriptions.Status) ([]subscriptions.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subscriptions.Subscription, 0)
	for _, s := range r.byID {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
