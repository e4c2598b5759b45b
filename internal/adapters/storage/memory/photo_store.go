package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"puebla-barf/internal/ports/photos"
)

// SignedURLTTL replica la vigencia de 7 días del storage real, para que
// dev y tests vean el mismo contrato.
const SignedURLTTL = 7 * 24 * time.Hour

type storedPhoto struct {
	ContentType string
	Data        []byte
	ExpiresAt   time.Time
}

// photoStore guarda fotos en memoria y fabrica URLs con la misma forma
// que las firmadas del storage real. Solo para dev y tests.
type photoStore struct {
	mu    sync.RWMutex
	byKey map[string]storedPhoto
	now   func() time.Time
}

func NewPhotoStore() *photoStore {
	return &photoStore{
		byKey: make(map[string]storedPhoto),
		now:   time.Now,
	}
}

func (s *photoStore) Save(ctx context.Context, key, contentType string, data []byte) (photos.SignedUpload, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return photos.SignedUpload{}, errors.New("photo key required")
	}
	if len(data) == 0 {
		return photos.SignedUpload{}, errors.New("empty photo")
	}

	expires := s.now().Add(SignedURLTTL)

	s.mu.Lock()
	s.byKey[key] = storedPhoto{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
		ExpiresAt:   expires,
	}
	s.mu.Unlock()

	return photos.SignedUpload{
		URL:       "https://storage.local/object/sign/" + key,
		ExpiresAt: expires,
	}, nil
}

// Get existe para asserts en tests.
func (s *photoStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return p.Data, true
}
