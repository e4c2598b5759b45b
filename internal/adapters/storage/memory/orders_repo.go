package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"puebla-barf/internal/domain/delivery"
	"puebla-barf/internal/domain/orders"
)

var (
	ErrNotFound = errors.New("not found")
)

// ordersRepo implementa orders.Repository y delivery.Repository sobre el
// mismo mapa: las dos pistas de estado viven en el mismo registro.
type ordersRepo struct {
	mu      sync.RWMutex
	byID    map[string]orders.Order
	byToken map[string]string // delivery_token → order id
}

func NewOrdersRepo() *ordersRepo {
	return &ordersRepo{
		byID:    make(map[string]orders.Order),
		byToken: make(map[string]string),
	}
}

func (r *ordersRepo) Create(ctx context.Context, o orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id required")
	}
	if strings.TrimSpace(o.DeliveryToken) == "" {
		return errors.New("delivery token required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("order already exists")
	}
	if _, exists := r.byToken[o.DeliveryToken]; exists {
		return errors.New("delivery token already in use")
	}

	r.byID[o.ID] = o
	r.byToken[o.DeliveryToken] = o.ID
	return nil
}

func (r *ordersRepo) GetByID(ctx context.Context, id string) (orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return orders.Order{}, ErrNotFound
	}
	return o, nil
}

func (r *ordersRepo) GetByIDs(ctx context.Context, ids []string) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := r.byID[strings.TrimSpace(id)]; ok {
			out = append(out, o)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *ordersRepo) List(ctx context.Context, f orders.ListFilter) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.Order, 0)
	for _, o := range r.byID {
		if !matchesFilter(o, f) {
			continue
		}
		out = append(out, o)
	}
	sortByCreated(out)
	return out, nil
}

func (r *ordersRepo) UpdateStatus(ctx context.Context, ids []string, st orders.Status, updatedAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range ids {
		o, ok := r.byID[id]
		if !ok {
			continue
		}
		o.Status = st
		o.UpdatedAt = updatedAt
		r.byID[id] = o
		n++
	}
	return n, nil
}

func (r *ordersRepo) GetByToken(ctx context.Context, token string) (orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return orders.Order{}, ErrNotFound
	}
	return r.byID[id], nil
}

// ConfirmByToken es el update condicional del flujo de repartidor:
// chequeo de pendiente y escritura bajo el mismo lock, equivalente en
// memoria al UPDATE ... WHERE driver_status pendiente de Postgres.
func (r *ordersRepo) ConfirmByToken(ctx context.Context, c delivery.Confirmation) (orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[c.Token]
	if !ok {
		return orders.Order{}, delivery.ErrNotFound
	}

	o := r.byID[id]
	if o.DriverStatus != orders.DriverPending {
		return orders.Order{}, delivery.ErrAlreadyConfirmed
	}

	confirmedAt := c.ConfirmedAt
	o.DriverStatus = c.DriverStatus
	o.DriverNotes = c.Notes
	o.DeliveryPhotoURL = c.PhotoURL
	o.ConfirmedAt = &confirmedAt
	o.UpdatedAt = c.ConfirmedAt

	r.byID[id] = o
	return o, nil
}

func matchesFilter(o orders.Order, f orders.ListFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if o.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	// To es inclusivo a nivel de día.
	if f.To != nil && !o.CreatedAt.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func sortByCreated(out []orders.Order) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}
