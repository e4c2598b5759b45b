package subscriptions

import "context"

type Repository interface {
	Create(ctx context.Context, s Subscription) error
	Update(ctx context.Context, s Subscription) error
	GetByID(ctx context.Context, id string) (Subscription, error)
	List(ctx context.Context, status Status) ([]Subscription, error) // status vacío = todas
}
