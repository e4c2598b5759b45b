package dogprofiles

import "context"

type Repository interface {
	Create(ctx context.Context, p DogProfile) error
	Update(ctx context.Context, p DogProfile) error
	GetByID(ctx context.Context, id string) (DogProfile, error)
	List(ctx context.Context) ([]DogProfile, error)
}
