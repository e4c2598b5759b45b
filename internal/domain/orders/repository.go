package orders

import (
	"context"
	"time"
)

// ListFilter acota la lectura de pedidos para la vista de oficina
// y para el despacho a repartidor.
type ListFilter struct {
	Statuses []Status
	From     *time.Time
	To       *time.Time
}

type Repository interface {
	Create(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	GetByIDs(ctx context.Context, ids []string) ([]Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)

	// UpdateStatus aplica un estado de oficina a un conjunto de pedidos.
	// Devuelve cuántos se actualizaron. Last-write-wins: no hay token de
	// concurrencia optimista para ediciones de oficina.
	UpdateStatus(ctx context.Context, ids []string, st Status, updatedAt time.Time) (int, error)
}
