package delivery

import (
	"context"
	"time"

	"puebla-barf/internal/domain/orders"
)

// Confirmation es la escritura única del repartidor sobre un pedido.
type Confirmation struct {
	Token        string
	DriverStatus orders.DriverStatus
	Notes        string
	PhotoURL     string
	ConfirmedAt  time.Time
}

// Repository es el puerto mínimo del flujo de repartidor. Lo implementan
// los mismos adapters de storage que orders.Repository, pero acotado:
// por token solo se puede leer la proyección y confirmar una vez.
//
// ConfirmByToken DEBE ser un update condicional atómico en el storage
// (driver_status pendiente como parte del WHERE), no un read+write del
// caller: así dos confirmaciones concurrentes no pueden pasar ambas.
// Token desconocido → ErrNotFound; ya confirmado → ErrAlreadyConfirmed.
type Repository interface {
	GetByToken(ctx context.Context, token string) (orders.Order, error)
	ConfirmByToken(ctx context.Context, c Confirmation) (orders.Order, error)
}
