package subscriptions

import (
	"time"

	"puebla-barf/internal/domain/plan"
)

// Status del ciclo de vida de una suscripción.
// @Enum active, paused, cancelled
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Subscription es un plan recurrente contratado con descuento de nivel.
// Price es el precio por entrega ya con descuento; se recalcula siempre
// en el servidor desde la tabla de precios vigente al contratar, nunca
// se toma del cliente.
type Subscription struct {
	ID string

	CustomerName string
	Phone        string
	Address      string

	DailyGrams   int
	DurationDays int // frecuencia de entrega: 7 o 15
	Packaging    plan.PackagingSize
	Protein      plan.ProteinLine

	Tier  plan.TierType
	Price int

	Status Status

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time
}
