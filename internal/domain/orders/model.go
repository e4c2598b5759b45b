package orders

import "time"

// Status es el estado de oficina del pedido.
// Lo mutan únicamente usuarios staff autenticados.
// @Enum new, confirmed, in_route, delivered, cancelled
type Status string

const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusInRoute   Status = "in_route"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// DriverStatus es el desenlace de entrega que fija el repartidor.
// Es una pista independiente de Status: la oficina no la toca y
// una vez escrita no se sobreescribe.
// Vacío = pendiente (aún sin confirmación del repartidor).
// @Enum delivered, postponed, failed
type DriverStatus string

const (
	DriverPending   DriverStatus = ""
	DriverDelivered DriverStatus = "delivered"
	DriverPostponed DriverStatus = "postponed"
	DriverFailed    DriverStatus = "failed"
)

// PaymentMethod define cómo paga el cliente.
// @Enum cash, transfer
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Item es una línea del pedido.
type Item struct {
	Description string
	Quantity    int
	UnitPrice   int
	Total       int
}

// Order es un pedido con sus dos pistas de estado.
// DeliveryToken se asigna al crear el pedido y no rota: es la credencial
// de capacidad que autoriza el flujo del repartidor (posesión = acceso).
type Order struct {
	ID          string
	OrderNumber string

	CustomerName string
	Phone        string
	Address      string

	Items       []Item
	Subtotal    int
	DeliveryFee int
	Total       int

	PaymentMethod PaymentMethod

	Status       Status
	DeliveryDate *time.Time

	DeliveryToken    string
	DriverStatus     DriverStatus
	DriverNotes      string
	DeliveryPhotoURL string
	ConfirmedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidStatus reporta si s es un estado de oficina conocido.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusInRoute, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidDriverStatus reporta si s es un desenlace de repartidor conocido.
// Pendiente (vacío) no cuenta: nunca se escribe explícitamente.
func ValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverDelivered, DriverPostponed, DriverFailed:
		return true
	}
	return false
}
