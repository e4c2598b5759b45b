package notify

import "context"

// OrderEvent es el payload mínimo que se reenvía a integraciones externas
// (hoja de cálculo vía webhook) cuando entra un pedido.
type OrderEvent struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Total         int    `json:"total"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"`
}

// Forwarder reenvía eventos de pedido a un colaborador externo.
// Es best-effort: un fallo aquí nunca debe tumbar el checkout.
type Forwarder interface {
	OrderCreated(ctx context.Context, ev OrderEvent) error
}
