package delivery

import (
	"time"

	"puebla-barf/internal/domain/orders"
)

// OrderView es la proyección del pedido que ve el repartidor.
// No expone el id interno ni el estado de oficina: el token solo da
// acceso a lo necesario para entregar y confirmar.
type OrderView struct {
	OrderNumber  string
	CustomerName string
	Phone        string
	Address      string

	Items         []orders.Item
	Total         int
	PaymentMethod orders.PaymentMethod

	DriverStatus orders.DriverStatus
	DriverNotes  string
	PhotoURL     string
	ConfirmedAt  *time.Time

	DeliveryDate *time.Time
}

func toView(o orders.Order) OrderView {
	return OrderView{
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		Items:         o.Items,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		DriverStatus:  o.DriverStatus,
		DriverNotes:   o.DriverNotes,
		PhotoURL:      o.DeliveryPhotoURL,
		ConfirmedAt:   o.ConfirmedAt,
		DeliveryDate:  o.DeliveryDate,
	}
}
