package orders

import (
	"context"
	"fmt"
	"strings"
)

// DispatchInput selecciona qué pedidos salen en el mensaje al repartidor:
// por ids explícitos, o por filtro (estados + rango de fecha).
// Sin estados explícitos se despachan new + confirmed.
type DispatchInput struct {
	OrderIDs []string
	Filter   ListFilter
	BaseURL  string
}

// DispatchMessage es la proyección de despacho: texto plano estilo WhatsApp
// más un link de confirmación por pedido. El core no envía nada; armar y
// re-armar este mensaje es siempre posible e idempotente (no se marca
// ningún "ya enviado").
type DispatchMessage struct {
	Text   string
	Orders []DispatchOrder
}

type DispatchOrder struct {
	OrderID          string
	OrderNumber      string
	ConfirmationLink string
}

// Dispatch arma el mensaje de salida a ruta. Solo lectura: no muta Status
// ni DriverStatus de ningún pedido.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput) (DispatchMessage, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(in.BaseURL), "/")
	if baseURL == "" {
		return DispatchMessage{}, ErrInvalidInput
	}

	var (
		selected []Order
		err      error
	)
	if len(in.OrderIDs) > 0 {
		selected, err = s.repo.GetByIDs(ctx, in.OrderIDs)
	} else {
		f := in.Filter
		if len(f.Statuses) == 0 {
			f.Statuses = []Status{StatusNew, StatusConfirmed}
		}
		for _, st := range f.Statuses {
			if !ValidStatus(st) {
				return DispatchMessage{}, ErrInvalidInput
			}
		}
		selected, err = s.repo.List(ctx, f)
	}
	if err != nil {
		return DispatchMessage{}, err
	}
	if len(selected) == 0 {
		return DispatchMessage{}, ErrNotFound
	}

	return buildDispatchMessage(selected, baseURL), nil
}

func buildDispatchMessage(sel []Order, baseURL string) DispatchMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "🚚 ENTREGAS DEL DÍA (%d pedidos)\n", len(sel))

	out := make([]DispatchOrder, 0, len(sel))

	for i, o := range sel {
		link := baseURL + "/delivery/" + o.DeliveryToken

		fmt.Fprintf(&b, "\n%d) %s — %s\n", i+1, o.OrderNumber, o.CustomerName)
		fmt.Fprintf(&b, "   📍 %s\n", o.Address)
		fmt.Fprintf(&b, "   📞 %s\n", o.Phone)
		for _, it := range o.Items {
			fmt.Fprintf(&b, "   • %s x%d\n", it.Description, it.Quantity)
		}
		fmt.Fprintf(&b, "   💰 %s\n", paymentLine(o))
		fmt.Fprintf(&b, "   ✅ Confirmar: %s\n", link)

		out = append(out, DispatchOrder{
			OrderID:          o.ID,
			OrderNumber:      o.OrderNumber,
			ConfirmationLink: link,
		})
	}

	return DispatchMessage{Text: b.String(), Orders: out}
}

func paymentLine(o Order) string {
	if o.PaymentMethod == PaymentCash {
		return fmt.Sprintf("COBRAR $%d en efectivo", o.Total)
	}
	return fmt.Sprintf("PAGADO ($%d)", o.Total)
}
