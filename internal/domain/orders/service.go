package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"puebla-barf/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo      Repository
	forwarder notify.Forwarder // opcional; nil = sin integración
	now       func() time.Time
}

func NewService(repo Repository, forwarder notify.Forwarder) *Service {
	return &Service{
		repo:      repo,
		forwarder: forwarder,
		now:       time.Now,
	}
}

type ItemInput struct {
	Description string
	Quantity    int
	UnitPrice   int
}

type CreateInput struct {
	CustomerName  string
	Phone         string
	Address       string
	Items         []ItemInput
	DeliveryFee   int
	PaymentMethod PaymentMethod
	DeliveryDate  *time.Time
}

// Create registra un pedido nuevo en estado new, con número legible y
// delivery token asignados aquí (el token no rota después).
// Subtotal y total se recalculan siempre de las líneas; no se confía
// en montos venidos del cliente.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return Order{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Phone) == "" {
		return Order{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Address) == "" {
		return Order{}, ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return Order{}, ErrInvalidInput
	}
	if in.PaymentMethod != PaymentCash && in.PaymentMethod != PaymentTransfer {
		return Order{}, ErrInvalidInput
	}
	if in.DeliveryFee < 0 {
		return Order{}, ErrInvalidInput
	}

	items := make([]Item, 0, len(in.Items))
	subtotal := 0
	for _, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return Order{}, ErrInvalidInput
		}
		line := Item{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Quantity * it.UnitPrice,
		}
		subtotal += line.Total
		items = append(items, line)
	}

	now := s.now()
	id := uuid.NewString()

	o := Order{
		ID:            id,
		OrderNumber:   orderNumber(now, id),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   in.DeliveryFee,
		Total:         subtotal + in.DeliveryFee,
		PaymentMethod: in.PaymentMethod,
		Status:        StatusNew,
		DeliveryDate:  in.DeliveryDate,
		DeliveryToken: uuid.NewString(),
		DriverStatus:  DriverPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, err
	}

	// Reenvío a la hoja: best-effort, nunca bloquea el checkout.
	if s.forwarder != nil {
		_ = s.forwarder.OrderCreated(ctx, notify.OrderEvent{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			CustomerName:  o.CustomerName,
			Phone:         o.Phone,
			Total:         o.Total,
			PaymentMethod: string(o.PaymentMethod),
			CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, ErrInvalidInput
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	for _, st := range f.Statuses {
		if !ValidStatus(st) {
			return nil, ErrInvalidInput
		}
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus aplica un estado de oficina a un lote de pedidos.
// Deliberadamente NO es una máquina de estados estricta: staff puede fijar
// cualquier estado en cualquier momento (override operativo). La única
// validación es que el estado exista.
func (s *Service) UpdateStatus(ctx context.Context, ids []string, st Status) (int, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := strings.TrimSpace(id); v != "" {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, ErrInvalidInput
	}
	if !ValidStatus(st) {
		return 0, ErrInvalidInput
	}
	return s.repo.UpdateStatus(ctx, clean, st, s.now())
}

// orderNumber arma un número legible: PB-fecha-sufijo corto del uuid.
// Único en la práctica (el uuid ya lo es) y cómodo para dictar por teléfono.
func orderNumber(now time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return "PB-" + now.Format("20060102") + "-" + suffix
}
