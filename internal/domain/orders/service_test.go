package orders

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"puebla-barf/internal/ports/notify"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Order
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Order{}}
}

func (r *testRepo) Create(ctx context.Context, o Order) error {
	if o.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[o.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return Order{}, errRepoNotFound
	}
	return o, nil
}

func (r *testRepo) GetByIDs(ctx context.Context, ids []string) ([]Order, error) {
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := r.byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Order, error) {
	out := make([]Order, 0)
	for _, o := range r.byID {
		if len(f.Statuses) > 0 {
			found := false
			for _, st := range f.Statuses {
				if o.Status == st {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !o.CreatedAt.Before(f.To.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, ids []string, st Status, updatedAt time.Time) (int, error) {
	n := 0
	for _, id := range ids {
		o, ok := r.byID[id]
		if !ok {
			continue
		}
		o.Status = st
		o.UpdatedAt = updatedAt
		r.byID[id] = o
		n++
	}
	return n, nil
}

// forwarder de prueba: solo cuenta eventos.
type testForwarder struct {
	events []notify.OrderEvent
}

func (f *testForwarder) OrderCreated(ctx context.Context, ev notify.OrderEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		CustomerName: "Laura M.",
		Phone:        "2221234567",
		Address:      "Av. Juárez 123",
		Items: []ItemInput{
			{Description: "BARF res 1kg", Quantity: 2, UnitPrice: 90},
			{Description: "BARF res 500g", Quantity: 1, UnitPrice: 70},
		},
		DeliveryFee:   30,
		PaymentMethod: PaymentCash,
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_AssignsNumberTokenAndTotals(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	o, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if o.Status != StatusNew {
		t.Fatalf("expected status new, got %s", o.Status)
	}
	if o.DriverStatus != DriverPending {
		t.Fatalf("expected pending driver status, got %q", o.DriverStatus)
	}
	if o.Subtotal != 2*90+70 {
		t.Fatalf("expected subtotal 250, got %d", o.Subtotal)
	}
	if o.Total != o.Subtotal+30 {
		t.Fatalf("expected total %d, got %d", o.Subtotal+30, o.Total)
	}
	if o.DeliveryToken == "" || o.DeliveryToken == o.ID {
		t.Fatalf("expected dedicated delivery token, got %q", o.DeliveryToken)
	}

	// PB-YYYYMMDD-XXXX
	if !strings.HasPrefix(o.OrderNumber, "PB-20260314-") {
		t.Fatalf("unexpected order number %q", o.OrderNumber)
	}
	suffix := strings.TrimPrefix(o.OrderNumber, "PB-20260314-")
	if len(suffix) != 4 || suffix != strings.ToUpper(suffix) {
		t.Fatalf("unexpected order number suffix %q", suffix)
	}
}

func TestService_Create_RecomputesLineTotals(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	in := validInput()
	o, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for i, it := range o.Items {
		if it.Total != it.Quantity*it.UnitPrice {
			t.Fatalf("item %d: total %d != %d*%d", i, it.Total, it.Quantity, it.UnitPrice)
		}
	}
}

func TestService_Create_RejectsBadInput(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	cases := map[string]func(*CreateInput){
		"sin nombre":         func(in *CreateInput) { in.CustomerName = "  " },
		"sin teléfono":       func(in *CreateInput) { in.Phone = "" },
		"sin dirección":      func(in *CreateInput) { in.Address = "" },
		"sin items":          func(in *CreateInput) { in.Items = nil },
		"pago desconocido":   func(in *CreateInput) { in.PaymentMethod = "bitcoin" },
		"fee negativo":       func(in *CreateInput) { in.DeliveryFee = -1 },
		"cantidad cero":      func(in *CreateInput) { in.Items[0].Quantity = 0 },
		"precio negativo":    func(in *CreateInput) { in.Items[0].UnitPrice = -5 },
		"item sin describir": func(in *CreateInput) { in.Items[0].Description = " " },
	}

	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), in); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestService_Create_ForwardsEvent(t *testing.T) {
	repo := newTestRepo()
	fw := &testForwarder{}
	svc := NewService(repo, fw)

	o, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(fw.events) != 1 {
		t.Fatalf("expected 1 forwarded event, got %d", len(fw.events))
	}
	ev := fw.events[0]
	if ev.OrderID != o.ID || ev.OrderNumber != o.OrderNumber || ev.Total != o.Total {
		t.Fatalf("forwarded event mismatch: %#v", ev)
	}
}

func TestService_UpdateStatus_Bulk(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	a, _ := svc.Create(context.Background(), validInput())
	b, _ := svc.Create(context.Background(), validInput())

	n, err := svc.UpdateStatus(context.Background(), []string{a.ID, b.ID, "no-such"}, StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 updated, got %d", n)
	}

	got, _ := svc.GetByID(context.Background(), a.ID)
	if got.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
}

func TestService_UpdateStatus_AllowsAnyTransition(t *testing.T) {
	// Override operativo: delivered puede volver a confirmed si staff se equivocó.
	repo := newTestRepo()
	svc := NewService(repo, nil)

	o, _ := svc.Create(context.Background(), validInput())

	for _, st := range []Status{StatusDelivered, StatusConfirmed, StatusCancelled, StatusNew} {
		if _, err := svc.UpdateStatus(context.Background(), []string{o.ID}, st); err != nil {
			t.Fatalf("UpdateStatus(%s) returned error: %v", st, err)
		}
	}
}

func TestService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	o, _ := svc.Create(context.Background(), validInput())

	if _, err := svc.UpdateStatus(context.Background(), []string{o.ID}, Status("vanished")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), nil, StatusConfirmed); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty ids, got %v", err)
	}
}

func TestService_List_FiltersByStatusAndDate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	svc.now = func() time.Time { return day1 }
	a, _ := svc.Create(context.Background(), validInput())

	svc.now = func() time.Time { return day2 }
	b, _ := svc.Create(context.Background(), validInput())

	_, _ = svc.UpdateStatus(context.Background(), []string{b.ID}, StatusConfirmed)

	got, err := svc.List(context.Background(), ListFilter{Statuses: []Status{StatusConfirmed}})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only confirmed order %s, got %#v", b.ID, got)
	}

	// To es inclusivo al día
	got, err = svc.List(context.Background(), ListFilter{From: &day1, To: &day1})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only day1 order %s, got %d results", a.ID, len(got))
	}

	if _, err := svc.List(context.Background(), ListFilter{Statuses: []Status{"nope"}}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status filter, got %v", err)
	}
}
