package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"puebla-barf/internal/domain/plan"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Subscription
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Subscription{}}
}

func (r *testRepo) Create(ctx context.Context, s Subscription) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(ctx context.Context, s Subscription) error {
	if _, ok := r.byID[s.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Subscription, error) {
	s, ok := r.byID[id]
	if !ok {
		return Subscription{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) List(ctx context.Context, status Status) ([]Subscription, error) {
	out := make([]Subscription, 0)
	for _, s := range r.byID {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func testPrices() plan.PriceTable {
	return plan.PriceTable{
		plan.LinePollo: {KgBag: 80, HalfKgBag: 60},
		plan.LineRes:   {KgBag: 90, HalfKgBag: 70},
	}
}

func validInput() CreateInput {
	return CreateInput{
		CustomerName: "Laura M.",
		Phone:        "2221234567",
		Address:      "Av. Juárez 123",
		DailyGrams:   300,
		DurationDays: 7,
		Packaging:    plan.SizeKg,
		Protein:      plan.LineRes,
		Tier:         plan.TierBasic,
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_PricesServerSide(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPrices(), plan.DefaultDiscountPerBag)

	// 300g × 7d = 2100g → 2×1kg + 1×500g = $250; basic 12% → $220, pro 18% → $205
	sub, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sub.Status != StatusActive {
		t.Fatalf("expected active, got %s", sub.Status)
	}
	if sub.Price != 220 {
		t.Fatalf("expected basic price 220, got %d", sub.Price)
	}

	in := validInput()
	in.Tier = plan.TierPro
	pro, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create pro returned error: %v", err)
	}
	if pro.Price != 205 {
		t.Fatalf("expected pro price 205, got %d", pro.Price)
	}
}

func TestService_Create_RejectsBadInput(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPrices(), plan.DefaultDiscountPerBag)

	cases := map[string]func(*CreateInput){
		"sin nombre":       func(in *CreateInput) { in.CustomerName = " " },
		"sin teléfono":     func(in *CreateInput) { in.Phone = "" },
		"tier desconocido": func(in *CreateInput) { in.Tier = "platinum" },
		"duración rara":    func(in *CreateInput) { in.DurationDays = 10 },
		"gramos cero":      func(in *CreateInput) { in.DailyGrams = 0 },
		"proteína rara":    func(in *CreateInput) { in.Protein = "cerdo" },
	}

	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), in); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestService_PauseResume_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPrices(), plan.DefaultDiscountPerBag)

	sub, _ := svc.Create(context.Background(), validInput())

	paused, err := svc.Pause(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	if paused.Status != StatusPaused {
		t.Fatalf("expected paused, got %s", paused.Status)
	}

	// repetir no cambia nada ni falla
	paused2, err := svc.Pause(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Pause #2 returned error: %v", err)
	}
	if paused2.UpdatedAt != paused.UpdatedAt {
		t.Fatalf("idempotent pause should not touch UpdatedAt")
	}

	resumed, err := svc.Resume(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if resumed.Status != StatusActive {
		t.Fatalf("expected active, got %s", resumed.Status)
	}
}

func TestService_Cancel_IsTerminal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPrices(), plan.DefaultDiscountPerBag)

	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	sub, _ := svc.Create(context.Background(), validInput())

	cancelled, err := svc.Cancel(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil || !cancelled.CancelledAt.Equal(at) {
		t.Fatalf("expected CancelledAt %v, got %v", at, cancelled.CancelledAt)
	}

	// cancelar de nuevo es idempotente
	if _, err := svc.Cancel(context.Background(), sub.ID); err != nil {
		t.Fatalf("Cancel #2 returned error: %v", err)
	}

	// pero no se pausa ni revive
	if _, err := svc.Pause(context.Background(), sub.ID); err != ErrBadState {
		t.Fatalf("expected ErrBadState pausing cancelled, got %v", err)
	}
	if _, err := svc.Resume(context.Background(), sub.ID); err != ErrBadState {
		t.Fatalf("expected ErrBadState resuming cancelled, got %v", err)
	}
}

func TestService_List_FiltersByStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPrices(), plan.DefaultDiscountPerBag)

	a, _ := svc.Create(context.Background(), validInput())
	b, _ := svc.Create(context.Background(), validInput())
	_, _ = svc.Pause(context.Background(), b.ID)

	active, err := svc.List(context.Background(), StatusActive)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != a.ID {
		t.Fatalf("expected only active %s, got %#v", a.ID, active)
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List all returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(all))
	}

	if _, err := svc.List(context.Background(), Status("nope")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}
