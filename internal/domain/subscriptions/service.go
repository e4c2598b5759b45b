package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"puebla-barf/internal/domain/plan"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo           Repository
	prices         plan.PriceTable
	discountPerBag int
	now            func() time.Time
}

func NewService(repo Repository, prices plan.PriceTable, discountPerBag int) *Service {
	return &Service{
		repo:           repo,
		prices:         prices,
		discountPerBag: discountPerBag,
		now:            time.Now,
	}
}

type CreateInput struct {
	CustomerName string
	Phone        string
	Address      string

	DailyGrams   int
	DurationDays int
	Packaging    plan.PackagingSize
	Protein      plan.ProteinLine

	Tier plan.TierType
}

// Create contrata una suscripción: cotiza el plan con la tabla inyectada,
// deriva los niveles y congela el precio del nivel elegido.
func (s *Service) Create(ctx context.Context, in CreateInput) (Subscription, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return Subscription{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Phone) == "" {
		return Subscription{}, ErrInvalidInput
	}
	if in.Tier != plan.TierBasic && in.Tier != plan.TierPro {
		return Subscription{}, ErrInvalidInput
	}

	calc, err := plan.Calculate(plan.Request{
		DailyGrams:   in.DailyGrams,
		DurationDays: in.DurationDays,
		Packaging:    in.Packaging,
		Protein:      in.Protein,
	}, s.prices)
	if err != nil {
		return Subscription{}, ErrInvalidInput
	}

	tiers := plan.Tiers(calc.Subtotal, calc.TotalBags, s.discountPerBag)
	price := tiers.Basic.PriceAfterDiscount
	if in.Tier == plan.TierPro {
		price = tiers.Pro.PriceAfterDiscount
	}

	now := s.now()
	sub := Subscription{
		ID:           uuid.NewString(),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		DailyGrams:   in.DailyGrams,
		DurationDays: in.DurationDays,
		Packaging:    in.Packaging,
		Protein:      in.Protein,
		Tier:         in.Tier,
		Price:        price,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Subscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Subscription{}, ErrInvalidInput
	}
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context, status Status) ([]Subscription, error) {
	if status != "" && status != StatusActive && status != StatusPaused && status != StatusCancelled {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, status)
}

// Pause es idempotente; una suscripción cancelada ya no se puede pausar.
func (s *Service) Pause(ctx context.Context, id string) (Subscription, error) {
	return s.transition(ctx, id, StatusPaused)
}

// Resume es idempotente sobre activas; cancelada no revive.
func (s *Service) Resume(ctx context.Context, id string) (Subscription, error) {
	return s.transition(ctx, id, StatusActive)
}

// Cancel es terminal e idempotente.
func (s *Service) Cancel(ctx context.Context, id string) (Subscription, error) {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, target Status) (Subscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Subscription{}, ErrInvalidInput
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Subscription{}, ErrNotFound
	}

	// Idempotente
	if sub.Status == target {
		return sub, nil
	}
	// Cancelada es terminal: no se pausa ni se reactiva.
	if sub.Status == StatusCancelled {
		return Subscription{}, ErrBadState
	}

	now := s.now()
	sub.Status = target
	sub.UpdatedAt = now
	if target == StatusCancelled {
		sub.CancelledAt = &now
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}
