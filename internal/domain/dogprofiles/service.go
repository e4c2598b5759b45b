package dogprofiles

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
)

type Service struct {
	repo   Repository
	prices plan.PriceTable
	now    func() time.Time
}

func NewService(repo Repository, prices plan.PriceTable) *Service {
	return &Service{
		repo:   repo,
		prices: prices,
		now:    time.Now,
	}
}

type CreateInput struct {
	OwnerName string
	DogName   string
	WeightKg  float64
	AgeStage  plan.AgeStage
	Activity  plan.ActivityLevel
	Notes     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (DogProfile, error) {
	if strings.TrimSpace(in.DogName) == "" {
		return DogProfile{}, ErrInvalidInput
	}

	grams, err := plan.DailyGrams(in.WeightKg, in.AgeStage, in.Activity)
	if err != nil {
		return DogProfile{}, ErrInvalidInput
	}

	now := s.now()
	p := DogProfile{
		ID:         uuid.NewString(),
		OwnerName:  strings.TrimSpace(in.OwnerName),
		DogName:    strings.TrimSpace(in.DogName),
		WeightKg:   in.WeightKg,
		AgeStage:   in.AgeStage,
		Activity:   in.Activity,
		DailyGrams: grams,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return DogProfile{}, err
	}
	return p, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	OwnerName *string
	DogName   *string
	WeightKg  *float64
	AgeStage  *plan.AgeStage
	Activity  *plan.ActivityLevel
	Notes     *string
}

// Update aplica un PATCH y recalcula DailyGrams si cambió algún insumo
// del cálculo (peso, etapa o actividad).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (DogProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DogProfile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DogProfile{}, ErrNotFound
	}

	if in.OwnerName != nil {
		p.OwnerName = strings.TrimSpace(*in.OwnerName)
	}
	if in.DogName != nil {
		name := strings.TrimSpace(*in.DogName)
		if name == "" {
			return DogProfile{}, ErrInvalidInput
		}
		p.DogName = name
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	recompute := false
	if in.WeightKg != nil {
		p.WeightKg = *in.WeightKg
		recompute = true
	}
	if in.AgeStage != nil {
		p.AgeStage = *in.AgeStage
		recompute = true
	}
	if in.Activity != nil {
		p.Activity = *in.Activity
		recompute = true
	}
	if recompute {
		grams, err := plan.DailyGrams(p.WeightKg, p.AgeStage, p.Activity)
		if err != nil {
			return DogProfile{}, ErrInvalidInput
		}
		p.DailyGrams = grams
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return DogProfile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (DogProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DogProfile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DogProfile{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]DogProfile, error) {
	return s.repo.List(ctx)
}

type SuggestInput struct {
	DurationDays int
	Packaging    plan.PackagingSize
	Protein      plan.ProteinLine
}

// Suggestion es la cotización de la asesora: plan + niveles de suscripción
// a partir del perfil guardado.
type Suggestion struct {
	Profile DogProfile
	Plan    plan.Calculation
	Tiers   plan.TierSet
}

// SuggestPlan cotiza un plan para el perfil, con la tabla de precios
// inyectada al construir el servicio.
func (s *Service) SuggestPlan(ctx context.Context, id string, in SuggestInput, discountPerBag int) (Suggestion, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Suggestion{}, err
	}

	calc, err := plan.Calculate(plan.Request{
		DailyGrams:   p.DailyGrams,
		DurationDays: in.DurationDays,
		Packaging:    in.Packaging,
		Protein:      in.Protein,
	}, s.prices)
	if err != nil {
		return Suggestion{}, ErrInvalidInput
	}

	return Suggestion{
		Profile: p,
		Plan:    calc,
		Tiers:   plan.Tiers(calc.Subtotal, calc.TotalBags, discountPerBag),
	}, nil
}
