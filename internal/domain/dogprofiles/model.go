package dogprofiles

import (
	"time"

	"puebla-barf/internal/domain/plan"
)

// DogProfile es el perfil de alimentación de un perro registrado por la
// asesora o por el cliente. DailyGrams es derivado: se recalcula en cada
// alta/edición desde peso + etapa + actividad, nunca se captura a mano.
type DogProfile struct {
	ID string

	OwnerName string
	DogName   string

	WeightKg float64
	AgeStage plan.AgeStage
	Activity plan.ActivityLevel

	DailyGrams int

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
