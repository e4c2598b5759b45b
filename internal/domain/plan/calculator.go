package plan

import (
	"errors"
	"math"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// DailyGrams calcula la ración diaria en gramos a partir de peso,
// etapa de vida y actividad.
// Porcentajes sobre peso corporal: cachorro 6%, senior 2.5%,
// adulto low 2.5% / normal 3% / high 4%.
func DailyGrams(weightKg float64, stage AgeStage, activity ActivityLevel) (int, error) {
	if weightKg <= 0 {
		return 0, ErrInvalidInput
	}

	var pct float64
	switch stage {
	case StagePuppy:
		pct = 0.06
	case StageSenior:
		pct = 0.025
	case StageAdult:
		switch activity {
		case ActivityLow:
			pct = 0.025
		case ActivityNormal:
			pct = 0.03
		case ActivityHigh:
			pct = 0.04
		default:
			return 0, ErrInvalidInput
		}
	default:
		return 0, ErrInvalidInput
	}

	return int(math.Round(weightKg * pct * 1000)), nil
}

// BagBreakdown convierte gramos totales en bolsas compradas.
// Garantía: los gramos resultantes nunca quedan por debajo de los solicitados
// (el redondeo solo puede sobre-aprovisionar).
// Con preferencia 1kg, el sobrante genera a lo más una bolsa de 500g.
func BagBreakdown(totalGrams int, preferred PackagingSize) []Bag {
	bags := make([]Bag, 0, 2)
	if totalGrams <= 0 {
		return bags
	}

	if preferred == SizeHalfKg {
		qty := ceilDiv(totalGrams, gramsHalfKgBag)
		bags = append(bags, Bag{Size: SizeHalfKg, Quantity: qty})
		return bags
	}

	full := totalGrams / gramsKgBag
	remainder := totalGrams % gramsKgBag

	// El sobrante genera a lo más UNA bolsa de 500g; si no alcanza,
	// se redondea a una bolsa de 1kg extra en vez de dos de 500g.
	half := 0
	switch {
	case remainder == 0:
	case remainder <= gramsHalfKgBag:
		half = 1
	default:
		full++
	}

	if full > 0 {
		bags = append(bags, Bag{Size: SizeKg, Quantity: full})
	}
	if half > 0 {
		bags = append(bags, Bag{Size: SizeHalfKg, Quantity: half})
	}
	return bags
}

// Calculate cotiza un plan completo: desglose de bolsas + precio.
// La tabla de precios se inyecta; no hay constantes de negocio aquí.
func Calculate(req Request, prices PriceTable) (Calculation, error) {
	if req.DailyGrams <= 0 {
		return Calculation{}, ErrInvalidInput
	}
	if req.DurationDays != 7 && req.DurationDays != 15 {
		return Calculation{}, ErrInvalidInput
	}
	if req.Packaging != SizeHalfKg && req.Packaging != SizeKg {
		return Calculation{}, ErrInvalidInput
	}
	if _, ok := prices[req.Protein]; !ok {
		return Calculation{}, ErrInvalidInput
	}

	requestedGrams := req.DailyGrams * req.DurationDays
	bags := BagBreakdown(requestedGrams, req.Packaging)

	actualGrams := 0
	totalBags := 0
	subtotal := 0
	for _, b := range bags {
		actualGrams += b.Grams()
		totalBags += b.Quantity
		subtotal += b.Quantity * prices.UnitPrice(req.Protein, b.Size)
	}

	// Precio efectivo por kg sobre los gramos reales entregados.
	pricePerKg := prices.UnitPrice(req.Protein, SizeKg)
	if actualGrams > 0 {
		pricePerKg = int(math.Round(float64(subtotal) / (float64(actualGrams) / 1000)))
	}

	return Calculation{
		TotalKg:      float64(requestedGrams) / 1000,
		TotalGrams:   actualGrams,
		Bags:         bags,
		TotalBags:    totalBags,
		PricePerKg:   pricePerKg,
		Subtotal:     subtotal,
		DurationDays: req.DurationDays,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
