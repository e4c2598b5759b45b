package plan

import "math"

// DefaultDiscountPerBag es el default operativo ($10 por bolsa).
// Es solo un fallback de configuración: Tiers recibe el valor inyectado.
const DefaultDiscountPerBag = 10

// Tiers deriva las ofertas de suscripción (basic/pro) de un precio único.
// basic descuenta discountPerBag por bolsa; pro descuenta 1.5× eso.
// Con basePrice <= 0 el porcentaje degrada a 0 (sin división entre cero)
// y ambos precios quedan en 0.
func Tiers(basePrice, totalBags, discountPerBag int) TierSet {
	if discountPerBag <= 0 {
		discountPerBag = DefaultDiscountPerBag
	}
	if totalBags < 0 {
		totalBags = 0
	}

	discount := float64(totalBags * discountPerBag)

	basicPct := 0
	if basePrice > 0 {
		basicPct = int(math.Round(discount / float64(basePrice) * 100))
	}
	proPct := int(math.Round(float64(basicPct) * 1.5))

	basicPrice := 0
	proPrice := 0
	if basePrice > 0 {
		basicPrice = maxInt(0, basePrice-int(discount))
		proPrice = maxInt(0, int(math.Round(float64(basePrice)-discount*1.5)))
	}

	return TierSet{
		Basic: Tier{Type: TierBasic, DiscountPercent: basicPct, PriceAfterDiscount: basicPrice},
		Pro:   Tier{Type: TierPro, DiscountPercent: proPct, PriceAfterDiscount: proPrice},
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
