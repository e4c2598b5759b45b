package plan

import "testing"

func TestTiers_WorkedExample(t *testing.T) {
	// basePrice=250, 3 bolsas, $10/bolsa → descuento 30.
	set := Tiers(250, 3, 10)

	if set.Basic.DiscountPercent != 12 {
		t.Fatalf("basic: expected 12%%, got %d", set.Basic.DiscountPercent)
	}
	if set.Basic.PriceAfterDiscount != 220 {
		t.Fatalf("basic: expected 220, got %d", set.Basic.PriceAfterDiscount)
	}
	if set.Pro.DiscountPercent != 18 {
		t.Fatalf("pro: expected 18%%, got %d", set.Pro.DiscountPercent)
	}
	if set.Pro.PriceAfterDiscount != 205 {
		t.Fatalf("pro: expected 205 (round(250-45)), got %d", set.Pro.PriceAfterDiscount)
	}
}

func TestTiers_ZeroBasePrice(t *testing.T) {
	set := Tiers(0, 5, 10)

	if set.Basic.DiscountPercent != 0 || set.Pro.DiscountPercent != 0 {
		t.Fatalf("expected 0%% for zero base, got basic=%d pro=%d",
			set.Basic.DiscountPercent, set.Pro.DiscountPercent)
	}
	if set.Basic.PriceAfterDiscount != 0 || set.Pro.PriceAfterDiscount != 0 {
		t.Fatalf("expected price 0 for zero base, got basic=%d pro=%d",
			set.Basic.PriceAfterDiscount, set.Pro.PriceAfterDiscount)
	}
}

func TestTiers_NegativeBasePrice(t *testing.T) {
	set := Tiers(-100, 2, 10)
	if set.Basic.DiscountPercent != 0 || set.Basic.PriceAfterDiscount != 0 {
		t.Fatalf("expected degraded tier for negative base, got %+v", set.Basic)
	}
}

func TestTiers_NeverNegativePrice(t *testing.T) {
	// Descuento mayor al precio base → precio queda en 0, nunca negativo.
	set := Tiers(50, 10, 10)
	if set.Basic.PriceAfterDiscount != 0 {
		t.Fatalf("basic: expected clamp to 0, got %d", set.Basic.PriceAfterDiscount)
	}
	if set.Pro.PriceAfterDiscount != 0 {
		t.Fatalf("pro: expected clamp to 0, got %d", set.Pro.PriceAfterDiscount)
	}
}

func TestTiers_ProNeverMoreExpensiveThanBasic(t *testing.T) {
	for base := 1; base <= 1000; base += 23 {
		for bags := 1; bags <= 12; bags++ {
			set := Tiers(base, bags, 10)
			if set.Pro.PriceAfterDiscount > set.Basic.PriceAfterDiscount {
				t.Fatalf("base=%d bags=%d: pro %d > basic %d",
					base, bags, set.Pro.PriceAfterDiscount, set.Basic.PriceAfterDiscount)
			}
		}
	}
}

func TestTiers_DefaultDiscountWhenUnset(t *testing.T) {
	set := Tiers(250, 3, 0)
	if set.Basic.PriceAfterDiscount != 220 {
		t.Fatalf("expected fallback $10/bolsa, got %+v", set.Basic)
	}
}
