package plan

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Ruta pública del cotizador del storefront. No requiere auth: es el mismo
// cálculo consultivo que ve cualquier visitante antes de comprar.
func RegisterRoutes(r chi.Router, prices PriceTable, discountPerBag int) {
	r.Post("/plans/quote", quoteHandler(prices, discountPerBag))
}

type quoteRequest struct {
	// O bien daily_grams directo, o peso + etapa + actividad.
	DailyGrams int     `json:"daily_grams"`
	WeightKg   float64 `json:"weight_kg"`
	AgeStage   string  `json:"age_stage"`
	Activity   string  `json:"activity"`

	DurationDays int    `json:"duration_days"`
	Packaging    string `json:"packaging"`
	Protein      string `json:"protein"`
}

type bagResponse struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// CalculationResponse es el DTO compartido de cotización (lo reutiliza
// también el módulo de perfiles).
type CalculationResponse struct {
	TotalKg      float64       `json:"total_kg"`
	TotalGrams   int           `json:"total_grams"`
	Bags         []bagResponse `json:"bags"`
	TotalBags    int           `json:"total_bags"`
	PricePerKg   int           `json:"price_per_kg"`
	Subtotal     int           `json:"subtotal"`
	DurationDays int           `json:"duration_days"`
}

type tierResponse struct {
	Type               string `json:"type"`
	DiscountPercent    int    `json:"discount_percent"`
	PriceAfterDiscount int    `json:"price_after_discount"`
}

type TiersResponse struct {
	Basic tierResponse `json:"basic"`
	Pro   tierResponse `json:"pro"`
}

func quoteHandler(prices PriceTable, discountPerBag int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		daily := req.DailyGrams
		if daily <= 0 {
			grams, err := DailyGrams(
				req.WeightKg,
				AgeStage(strings.TrimSpace(req.AgeStage)),
				ActivityLevel(strings.TrimSpace(req.Activity)),
			)
			if err != nil {
				http.Error(w, "provide daily_grams, or weight_kg + age_stage + activity", http.StatusBadRequest)
				return
			}
			daily = grams
		}

		calc, err := Calculate(Request{
			DailyGrams:   daily,
			DurationDays: req.DurationDays,
			Packaging:    PackagingSize(strings.TrimSpace(req.Packaging)),
			Protein:      ProteinLine(strings.TrimSpace(req.Protein)),
		}, prices)
		if err != nil {
			http.Error(w, "invalid plan request", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"daily_grams": daily,
			"plan":        ToCalculationResponse(calc),
			"tiers":       ToTiersResponse(Tiers(calc.Subtotal, calc.TotalBags, discountPerBag)),
		})
	}
}

func ToCalculationResponse(c Calculation) CalculationResponse {
	bags := make([]bagResponse, 0, len(c.Bags))
	for _, b := range c.Bags {
		bags = append(bags, bagResponse{Size: string(b.Size), Quantity: b.Quantity})
	}
	return CalculationResponse{
		TotalKg:      c.TotalKg,
		TotalGrams:   c.TotalGrams,
		Bags:         bags,
		TotalBags:    c.TotalBags,
		PricePerKg:   c.PricePerKg,
		Subtotal:     c.Subtotal,
		DurationDays: c.DurationDays,
	}
}

func ToTiersResponse(set TierSet) TiersResponse {
	return TiersResponse{
		Basic: tierResponse{
			Type:               string(set.Basic.Type),
			DiscountPercent:    set.Basic.DiscountPercent,
			PriceAfterDiscount: set.Basic.PriceAfterDiscount,
		},
		Pro: tierResponse{
			Type:               string(set.Pro.Type),
			DiscountPercent:    set.Pro.DiscountPercent,
			PriceAfterDiscount: set.Pro.PriceAfterDiscount,
		},
	}
}

// writeJSON duplicado a propósito (ver nota en orders/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
