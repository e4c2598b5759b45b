package dogprofiles

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"puebla-barf/internal/domain/plan"
	"puebla-barf/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Rutas de perfiles (solo staff: la asesora captura y cotiza desde oficina).
func RegisterRoutes(r chi.Router, svc *Service, discountPerBag int) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Post("/", createHandler(svc))
		dr.Get("/", listHandler(svc))
		dr.Get("/{dogID}", getHandler(svc))
		dr.Patch("/{dogID}", updateHandler(svc))
		dr.Post("/{dogID}/plan", suggestPlanHandler(svc, discountPerBag))
	})
}

type createProfileRequest struct {
	OwnerName string  `json:"owner_name"`
	DogName   string  `json:"dog_name"`
	WeightKg  float64 `json:"weight_kg"`
	AgeStage  string  `json:"age_stage"`
	Activity  string  `json:"activity"`
	Notes     string  `json:"notes"`
}

type updateProfileRequest struct {
	OwnerName *string  `json:"owner_name"`
	DogName   *string  `json:"dog_name"`
	WeightKg  *float64 `json:"weight_kg"`
	AgeStage  *string  `json:"age_stage"`
	Activity  *string  `json:"activity"`
	Notes     *string  `json:"notes"`
}

type profileResponse struct {
	ID         string    `json:"id"`
	OwnerName  string    `json:"owner_name"`
	DogName    string    `json:"dog_name"`
	WeightKg   float64   `json:"weight_kg"`
	AgeStage   string    `json:"age_stage"`
	Activity   string    `json:"activity"`
	DailyGrams int       `json:"daily_grams"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type suggestPlanRequest struct {
	DurationDays int    `json:"duration_days"`
	Packaging    string `json:"packaging"`
	Protein      string `json:"protein"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerName: req.OwnerName,
			DogName:   req.DogName,
			WeightKg:  req.WeightKg,
			AgeStage:  plan.AgeStage(strings.TrimSpace(req.AgeStage)),
			Activity:  plan.ActivityLevel(strings.TrimSpace(req.Activity)),
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(p))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateProfileRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			OwnerName: req.OwnerName,
			DogName:   req.DogName,
			WeightKg:  req.WeightKg,
			Notes:     req.Notes,
		}
		if req.AgeStage != nil {
			v := plan.AgeStage(strings.TrimSpace(*req.AgeStage))
			in.AgeStage = &v
		}
		if req.Activity != nil {
			v := plan.ActivityLevel(strings.TrimSpace(*req.Activity))
			in.Activity = &v
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), in)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "profile not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func suggestPlanHandler(svc *Service, discountPerBag int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req suggestPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sug, err := svc.SuggestPlan(r.Context(), chi.URLParam(r, "dogID"), SuggestInput{
			DurationDays: req.DurationDays,
			Packaging:    plan.PackagingSize(strings.TrimSpace(req.Packaging)),
			Protein:      plan.ProteinLine(strings.TrimSpace(req.Protein)),
		}, discountPerBag)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "profile not found", http.StatusNotFound)
			case ErrInvalidInput:
				http.Error(w, "invalid plan request", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"profile": toProfileResponse(sug.Profile),
			"plan":    plan.ToCalculationResponse(sug.Plan),
			"tiers":   plan.ToTiersResponse(sug.Tiers),
		})
	}
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func toProfileResponse(p DogProfile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		OwnerName:  p.OwnerName,
		DogName:    p.DogName,
		WeightKg:   p.WeightKg,
		AgeStage:   string(p.AgeStage),
		Activity:   string(p.Activity),
		DailyGrams: p.DailyGrams,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// writeJSON duplicado a propósito (ver nota en orders/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
