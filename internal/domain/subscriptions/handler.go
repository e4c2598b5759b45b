package subscriptions

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"puebla-barf/internal/domain/plan"
	"puebla-barf/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Rutas de suscripciones (solo staff).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/subscriptions", func(sr chi.Router) {
		sr.Post("/", createHandler(svc))
		sr.Get("/", listHandler(svc))
		sr.Get("/{subID}", getHandler(svc))
		sr.Post("/{subID}/pause", transitionHandler(svc.Pause))
		sr.Post("/{subID}/resume", transitionHandler(svc.Resume))
		sr.Post("/{subID}/cancel", transitionHandler(svc.Cancel))
	})
}

type createSubRequest struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DailyGrams   int    `json:"daily_grams"`
	DurationDays int    `json:"duration_days"`
	Packaging    string `json:"packaging"`
	Protein      string `json:"protein"`
	Tier         string `json:"tier"`
}

type subResponse struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	DailyGrams   int        `json:"daily_grams"`
	DurationDays int        `json:"duration_days"`
	Packaging    string     `json:"packaging"`
	Protein      string     `json:"protein"`
	Tier         string     `json:"tier"`
	Price        int        `json:"price"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req createSubRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sub, err := svc.Create(r.Context(), CreateInput{
			CustomerName: req.CustomerName,
			Phone:        req.Phone,
			Address:      req.Address,
			DailyGrams:   req.DailyGrams,
			DurationDays: req.DurationDays,
			Packaging:    plan.PackagingSize(strings.TrimSpace(req.Packaging)),
			Protein:      plan.ProteinLine(strings.TrimSpace(req.Protein)),
			Tier:         plan.TierType(strings.TrimSpace(req.Tier)),
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toSubResponse(sub))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		items, err := svc.List(r.Context(), Status(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "invalid status filter", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]subResponse, 0, len(items))
		for _, sub := range items {
			out = append(out, toSubResponse(sub))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		sub, err := svc.GetByID(r.Context(), chi.URLParam(r, "subID"))
		if err != nil {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toSubResponse(sub))
	}
}

func transitionHandler(fn func(ctx context.Context, id string) (Subscription, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		sub, err := fn(r.Context(), chi.URLParam(r, "subID"))
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "subscription not found", http.StatusNotFound)
			case ErrBadState:
				http.Error(w, "subscription already cancelled", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, toSubResponse(sub))
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

func toSubResponse(s Subscription) subResponse {
	return subResponse{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		Phone:        s.Phone,
		Address:      s.Address,
		DailyGrams:   s.DailyGrams,
		DurationDays: s.DurationDays,
		Packaging:    string(s.Packaging),
		Protein:      string(s.Protein),
		Tier:         string(s.Tier),
		Price:        s.Price,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CancelledAt:  s.CancelledAt,
	}
}

// writeJSON duplicado a propósito (ver nota en orders/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
