package delivery

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"puebla-barf/internal/domain/orders"

	"github.com/go-chi/chi/v5"
)

// Rutas públicas del repartidor. La única credencial es el delivery token
// en el path (capability: posesión = autorización). Aquí no se consulta
// el contexto de auth de staff a propósito: son garantías distintas.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/delivery/{token}", func(dr chi.Router) {
		dr.Get("/", getOrderHandler(svc))
		dr.Post("/", confirmHandler(svc))
		dr.Post("/photo", uploadPhotoHandler(svc))
	})
}

type confirmRequest struct {
	DriverStatus string `json:"driverStatus"`
	Notes        string `json:"notes"`
	PhotoURL     string `json:"photoUrl"`
}

type itemView struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type orderViewResponse struct {
	OrderNumber   string     `json:"order_number"`
	CustomerName  string     `json:"customer_name"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Items         []itemView `json:"items"`
	Total         int        `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	CashToCollect bool       `json:"cash_to_collect"`
	DriverStatus  string     `json:"driver_status,omitempty"`
	DriverNotes   string     `json:"driver_notes,omitempty"`
	PhotoURL      string     `json:"delivery_photo_url,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
}

type photoResponse struct {
	PhotoURL  string    `json:"photo_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetOrderByToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toViewResponse(view))
	}
}

func confirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		view, err := svc.Confirm(r.Context(), chi.URLParam(r, "token"), ConfirmInput{
			DriverStatus: orders.DriverStatus(req.DriverStatus),
			Notes:        req.Notes,
			PhotoURL:     req.PhotoURL,
		})
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "order not found", http.StatusNotFound)
			case ErrAlreadyConfirmed:
				http.Error(w, "already confirmed", http.StatusConflict)
			case ErrPhotoRequired:
				http.Error(w, "photoUrl is required for delivered", http.StatusBadRequest)
			case ErrInvalidInput:
				http.Error(w, "driverStatus must be delivered, postponed or failed", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toViewResponse(view))
	}
}

func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Tope duro antes de leer, con holgura para el framing multipart:
		// el límite de 5MB sobre la foto en sí lo aplica el servicio.
		const bodyLimit = MaxPhotoBytes + 64<<10

		r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

		if err := r.ParseMultipartForm(bodyLimit); err != nil {
			http.Error(w, "photo exceeds 5MB limit", http.StatusRequestEntityTooLarge)
			return
		}

		file, _, err := r.FormFile("photo")
		if err != nil {
			http.Error(w, "multipart field 'photo' is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "could not read photo", http.StatusBadRequest)
			return
		}

		up, err := svc.UploadPhoto(r.Context(), chi.URLParam(r, "token"), data)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "order not found", http.StatusNotFound)
			case ErrAlreadyConfirmed:
				http.Error(w, "already confirmed", http.StatusConflict)
			case ErrPhotoTooLarge:
				http.Error(w, "photo exceeds 5MB limit", http.StatusRequestEntityTooLarge)
			case ErrPhotoNotImage:
				http.Error(w, "photo must be an image", http.StatusUnsupportedMediaType)
			case ErrInvalidInput:
				http.Error(w, "empty photo", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, photoResponse{
			PhotoURL:  up.URL,
			ExpiresAt: up.ExpiresAt,
		})
	}
}

func toViewResponse(v OrderView) orderViewResponse {
	items := make([]itemView, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, itemView{Description: it.Description, Quantity: it.Quantity})
	}
	return orderViewResponse{
		OrderNumber:   v.OrderNumber,
		CustomerName:  v.CustomerName,
		Phone:         v.Phone,
		Address:       v.Address,
		Items:         items,
		Total:         v.Total,
		PaymentMethod: string(v.PaymentMethod),
		CashToCollect: v.PaymentMethod == orders.PaymentCash,
		DriverStatus:  string(v.DriverStatus),
		DriverNotes:   v.DriverNotes,
		PhotoURL:      v.PhotoURL,
		ConfirmedAt:   v.ConfirmedAt,
		DeliveryDate:  v.DeliveryDate,
	}
}

// writeJSON duplicado a propósito (ver nota en orders/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
