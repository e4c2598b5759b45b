package orders

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"puebla-barf/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Rutas de oficina. Todas exigen claims de staff (no hay acceso público);
// el flujo del repartidor vive aparte en el módulo delivery.
func RegisterRoutes(r chi.Router, svc *Service, baseURL string) {
	r.Route("/orders", func(or chi.Router) {
		or.Post("/", createOrderHandler(svc))
		or.Get("/", listOrdersHandler(svc))
		or.Get("/{orderID}", getOrderHandler(svc))
		or.Patch("/status", updateStatusHandler(svc))
		or.Post("/dispatch", dispatchHandler(svc, baseURL))
	})
}

type itemRequest struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
}

type createOrderRequest struct {
	CustomerName  string        `json:"customer_name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Items         []itemRequest `json:"items"`
	DeliveryFee   int           `json:"delivery_fee"`
	PaymentMethod string        `json:"payment_method"`
	DeliveryDate  string        `json:"delivery_date"` // YYYY-MM-DD opcional
}

type itemResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	Total       int    `json:"total"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	OrderNumber   string         `json:"order_number"`
	CustomerName  string         `json:"customer_name"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	Items         []itemResponse `json:"items"`
	Subtotal      int            `json:"subtotal"`
	DeliveryFee   int            `json:"delivery_fee"`
	Total         int            `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `json:"status"`
	DeliveryDate  *time.Time     `json:"delivery_date,omitempty"`
	DriverStatus  string         `json:"driver_status,omitempty"`
	DriverNotes   string         `json:"driver_notes,omitempty"`
	PhotoURL      string         `json:"delivery_photo_url,omitempty"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type updateStatusRequest struct {
	OrderIDs []string `json:"order_ids"`
	Status   string   `json:"status"`
}

type dispatchRequest struct {
	OrderIDs []string `json:"order_ids"`
	Statuses []string `json:"statuses"`
	From     string   `json:"from"` // YYYY-MM-DD
	To       string   `json:"to"`   // YYYY-MM-DD
}

type dispatchResponse struct {
	Message string                  `json:"message"`
	Orders  []dispatchOrderResponse `json:"orders"`
}

type dispatchOrderResponse struct {
	OrderID          string `json:"order_id"`
	OrderNumber      string `json:"order_number"`
	ConfirmationLink string `json:"confirmation_link"`
}

func createOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dd *time.Time
		if strings.TrimSpace(req.DeliveryDate) != "" {
			t, err := time.Parse("2006-01-02", req.DeliveryDate)
			if err != nil {
				http.Error(w, "delivery_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dd = &t
		}

		items := make([]ItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, ItemInput{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}

		o, err := svc.Create(r.Context(), CreateInput{
			CustomerName:  req.CustomerName,
			Phone:         req.Phone,
			Address:       req.Address,
			Items:         items,
			DeliveryFee:   req.DeliveryFee,
			PaymentMethod: PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
			DeliveryDate:  dd,
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toOrderResponse(o))
	}
}

func listOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		f, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "invalid status filter", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]orderResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOrderResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n, err := svc.UpdateStatus(r.Context(), req.OrderIDs, Status(strings.TrimSpace(req.Status)))
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"updated": n})
	}
}

func dispatchHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req dispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f := ListFilter{}
		for _, s := range req.Statuses {
			f.Statuses = append(f.Statuses, Status(strings.TrimSpace(s)))
		}
		var err error
		if f.From, err = parseDate(req.From); err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if f.To, err = parseDate(req.To); err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		msg, err := svc.Dispatch(r.Context(), DispatchInput{
			OrderIDs: req.OrderIDs,
			Filter:   f,
			BaseURL:  baseURL,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "no orders to dispatch", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := dispatchResponse{Message: msg.Text}
		for _, o := range msg.Orders {
			out.Orders = append(out.Orders, dispatchOrderResponse{
				OrderID:          o.OrderID,
				OrderNumber:      o.OrderNumber,
				ConfirmationLink: o.ConfirmationLink,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func filterFromQuery(r *http.Request) (ListFilter, error) {
	f := ListFilter{}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			f.Statuses = append(f.Statuses, Status(strings.TrimSpace(s)))
		}
	}
	var err error
	if f.From, err = parseDate(r.URL.Query().Get("from")); err != nil {
		return f, errHTTPDate("from")
	}
	if f.To, err = parseDate(r.URL.Query().Get("to")); err != nil {
		return f, errHTTPDate("to")
	}
	return f, nil
}

type dateErr string

func (e dateErr) Error() string { return string(e) + " must be YYYY-MM-DD" }

func errHTTPDate(field string) error { return dateErr(field) }

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func toOrderResponse(o Order) orderResponse {
	items := make([]itemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		Items:         items,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		DeliveryDate:  o.DeliveryDate,
		DriverStatus:  string(o.DriverStatus),
		DriverNotes:   o.DriverNotes,
		PhotoURL:      o.DeliveryPhotoURL,
		ConfirmedAt:   o.ConfirmedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (mismo criterio que en el resto del repo: sin helpers compartidos
// mientras no haga falta).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
