package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"puebla-barf/internal/domain/delivery"
	"puebla-barf/internal/router"
)

func TestHTTP_EndToEnd_OrderToDeliveredConfirmation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		BaseURL:      "https://barf.example",
	}))
	defer ts.Close()

	staffID := "staff-1"

	// 1) Staff crea pedido en efectivo
	orderID := createOrder(t, ts.URL, staffID, map[string]any{
		"customer_name": "Laura M.",
		"phone":         "2221234567",
		"address":       "Av. Juárez 123, Puebla",
		"items": []map[string]any{
			{"description": "BARF res 1kg", "quantity": 2, "unit_price": 90},
			{"description": "BARF res 500g", "quantity": 1, "unit_price": 70},
		},
		"delivery_fee":   30,
		"payment_method": "cash",
	})

	// 2) Sin claims no hay acceso a rutas de oficina
	{
		st, _ := doReq(t, ts.URL, "GET", "/orders/"+orderID, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without claims, got %d", st)
		}
	}

	// 3) Dispatch arma el mensaje y trae el link con el token
	var token string
	{
		st, body := doReq(t, ts.URL, "POST", "/orders/dispatch", staffID, map[string]any{
			"order_ids": []string{orderID},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 dispatch, got %d body=%s", st, string(body))
		}

		var resp struct {
			Message string `json:"message"`
			Orders  []struct {
				OrderID          string `json:"order_id"`
				ConfirmationLink string `json:"confirmation_link"`
			} `json:"orders"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Orders) != 1 {
			t.Fatalf("expected 1 dispatched order, got %d body=%s", len(resp.Orders), string(body))
		}
		if !strings.Contains(resp.Message, "COBRAR") {
			t.Fatalf("cash order should flag COBRAR in message: %s", resp.Message)
		}

		link := resp.Orders[0].ConfirmationLink
		const prefix = "https://barf.example/delivery/"
		if !strings.HasPrefix(link, prefix) {
			t.Fatalf("unexpected confirmation link %q", link)
		}
		token = strings.TrimPrefix(link, prefix)
	}

	// 4) El repartidor ve el pedido por token, sin auth
	{
		st, body := doReq(t, ts.URL, "GET", "/delivery/"+token, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delivery view, got %d body=%s", st, string(body))
		}

		var view struct {
			CustomerName  string `json:"customer_name"`
			Total         int    `json:"total"`
			CashToCollect bool   `json:"cash_to_collect"`
		}
		_ = json.Unmarshal(body, &view)
		if view.CustomerName != "Laura M." || !view.CashToCollect {
			t.Fatalf("unexpected delivery view: %s", string(body))
		}
		if view.Total != 2*90+70+30 {
			t.Fatalf("expected total 280, got %d", view.Total)
		}
	}

	// 5) Token desconocido => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/delivery/no-such-token", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown token, got %d", st)
		}
	}

	// 6) delivered sin foto => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/delivery/"+token, "", map[string]any{
			"driverStatus": "delivered",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 delivered without photo, got %d", st)
		}
	}

	// 7) Sube la foto y recibe la URL firmada
	photoURL := uploadPhoto(t, ts.URL, token, pngBytes())

	// 8) Confirma delivered con la foto
	{
		st, body := doReq(t, ts.URL, "POST", "/delivery/"+token, "", map[string]any{
			"driverStatus": "delivered",
			"notes":        "entregado en recepción",
			"photoUrl":     photoURL,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm, got %d body=%s", st, string(body))
		}

		var view struct {
			DriverStatus string `json:"driver_status"`
			PhotoURL     string `json:"delivery_photo_url"`
		}
		_ = json.Unmarshal(body, &view)
		if view.DriverStatus != "delivered" || view.PhotoURL != photoURL {
			t.Fatalf("unexpected confirmed view: %s", string(body))
		}
	}

	// 9) Segunda confirmación => 409 y el estado original no cambia
	{
		st, _ := doReq(t, ts.URL, "POST", "/delivery/"+token, "", map[string]any{
			"driverStatus": "failed",
			"notes":        "no estaba",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on second confirm, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/delivery/"+token, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 view after conflict, got %d", st)
		}
		var view struct {
			DriverStatus string `json:"driver_status"`
		}
		_ = json.Unmarshal(body, &view)
		if view.DriverStatus != "delivered" {
			t.Fatalf("driver status changed after rejected confirm: %s", string(body))
		}
	}

	// 10) Staff ve la confirmación reflejada en el pedido
	{
		st, body := doReq(t, ts.URL, "GET", "/orders/"+orderID, staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get order, got %d body=%s", st, string(body))
		}
		var o struct {
			Status       string `json:"status"`
			DriverStatus string `json:"driver_status"`
			PhotoURL     string `json:"delivery_photo_url"`
		}
		_ = json.Unmarshal(body, &o)
		if o.DriverStatus != "delivered" || o.PhotoURL == "" {
			t.Fatalf("confirmation not reflected for staff: %s", string(body))
		}
	}
}

func TestHTTP_PlanQuote_IsPublic(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin X-Debug-User-ID: la cotización no requiere cuenta.
	st, body := doReq(t, ts.URL, "POST", "/plans/quote", "", map[string]any{
		"daily_grams":   300,
		"duration_days": 7,
		"packaging":     "1kg",
		"protein":       "res",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 quote, got %d body=%s", st, string(body))
	}

	var resp struct {
		Plan struct {
			Subtotal  int `json:"subtotal"`
			TotalBags int `json:"total_bags"`
		} `json:"plan"`
		Tiers struct {
			Basic struct {
				DiscountPercent int `json:"discount_percent"`
			} `json:"basic"`
		} `json:"tiers"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Plan.Subtotal != 250 || resp.Plan.TotalBags != 3 {
		t.Fatalf("unexpected quote: %s", string(body))
	}
	if resp.Tiers.Basic.DiscountPercent != 12 {
		t.Fatalf("unexpected basic tier: %s", string(body))
	}
}

func TestHTTP_StatusUpdate_Bulk(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	a := createOrder(t, ts.URL, staffID, orderPayload("Cliente A"))
	b := createOrder(t, ts.URL, staffID, orderPayload("Cliente B"))

	st, body := doReq(t, ts.URL, "PATCH", "/orders/status", staffID, map[string]any{
		"order_ids": []string{a, b},
		"status":    "confirmed",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 bulk status, got %d body=%s", st, string(body))
	}

	var resp struct {
		Updated int `json:"updated"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Updated != 2 {
		t.Fatalf("expected 2 updated, got %d", resp.Updated)
	}

	// status inválido => 400
	st, _ = doReq(t, ts.URL, "PATCH", "/orders/status", staffID, map[string]any{
		"order_ids": []string{a},
		"status":    "teleported",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 bad status, got %d", st)
	}
}

func TestHTTP_PhotoUpload_SizeBoundary(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	orderID := createOrder(t, ts.URL, staffID, orderPayload("Cliente D"))
	token := dispatchToken(t, ts.URL, staffID, orderID)

	// Exactamente 5MB de foto pasa: el framing multipart no cuenta
	// contra el límite.
	exact := make([]byte, delivery.MaxPhotoBytes)
	copy(exact, pngBytes())
	if st, body := uploadPhotoRaw(t, ts.URL, token, exact); st != http.StatusCreated {
		t.Fatalf("expected 201 for exactly 5MB photo, got %d body=%s", st, string(body))
	}

	orderID2 := createOrder(t, ts.URL, staffID, orderPayload("Cliente E"))
	token2 := dispatchToken(t, ts.URL, staffID, orderID2)

	over := make([]byte, delivery.MaxPhotoBytes+1)
	copy(over, pngBytes())
	if st, _ := uploadPhotoRaw(t, ts.URL, token2, over); st != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for photo over 5MB, got %d", st)
	}
}

func TestHTTP_PhotoUpload_RejectsNonImage(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	orderID := createOrder(t, ts.URL, staffID, orderPayload("Cliente C"))
	token := dispatchToken(t, ts.URL, staffID, orderID)

	st, _ := uploadPhotoRaw(t, ts.URL, token, []byte("definitely not an image, just text"))
	if st != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for text payload, got %d", st)
	}
}

func orderPayload(name string) map[string]any {
	return map[string]any{
		"customer_name": name,
		"phone":         "2220000000",
		"address":       "Calle 1 #2",
		"items": []map[string]any{
			{"description": "BARF pollo 1kg", "quantity": 1, "unit_price": 80},
		},
		"payment_method": "transfer",
	}
}

func createOrder(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/orders", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create order, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create order: missing id body=%s", string(body))
	}
	return resp.ID
}

func dispatchToken(t *testing.T, baseURL, userID, orderID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/orders/dispatch", userID, map[string]any{
		"order_ids": []string{orderID},
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 dispatch, got %d body=%s", st, string(body))
	}

	var resp struct {
		Orders []struct {
			ConfirmationLink string `json:"confirmation_link"`
		} `json:"orders"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Orders) != 1 {
		t.Fatalf("dispatch: expected 1 order, body=%s", string(body))
	}

	link := resp.Orders[0].ConfirmationLink
	return link[strings.LastIndex(link, "/")+1:]
}

func uploadPhoto(t *testing.T, baseURL, token string, data []byte) string {
	t.Helper()

	st, body := uploadPhotoRaw(t, baseURL, token, data)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 photo upload, got %d body=%s", st, string(body))
	}

	var resp struct {
		PhotoURL string `json:"photo_url"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.PhotoURL == "" {
		t.Fatalf("photo upload: missing photo_url body=%s", string(body))
	}
	return resp.PhotoURL
}

func uploadPhotoRaw(t *testing.T, baseURL, token string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "entrega.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req, err := http.NewRequest("POST", baseURL+"/delivery/"+token+"/photo", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

// pngBytes arma un PNG mínimo válido para pasar la detección de MIME.
func pngBytes() []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return append(header, make([]byte, 64)...)
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
