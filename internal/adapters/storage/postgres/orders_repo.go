package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"puebla-barf/internal/domain/delivery"
	"puebla-barf/internal/domain/orders"
)

// OrdersRepo implementa orders.Repository y delivery.Repository.
type OrdersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

const orderColumns = `
	id, order_number,
	customer_name, phone, address,
	items, subtotal, delivery_fee, total,
	payment_method, status, delivery_date,
	delivery_token, driver_status, driver_notes, delivery_photo_url, confirmed_at,
	created_at, updated_at
`

func (r *OrdersRepo) Create(ctx context.Context, o orders.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number,
			customer_name, phone, address,
			items, subtotal, delivery_fee, total,
			payment_method, status, delivery_date,
			delivery_token, driver_status, driver_notes, delivery_photo_url, confirmed_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		o.ID,
		o.OrderNumber,
		o.CustomerName,
		o.Phone,
		o.Address,
		items,
		o.Subtotal,
		o.DeliveryFee,
		o.Total,
		string(o.PaymentMethod),
		string(o.Status),
		toNullTime(o.DeliveryDate),
		o.DeliveryToken,
		string(o.DriverStatus),
		o.DriverNotes,
		o.DeliveryPhotoURL,
		toNullTime(o.ConfirmedAt),
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrdersRepo) GetByID(ctx context.Context, id string) (orders.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orders.Order{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *OrdersRepo) GetByIDs(ctx context.Context, ids []string) ([]orders.Order, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := strings.TrimSpace(id); v != "" {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	// pgx soporta arrays de Postgres; ANY evita armar placeholders a mano.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ANY($1) ORDER BY created_at ASC`,
		clean,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *OrdersRepo) List(ctx context.Context, f orders.ListFilter) ([]orders.Order, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if len(f.Statuses) > 0 {
		sts := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			sts = append(sts, string(st))
		}
		args = append(args, sts)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		// To es inclusivo a nivel de día.
		args = append(args, f.To.AddDate(0, 0, 1))
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *OrdersRepo) UpdateStatus(ctx context.Context, ids []string, st orders.Status, updatedAt time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = ANY($1)
	`, ids, string(st), updatedAt)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *OrdersRepo) GetByToken(ctx context.Context, token string) (orders.Order, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return orders.Order{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE delivery_token = $1`, token)
	o, err := scanOrder(row)
	if err != nil {
		return orders.Order{}, delivery.ErrNotFound
	}
	return o, nil
}

// ConfirmByToken es el update condicional atómico: el chequeo de
// "driver_status pendiente" forma parte del WHERE, así que dos
// confirmaciones concurrentes no pueden ganar ambas.
func (r *OrdersRepo) ConfirmByToken(ctx context.Context, c delivery.Confirmation) (orders.Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET
			driver_status = $2,
			driver_notes = $3,
			delivery_photo_url = $4,
			confirmed_at = $5,
			updated_at = $5
		WHERE delivery_token = $1
		  AND driver_status = ''
	`,
		c.Token,
		string(c.DriverStatus),
		c.Notes,
		c.PhotoURL,
		c.ConfirmedAt,
	)
	if err != nil {
		return orders.Order{}, err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguir token desconocido de pedido ya confirmado.
		if _, err := r.GetByToken(ctx, c.Token); err != nil {
			return orders.Order{}, delivery.ErrNotFound
		}
		return orders.Order{}, delivery.ErrAlreadyConfirmed
	}

	return r.GetByToken(ctx, c.Token)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (orders.Order, error) {
	var o orders.Order
	var items []byte
	var paymentMethod, status, driverStatus string
	var deliveryDate, confirmedAt sql.NullTime

	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.Phone,
		&o.Address,
		&items,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.Total,
		&paymentMethod,
		&status,
		&deliveryDate,
		&o.DeliveryToken,
		&driverStatus,
		&o.DriverNotes,
		&o.DeliveryPhotoURL,
		&confirmedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return orders.Order{}, ErrNotFound
		}
		return orders.Order{}, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return orders.Order{}, err
		}
	}
	o.PaymentMethod = orders.PaymentMethod(paymentMethod)
	o.Status = orders.Status(status)
	o.DriverStatus = orders.DriverStatus(driverStatus)
	if deliveryDate.Valid {
		t := deliveryDate.Time
		o.DeliveryDate = &t
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		o.ConfirmedAt = &t
	}

	return o, nil
}

func scanOrders(rows *sql.Rows) ([]orders.Order, error) {
	out := make([]orders.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
