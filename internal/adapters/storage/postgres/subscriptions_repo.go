package postgres

import (
	"context"
	"database/sql"
	"strings"

	"puebla-barf/internal/domain/plan"
	"puebla-barf/internal/domain/subscriptions"
)

type SubscriptionsRepo struct {
	db *sql.DB
}

func NewSubscriptionsRepo(db *sql.DB) *SubscriptionsRepo {
	return &SubscriptionsRepo{db: db}
}

func (r *SubscriptionsRepo) Create(ctx context.Context, s subscriptions.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (
			id, customer_name, phone, address,
			daily_grams, duration_days, packaging, protein,
			tier, price, status,
			created_at, updated_at, cancelled_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		s.ID,
		s.CustomerName,
		s.Phone,
		s.Address,
		s.DailyGrams,
		s.DurationDays,
		string(s.Packaging),
		string(s.Protein),
		string(s.Tier),
		s.Price,
		string(s.Status),
		s.CreatedAt,
		s.UpdatedAt,
		toNullTime(s.CancelledAt),
	)
	return err
}

func (r *SubscriptionsRepo) Update(ctx context.Context, s subscriptions.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $2, updated_at = $3, cancelled_at = $4
		WHERE id = $1
	`,
		s.ID,
		string(s.Status),
		s.UpdatedAt,
		toNullTime(s.CancelledAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionsRepo) GetByID(ctx context.Context, id string) (subscriptions.Subscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return subscriptions.Subscription{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, customer_name, phone, address,
			daily_grams, duration_days, packaging, protein,
			tier, price, status,
			created_at, updated_at, cancelled_at
		FROM subscriptions
		WHERE id = $1
	`, id)

	return scanSubscription(row)
}

func (r *SubscriptionsRepo) List(ctx context.Context, status subscriptions.Status) ([]subscriptions.Subscription, error) {
	q := `
		SELECT
			id, customer_name, phone, address,
			daily_grams, duration_days, packaging, protein,
			tier, price, status,
			created_at, updated_at, cancelled_at
		FROM subscriptions
	`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]subscriptions.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(row rowScanner) (subscriptions.Subscription, error) {
	var s subscriptions.Subscription
	var packaging, protein, tier, status string
	var cancelledAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.CustomerName,
		&s.Phone,
		&s.Address,
		&s.DailyGrams,
		&s.DurationDays,
		&packaging,
		&protein,
		&tier,
		&s.Price,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&cancelledAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return subscriptions.Subscription{}, ErrNotFound
		}
		return subscriptions.Subscription{}, err
	}

	s.Packaging = plan.PackagingSize(packaging)
	s.Protein = plan.ProteinLine(protein)
	s.Tier = plan.TierType(tier)
	s.Status = subscriptions.Status(status)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		s.CancelledAt = &t
	}

	return s, nil
}
