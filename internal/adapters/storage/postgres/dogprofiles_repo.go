package postgres

import (
	"context"
	"database/sql"
	"strings"

	"puebla-barf/internal/domain/dogprofiles"
	"puebla-barf/internal/domain/plan"
)

type DogProfilesRepo struct {
	db *sql.DB
}

func NewDogProfilesRepo(db *sql.DB) *DogProfilesRepo {
	return &DogProfilesRepo{db: db}
}

func (r *DogProfilesRepo) Create(ctx context.Context, p dogprofiles.DogProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dog_profiles (
			id, owner_name, dog_name,
			weight_kg, age_stage, activity, daily_grams,
			notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerName,
		p.DogName,
		p.WeightKg,
		string(p.AgeStage),
		string(p.Activity),
		p.DailyGrams,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *DogProfilesRepo) Update(ctx context.Context, p dogprofiles.DogProfile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dog_profiles
		SET
			owner_name = $2,
			dog_name = $3,
			weight_kg = $4,
			age_stage = $5,
			activity = $6,
			daily_grams = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.OwnerName,
		p.DogName,
		p.WeightKg,
		string(p.AgeStage),
		string(p.Activity),
		p.DailyGrams,
		p.Notes,
		p.UpdatedAt,
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

func (r *DogProfilesRepo) GetByID(ctx context.Context, id string) (dogprofiles.DogProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogprofiles.DogProfile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_name, dog_name,
			weight_kg, age_stage, activity, daily_grams,
			notes, created_at, updated_at
		FROM dog_profiles
		WHERE id = $1
	`, id)

	return scanDogProfile(row)
}

func (r *DogProfilesRepo) List(ctx context.Context) ([]dogprofiles.DogProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_name, dog_name,
			weight_kg, age_stage, activity, daily_grams,
			notes, created_at, updated_at
		FROM dog_profiles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogprofiles.DogProfile, 0)
	for rows.Next() {
		p, err := scanDogProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanDogProfile(row rowScanner) (dogprofiles.DogProfile, error) {
	var p dogprofiles.DogProfile
	var stage, activity string

	if err := row.Scan(
		&p.ID,
		&p.OwnerName,
		&p.DogName,
		&p.WeightKg,
		&stage,
		&activity,
		&p.DailyGrams,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return dogprofiles.DogProfile{}, ErrNotFound
		}
		return dogprofiles.DogProfile{}, err
	}

	p.AgeStage = plan.AgeStage(stage)
	p.Activity = plan.ActivityLevel(activity)
	return p, nil
}
