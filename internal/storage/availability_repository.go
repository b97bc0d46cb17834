package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/libs/db"
)

// AvailabilityRepository persists weekly availability, one row per
// provider+day with the slot set stored as a jsonb array.
type AvailabilityRepository struct {
	pool *db.Pool
}

func NewAvailabilityRepository(pool *db.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

func (r *AvailabilityRepository) Save(ctx context.Context, av *domain.Availability) error {
	slots, err := json.Marshal(av.Slots)
	if err != nil {
		return err
	}
	_, err = r.pool.Querier(ctx).Exec(ctx, `
		INSERT INTO availability
			(id, provider_id, day_of_week, slots, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id, day_of_week) DO UPDATE SET
			slots = EXCLUDED.slots,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`, av.ID, av.ProviderID, av.DayOfWeek, slots, av.IsActive, av.CreatedAt, av.UpdatedAt)
	return err
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*domain.Availability, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, day_of_week, slots, is_active, created_at, updated_at
		FROM availability
		WHERE id = $1
	`, id)
	return scanAvailability(row)
}

func (r *AvailabilityRepository) FindByProviderIDAndDay(ctx context.Context, providerID string, dayOfWeek int) (*domain.Availability, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, day_of_week, slots, is_active, created_at, updated_at
		FROM availability
		WHERE provider_id = $1 AND day_of_week = $2
	`, providerID, dayOfWeek)
	return scanAvailability(row)
}

func (r *AvailabilityRepository) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Availability, error) {
	return r.listByProvider(ctx, providerID, false)
}

func (r *AvailabilityRepository) FindActiveByProviderID(ctx context.Context, providerID string) ([]*domain.Availability, error) {
	return r.listByProvider(ctx, providerID, true)
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `DELETE FROM availability WHERE id = $1`, id)
	return err
}

func (r *AvailabilityRepository) listByProvider(ctx context.Context, providerID string, activeOnly bool) ([]*domain.Availability, error) {
	query := `
		SELECT id, provider_id, day_of_week, slots, is_active, created_at, updated_at
		FROM availability
		WHERE provider_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY day_of_week ASC`

	rows, err := r.pool.Querier(ctx).Query(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, av)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanAvailability(row pgx.Row) (*domain.Availability, error) {
	var av domain.Availability
	var slots []byte
	err := row.Scan(
		&av.ID,
		&av.ProviderID,
		&av.DayOfWeek,
		&slots,
		&av.IsActive,
		&av.CreatedAt,
		&av.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(slots, &av.Slots); err != nil {
		return nil, err
	}
	return &av, nil
}
