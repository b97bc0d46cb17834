package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/libs/db"
)

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) Save(ctx context.Context, s *domain.Service) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `
		INSERT INTO services
			(id, provider_id, name, description, duration_minutes, price_cents, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			duration_minutes = EXCLUDED.duration_minutes,
			price_cents = EXCLUDED.price_cents,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.ProviderID, s.Name, s.Description, s.DurationInMinutes, s.PriceInCents,
		s.IsActive, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, name, description, duration_minutes, price_cents, is_active, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *ServiceRepository) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Service, error) {
	return r.listByProvider(ctx, providerID, false)
}

func (r *ServiceRepository) FindActiveByProviderID(ctx context.Context, providerID string) ([]*domain.Service, error) {
	return r.listByProvider(ctx, providerID, true)
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	return err
}

func (r *ServiceRepository) listByProvider(ctx context.Context, providerID string, activeOnly bool) ([]*domain.Service, error) {
	query := `
		SELECT id, provider_id, name, description, duration_minutes, price_cents, is_active, created_at, updated_at
		FROM services
		WHERE provider_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Querier(ctx).Query(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.Name,
		&s.Description,
		&s.DurationInMinutes,
		&s.PriceInCents,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
