package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/libs/db"
)

type CustomerRepository struct {
	pool *db.Pool
}

func NewCustomerRepository(pool *db.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `
		INSERT INTO customers
			(id, provider_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.ProviderID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if IsUniqueViolation(err) {
		return domain.NewBusinessRuleError("A customer with this email already exists", "CUSTOMER_EMAIL_IN_USE")
	}
	return err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id)
	return scanCustomer(row)
}

func (r *CustomerRepository) FindByEmailAndProvider(ctx context.Context, email, providerID string) (*domain.Customer, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE email = $1 AND provider_id = $2
	`, email, providerID)
	return scanCustomer(row)
}

func (r *CustomerRepository) FindByPhoneAndProvider(ctx context.Context, phone, providerID string) (*domain.Customer, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, provider_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE phone = $1 AND provider_id = $2
	`, phone, providerID)
	return scanCustomer(row)
}

func (r *CustomerRepository) FindByProvider(ctx context.Context, providerID string) ([]*domain.Customer, error) {
	rows, err := r.pool.Querier(ctx).Query(ctx, `
		SELECT id, provider_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE provider_id = $1
		ORDER BY name ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.ProviderID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
