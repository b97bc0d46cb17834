package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/libs/db"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `
		INSERT INTO users
			(id, name, email, phone, business_name, slug, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			business_name = EXCLUDED.business_name,
			slug = EXCLUDED.slug,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
	`, u.ID, u.Name, u.Email, u.Phone, u.BusinessName, u.Slug, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), business_name, slug, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), business_name, slug, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) FindBySlug(ctx context.Context, slug string) (*domain.User, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), business_name, slug, password_hash, created_at, updated_at
		FROM users
		WHERE slug = $1
	`, slug)
	return scanUser(row)
}

func (r *UserRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE slug = $1)
	`, slug).Scan(&exists)
	return exists, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.BusinessName,
		&u.Slug,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
