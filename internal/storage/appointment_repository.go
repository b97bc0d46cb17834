package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/libs/db"
)

// AppointmentRepository persists appointments. The appointments table carries
// an exclusion constraint on (provider_id, tstzrange(starts_at, ends_at))
// for non-cancelled rows; Save surfaces its violation as the
// APPOINTMENT_CONFLICT business-rule error.
type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `
	id, customer_id, service_id, provider_id, starts_at, ends_at, status,
	COALESCE(observation, ''), COALESCE(cancel_reason, ''), COALESCE(canceled_by, ''),
	canceled_at, created_at, updated_at`

func (r *AppointmentRepository) Save(ctx context.Context, appt *domain.Appointment) error {
	_, err := r.pool.Querier(ctx).Exec(ctx, `
		INSERT INTO appointments
			(id, customer_id, service_id, provider_id, starts_at, ends_at, status,
			observation, cancel_reason, canceled_by, canceled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			status = EXCLUDED.status,
			observation = EXCLUDED.observation,
			cancel_reason = EXCLUDED.cancel_reason,
			canceled_by = EXCLUDED.canceled_by,
			canceled_at = EXCLUDED.canceled_at,
			updated_at = EXCLUDED.updated_at
	`, appt.ID, appt.CustomerID, appt.ServiceID, appt.ProviderID, appt.StartsAt, appt.EndsAt,
		string(appt.Status), appt.Observation, appt.CancelReason, string(appt.CanceledBy),
		appt.CanceledAt, appt.CreatedAt, appt.UpdatedAt)
	if IsConflict(err) {
		return domain.NewBusinessRuleError("Time slot is already booked", "APPOINTMENT_CONFLICT")
	}
	return err
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Appointment, error) {
	rows, err := r.pool.Querier(ctx).Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
		ORDER BY starts_at ASC
	`, providerID)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

// FindOverlapping returns one non-cancelled appointment intersecting
// [startsAt, endsAt), or nil. Interval ends are exclusive, so back-to-back
// appointments do not collide. excludeID skips the appointment being moved.
func (r *AppointmentRepository) FindOverlapping(ctx context.Context, providerID string, startsAt, endsAt time.Time, excludeID string) (*domain.Appointment, error) {
	row := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
			AND status <> 'CANCELLED'
			AND starts_at < $3
			AND ends_at > $2
			AND id <> $4
		LIMIT 1
	`, providerID, startsAt, endsAt, excludeID)
	return scanAppointment(row)
}

func (r *AppointmentRepository) FindByProviderAndDateRange(ctx context.Context, providerID string, start, end time.Time) ([]*domain.Appointment, error) {
	rows, err := r.pool.Querier(ctx).Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
			AND starts_at >= $2
			AND starts_at < $3
		ORDER BY starts_at ASC
	`, providerID, start, end)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

// FindFutureByProviderAndDay lists non-cancelled appointments after the given
// instant that fall on the given UTC weekday. Backs the availability delete
// guard.
func (r *AppointmentRepository) FindFutureByProviderAndDay(ctx context.Context, providerID string, dayOfWeek int, after time.Time) ([]*domain.Appointment, error) {
	rows, err := r.pool.Querier(ctx).Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
			AND status <> 'CANCELLED'
			AND starts_at > $3
			AND EXTRACT(DOW FROM starts_at AT TIME ZONE 'UTC') = $2
		ORDER BY starts_at ASC
	`, providerID, dayOfWeek, after)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (r *AppointmentRepository) ExistsByServiceID(ctx context.Context, serviceID string) (bool, error) {
	var exists bool
	err := r.pool.Querier(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM appointments WHERE service_id = $1)
	`, serviceID).Scan(&exists)
	return exists, err
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	var status, canceledBy string
	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ServiceID,
		&appt.ProviderID,
		&appt.StartsAt,
		&appt.EndsAt,
		&status,
		&appt.Observation,
		&appt.CancelReason,
		&canceledBy,
		&appt.CanceledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	appt.Status = domain.AppointmentStatus(status)
	appt.CanceledBy = domain.CancelActor(canceledBy)
	return &appt, nil
}

func scanAppointments(rows pgx.Rows) ([]*domain.Appointment, error) {
	defer rows.Close()
	var appts []*domain.Appointment
	for rows.Next() {
		var appt domain.Appointment
		var status, canceledBy string
		if err := rows.Scan(
			&appt.ID,
			&appt.CustomerID,
			&appt.ServiceID,
			&appt.ProviderID,
			&appt.StartsAt,
			&appt.EndsAt,
			&status,
			&appt.Observation,
			&appt.CancelReason,
			&canceledBy,
			&appt.CanceledAt,
			&appt.CreatedAt,
			&appt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appt.Status = domain.AppointmentStatus(status)
		appt.CanceledBy = domain.CancelActor(canceledBy)
		appts = append(appts, &appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

// IsConflict reports whether err is a Postgres exclusion constraint
// violation (code 23P01).
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
