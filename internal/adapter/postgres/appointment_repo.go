package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachfit/internal/domain"
)

// AppointmentRepo implements appointment persistence on DB.
type AppointmentRepo struct {
	db *DB
}

// NewAppointmentRepo wraps a DB as an AppointmentRepository.
func NewAppointmentRepo(db *DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// Add inserts a new appointment.
func (r *AppointmentRepo) Add(ctx context.Context, appt domain.Appointment) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO appointments (trainer_id, client_id, title, notes, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		appt.TrainerID, appt.ClientID, appt.Title, appt.Notes,
		appt.StartsAt.UTC(), appt.EndsAt.UTC(), time.Now().UTC(),
	).Scan(&id)
	return id, err
}

// GetByID returns one appointment, or nil when absent.
func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, trainer_id, client_id, title, notes, starts_at, ends_at, created_at
		FROM appointments WHERE id = $1;`, id,
	).Scan(&a.ID, &a.TrainerID, &a.ClientID, &a.Title, &a.Notes, &a.StartsAt, &a.EndsAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes one appointment.
func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1;`, id)
	return err
}

// ListByTrainerBetween returns the trainer's appointments intersecting
// [from, to), ordered by start time.
func (r *AppointmentRepo) ListByTrainerBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]domain.Appointment, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, trainer_id, client_id, title, notes, starts_at, ends_at, created_at
		FROM appointments
		WHERE trainer_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at;`,
		trainerID, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListUpcoming returns all appointments starting in [from, to).
func (r *AppointmentRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, trainer_id, client_id, title, notes, starts_at, ends_at, created_at
		FROM appointments
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at;`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// Count returns the total number of appointments.
func (r *AppointmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments;`).Scan(&n)
	return n, err
}

func collectAppointments(rows *sql.Rows) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.TrainerID, &a.ClientID, &a.Title, &a.Notes,
			&a.StartsAt, &a.EndsAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
