package postgres

import (
	"context"
	"time"

	"coachfit/internal/domain"
)

// WorkoutRepo implements workout-log persistence on DB.
type WorkoutRepo struct {
	db *DB
}

// NewWorkoutRepo wraps a DB as a WorkoutRepository.
func NewWorkoutRepo(db *DB) *WorkoutRepo {
	return &WorkoutRepo{db: db}
}

// Add inserts a new workout log.
func (r *WorkoutRepo) Add(ctx context.Context, log domain.WorkoutLog) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO workout_logs (client_id, activity, duration_min, notes, started_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		log.ClientID, log.Activity, log.DurationMin, log.Notes, log.StartedAt.UTC(),
	).Scan(&id)
	return id, err
}

// Delete removes one workout log, scoped to the owning client.
func (r *WorkoutRepo) Delete(ctx context.Context, clientID, id int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		`DELETE FROM workout_logs WHERE id = $1 AND client_id = $2;`, id, clientID)
	return err
}

// ListByClientSince returns the client's logs since the given time, newest first.
func (r *WorkoutRepo) ListByClientSince(ctx context.Context, clientID int64, since time.Time) ([]domain.WorkoutLog, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, client_id, activity, duration_min, notes, started_at
		FROM workout_logs WHERE client_id = $1 AND started_at >= $2
		ORDER BY started_at DESC;`,
		clientID, since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WorkoutLog
	for rows.Next() {
		var l domain.WorkoutLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Activity, &l.DurationMin, &l.Notes, &l.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListRecent returns the client's most recent logs up to limit.
func (r *WorkoutRepo) ListRecent(ctx context.Context, clientID int64, limit int) ([]domain.WorkoutLog, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, client_id, activity, duration_min, notes, started_at
		FROM workout_logs WHERE client_id = $1
		ORDER BY started_at DESC LIMIT $2;`,
		clientID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WorkoutLog, 0, limit)
	for rows.Next() {
		var l domain.WorkoutLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Activity, &l.DurationMin, &l.Notes, &l.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
