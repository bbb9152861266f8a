package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachfit/internal/domain"
)

const measurementColumns = `id, client_id, date, weight_kg, body_fat_pct, muscle_mass_pct,
	height_cm, neck_cm, waist_cm, hip_cm, sex, notes, created_at, updated_at`

// MeasurementRepo implements measurement persistence on DB.
type MeasurementRepo struct {
	db *DB
}

// NewMeasurementRepo wraps a DB as a MeasurementRepository.
func NewMeasurementRepo(db *DB) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

// Upsert inserts the measurement or, on a (client_id, date) conflict,
// overwrites the existing row's mutable fields. The conflict resolution is a
// single atomic statement, so two racing submissions for the same day still
// leave exactly one row.
func (r *MeasurementRepo) Upsert(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	now := time.Now().UTC()
	row := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO measurements
			(client_id, date, weight_kg, body_fat_pct, muscle_mass_pct,
			 height_cm, neck_cm, waist_cm, hip_cm, sex, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (client_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			body_fat_pct = EXCLUDED.body_fat_pct,
			muscle_mass_pct = EXCLUDED.muscle_mass_pct,
			height_cm = EXCLUDED.height_cm,
			neck_cm = EXCLUDED.neck_cm,
			waist_cm = EXCLUDED.waist_cm,
			hip_cm = EXCLUDED.hip_cm,
			sex = EXCLUDED.sex,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+measurementColumns+`;`,
		m.ClientID, m.Date, m.WeightKg, m.BodyFatPercent, m.MuscleMassPercent,
		m.HeightCm, m.NeckCm, m.WaistCm, m.HipCm, string(m.Sex), m.Notes, now,
	)
	return scanMeasurement(row)
}

// FindByClientAndDate returns the measurement for one calendar date, or nil.
func (r *MeasurementRepo) FindByClientAndDate(ctx context.Context, clientID int64, date time.Time) (*domain.Measurement, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+measurementColumns+` FROM measurements WHERE client_id = $1 AND date = $2;`,
		clientID, date,
	)
	m, err := scanMeasurement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// ListByClient returns the client's measurements, newest date first.
func (r *MeasurementRepo) ListByClient(ctx context.Context, clientID int64, limit int) ([]domain.Measurement, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT `+measurementColumns+` FROM measurements
		WHERE client_id = $1 ORDER BY date DESC LIMIT $2;`,
		clientID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Measurement, 0, limit)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Delete removes one measurement, scoped to the owning client.
func (r *MeasurementRepo) Delete(ctx context.Context, clientID, id int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		`DELETE FROM measurements WHERE id = $1 AND client_id = $2;`, id, clientID)
	return err
}

// Count returns the total number of measurements.
func (r *MeasurementRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurements;`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (*domain.Measurement, error) {
	var m domain.Measurement
	var sex string
	if err := row.Scan(
		&m.ID, &m.ClientID, &m.Date, &m.WeightKg, &m.BodyFatPercent, &m.MuscleMassPercent,
		&m.HeightCm, &m.NeckCm, &m.WaistCm, &m.HipCm, &sex, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Sex = domain.Sex(sex)
	m.Date = domain.NormalizeDate(m.Date)
	return &m, nil
}
