package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"coachfit/internal/domain"
)

var (
	// ErrInvalidInput indicates malformed or missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized indicates the request carries no valid client context.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller may not touch the targeted resource.
	ErrForbidden = errors.New("forbidden")
)

// MeasurementInput is the raw submission for one dated measurement. Date
// defaults to today when zero. Optional fields left nil are filled in by the
// body-composition estimator where possible.
type MeasurementInput struct {
	Date              time.Time
	WeightKg          float64
	BodyFatPercent    *float64
	MuscleMassPercent *float64
	HeightCm          *float64
	NeckCm            *float64
	WaistCm           *float64
	HipCm             *float64
	Sex               domain.Sex
	Notes             string
}

// MeasurementService resolves measurement submissions into upserts against
// the measurement store.
type MeasurementService struct {
	measurements domain.MeasurementRepository
	users        domain.UserRepository
}

// NewMeasurementService creates a MeasurementService backed by the given
// repositories.
func NewMeasurementService(mr domain.MeasurementRepository, ur domain.UserRepository) *MeasurementService {
	return &MeasurementService{measurements: mr, users: ur}
}

// Record validates, enriches and persists one measurement for the client.
// A second submission for the same calendar date overwrites the first row's
// mutable fields rather than creating a duplicate; exactly one write happens.
func (s *MeasurementService) Record(ctx context.Context, clientID int64, in MeasurementInput) (*domain.Measurement, error) {
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}
	if client == nil || client.Role != domain.RoleClient {
		return nil, ErrUnauthorized
	}

	if math.IsNaN(in.WeightKg) || math.IsInf(in.WeightKg, 0) || in.WeightKg <= 0 {
		return nil, fmt.Errorf("%w: weightKg must be a finite number > 0", ErrInvalidInput)
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().In(time.Local)
	}
	date = domain.NormalizeDate(date)

	// Supplied values always win over derived ones.
	bodyFat := in.BodyFatPercent
	if bodyFat == nil {
		bodyFat = domain.EstimateBodyFatPercent(in.HeightCm, in.NeckCm, in.WaistCm, in.HipCm, in.Sex)
	}
	muscleMass := in.MuscleMassPercent
	if muscleMass == nil {
		muscleMass = domain.EstimateMuscleMassPercent(bodyFat)
	}

	m := domain.Measurement{
		ClientID:          clientID,
		Date:              date,
		WeightKg:          in.WeightKg,
		BodyFatPercent:    bodyFat,
		MuscleMassPercent: muscleMass,
		HeightCm:          in.HeightCm,
		NeckCm:            in.NeckCm,
		WaistCm:           in.WaistCm,
		HipCm:             in.HipCm,
		Sex:               in.Sex,
		Notes:             in.Notes,
	}

	saved, err := s.measurements.Upsert(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("upsert measurement: %w", err)
	}
	return saved, nil
}

// History returns the client's measurements, most recent date first.
func (s *MeasurementService) History(ctx context.Context, clientID int64, limit int) ([]domain.Measurement, error) {
	return s.measurements.ListByClient(ctx, clientID, limit)
}

// ForDate returns the measurement recorded on one calendar date, or nil when
// the client logged nothing that day.
func (s *MeasurementService) ForDate(ctx context.Context, clientID int64, date time.Time) (*domain.Measurement, error) {
	return s.measurements.FindByClientAndDate(ctx, clientID, domain.NormalizeDate(date))
}

// Delete removes one measurement owned by the client.
func (s *MeasurementService) Delete(ctx context.Context, clientID, id int64) error {
	return s.measurements.Delete(ctx, clientID, id)
}
