package domain

import (
	"context"
	"time"
)

// Measurement is one dated body-composition record for a client. At most one
// measurement exists per (ClientID, Date); re-recording the same date
// overwrites the mutable fields in place.
type Measurement struct {
	ID                int64     `json:"id"`
	ClientID          int64     `json:"clientId"`
	Date              time.Time `json:"date"`
	WeightKg          float64   `json:"weightKg"`
	BodyFatPercent    *float64  `json:"bodyFatPercent,omitempty"`
	MuscleMassPercent *float64  `json:"muscleMassPercent,omitempty"`
	HeightCm          *float64  `json:"heightCm,omitempty"`
	NeckCm            *float64  `json:"neckCm,omitempty"`
	WaistCm           *float64  `json:"waistCm,omitempty"`
	HipCm             *float64  `json:"hipCm,omitempty"`
	Sex               Sex       `json:"sex,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NormalizeDate truncates t to its calendar date. Two submissions on the same
// local day always map to the same stored date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MeasurementRepository is the port for measurement persistence.
type MeasurementRepository interface {
	// Upsert inserts m, or overwrites the mutable fields of the existing row
	// for (m.ClientID, m.Date), preserving that row's identity. The
	// insert-or-update decision is atomic at the storage layer.
	Upsert(ctx context.Context, m Measurement) (*Measurement, error)
	FindByClientAndDate(ctx context.Context, clientID int64, date time.Time) (*Measurement, error)
	// ListByClient returns measurements ordered by date descending.
	ListByClient(ctx context.Context, clientID int64, limit int) ([]Measurement, error)
	// Delete removes one measurement, constrained to the owning client's rows.
	Delete(ctx context.Context, clientID, id int64) error
	Count(ctx context.Context) (int, error)
}
