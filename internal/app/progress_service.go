package app

import (
	"context"
	"sort"

	"coachfit/internal/domain"
)

// MeasurementChange holds first-vs-latest deltas over a client's history.
// A delta is nil when either endpoint lacks the field.
type MeasurementChange struct {
	WeightDelta     *float64 `json:"weightDelta"`
	BodyFatDelta    *float64 `json:"bodyFatDelta"`
	MuscleMassDelta *float64 `json:"muscleMassDelta"`
}

// ChartPoint is one chart-ready sample. Absent optional fields render as
// gaps, never as zero.
type ChartPoint struct {
	Label             string   `json:"label"`
	WeightKg          float64  `json:"weightKg"`
	BodyFatPercent    *float64 `json:"bodyFatPercent,omitempty"`
	MuscleMassPercent *float64 `json:"muscleMassPercent,omitempty"`
}

// chartLabelLayout is a short day+month rendering, e.g. "05 Mar". Locale
// negotiation is left to the consuming UI.
const chartLabelLayout = "02 Jan"

// ComputeChanges compares the latest measurement against the chronologically
// first. The input is expected ordered by date descending; fewer than two
// elements yields all-nil deltas. Deltas are rounded to one decimal place.
func ComputeChanges(measurements []domain.Measurement) MeasurementChange {
	if len(measurements) < 2 {
		return MeasurementChange{}
	}
	latest := measurements[0]
	first := measurements[len(measurements)-1]

	change := MeasurementChange{}
	wd := domain.Round1(latest.WeightKg - first.WeightKg)
	change.WeightDelta = &wd
	if latest.BodyFatPercent != nil && first.BodyFatPercent != nil {
		d := domain.Round1(*latest.BodyFatPercent - *first.BodyFatPercent)
		change.BodyFatDelta = &d
	}
	if latest.MuscleMassPercent != nil && first.MuscleMassPercent != nil {
		d := domain.Round1(*latest.MuscleMassPercent - *first.MuscleMassPercent)
		change.MuscleMassDelta = &d
	}
	return change
}

// ChartSeries turns measurements into chart points ascending by date,
// regardless of input order.
func ChartSeries(measurements []domain.Measurement) []ChartPoint {
	sorted := make([]domain.Measurement, len(measurements))
	copy(sorted, measurements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([]ChartPoint, 0, len(sorted))
	for _, m := range sorted {
		points = append(points, ChartPoint{
			Label:             m.Date.Format(chartLabelLayout),
			WeightKg:          m.WeightKg,
			BodyFatPercent:    m.BodyFatPercent,
			MuscleMassPercent: m.MuscleMassPercent,
		})
	}
	return points
}

// ProgressService derives change and chart views from the persisted history.
type ProgressService struct {
	measurements domain.MeasurementRepository
}

// NewProgressService creates a ProgressService backed by the given repository.
func NewProgressService(mr domain.MeasurementRepository) *ProgressService {
	return &ProgressService{measurements: mr}
}

// historyWindow bounds how much history feeds the derived views.
const historyWindow = 731

// Changes reads the client's full history and computes first-vs-latest deltas.
func (s *ProgressService) Changes(ctx context.Context, clientID int64) (MeasurementChange, error) {
	ms, err := s.measurements.ListByClient(ctx, clientID, historyWindow)
	if err != nil {
		return MeasurementChange{}, err
	}
	return ComputeChanges(ms), nil
}

// Series reads the client's history and returns the ascending chart series.
func (s *ProgressService) Series(ctx context.Context, clientID int64) ([]ChartPoint, error) {
	ms, err := s.measurements.ListByClient(ctx, clientID, historyWindow)
	if err != nil {
		return nil, err
	}
	return ChartSeries(ms), nil
}
