package app

import (
	"context"

	"coachfit/internal/domain"
)

// GlobalStats is the admin dashboard aggregate.
type GlobalStats struct {
	Trainers     int `json:"trainers"`
	Clients      int `json:"clients"`
	Measurements int `json:"measurements"`
	Appointments int `json:"appointments"`
}

// StatsService counts rows across stores for the admin dashboard.
type StatsService struct {
	users        domain.UserRepository
	measurements domain.MeasurementRepository
	appointments domain.AppointmentRepository
}

// NewStatsService creates a StatsService backed by the given repositories.
func NewStatsService(ur domain.UserRepository, mr domain.MeasurementRepository, ar domain.AppointmentRepository) *StatsService {
	return &StatsService{users: ur, measurements: mr, appointments: ar}
}

// Global gathers the aggregate counts.
func (s *StatsService) Global(ctx context.Context) (*GlobalStats, error) {
	trainers, err := s.users.CountByRole(ctx, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	clients, err := s.users.CountByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, err
	}
	measurements, err := s.measurements.Count(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &GlobalStats{
		Trainers:     trainers,
		Clients:      clients,
		Measurements: measurements,
		Appointments: appointments,
	}, nil
}
