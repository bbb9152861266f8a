package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coachfit/internal/domain"
)

// ErrAppointmentConflict indicates the requested slot overlaps an existing
// appointment of the same trainer.
var ErrAppointmentConflict = errors.New("appointment conflicts with an existing one")

// AppointmentService encapsulates scheduling use cases.
type AppointmentService struct {
	appointments domain.AppointmentRepository
	users        domain.UserRepository
}

// NewAppointmentService creates an AppointmentService backed by the given
// repositories.
func NewAppointmentService(ar domain.AppointmentRepository, ur domain.UserRepository) *AppointmentService {
	return &AppointmentService{appointments: ar, users: ur}
}

// Schedule books a session, rejecting overlaps on the trainer's calendar.
// Intervals are half-open: back-to-back sessions do not conflict.
func (s *AppointmentService) Schedule(ctx context.Context, trainerID, clientID int64, title, notes string, startsAt, endsAt time.Time) (*domain.Appointment, error) {
	if !endsAt.After(startsAt) {
		return nil, fmt.Errorf("%w: appointment must end after it starts", ErrInvalidInput)
	}

	trainer, err := s.users.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if trainer == nil || trainer.Role != domain.RoleTrainer {
		return nil, ErrUnauthorized
	}

	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: clientId does not reference a client account", ErrInvalidInput)
	}

	existing, err := s.appointments.ListByTrainerBetween(ctx, trainerID, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Overlaps(startsAt, endsAt) {
			return nil, ErrAppointmentConflict
		}
	}

	appt := domain.Appointment{
		TrainerID: trainerID,
		ClientID:  clientID,
		Title:     title,
		Notes:     notes,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}
	id, err := s.appointments.Add(ctx, appt)
	if err != nil {
		return nil, err
	}
	appt.ID = id
	return &appt, nil
}

// Calendar returns the trainer's appointments intersecting [from, to).
func (s *AppointmentService) Calendar(ctx context.Context, trainerID int64, from, to time.Time) ([]domain.Appointment, error) {
	return s.appointments.ListByTrainerBetween(ctx, trainerID, from, to)
}

// Cancel removes an appointment. Trainers may only cancel their own;
// admins may cancel any.
func (s *AppointmentService) Cancel(ctx context.Context, actor domain.User, id int64) error {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt == nil {
		return nil
	}
	if actor.Role != domain.RoleAdmin && appt.TrainerID != actor.ID {
		return ErrForbidden
	}
	return s.appointments.Delete(ctx, id)
}
