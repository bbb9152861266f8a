package domain

import (
	"context"
	"time"
)

// Appointment is a scheduled training session between a trainer and a client.
// The [StartsAt, EndsAt) interval of one trainer's appointments never overlaps.
type Appointment struct {
	ID        int64     `json:"id"`
	TrainerID int64     `json:"trainerId"`
	ClientID  int64     `json:"clientId"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Overlaps reports whether the appointment intersects [start, end).
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && start.Before(a.EndsAt)
}

// AppointmentRepository is the port for appointment persistence.
type AppointmentRepository interface {
	Add(ctx context.Context, appt Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
	// ListByTrainerBetween returns the trainer's appointments intersecting
	// [from, to), ordered by start time.
	ListByTrainerBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]Appointment, error)
	// ListUpcoming returns all appointments starting in [from, to), any trainer.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]Appointment, error)
	Count(ctx context.Context) (int, error)
}
