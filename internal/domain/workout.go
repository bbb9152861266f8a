package domain

import (
	"context"
	"time"
)

// WorkoutLog represents a single completed workout session logged by a client.
type WorkoutLog struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"clientId"`
	Activity    string    `json:"activity"`
	DurationMin int       `json:"durationMin"`
	Notes       string    `json:"notes,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
}

// WorkoutRepository is the port for workout-log persistence.
type WorkoutRepository interface {
	Add(ctx context.Context, log WorkoutLog) (int64, error)
	Delete(ctx context.Context, clientID, id int64) error
	// ListByClientSince returns logs with StartedAt >= since, newest first.
	ListByClientSince(ctx context.Context, clientID int64, since time.Time) ([]WorkoutLog, error)
	ListRecent(ctx context.Context, clientID int64, limit int) ([]WorkoutLog, error)
}
