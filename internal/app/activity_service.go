package app

import (
	"context"
	"fmt"
	"time"

	"coachfit/internal/domain"
)

// WeekBucket aggregates a client's workout logs over one calendar week
// (Monday start). Weeks with no sessions appear with zero counts so charts
// render gaps explicitly.
type WeekBucket struct {
	WeekStart    string `json:"weekStart"`
	Sessions     int    `json:"sessions"`
	TotalMinutes int    `json:"totalMinutes"`
}

// ActivityService encapsulates workout logging and aggregation use cases.
type ActivityService struct {
	workouts domain.WorkoutRepository
	now      func() time.Time
}

// NewActivityService creates an ActivityService backed by the given repository.
func NewActivityService(wr domain.WorkoutRepository) *ActivityService {
	return &ActivityService{workouts: wr, now: time.Now}
}

// LogWorkout stores one completed session.
func (s *ActivityService) LogWorkout(ctx context.Context, clientID int64, activity string, durationMin int, notes string, startedAt time.Time) (*domain.WorkoutLog, error) {
	if activity == "" {
		return nil, fmt.Errorf("%w: activity is required", ErrInvalidInput)
	}
	if durationMin <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if startedAt.IsZero() {
		startedAt = s.now()
	}

	log := domain.WorkoutLog{
		ClientID:    clientID,
		Activity:    activity,
		DurationMin: durationMin,
		Notes:       notes,
		StartedAt:   startedAt,
	}
	id, err := s.workouts.Add(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return &log, nil
}

// Recent returns the client's latest workout logs.
func (s *ActivityService) Recent(ctx context.Context, clientID int64, limit int) ([]domain.WorkoutLog, error) {
	return s.workouts.ListRecent(ctx, clientID, limit)
}

// WeeklyActivity buckets the last weeks of workout logs per week, oldest
// bucket first.
func (s *ActivityService) WeeklyActivity(ctx context.Context, clientID int64, weeks int) ([]WeekBucket, error) {
	if weeks <= 0 {
		weeks = 12
	}
	if weeks > 104 {
		weeks = 104
	}

	currentWeek := startOfWeek(s.now())
	since := currentWeek.AddDate(0, 0, -7*(weeks-1))

	logs, err := s.workouts.ListByClientSince(ctx, clientID, since)
	if err != nil {
		return nil, err
	}

	byWeek := make(map[string]*WeekBucket, weeks)
	buckets := make([]WeekBucket, 0, weeks)
	for i := 0; i < weeks; i++ {
		ws := since.AddDate(0, 0, 7*i).Format("2006-01-02")
		buckets = append(buckets, WeekBucket{WeekStart: ws})
		byWeek[ws] = &buckets[len(buckets)-1]
	}

	for _, l := range logs {
		ws := startOfWeek(l.StartedAt).Format("2006-01-02")
		bucket, ok := byWeek[ws]
		if !ok {
			continue
		}
		bucket.Sessions++
		bucket.TotalMinutes += l.DurationMin
	}
	return buckets, nil
}

// startOfWeek truncates t to the Monday of its week, local calendar.
func startOfWeek(t time.Time) time.Time {
	t = t.In(time.Local)
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
