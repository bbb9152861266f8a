// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"coachfit/internal/domain"
)

// DB holds all in-memory state behind one mutex.
type DB struct {
	mu sync.Mutex

	users        []*domain.User
	sessions     map[string]*domain.Session
	measurements []domain.Measurement
	workouts     []domain.WorkoutLog
	appointments []domain.Appointment
	payments     []domain.Payment

	userIDCounter        int64
	measurementIDCounter int64
	workoutIDCounter     int64
	appointmentIDCounter int64
	paymentIDCounter     int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.MeasurementRepository = (*MeasurementRepo)(nil)
var _ domain.WorkoutRepository = (*WorkoutRepo)(nil)
var _ domain.AppointmentRepository = (*AppointmentRepo)(nil)
var _ domain.PaymentRepository = (*PaymentRepo)(nil)

// --- UserRepository ---

// GetByUsername returns the account with the given username, or nil.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID returns the account with the given id, or nil.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create adds a new account.
func (db *DB) Create(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// Count returns the number of accounts.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// CountByRole returns the number of accounts holding the given role.
func (db *DB) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, u := range db.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

// GetByToken returns the session for the token, or nil.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete removes the session for the token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}

// --- MeasurementRepository ---

// MeasurementRepo implements measurement persistence on DB.
type MeasurementRepo struct {
	db *DB
}

// NewMeasurementRepo wraps a DB as a MeasurementRepository.
func NewMeasurementRepo(db *DB) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

// Upsert inserts m or overwrites the row for (ClientID, Date). The lookup and
// write happen under one mutex hold, so the per-date uniqueness invariant
// survives concurrent submissions.
func (r *MeasurementRepo) Upsert(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for i := range r.db.measurements {
		existing := &r.db.measurements[i]
		if existing.ClientID == m.ClientID && existing.Date.Equal(m.Date) {
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			m.UpdatedAt = now
			*existing = m
			cp := m
			return &cp, nil
		}
	}

	r.db.measurementIDCounter++
	m.ID = r.db.measurementIDCounter
	m.CreatedAt = now
	m.UpdatedAt = now
	r.db.measurements = append(r.db.measurements, m)
	cp := m
	return &cp, nil
}

// FindByClientAndDate returns the measurement for one calendar date, or nil.
func (r *MeasurementRepo) FindByClientAndDate(ctx context.Context, clientID int64, date time.Time) (*domain.Measurement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.measurements {
		if m.ClientID == clientID && m.Date.Equal(date) {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByClient returns the client's measurements, newest date first.
func (r *MeasurementRepo) ListByClient(ctx context.Context, clientID int64, limit int) ([]domain.Measurement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Measurement
	for _, m := range r.db.measurements {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes one measurement, scoped to the owning client.
func (r *MeasurementRepo) Delete(ctx context.Context, clientID, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, m := range r.db.measurements {
		if m.ID == id && m.ClientID == clientID {
			r.db.measurements = append(r.db.measurements[:i], r.db.measurements[i+1:]...)
			return nil
		}
	}
	return nil
}

// Count returns the total number of measurements.
func (r *MeasurementRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.measurements), nil
}

// --- WorkoutRepository ---

// WorkoutRepo implements workout-log persistence on DB.
type WorkoutRepo struct {
	db *DB
}

// NewWorkoutRepo wraps a DB as a WorkoutRepository.
func NewWorkoutRepo(db *DB) *WorkoutRepo {
	return &WorkoutRepo{db: db}
}

// Add stores a workout log.
func (r *WorkoutRepo) Add(ctx context.Context, log domain.WorkoutLog) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.workoutIDCounter++
	log.ID = r.db.workoutIDCounter
	r.db.workouts = append(r.db.workouts, log)
	return log.ID, nil
}

// Delete removes one workout log, scoped to the owning client.
func (r *WorkoutRepo) Delete(ctx context.Context, clientID, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, l := range r.db.workouts {
		if l.ID == id && l.ClientID == clientID {
			r.db.workouts = append(r.db.workouts[:i], r.db.workouts[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListByClientSince returns the client's logs since the given time, newest first.
func (r *WorkoutRepo) ListByClientSince(ctx context.Context, clientID int64, since time.Time) ([]domain.WorkoutLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.WorkoutLog
	for _, l := range r.db.workouts {
		if l.ClientID == clientID && !l.StartedAt.Before(since) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

// ListRecent returns the client's most recent logs up to limit.
func (r *WorkoutRepo) ListRecent(ctx context.Context, clientID int64, limit int) ([]domain.WorkoutLog, error) {
	logs, err := r.ListByClientSince(ctx, clientID, time.Time{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// --- AppointmentRepository ---

// AppointmentRepo implements appointment persistence on DB.
type AppointmentRepo struct {
	db *DB
}

// NewAppointmentRepo wraps a DB as an AppointmentRepository.
func NewAppointmentRepo(db *DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// Add stores an appointment.
func (r *AppointmentRepo) Add(ctx context.Context, appt domain.Appointment) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.appointmentIDCounter++
	appt.ID = r.db.appointmentIDCounter
	appt.CreatedAt = time.Now()
	r.db.appointments = append(r.db.appointments, appt)
	return appt.ID, nil
}

// GetByID returns one appointment, or nil.
func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.appointments {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

// Delete removes one appointment.
func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, a := range r.db.appointments {
		if a.ID == id {
			r.db.appointments = append(r.db.appointments[:i], r.db.appointments[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListByTrainerBetween returns the trainer's appointments intersecting
// [from, to), ordered by start time.
func (r *AppointmentRepo) ListByTrainerBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Appointment
	for _, a := range r.db.appointments {
		if a.TrainerID == trainerID && a.Overlaps(from, to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// ListUpcoming returns all appointments starting in [from, to).
func (r *AppointmentRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Appointment
	for _, a := range r.db.appointments {
		if !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// Count returns the total number of appointments.
func (r *AppointmentRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.appointments), nil
}

// --- PaymentRepository ---

// PaymentRepo implements payment persistence on DB.
type PaymentRepo struct {
	db *DB
}

// NewPaymentRepo wraps a DB as a PaymentRepository.
func NewPaymentRepo(db *DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Add stores a payment.
func (r *PaymentRepo) Add(ctx context.Context, p domain.Payment) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.paymentIDCounter++
	p.ID = r.db.paymentIDCounter
	p.CreatedAt = time.Now()
	r.db.payments = append(r.db.payments, p)
	return p.ID, nil
}

// GetByID returns one payment, or nil.
func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.payments {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// MarkPaid records the settlement timestamp on one unpaid payment.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.payments {
		if r.db.payments[i].ID == id && r.db.payments[i].PaidAt == nil {
			r.db.payments[i].PaidAt = &paidAt
			return nil
		}
	}
	return nil
}

// ListByClient returns the client's payments, newest due date first.
func (r *PaymentRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Payment
	for _, p := range r.db.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	return out, nil
}

// ListUnpaidDueBefore returns unpaid payments with a due date before cutoff.
func (r *PaymentRepo) ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Payment
	for _, p := range r.db.payments {
		if p.PaidAt == nil && p.DueDate.Before(cutoff) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}
