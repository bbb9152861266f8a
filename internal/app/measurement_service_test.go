package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"coachfit/internal/app"
	"coachfit/internal/domain"
)

type mockMeasurementRepo struct {
	upsertFn func(ctx context.Context, m domain.Measurement) (*domain.Measurement, error)
	findFn   func(ctx context.Context, clientID int64, date time.Time) (*domain.Measurement, error)
	listFn   func(ctx context.Context, clientID int64, limit int) ([]domain.Measurement, error)
	deleteFn func(ctx context.Context, clientID, id int64) error
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockMeasurementRepo) Upsert(ctx context.Context, mm domain.Measurement) (*domain.Measurement, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, mm)
	}
	saved := mm
	saved.ID = 1
	return &saved, nil
}

func (m *mockMeasurementRepo) FindByClientAndDate(ctx context.Context, clientID int64, date time.Time) (*domain.Measurement, error) {
	if m.findFn != nil {
		return m.findFn(ctx, clientID, date)
	}
	return nil, nil
}

func (m *mockMeasurementRepo) ListByClient(ctx context.Context, clientID int64, limit int) ([]domain.Measurement, error) {
	if m.listFn != nil {
		return m.listFn(ctx, clientID, limit)
	}
	return nil, nil
}

func (m *mockMeasurementRepo) Delete(ctx context.Context, clientID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, clientID, id)
	}
	return nil
}

func (m *mockMeasurementRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
	countByRoleFn   func(ctx context.Context, role domain.Role) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash, role)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash, Role: role}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	if m.countByRoleFn != nil {
		return m.countByRoleFn(ctx, role)
	}
	return 0, nil
}

func clientRepo() *mockUserRepo {
	return &mockUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "client", Role: domain.RoleClient}, nil
		},
	}
}

func fp(v float64) *float64 { return &v }

func TestRecordMeasurement_Validation(t *testing.T) {
	svc := app.NewMeasurementService(&mockMeasurementRepo{}, clientRepo())

	tests := []struct {
		name   string
		weight float64
	}{
		{"zero weight", 0},
		{"negative weight", -70},
		{"nan weight", math.NaN()},
		{"inf weight", math.Inf(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), 1, app.MeasurementInput{WeightKg: tc.weight})
			if !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRecordMeasurement_UnknownClient(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.User, error) {
			return nil, nil
		},
	}
	svc := app.NewMeasurementService(&mockMeasurementRepo{}, users)

	_, err := svc.Record(context.Background(), 42, app.MeasurementInput{WeightKg: 80})
	if !errors.Is(err, app.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordMeasurement_TrainerIsNotAClient(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.RoleTrainer}, nil
		},
	}
	svc := app.NewMeasurementService(&mockMeasurementRepo{}, users)

	_, err := svc.Record(context.Background(), 2, app.MeasurementInput{WeightKg: 80})
	if !errors.Is(err, app.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordMeasurement_DefaultsDateToToday(t *testing.T) {
	var got domain.Measurement
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			got = m
			saved := m
			saved.ID = 7
			return &saved, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	saved, err := svc.Record(context.Background(), 1, app.MeasurementInput{WeightKg: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.NormalizeDate(time.Now().In(time.Local))
	if !got.Date.Equal(want) {
		t.Errorf("date = %v; want %v", got.Date, want)
	}
	if saved.ID != 7 {
		t.Errorf("expected the persisted row back, got %+v", saved)
	}
}

func TestRecordMeasurement_NormalizesExplicitDate(t *testing.T) {
	var got domain.Measurement
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			got = m
			return &m, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	in := app.MeasurementInput{
		WeightKg: 80,
		Date:     time.Date(2024, 3, 10, 18, 30, 0, 0, time.Local),
	}
	if _, err := svc.Record(context.Background(), 1, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Errorf("date = %v; want %v", got.Date, want)
	}
}

func TestRecordMeasurement_EstimatesWhenGirthsPresent(t *testing.T) {
	var got domain.Measurement
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			got = m
			return &m, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	in := app.MeasurementInput{
		WeightKg: 80,
		HeightCm: fp(180),
		NeckCm:   fp(38),
		WaistCm:  fp(85),
		Sex:      domain.SexMale,
	}
	if _, err := svc.Record(context.Background(), 1, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BodyFatPercent == nil || *got.BodyFatPercent != 16.1 {
		t.Errorf("bodyFat = %v; want 16.1", got.BodyFatPercent)
	}
	if got.MuscleMassPercent == nil || *got.MuscleMassPercent != 51.9 {
		t.Errorf("muscleMass = %v; want 51.9", got.MuscleMassPercent)
	}
}

func TestRecordMeasurement_SuppliedValuesWin(t *testing.T) {
	var got domain.Measurement
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			got = m
			return &m, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	in := app.MeasurementInput{
		WeightKg:       80,
		BodyFatPercent: fp(20.0),
		HeightCm:       fp(180),
		NeckCm:         fp(38),
		WaistCm:        fp(85),
		Sex:            domain.SexMale,
	}
	if _, err := svc.Record(context.Background(), 1, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BodyFatPercent == nil || *got.BodyFatPercent != 20.0 {
		t.Errorf("bodyFat = %v; want the supplied 20.0", got.BodyFatPercent)
	}
	// Muscle mass still derives from the supplied body fat.
	if got.MuscleMassPercent == nil || *got.MuscleMassPercent != 48.0 {
		t.Errorf("muscleMass = %v; want 48.0", got.MuscleMassPercent)
	}
}

func TestRecordMeasurement_NoEstimateWithoutGirths(t *testing.T) {
	var got domain.Measurement
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			got = m
			return &m, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	if _, err := svc.Record(context.Background(), 1, app.MeasurementInput{WeightKg: 80}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BodyFatPercent != nil {
		t.Errorf("bodyFat = %v; want nil", *got.BodyFatPercent)
	}
	if got.MuscleMassPercent != nil {
		t.Errorf("muscleMass = %v; want nil", *got.MuscleMassPercent)
	}
}

func TestRecordMeasurement_SingleWritePerSubmission(t *testing.T) {
	writes := 0
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, m domain.Measurement) (*domain.Measurement, error) {
			writes++
			return &m, nil
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	if _, err := svc.Record(context.Background(), 1, app.MeasurementInput{WeightKg: 80}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writes != 1 {
		t.Errorf("expected exactly one write, got %d", writes)
	}
}

func TestRecordMeasurement_RepoError(t *testing.T) {
	repo := &mockMeasurementRepo{
		upsertFn: func(_ context.Context, _ domain.Measurement) (*domain.Measurement, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewMeasurementService(repo, clientRepo())

	if _, err := svc.Record(context.Background(), 1, app.MeasurementInput{WeightKg: 80}); err == nil {
		t.Fatal("expected error from repo")
	}
}
