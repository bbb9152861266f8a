package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachfit/internal/domain"
)

type mockPaymentRepo struct {
	addFn        func(ctx context.Context, p domain.Payment) (int64, error)
	getByIDFn    func(ctx context.Context, id int64) (*domain.Payment, error)
	markPaidFn   func(ctx context.Context, id int64, paidAt time.Time) error
	listClientFn func(ctx context.Context, clientID int64) ([]domain.Payment, error)
	listUnpaidFn func(ctx context.Context, cutoff time.Time) ([]domain.Payment, error)
}

func (m *mockPaymentRepo) Add(ctx context.Context, p domain.Payment) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, p)
	}
	return 1, nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepo) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	if m.markPaidFn != nil {
		return m.markPaidFn(ctx, id, paidAt)
	}
	return nil
}

func (m *mockPaymentRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.Payment, error) {
	if m.listClientFn != nil {
		return m.listClientFn(ctx, clientID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	if m.listUnpaidFn != nil {
		return m.listUnpaidFn(ctx, cutoff)
	}
	return nil, nil
}

func TestPaymentService_Record(t *testing.T) {
	var stored domain.Payment
	repo := &mockPaymentRepo{
		addFn: func(_ context.Context, p domain.Payment) (int64, error) {
			stored = p
			return 3, nil
		},
	}
	svc := NewPaymentService(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	due := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	view, err := svc.Record(context.Background(), 1, 2, 5000, "", "August coaching", due)
	require.NoError(t, err)

	assert.Equal(t, int64(3), view.ID)
	assert.NotEmpty(t, stored.Reference)
	assert.Equal(t, "EUR", stored.Currency, "currency defaults to EUR")
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), stored.DueDate, "due date is normalized")
	assert.Equal(t, domain.PaymentPending, view.Status)
}

func TestPaymentService_Record_InvalidAmount(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepo{})

	for _, amount := range []int64{0, -100} {
		_, err := svc.Record(context.Background(), 1, 2, amount, "EUR", "", time.Now())
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestPaymentService_ListForClient_Statuses(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	paidAt := now.Add(-48 * time.Hour)

	repo := &mockPaymentRepo{
		listClientFn: func(_ context.Context, _ int64) ([]domain.Payment, error) {
			return []domain.Payment{
				{ID: 1, DueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), PaidAt: &paidAt},
				{ID: 2, DueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
				{ID: 3, DueDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
				{ID: 4, DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := NewPaymentService(repo)
	svc.now = func() time.Time { return now }

	views, err := svc.ListForClient(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.Equal(t, domain.PaymentPaid, views[0].Status)
	assert.Equal(t, domain.PaymentOverdue, views[1].Status)
	assert.Equal(t, domain.PaymentDueSoon, views[2].Status)
	assert.Equal(t, domain.PaymentPending, views[3].Status)
}

func TestPaymentService_Overdue_UsesTodayCutoff(t *testing.T) {
	now := time.Date(2026, 8, 15, 23, 30, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &mockPaymentRepo{
		listUnpaidFn: func(_ context.Context, cutoff time.Time) ([]domain.Payment, error) {
			gotCutoff = cutoff
			return nil, nil
		},
	}
	svc := NewPaymentService(repo)
	svc.now = func() time.Time { return now }

	_, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), gotCutoff)
}

func TestPaymentStatus_DueSoonBoundary(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	exactlySevenDays := domain.Payment{DueDate: now.AddDate(0, 0, 7)}
	assert.Equal(t, domain.PaymentDueSoon, exactlySevenDays.Status(now))

	eightDays := domain.Payment{DueDate: now.AddDate(0, 0, 8)}
	assert.Equal(t, domain.PaymentPending, eightDays.Status(now))

	dueToday := domain.Payment{DueDate: now}
	assert.Equal(t, domain.PaymentDueSoon, dueToday.Status(now))
}
