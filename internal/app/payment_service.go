package app

import (
	"context"
	"fmt"
	"time"

	"coachfit/internal/domain"

	"github.com/google/uuid"
)

// PaymentView is a payment together with its derived status.
type PaymentView struct {
	domain.Payment
	Status domain.PaymentStatus `json:"status"`
}

// PaymentService encapsulates invoice use cases. Status is always derived at
// read time; nothing re-writes rows when a due date passes.
type PaymentService struct {
	payments domain.PaymentRepository
	now      func() time.Time
}

// NewPaymentService creates a PaymentService backed by the given repository.
func NewPaymentService(pr domain.PaymentRepository) *PaymentService {
	return &PaymentService{payments: pr, now: time.Now}
}

// Record issues a new invoice and assigns it a reference.
func (s *PaymentService) Record(ctx context.Context, trainerID, clientID, amountCents int64, currency, concept string, dueDate time.Time) (*PaymentView, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if currency == "" {
		currency = "EUR"
	}

	p := domain.Payment{
		Reference:   uuid.NewString(),
		TrainerID:   trainerID,
		ClientID:    clientID,
		AmountCents: amountCents,
		Currency:    currency,
		Concept:     concept,
		DueDate:     domain.NormalizeDate(dueDate),
	}
	id, err := s.payments.Add(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &PaymentView{Payment: p, Status: p.Status(s.now())}, nil
}

// MarkPaid settles an invoice at the current time.
func (s *PaymentService) MarkPaid(ctx context.Context, id int64) error {
	return s.payments.MarkPaid(ctx, id, s.now())
}

// ListForClient returns the client's payments with derived statuses.
func (s *PaymentService) ListForClient(ctx context.Context, clientID int64) ([]PaymentView, error) {
	ps, err := s.payments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]PaymentView, 0, len(ps))
	for _, p := range ps {
		views = append(views, PaymentView{Payment: p, Status: p.Status(now)})
	}
	return views, nil
}

// Overdue returns all unpaid payments whose due date has passed.
func (s *PaymentService) Overdue(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.ListUnpaidDueBefore(ctx, domain.NormalizeDate(s.now()))
}
