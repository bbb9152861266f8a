package domain

import (
	"context"
	"time"
)

// PaymentStatus is derived from the due date and paid timestamp, never stored.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentDueSoon PaymentStatus = "due_soon"
	PaymentPending PaymentStatus = "pending"
)

// dueSoonWindow is how far ahead of the due date a pending payment is
// surfaced as due_soon.
const dueSoonWindow = 7 * 24 * time.Hour

// Payment is an invoice a trainer issued to a client.
type Payment struct {
	ID          int64      `json:"id"`
	Reference   string     `json:"reference"`
	TrainerID   int64      `json:"trainerId"`
	ClientID    int64      `json:"clientId"`
	AmountCents int64      `json:"amountCents"`
	Currency    string     `json:"currency"`
	Concept     string     `json:"concept,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Status classifies the payment relative to now.
func (p Payment) Status(now time.Time) PaymentStatus {
	if p.PaidAt != nil {
		return PaymentPaid
	}
	due := NormalizeDate(p.DueDate)
	today := NormalizeDate(now)
	switch {
	case due.Before(today):
		return PaymentOverdue
	case due.Sub(today) <= dueSoonWindow:
		return PaymentDueSoon
	default:
		return PaymentPending
	}
}

// PaymentRepository is the port for payment persistence.
type PaymentRepository interface {
	Add(ctx context.Context, p Payment) (int64, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
	// ListByClient returns the client's payments, newest due date first.
	ListByClient(ctx context.Context, clientID int64) ([]Payment, error)
	// ListUnpaidDueBefore returns unpaid payments with a due date before cutoff.
	ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]Payment, error)
}
