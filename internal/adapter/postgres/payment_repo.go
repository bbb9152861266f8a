package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachfit/internal/domain"
)

// PaymentRepo implements payment persistence on DB.
type PaymentRepo struct {
	db *DB
}

// NewPaymentRepo wraps a DB as a PaymentRepository.
func NewPaymentRepo(db *DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Add inserts a new payment.
func (r *PaymentRepo) Add(ctx context.Context, p domain.Payment) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO payments (reference, trainer_id, client_id, amount_cents, currency, concept, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		p.Reference, p.TrainerID, p.ClientID, p.AmountCents, p.Currency, p.Concept,
		p.DueDate, time.Now().UTC(),
	).Scan(&id)
	return id, err
}

// GetByID returns one payment, or nil when absent.
func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT id, reference, trainer_id, client_id, amount_cents, currency, concept, due_date, paid_at, created_at
		FROM payments WHERE id = $1;`, id,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// MarkPaid records the settlement timestamp on one payment.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		`UPDATE payments SET paid_at = $2 WHERE id = $1 AND paid_at IS NULL;`,
		id, paidAt.UTC(),
	)
	return err
}

// ListByClient returns the client's payments, newest due date first.
func (r *PaymentRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.Payment, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, reference, trainer_id, client_id, amount_cents, currency, concept, due_date, paid_at, created_at
		FROM payments WHERE client_id = $1 ORDER BY due_date DESC;`,
		clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListUnpaidDueBefore returns unpaid payments with a due date before cutoff.
func (r *PaymentRepo) ListUnpaidDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, reference, trainer_id, client_id, amount_cents, currency, concept, due_date, paid_at, created_at
		FROM payments WHERE paid_at IS NULL AND due_date < $1 ORDER BY due_date;`,
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.Reference, &p.TrainerID, &p.ClientID, &p.AmountCents,
		&p.Currency, &p.Concept, &p.DueDate, &p.PaidAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.DueDate = domain.NormalizeDate(p.DueDate)
	return &p, nil
}

func collectPayments(rows *sql.Rows) ([]domain.Payment, error) {
	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
