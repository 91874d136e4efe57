package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
)

const paymentColumns = `id, fund_number, installment_no, amount, paid_date, mode, reference, created_at`

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// RecordWithDueUpdate inserts the payment row and applies the additive update
// to the matching due row atomically. The increment is expressed as one SQL
// statement, so the row lock serializes concurrent payments against the same
// installment. A missing due row rolls back the payment insert too.
func (r *PaymentRepository) RecordWithDueUpdate(ctx context.Context, payment *domain.Payment) (*domain.Payment, *domain.Due, error) {
	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// 1. Insert the immutable payment row
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (fund_number, installment_no, amount, paid_date, mode, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		payment.FundNumber, payment.InstallmentNo, amount,
		pgtype.Date{Time: payment.PaidDate, Valid: true},
		payment.Mode, payment.Reference).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	// 2. Apply the additive update to the due row
	row := tx.QueryRow(ctx, `
		UPDATE dues
		SET received_amount = received_amount + $3, last_received_at = $4
		WHERE fund_number = $1 AND installment_no = $2
		RETURNING `+dueColumns,
		payment.FundNumber, payment.InstallmentNo, amount,
		pgtype.Date{Time: payment.PaidDate, Valid: true})

	due, err := scanDue(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, domain.ErrDueNotFound
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return payment, due, nil
}

// GetByFundNumber retrieves the payment history for a fund number
func (r *PaymentRepository) GetByFundNumber(ctx context.Context, fundNumber string) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE fund_number = $1
		ORDER BY paid_date, id`, fundNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListBetween retrieves payments with paid dates in [from, to], for exports
func (r *PaymentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE paid_date >= $1 AND paid_date <= $2
		ORDER BY paid_date, id`,
		pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// SumReceivedBetween returns the total amount received in [from, to]
func (r *PaymentRepository) SumReceivedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE paid_date >= $1 AND paid_date <= $2`,
		pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true}).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var paidDate pgtype.Date
	var amount pgtype.Numeric

	err := row.Scan(&p.ID, &p.FundNumber, &p.InstallmentNo, &amount, &paidDate,
		&p.Mode, &p.Reference, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.PaidDate = paidDate.Time
	p.Amount = pgNumericToDecimal(amount)
	return &p, nil
}

func collectPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	payments := []*domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
