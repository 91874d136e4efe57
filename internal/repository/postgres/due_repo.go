package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
)

const dueColumns = `id, fund_number, scheme_id, installment_no, due_date, due_amount, received_amount, last_received_at, created_at`

// DueRepository implements domain.DueRepository using PostgreSQL
type DueRepository struct {
	pool *pgxpool.Pool
}

// NewDueRepository creates a new DueRepository
func NewDueRepository(pool *pgxpool.Pool) *DueRepository {
	return &DueRepository{pool: pool}
}

// GetLedger retrieves all due rows for a fund number, ordered by installment
func (r *DueRepository) GetLedger(ctx context.Context, fundNumber string) ([]*domain.Due, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dueColumns+`
		FROM dues
		WHERE fund_number = $1
		ORDER BY installment_no`, fundNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDues(rows)
}

// GetByInstallment retrieves one due row by (fund number, installment)
func (r *DueRepository) GetByInstallment(ctx context.Context, fundNumber string, installmentNo int32) (*domain.Due, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+dueColumns+`
		FROM dues
		WHERE fund_number = $1 AND installment_no = $2`, fundNumber, installmentNo)

	due, err := scanDue(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDueNotFound
		}
		return nil, err
	}
	return due, nil
}

// GetPending retrieves due rows that are not fully paid, ordered by installment
func (r *DueRepository) GetPending(ctx context.Context, fundNumber string) ([]*domain.Due, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dueColumns+`
		FROM dues
		WHERE fund_number = $1 AND received_amount < due_amount
		ORDER BY installment_no`, fundNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDues(rows)
}

// ListAll retrieves every due row, for exports
func (r *DueRepository) ListAll(ctx context.Context) ([]*domain.Due, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dueColumns+`
		FROM dues
		ORDER BY fund_number, installment_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDues(rows)
}

// SumOutstanding returns the total pending balance across all due rows.
// Overpaid rows contribute zero rather than a negative amount.
func (r *DueRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(GREATEST(due_amount - received_amount, 0)), 0)
		FROM dues`).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

func scanDue(row pgx.Row) (*domain.Due, error) {
	var d domain.Due
	var dueDate pgtype.Date
	var dueAmount, receivedAmount pgtype.Numeric

	err := row.Scan(&d.ID, &d.FundNumber, &d.SchemeID, &d.InstallmentNo, &dueDate,
		&dueAmount, &receivedAmount, &d.LastReceivedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}

	d.DueDate = dueDate.Time
	d.DueAmount = pgNumericToDecimal(dueAmount)
	d.ReceivedAmount = pgNumericToDecimal(receivedAmount)
	return &d, nil
}

func collectDues(rows pgx.Rows) ([]*domain.Due, error) {
	dues := []*domain.Due{}
	for rows.Next() {
		due, err := scanDue(rows)
		if err != nil {
			return nil, err
		}
		dues = append(dues, due)
	}
	return dues, rows.Err()
}
