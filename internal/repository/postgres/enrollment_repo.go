package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasantham/chit-backend/internal/domain"
)

const membershipColumns = `id, fund_number, customer_id, scheme_id, status, joined_at, created_at`

// EnrollmentRepository implements domain.EnrollmentRepository using PostgreSQL
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// ReplaceForCustomer atomically replaces every membership and due row for a
// customer. Deletes are not scoped to the schemes being assigned: assigning
// schemes means "replace all scheme assignments", across schemes.
func (r *EnrollmentRepository) ReplaceForCustomer(ctx context.Context, customerID string, memberships []*domain.Membership, dues []*domain.Due) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 1. Drop the customer's existing ledger, dues first
	_, err = tx.Exec(ctx, `
		DELETE FROM dues
		WHERE fund_number IN (SELECT fund_number FROM memberships WHERE customer_id = $1)`,
		customerID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM memberships WHERE customer_id = $1`, customerID)
	if err != nil {
		return err
	}

	// 2. Insert the new memberships
	for _, m := range memberships {
		err = tx.QueryRow(ctx, `
			INSERT INTO memberships (fund_number, customer_id, scheme_id, status, joined_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			m.FundNumber, m.CustomerID, m.SchemeID, m.Status, m.JoinedAt).
			Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrFundNumberDuplicate
			}
			return err
		}
	}

	// 3. Insert the due schedules
	for _, d := range dues {
		dueAmount, err := decimalToPgNumeric(d.DueAmount)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO dues (fund_number, scheme_id, installment_no, due_date, due_amount, received_amount)
			VALUES ($1, $2, $3, $4, $5, 0)
			RETURNING id, created_at`,
			d.FundNumber, d.SchemeID, d.InstallmentNo,
			pgtype.Date{Time: d.DueDate, Valid: true}, dueAmount).
			Scan(&d.ID, &d.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByFundNumber retrieves a membership by its fund number
func (r *EnrollmentRepository) GetByFundNumber(ctx context.Context, fundNumber string) (*domain.Membership, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE fund_number = $1`, fundNumber)

	membership, err := scanMembership(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return membership, nil
}

// GetByCustomer retrieves all memberships for a customer
func (r *EnrollmentRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE customer_id = $1
		ORDER BY joined_at, fund_number`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := []*domain.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// CountActive returns the number of active memberships
func (r *EnrollmentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM memberships WHERE status = $1`,
		domain.MembershipStatusActive).Scan(&count)
	return count, err
}

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var m domain.Membership
	err := row.Scan(&m.ID, &m.FundNumber, &m.CustomerID, &m.SchemeID, &m.Status,
		&m.JoinedAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
