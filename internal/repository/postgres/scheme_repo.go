package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasantham/chit-backend/internal/domain"
)

const schemeColumns = `id, name, total_amount, amount_per_month, number_of_dues, month_from, month_to, created_at, updated_at, deleted_at`

// SchemeRepository implements domain.SchemeRepository using PostgreSQL
type SchemeRepository struct {
	pool *pgxpool.Pool
}

// NewSchemeRepository creates a new SchemeRepository
func NewSchemeRepository(pool *pgxpool.Pool) *SchemeRepository {
	return &SchemeRepository{pool: pool}
}

// Create inserts a new scheme
func (r *SchemeRepository) Create(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	totalAmount, err := decimalToPgNumeric(scheme.TotalAmount)
	if err != nil {
		return nil, err
	}
	amountPerMonth, err := decimalToPgNumeric(scheme.AmountPerMonth)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO schemes (name, total_amount, amount_per_month, number_of_dues, month_from, month_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+schemeColumns,
		scheme.Name, totalAmount, amountPerMonth, scheme.NumberOfDues,
		pgtype.Date{Time: scheme.MonthFrom, Valid: true},
		pgtype.Date{Time: scheme.MonthTo, Valid: true})

	return scanScheme(row)
}

// GetByID retrieves a scheme by ID
func (r *SchemeRepository) GetByID(ctx context.Context, id int32) (*domain.Scheme, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+schemeColumns+`
		FROM schemes
		WHERE id = $1 AND deleted_at IS NULL`, id)

	scheme, err := scanScheme(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSchemeNotFound
		}
		return nil, err
	}
	return scheme, nil
}

// GetAll retrieves all active schemes
func (r *SchemeRepository) GetAll(ctx context.Context) ([]*domain.Scheme, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+schemeColumns+`
		FROM schemes
		WHERE deleted_at IS NULL
		ORDER BY month_from, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schemes := []*domain.Scheme{}
	for rows.Next() {
		scheme, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	return schemes, rows.Err()
}

// Update updates a scheme. Existing due rows keep the amounts copied at
// generation time; this never rewrites a ledger.
func (r *SchemeRepository) Update(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	totalAmount, err := decimalToPgNumeric(scheme.TotalAmount)
	if err != nil {
		return nil, err
	}
	amountPerMonth, err := decimalToPgNumeric(scheme.AmountPerMonth)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE schemes
		SET name = $2, total_amount = $3, amount_per_month = $4, number_of_dues = $5,
		    month_from = $6, month_to = $7, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+schemeColumns,
		scheme.ID, scheme.Name, totalAmount, amountPerMonth, scheme.NumberOfDues,
		pgtype.Date{Time: scheme.MonthFrom, Valid: true},
		pgtype.Date{Time: scheme.MonthTo, Valid: true})

	updated, err := scanScheme(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSchemeNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a scheme as deleted
func (r *SchemeRepository) SoftDelete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE schemes SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSchemeNotFound
	}
	return nil
}

// Count returns the number of active schemes
func (r *SchemeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM schemes WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

func scanScheme(row pgx.Row) (*domain.Scheme, error) {
	var s domain.Scheme
	var totalAmount, amountPerMonth pgtype.Numeric
	var monthFrom, monthTo pgtype.Date

	err := row.Scan(&s.ID, &s.Name, &totalAmount, &amountPerMonth, &s.NumberOfDues,
		&monthFrom, &monthTo, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		return nil, err
	}

	s.TotalAmount = pgNumericToDecimal(totalAmount)
	s.AmountPerMonth = pgNumericToDecimal(amountPerMonth)
	s.MonthFrom = monthFrom.Time
	s.MonthTo = monthTo.Time
	return &s, nil
}
