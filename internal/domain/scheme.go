package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrSchemeNotFound         = errors.New("scheme not found")
	ErrSchemeNameEmpty        = errors.New("scheme name is required")
	ErrSchemeAmountInvalid    = errors.New("scheme total amount must be positive")
	ErrSchemeMonthlyInvalid   = errors.New("scheme monthly amount must be positive")
	ErrSchemeDueCountInvalid  = errors.New("number of dues must be at least 1")
	ErrSchemeMonthFromMissing = errors.New("scheme start month is required")
)

// Scheme is a chit-fund product: a fixed monthly amount collected over a fixed
// number of months. Dues copy the monthly amount at generation time, so editing
// a scheme never rewrites an existing ledger.
type Scheme struct {
	ID             int32           `json:"id"`
	Name           string          `json:"name"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AmountPerMonth decimal.Decimal `json:"amountPerMonth"`
	NumberOfDues   int32           `json:"numberOfDues"`
	MonthFrom      time.Time       `json:"monthFrom"`
	MonthTo        time.Time       `json:"monthTo"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

func (s *Scheme) Validate() error {
	if s.Name == "" {
		return ErrSchemeNameEmpty
	}
	if s.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrSchemeAmountInvalid
	}
	if s.AmountPerMonth.LessThanOrEqual(decimal.Zero) {
		return ErrSchemeMonthlyInvalid
	}
	if s.NumberOfDues < 1 {
		return ErrSchemeDueCountInvalid
	}
	if s.MonthFrom.IsZero() {
		return ErrSchemeMonthFromMissing
	}
	return nil
}

type SchemeRepository interface {
	Create(ctx context.Context, scheme *Scheme) (*Scheme, error)
	GetByID(ctx context.Context, id int32) (*Scheme, error)
	GetAll(ctx context.Context) ([]*Scheme, error)
	Update(ctx context.Context, scheme *Scheme) (*Scheme, error)
	SoftDelete(ctx context.Context, id int32) error
	Count(ctx context.Context) (int64, error)
}
