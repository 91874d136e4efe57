package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/util"
)

// SchemeService handles scheme business logic
type SchemeService struct {
	schemeRepo domain.SchemeRepository
}

// NewSchemeService creates a new SchemeService
func NewSchemeService(schemeRepo domain.SchemeRepository) *SchemeService {
	return &SchemeService{schemeRepo: schemeRepo}
}

// CreateSchemeInput contains input for creating a scheme
type CreateSchemeInput struct {
	Name           string
	TotalAmount    decimal.Decimal
	AmountPerMonth decimal.Decimal
	NumberOfDues   int32
	MonthFrom      time.Time
}

// CreateScheme creates a new scheme. MonthTo is derived from MonthFrom and the
// number of dues, never accepted from the caller
func (s *SchemeService) CreateScheme(ctx context.Context, input CreateSchemeInput) (*domain.Scheme, error) {
	scheme := &domain.Scheme{
		Name:           strings.TrimSpace(input.Name),
		TotalAmount:    input.TotalAmount,
		AmountPerMonth: input.AmountPerMonth,
		NumberOfDues:   input.NumberOfDues,
		MonthFrom:      input.MonthFrom,
	}

	if err := scheme.Validate(); err != nil {
		return nil, err
	}

	scheme.MonthTo = util.AddMonths(scheme.MonthFrom, int(scheme.NumberOfDues)-1)

	return s.schemeRepo.Create(ctx, scheme)
}

// GetScheme retrieves a scheme by ID
func (s *SchemeService) GetScheme(ctx context.Context, id int32) (*domain.Scheme, error) {
	if id <= 0 {
		return nil, domain.ErrSchemeNotFound
	}
	return s.schemeRepo.GetByID(ctx, id)
}

// ListSchemes returns every scheme
func (s *SchemeService) ListSchemes(ctx context.Context) ([]*domain.Scheme, error) {
	return s.schemeRepo.GetAll(ctx)
}

// UpdateScheme updates an existing scheme. Existing due rows carry their own
// copy of the amounts, so edits only affect future enrollments
func (s *SchemeService) UpdateScheme(ctx context.Context, id int32, input CreateSchemeInput) (*domain.Scheme, error) {
	existing, err := s.schemeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &domain.Scheme{
		ID:             existing.ID,
		Name:           strings.TrimSpace(input.Name),
		TotalAmount:    input.TotalAmount,
		AmountPerMonth: input.AmountPerMonth,
		NumberOfDues:   input.NumberOfDues,
		MonthFrom:      input.MonthFrom,
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.MonthTo = util.AddMonths(updated.MonthFrom, int(updated.NumberOfDues)-1)

	return s.schemeRepo.Update(ctx, updated)
}

// DeleteScheme soft-deletes a scheme
func (s *SchemeService) DeleteScheme(ctx context.Context, id int32) error {
	if id <= 0 {
		return domain.ErrSchemeNotFound
	}
	return s.schemeRepo.SoftDelete(ctx, id)
}
