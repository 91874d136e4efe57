package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/util"
)

// DashboardSummary is the operator's at-a-glance view of the business
type DashboardSummary struct {
	TotalCustomers       int64           `json:"totalCustomers"`
	TotalSchemes         int64           `json:"totalSchemes"`
	ActiveEnrollments    int64           `json:"activeEnrollments"`
	TotalOutstanding     decimal.Decimal `json:"totalOutstanding"`
	CollectionsThisMonth decimal.Decimal `json:"collectionsThisMonth"`
	Month                string          `json:"month"`
}

// DashboardService aggregates counts and totals for the dashboard
type DashboardService struct {
	customerRepo   domain.CustomerRepository
	schemeRepo     domain.SchemeRepository
	enrollmentRepo domain.EnrollmentRepository
	dueRepo        domain.DueRepository
	paymentRepo    domain.PaymentRepository
	now            func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	customerRepo domain.CustomerRepository,
	schemeRepo domain.SchemeRepository,
	enrollmentRepo domain.EnrollmentRepository,
	dueRepo domain.DueRepository,
	paymentRepo domain.PaymentRepository,
) *DashboardService {
	return &DashboardService{
		customerRepo:   customerRepo,
		schemeRepo:     schemeRepo,
		enrollmentRepo: enrollmentRepo,
		dueRepo:        dueRepo,
		paymentRepo:    paymentRepo,
		now:            time.Now,
	}
}

// GetSummary returns the dashboard summary for the current month
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()

	customers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	schemes, err := s.schemeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.dueRepo.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := util.MonthBounds(now)
	collections, err := s.paymentRepo.SumReceivedBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalCustomers:       customers,
		TotalSchemes:         schemes,
		ActiveEnrollments:    enrollments,
		TotalOutstanding:     outstanding,
		CollectionsThisMonth: collections,
		Month:                now.Format("2006-01"),
	}, nil
}
