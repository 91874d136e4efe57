package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/util"
	ws "github.com/vasantham/chit-backend/internal/websocket"
)

// fundNumberRetries is how many times AssignSchemes retries after a random
// fund number collides with an existing one
const fundNumberRetries = 3

// EnrollmentService handles scheme assignment and due schedule generation
type EnrollmentService struct {
	enrollmentRepo domain.EnrollmentRepository
	customerRepo   domain.CustomerRepository
	schemeRepo     domain.SchemeRepository
	dueRepo        domain.DueRepository
	publisher      ws.EventPublisher
	now            func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo domain.EnrollmentRepository,
	customerRepo domain.CustomerRepository,
	schemeRepo domain.SchemeRepository,
	dueRepo domain.DueRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		customerRepo:   customerRepo,
		schemeRepo:     schemeRepo,
		dueRepo:        dueRepo,
		publisher:      &ws.NoOpPublisher{},
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher for dashboard events
func (s *EnrollmentService) SetEventPublisher(publisher ws.EventPublisher) {
	s.publisher = publisher
}

// AssignSchemes replaces the customer's entire enrollment set with the given
// schemes. Every prior membership and due row of the customer is deleted and a
// fresh membership plus full due schedule is written for each requested scheme,
// all in one transaction. Payment history is untouched.
//
// fundNumber is optional. When set it is used verbatim for the first scheme
// and remaining schemes get generated numbers; a duplicate is then surfaced
// immediately instead of retried, regenerating cannot change a supplied number.
func (s *EnrollmentService) AssignSchemes(ctx context.Context, customerID string, schemeIDs []int32, fundNumber string) ([]*domain.Membership, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerIDEmpty
	}
	if len(schemeIDs) == 0 {
		return nil, domain.ErrNoSchemesRequested
	}
	if fundNumber != "" && !domain.ValidFundNumber(fundNumber) {
		return nil, domain.ErrFundNumberInvalid
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Resolve every scheme up front so a bad ID fails before anything is
	// deleted
	schemes := make([]*domain.Scheme, 0, len(schemeIDs))
	for _, schemeID := range schemeIDs {
		scheme, err := s.schemeRepo.GetByID(ctx, schemeID)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}

	retries := fundNumberRetries
	if fundNumber != "" {
		retries = 0
	}

	var memberships []*domain.Membership
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		now := s.now()
		memberships = make([]*domain.Membership, 0, len(schemes))
		dues := make([]*domain.Due, 0)

		for i, scheme := range schemes {
			number := fundNumber
			if i > 0 || number == "" {
				number = domain.NewFundNumber(now)
			}
			memberships = append(memberships, &domain.Membership{
				FundNumber: number,
				CustomerID: customer.ID,
				SchemeID:   scheme.ID,
				Status:     domain.MembershipStatusActive,
				JoinedAt:   now,
			})
			dues = append(dues, BuildDueSchedule(number, scheme)...)
		}

		lastErr = s.enrollmentRepo.ReplaceForCustomer(ctx, customer.ID, memberships, dues)
		if lastErr == nil {
			break
		}
		if lastErr != domain.ErrFundNumberDuplicate {
			return nil, lastErr
		}
		if attempt < retries {
			log.Warn().
				Str("customer_id", customer.ID).
				Int("attempt", attempt+1).
				Msg("Fund number collision, regenerating")
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.publisher.Publish(ws.EnrollmentCreated(map[string]interface{}{
		"customerId":  customer.ID,
		"memberships": memberships,
	}))

	return memberships, nil
}

// BuildDueSchedule generates the full due schedule for one enrollment. Due i
// falls i-1 calendar months after the scheme's start month, with the day
// clamped to the target month's length. Amounts are copied from the scheme so
// later scheme edits never rewrite the ledger.
func BuildDueSchedule(fundNumber string, scheme *domain.Scheme) []*domain.Due {
	dues := make([]*domain.Due, 0, scheme.NumberOfDues)
	for i := int32(1); i <= scheme.NumberOfDues; i++ {
		dues = append(dues, &domain.Due{
			FundNumber:     fundNumber,
			SchemeID:       scheme.ID,
			InstallmentNo:  i,
			DueDate:        util.AddMonths(scheme.MonthFrom, int(i)-1),
			DueAmount:      scheme.AmountPerMonth,
			ReceivedAmount: decimal.Zero,
		})
	}
	return dues
}

// GetEnrollment returns a membership with its full due ledger
func (s *EnrollmentService) GetEnrollment(ctx context.Context, fundNumber string) (*domain.EnrollmentLedger, error) {
	if !domain.ValidFundNumber(fundNumber) {
		return nil, domain.ErrFundNumberInvalid
	}

	membership, err := s.enrollmentRepo.GetByFundNumber(ctx, fundNumber)
	if err != nil {
		return nil, err
	}

	dues, err := s.dueRepo.GetLedger(ctx, fundNumber)
	if err != nil {
		return nil, err
	}

	return &domain.EnrollmentLedger{Membership: membership, Dues: dues}, nil
}

// GetCustomerEnrollments returns every membership belonging to a customer
func (s *EnrollmentService) GetCustomerEnrollments(ctx context.Context, customerID string) ([]*domain.Membership, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerIDEmpty
	}
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.GetByCustomer(ctx, customerID)
}

// GetPendingDues returns the unpaid and partially paid dues for an enrollment
func (s *EnrollmentService) GetPendingDues(ctx context.Context, fundNumber string) ([]*domain.Due, error) {
	if !domain.ValidFundNumber(fundNumber) {
		return nil, domain.ErrFundNumberInvalid
	}
	if _, err := s.enrollmentRepo.GetByFundNumber(ctx, fundNumber); err != nil {
		return nil, err
	}
	return s.dueRepo.GetPending(ctx, fundNumber)
}
