package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	ws "github.com/vasantham/chit-backend/internal/websocket"
)

// PaymentService handles payment recording and reconciliation
type PaymentService struct {
	paymentRepo    domain.PaymentRepository
	enrollmentRepo domain.EnrollmentRepository
	dueRepo        domain.DueRepository
	publisher      ws.EventPublisher
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	enrollmentRepo domain.EnrollmentRepository,
	dueRepo domain.DueRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		enrollmentRepo: enrollmentRepo,
		dueRepo:        dueRepo,
		publisher:      &ws.NoOpPublisher{},
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher for dashboard events
func (s *PaymentService) SetEventPublisher(publisher ws.EventPublisher) {
	s.publisher = publisher
}

// RecordPaymentInput contains input for recording one payment
type RecordPaymentInput struct {
	FundNumber    string
	InstallmentNo int32
	Amount        decimal.Decimal
	PaidDate      time.Time
	Mode          string
	Reference     *string
}

// RecordPaymentResult is the payment together with the updated due row
type RecordPaymentResult struct {
	Payment *domain.Payment `json:"payment"`
	Due     *domain.Due     `json:"due"`
}

// RecordPayment records one payment against one due installment and applies
// the additive received-amount update. Overpayment is accepted; the due simply
// reports Paid once the received amount reaches the due amount.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*RecordPaymentResult, error) {
	payment := &domain.Payment{
		FundNumber:    input.FundNumber,
		InstallmentNo: input.InstallmentNo,
		Amount:        input.Amount,
		PaidDate:      input.PaidDate,
		Mode:          input.Mode,
		Reference:     input.Reference,
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	// The enrollment must exist; a payment against an unknown fund number is
	// rejected, never silently dropped
	if _, err := s.enrollmentRepo.GetByFundNumber(ctx, payment.FundNumber); err != nil {
		return nil, err
	}

	recorded, due, err := s.paymentRepo.RecordWithDueUpdate(ctx, payment)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("fund_number", recorded.FundNumber).
		Int32("installment_no", recorded.InstallmentNo).
		Str("amount", recorded.Amount.String()).
		Str("status", string(due.Status())).
		Msg("Payment recorded")

	s.publisher.Publish(ws.PaymentRecorded(&RecordPaymentResult{Payment: recorded, Due: due}))

	return &RecordPaymentResult{Payment: recorded, Due: due}, nil
}

// PayAllResult summarizes a pay-all-remaining run
type PayAllResult struct {
	FundNumber  string            `json:"fundNumber"`
	Reference   string            `json:"reference"`
	DuesPaid    int               `json:"duesPaid"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Payments    []*domain.Payment `json:"payments"`
}

// PayAllRemaining settles every pending due on an enrollment in one go. Each
// pending installment gets its own payment row for exactly its outstanding
// amount, all sharing a generated reference so the batch can be traced.
func (s *PaymentService) PayAllRemaining(ctx context.Context, fundNumber string, paidDate time.Time, mode string) (*PayAllResult, error) {
	if !domain.ValidFundNumber(fundNumber) {
		return nil, domain.ErrFundNumberInvalid
	}
	if paidDate.IsZero() {
		paidDate = s.now()
	}
	switch mode {
	case domain.PaymentModeCash, domain.PaymentModeUPI, domain.PaymentModeBank:
	default:
		return nil, domain.ErrPaymentModeInvalid
	}

	if _, err := s.enrollmentRepo.GetByFundNumber(ctx, fundNumber); err != nil {
		return nil, err
	}

	pending, err := s.dueRepo.GetPending(ctx, fundNumber)
	if err != nil {
		return nil, err
	}

	reference := "batch_" + uuid.New().String()
	result := &PayAllResult{
		FundNumber:  fundNumber,
		Reference:   reference,
		TotalAmount: decimal.Zero,
		Payments:    make([]*domain.Payment, 0, len(pending)),
	}

	for _, due := range pending {
		outstanding := due.Outstanding()
		if outstanding.IsZero() {
			continue
		}

		payment := &domain.Payment{
			FundNumber:    fundNumber,
			InstallmentNo: due.InstallmentNo,
			Amount:        outstanding,
			PaidDate:      paidDate,
			Mode:          mode,
			Reference:     &reference,
		}

		recorded, _, err := s.paymentRepo.RecordWithDueUpdate(ctx, payment)
		if err != nil {
			// Earlier rows in the batch are already committed and stay paid
			log.Error().
				Err(err).
				Str("fund_number", fundNumber).
				Int32("installment_no", due.InstallmentNo).
				Int("dues_paid", result.DuesPaid).
				Msg("Pay-all batch stopped mid-way")
			return nil, err
		}

		result.Payments = append(result.Payments, recorded)
		result.DuesPaid++
		result.TotalAmount = result.TotalAmount.Add(outstanding)
	}

	log.Info().
		Str("fund_number", fundNumber).
		Int("dues_paid", result.DuesPaid).
		Str("total_amount", result.TotalAmount.String()).
		Msg("Pay-all completed")

	s.publisher.Publish(ws.PaymentBatchPaid(result))

	return result, nil
}

// GetPayments returns the payment history for an enrollment
func (s *PaymentService) GetPayments(ctx context.Context, fundNumber string) ([]*domain.Payment, error) {
	if !domain.ValidFundNumber(fundNumber) {
		return nil, domain.ErrFundNumberInvalid
	}
	if _, err := s.enrollmentRepo.GetByFundNumber(ctx, fundNumber); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByFundNumber(ctx, fundNumber)
}
