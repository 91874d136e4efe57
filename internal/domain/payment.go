package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentAmountInvalid = errors.New("payment amount must be positive")
	ErrPaymentDateMissing   = errors.New("payment date is required")
	ErrPaymentModeInvalid   = errors.New("payment mode is not recognised")
)

// Payment modes accepted at the counter
const (
	PaymentModeCash = "Cash"
	PaymentModeUPI  = "UPI"
	PaymentModeBank = "Bank"
)

// Payment is one immutable payment event against one due installment. Rows are
// append-only: reversals do not exist, corrections are new payments. Multiple
// payments may target the same installment (partial/split payments).
type Payment struct {
	ID            int32           `json:"id"`
	FundNumber    string          `json:"fundNumber"`
	InstallmentNo int32           `json:"installmentNo"`
	Amount        decimal.Decimal `json:"amount"`
	PaidDate      time.Time       `json:"paidDate"`
	Mode          string          `json:"mode"`
	Reference     *string         `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (p *Payment) Validate() error {
	if !ValidFundNumber(p.FundNumber) {
		return ErrFundNumberInvalid
	}
	if p.InstallmentNo < 1 {
		return ErrDueInstallmentInvalid
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentAmountInvalid
	}
	if p.PaidDate.IsZero() {
		return ErrPaymentDateMissing
	}
	switch p.Mode {
	case PaymentModeCash, PaymentModeUPI, PaymentModeBank:
	default:
		return ErrPaymentModeInvalid
	}
	return nil
}

type PaymentRepository interface {
	// RecordWithDueUpdate inserts the payment row and applies the additive
	// received-amount update to the matching due row in one transaction. The
	// increment is a single SQL statement, so concurrent payments against the
	// same installment serialize on the row lock instead of losing updates.
	// If no due row matches, the transaction rolls back and ErrDueNotFound is
	// returned: an orphaned payment is never committed.
	RecordWithDueUpdate(ctx context.Context, payment *Payment) (*Payment, *Due, error)
	GetByFundNumber(ctx context.Context, fundNumber string) ([]*Payment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*Payment, error)
	SumReceivedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
