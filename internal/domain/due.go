package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDueNotFound           = errors.New("due installment not found")
	ErrDueInstallmentInvalid = errors.New("installment number must be at least 1")
)

// DueStatus is the derived payment state of one installment
type DueStatus string

const (
	DueStatusUnpaid        DueStatus = "Unpaid"
	DueStatusPartiallyPaid DueStatus = "Partially Paid"
	DueStatusPaid          DueStatus = "Paid"
)

// Due is one scheduled installment obligation on an enrollment. Rows are
// created once at enrollment time; only the payment reconciler mutates the
// received amount, which never decreases.
type Due struct {
	ID             int32           `json:"id"`
	FundNumber     string          `json:"fundNumber"`
	SchemeID       int32           `json:"schemeId"`
	InstallmentNo  int32           `json:"installmentNo"`
	DueDate        time.Time       `json:"dueDate"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	LastReceivedAt *time.Time      `json:"lastReceivedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Status reports Paid when the received amount has reached the due amount,
// including exact equality and overpayment.
func (d *Due) Status() DueStatus {
	switch {
	case d.ReceivedAmount.GreaterThanOrEqual(d.DueAmount):
		return DueStatusPaid
	case d.ReceivedAmount.GreaterThan(decimal.Zero):
		return DueStatusPartiallyPaid
	default:
		return DueStatusUnpaid
	}
}

// Outstanding returns the amount still pending, never negative
func (d *Due) Outstanding() decimal.Decimal {
	out := d.DueAmount.Sub(d.ReceivedAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

type DueRepository interface {
	GetLedger(ctx context.Context, fundNumber string) ([]*Due, error)
	GetByInstallment(ctx context.Context, fundNumber string, installmentNo int32) (*Due, error)
	GetPending(ctx context.Context, fundNumber string) ([]*Due, error)
	ListAll(ctx context.Context) ([]*Due, error)
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
}
