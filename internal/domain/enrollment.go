package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

var (
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrFundNumberInvalid   = errors.New("fund number must match YYYY_MM_RRRR")
	ErrFundNumberDuplicate = errors.New("fund number already in use")
	ErrNoSchemesRequested  = errors.New("at least one scheme is required")
	ErrEnrollmentNotActive = errors.New("enrollment is not active")
)

// Membership statuses
const (
	MembershipStatusActive = "Active"
	MembershipStatusClosed = "Closed"
)

var fundNumberPattern = regexp.MustCompile(`^[0-9]{4}_[0-9]{2}_[0-9]{4}$`)

// Membership links one customer to one scheme under a unique fund number.
// At most one active membership exists per (customer, scheme) pair; assigning
// schemes replaces all of the customer's prior memberships.
type Membership struct {
	ID         int32     `json:"id"`
	FundNumber string    `json:"fundNumber"`
	CustomerID string    `json:"customerId"`
	SchemeID   int32     `json:"schemeId"`
	Status     string    `json:"status"`
	JoinedAt   time.Time `json:"joinedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (m *Membership) Validate() error {
	if m.CustomerID == "" {
		return ErrCustomerIDEmpty
	}
	if m.SchemeID <= 0 {
		return ErrSchemeNotFound
	}
	if !ValidFundNumber(m.FundNumber) {
		return ErrFundNumberInvalid
	}
	return nil
}

// NewFundNumber generates a fund number for the given creation time, format
// YYYY_MM_RRRR with a 4-digit random suffix. Collisions are not checked here;
// the memberships unique constraint catches them at insert time and the
// enrollment writer retries with a fresh number.
func NewFundNumber(t time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%04d_%02d_%04d", t.Year(), int(t.Month()), n.Int64()+1000)
}

// ValidFundNumber reports whether s matches the YYYY_MM_RRRR format
func ValidFundNumber(s string) bool {
	return fundNumberPattern.MatchString(s)
}

// EnrollmentLedger is a membership together with its due rows
type EnrollmentLedger struct {
	Membership *Membership `json:"membership"`
	Dues       []*Due      `json:"dues"`
}

type EnrollmentRepository interface {
	// ReplaceForCustomer deletes every membership and due row belonging to the
	// customer, then inserts the given memberships and dues, all in one
	// transaction. A unique-constraint violation on a fund number is reported
	// as ErrFundNumberDuplicate after the whole transaction rolls back.
	ReplaceForCustomer(ctx context.Context, customerID string, memberships []*Membership, dues []*Due) error
	GetByFundNumber(ctx context.Context, fundNumber string) (*Membership, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*Membership, error)
	CountActive(ctx context.Context) (int64, error)
}
