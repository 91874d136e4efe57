package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAmountInvalid    = errors.New("order total must be positive")
	ErrOrderAdvanceInvalid   = errors.New("order advance cannot be negative or exceed the total")
	ErrOrderStatusInvalid    = errors.New("order status is not recognised")
	ErrOrderStatusTransition = errors.New("order status transition not allowed")
)

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order is a customer purchase order tracked alongside the chit ledger
type Order struct {
	ID            int32           `json:"id"`
	CustomerID    string          `json:"customerId"`
	OrderDate     time.Time       `json:"orderDate"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AdvanceAmount decimal.Decimal `json:"advanceAmount"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrCustomerIDEmpty
	}
	if o.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrOrderAmountInvalid
	}
	if o.AdvanceAmount.IsNegative() || o.AdvanceAmount.GreaterThan(o.TotalAmount) {
		return ErrOrderAdvanceInvalid
	}
	if !validOrderStatus(o.Status) {
		return ErrOrderStatusInvalid
	}
	return nil
}

func validOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from its current status to
// the target. Delivered and Cancelled are terminal.
func (o *Order) CanTransition(to string) bool {
	if !validOrderStatus(to) {
		return false
	}
	switch o.Status {
	case OrderStatusPending:
		return to == OrderStatusConfirmed || to == OrderStatusCancelled
	case OrderStatusConfirmed:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	}
	return false
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	GetByID(ctx context.Context, id int32) (*Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	Update(ctx context.Context, order *Order) (*Order, error)
	UpdateStatus(ctx context.Context, id int32, status string) (*Order, error)
}
