package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusDelivered, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusPending, "Shipped", false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.from}
		if got := o.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderValidate_AdvanceBounds(t *testing.T) {
	o := &Order{
		CustomerID:    "CUST001",
		Status:        OrderStatusPending,
		TotalAmount:   decimal.NewFromInt(5000),
		AdvanceAmount: decimal.NewFromInt(6000),
	}
	if err := o.Validate(); err != ErrOrderAdvanceInvalid {
		t.Errorf("expected ErrOrderAdvanceInvalid, got %v", err)
	}

	o.AdvanceAmount = decimal.NewFromInt(1000)
	if err := o.Validate(); err != nil {
		t.Errorf("expected valid order, got %v", err)
	}
}
