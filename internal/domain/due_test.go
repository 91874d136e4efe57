package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDueStatus_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		received string
		want     DueStatus
	}{
		{"nothing received", "1000", "0", DueStatusUnpaid},
		{"partial", "1000", "400", DueStatusPartiallyPaid},
		{"one short", "1000", "999.99", DueStatusPartiallyPaid},
		{"exact equality is paid", "1000", "1000", DueStatusPaid},
		{"overpayment is paid", "1000", "1500", DueStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := &Due{
				DueAmount:      decimal.RequireFromString(tt.due),
				ReceivedAmount: decimal.RequireFromString(tt.received),
			}
			if got := due.Status(); got != tt.want {
				t.Errorf("Status() with due=%s recd=%s = %s, want %s",
					tt.due, tt.received, got, tt.want)
			}
		})
	}
}

func TestDueOutstanding(t *testing.T) {
	due := &Due{
		DueAmount:      decimal.NewFromInt(1000),
		ReceivedAmount: decimal.NewFromInt(400),
	}
	if !due.Outstanding().Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected outstanding 600, got %s", due.Outstanding())
	}
}

func TestDueOutstanding_OverpaymentClampsToZero(t *testing.T) {
	due := &Due{
		DueAmount:      decimal.NewFromInt(1000),
		ReceivedAmount: decimal.NewFromInt(1500),
	}
	if !due.Outstanding().IsZero() {
		t.Errorf("expected outstanding 0 after overpayment, got %s", due.Outstanding())
	}
}
