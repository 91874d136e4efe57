package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/service"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	FundNumber    string  `json:"fundNumber"`
	InstallmentNo int32   `json:"installmentNo"`
	Amount        string  `json:"amount"`
	PaidDate      string  `json:"paidDate"` // YYYY-MM-DD
	Mode          string  `json:"mode"`
	Reference     *string `json:"reference,omitempty"`
}

// RecordPayment handles POST /api/v1/payments
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	paidDate, err := time.Parse("2006-01-02", req.PaidDate)
	if err != nil {
		return NewValidationError(c, "Invalid paid date", []ValidationError{
			{Field: "paidDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	result, err := h.paymentService.RecordPayment(c.Request().Context(), service.RecordPaymentInput{
		FundNumber:    req.FundNumber,
		InstallmentNo: req.InstallmentNo,
		Amount:        amount,
		PaidDate:      paidDate,
		Mode:          req.Mode,
		Reference:     req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "fundNumber", Message: "Fund number must match YYYY_MM_RRRR"},
			})
		case errors.Is(err, domain.ErrDueInstallmentInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installmentNo", Message: "Installment number must be at least 1"},
			})
		case errors.Is(err, domain.ErrPaymentAmountInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		case errors.Is(err, domain.ErrPaymentModeInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "mode", Message: "Mode must be Cash, UPI or Bank"},
			})
		case errors.Is(err, domain.ErrEnrollmentNotFound):
			return NewNotFoundError(c, "Enrollment not found")
		case errors.Is(err, domain.ErrDueNotFound):
			return NewNotFoundError(c, "Due installment not found")
		}
		log.Error().Err(err).Str("fund_number", req.FundNumber).Msg("Failed to record payment")
		return NewInternalError(c, "Failed to record payment")
	}

	return c.JSON(http.StatusCreated, result)
}

// PayAllRequest represents the pay-all-remaining request body
type PayAllRequest struct {
	PaidDate string `json:"paidDate,omitempty"` // YYYY-MM-DD, defaults to today
	Mode     string `json:"mode"`
}

// PayAllRemaining handles POST /api/v1/enrollments/:fundNumber/pay-all
func (h *PaymentHandler) PayAllRemaining(c echo.Context) error {
	fundNumber := c.Param("fundNumber")

	var req PayAllRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var paidDate time.Time
	if req.PaidDate != "" {
		var err error
		paidDate, err = time.Parse("2006-01-02", req.PaidDate)
		if err != nil {
			return NewValidationError(c, "Invalid paid date", []ValidationError{
				{Field: "paidDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	result, err := h.paymentService.PayAllRemaining(c.Request().Context(), fundNumber, paidDate, req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Invalid fund number", nil)
		case errors.Is(err, domain.ErrPaymentModeInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "mode", Message: "Mode must be Cash, UPI or Bank"},
			})
		case errors.Is(err, domain.ErrEnrollmentNotFound):
			return NewNotFoundError(c, "Enrollment not found")
		}
		log.Error().Err(err).Str("fund_number", fundNumber).Msg("Failed to pay all remaining")
		return NewInternalError(c, "Failed to pay all remaining")
	}

	return c.JSON(http.StatusOK, result)
}

// GetPayments handles GET /api/v1/enrollments/:fundNumber/payments
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	fundNumber := c.Param("fundNumber")

	payments, err := h.paymentService.GetPayments(c.Request().Context(), fundNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Invalid fund number", nil)
		case errors.Is(err, domain.ErrEnrollmentNotFound):
			return NewNotFoundError(c, "Enrollment not found")
		}
		log.Error().Err(err).Str("fund_number", fundNumber).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}

	return c.JSON(http.StatusOK, payments)
}
