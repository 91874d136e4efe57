package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/service"
)

// EnrollmentHandler handles enrollment-related HTTP requests
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// AssignSchemesRequest represents the assign schemes request body. FundNumber
// is optional; when omitted a fund number is generated per scheme
type AssignSchemesRequest struct {
	SchemeIDs  []int32 `json:"schemeIds"`
	FundNumber string  `json:"fundNumber,omitempty"`
}

// AssignSchemes handles POST /api/v1/customers/:id/schemes.
// The customer's entire enrollment set is replaced by the requested schemes
func (h *EnrollmentHandler) AssignSchemes(c echo.Context) error {
	customerID := c.Param("id")

	var req AssignSchemesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	memberships, err := h.enrollmentService.AssignSchemes(c.Request().Context(), customerID, req.SchemeIDs, req.FundNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return NewNotFoundError(c, "Customer not found")
		case errors.Is(err, domain.ErrSchemeNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "schemeIds", Message: "One or more schemes do not exist"},
			})
		case errors.Is(err, domain.ErrNoSchemesRequested):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "schemeIds", Message: "At least one scheme is required"},
			})
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "fundNumber", Message: "Fund number must match YYYY_MM_RRRR"},
			})
		case errors.Is(err, domain.ErrFundNumberDuplicate):
			return NewConflictError(c, "Fund number already in use")
		}
		log.Error().Err(err).Str("customer_id", customerID).Msg("Failed to assign schemes")
		return NewInternalError(c, "Failed to assign schemes")
	}

	log.Info().
		Str("customer_id", customerID).
		Int("memberships", len(memberships)).
		Msg("Schemes assigned")

	return c.JSON(http.StatusCreated, memberships)
}

// GetCustomerEnrollments handles GET /api/v1/customers/:id/schemes
func (h *EnrollmentHandler) GetCustomerEnrollments(c echo.Context) error {
	customerID := c.Param("id")

	memberships, err := h.enrollmentService.GetCustomerEnrollments(c.Request().Context(), customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return NewNotFoundError(c, "Customer not found")
		}
		log.Error().Err(err).Str("customer_id", customerID).Msg("Failed to get enrollments")
		return NewInternalError(c, "Failed to get enrollments")
	}

	return c.JSON(http.StatusOK, memberships)
}

// GetEnrollment handles GET /api/v1/enrollments/:fundNumber
func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	fundNumber := c.Param("fundNumber")

	ledger, err := h.enrollmentService.GetEnrollment(c.Request().Context(), fundNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Invalid fund number", nil)
		case errors.Is(err, domain.ErrEnrollmentNotFound):
			return NewNotFoundError(c, "Enrollment not found")
		}
		log.Error().Err(err).Str("fund_number", fundNumber).Msg("Failed to get enrollment")
		return NewInternalError(c, "Failed to get enrollment")
	}

	return c.JSON(http.StatusOK, ledger)
}

// GetPendingDues handles GET /api/v1/enrollments/:fundNumber/pending
func (h *EnrollmentHandler) GetPendingDues(c echo.Context) error {
	fundNumber := c.Param("fundNumber")

	pending, err := h.enrollmentService.GetPendingDues(c.Request().Context(), fundNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFundNumberInvalid):
			return NewValidationError(c, "Invalid fund number", nil)
		case errors.Is(err, domain.ErrEnrollmentNotFound):
			return NewNotFoundError(c, "Enrollment not found")
		}
		log.Error().Err(err).Str("fund_number", fundNumber).Msg("Failed to get pending dues")
		return NewInternalError(c, "Failed to get pending dues")
	}

	return c.JSON(http.StatusOK, pending)
}
