package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/service"
)

// SchemeHandler handles scheme-related HTTP requests
type SchemeHandler struct {
	schemeService *service.SchemeService
}

// NewSchemeHandler creates a new SchemeHandler
func NewSchemeHandler(schemeService *service.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemeService: schemeService}
}

// SchemeRequest represents the create/update scheme request body.
// Amounts come in as strings to avoid float precision loss
type SchemeRequest struct {
	Name           string `json:"name"`
	TotalAmount    string `json:"totalAmount"`
	AmountPerMonth string `json:"amountPerMonth"`
	NumberOfDues   int32  `json:"numberOfDues"`
	MonthFrom      string `json:"monthFrom"` // YYYY-MM-DD
}

func (r *SchemeRequest) toInput(c echo.Context) (service.CreateSchemeInput, error) {
	totalAmount, err := decimal.NewFromString(r.TotalAmount)
	if err != nil {
		return service.CreateSchemeInput{}, NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	amountPerMonth, err := decimal.NewFromString(r.AmountPerMonth)
	if err != nil {
		return service.CreateSchemeInput{}, NewValidationError(c, "Invalid monthly amount", []ValidationError{
			{Field: "amountPerMonth", Message: "Must be a valid decimal number"},
		})
	}

	monthFrom, err := time.Parse("2006-01-02", r.MonthFrom)
	if err != nil {
		return service.CreateSchemeInput{}, NewValidationError(c, "Invalid start month", []ValidationError{
			{Field: "monthFrom", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	return service.CreateSchemeInput{
		Name:           r.Name,
		TotalAmount:    totalAmount,
		AmountPerMonth: amountPerMonth,
		NumberOfDues:   r.NumberOfDues,
		MonthFrom:      monthFrom,
	}, nil
}

func schemeServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrSchemeNotFound):
		return NewNotFoundError(c, "Scheme not found")
	case errors.Is(err, domain.ErrSchemeNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrSchemeAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalAmount", Message: "Total amount must be positive"},
		})
	case errors.Is(err, domain.ErrSchemeMonthlyInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amountPerMonth", Message: "Monthly amount must be positive"},
		})
	case errors.Is(err, domain.ErrSchemeDueCountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "numberOfDues", Message: "Number of dues must be at least 1"},
		})
	case errors.Is(err, domain.ErrSchemeMonthFromMissing):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "monthFrom", Message: "Start month is required"},
		})
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

// CreateScheme handles POST /api/v1/schemes
func (h *SchemeHandler) CreateScheme(c echo.Context) error {
	var req SchemeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errResp := req.toInput(c)
	if errResp != nil {
		return errResp
	}

	scheme, err := h.schemeService.CreateScheme(c.Request().Context(), input)
	if err != nil {
		return schemeServiceError(c, err, "Failed to create scheme")
	}

	log.Info().Int32("scheme_id", scheme.ID).Str("name", scheme.Name).Msg("Scheme created")

	return c.JSON(http.StatusCreated, scheme)
}

// GetScheme handles GET /api/v1/schemes/:id
func (h *SchemeHandler) GetScheme(c echo.Context) error {
	id, err := parseInt32Param(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid scheme ID", nil)
	}

	scheme, err := h.schemeService.GetScheme(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSchemeNotFound) {
			return NewNotFoundError(c, "Scheme not found")
		}
		log.Error().Err(err).Int32("scheme_id", id).Msg("Failed to get scheme")
		return NewInternalError(c, "Failed to get scheme")
	}

	return c.JSON(http.StatusOK, scheme)
}

// ListSchemes handles GET /api/v1/schemes
func (h *SchemeHandler) ListSchemes(c echo.Context) error {
	schemes, err := h.schemeService.ListSchemes(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list schemes")
		return NewInternalError(c, "Failed to list schemes")
	}

	return c.JSON(http.StatusOK, schemes)
}

// UpdateScheme handles PUT /api/v1/schemes/:id
func (h *SchemeHandler) UpdateScheme(c echo.Context) error {
	id, err := parseInt32Param(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid scheme ID", nil)
	}

	var req SchemeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errResp := req.toInput(c)
	if errResp != nil {
		return errResp
	}

	scheme, err := h.schemeService.UpdateScheme(c.Request().Context(), id, input)
	if err != nil {
		return schemeServiceError(c, err, "Failed to update scheme")
	}

	return c.JSON(http.StatusOK, scheme)
}

// DeleteScheme handles DELETE /api/v1/schemes/:id
func (h *SchemeHandler) DeleteScheme(c echo.Context) error {
	id, err := parseInt32Param(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid scheme ID", nil)
	}

	if err := h.schemeService.DeleteScheme(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrSchemeNotFound) {
			return NewNotFoundError(c, "Scheme not found")
		}
		log.Error().Err(err).Int32("scheme_id", id).Msg("Failed to delete scheme")
		return NewInternalError(c, "Failed to delete scheme")
	}

	return c.NoContent(http.StatusNoContent)
}

func parseInt32Param(c echo.Context, name string) (int32, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
