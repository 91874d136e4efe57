package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/service"
)

// ExportHandler handles CSV export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportDues handles GET /api/v1/exports/dues.csv
func (h *ExportHandler) ExportDues(c echo.Context) error {
	data, err := h.exportService.ExportDues(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to export dues")
		return NewInternalError(c, "Failed to export dues")
	}
	return sendCSV(c, "dues", data)
}

// ExportPayments handles GET /api/v1/exports/payments.csv?from=...&to=...
func (h *ExportHandler) ExportPayments(c echo.Context) error {
	from, err := parseDateParam(c.QueryParam("from"), time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return NewValidationError(c, "Invalid from date", []ValidationError{
			{Field: "from", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	to, err := parseDateParam(c.QueryParam("to"), time.Now().UTC())
	if err != nil {
		return NewValidationError(c, "Invalid to date", []ValidationError{
			{Field: "to", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	data, err := h.exportService.ExportPayments(c.Request().Context(), from, to)
	if err != nil {
		log.Error().Err(err).Msg("Failed to export payments")
		return NewInternalError(c, "Failed to export payments")
	}
	return sendCSV(c, "payments", data)
}

// ExportCustomers handles GET /api/v1/exports/customers.csv
func (h *ExportHandler) ExportCustomers(c echo.Context) error {
	data, err := h.exportService.ExportCustomers(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to export customers")
		return NewInternalError(c, "Failed to export customers")
	}
	return sendCSV(c, "customers", data)
}

func parseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}

func sendCSV(c echo.Context, kind string, data []byte) error {
	filename := fmt.Sprintf("%s_%s.csv", kind, time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
