package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/service"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest represents the create customer request body
type CreateCustomerRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	AltPhone *string  `json:"altPhone,omitempty"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	Pincode  string   `json:"pincode"`
	Tags     []string `json:"tags,omitempty"`
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	customer, err := h.customerService.CreateCustomer(c.Request().Context(), service.CreateCustomerInput{
		ID:       req.ID,
		Name:     req.Name,
		Phone:    req.Phone,
		AltPhone: req.AltPhone,
		Address:  req.Address,
		City:     req.City,
		Pincode:  req.Pincode,
		Tags:     req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerIDEmpty):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "id", Message: "Customer ID is required"},
			})
		case errors.Is(err, domain.ErrCustomerIDInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "id", Message: "Customer ID may only contain letters, digits, underscore and hyphen"},
			})
		case errors.Is(err, domain.ErrCustomerNameEmpty):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrCustomerNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 200 characters or less"},
			})
		case errors.Is(err, domain.ErrCustomerPhoneInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "phone", Message: "Phone must be 10 digits"},
			})
		case errors.Is(err, domain.ErrCustomerAlreadyExists):
			return NewConflictError(c, "A customer with this ID already exists")
		}
		log.Error().Err(err).Str("customer_id", req.ID).Msg("Failed to create customer")
		return NewInternalError(c, "Failed to create customer")
	}

	log.Info().Str("customer_id", customer.ID).Msg("Customer created")

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id := c.Param("id")

	customer, err := h.customerService.GetCustomer(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return NewNotFoundError(c, "Customer not found")
		}
		log.Error().Err(err).Str("customer_id", id).Msg("Failed to get customer")
		return NewInternalError(c, "Failed to get customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	filter := domain.CustomerFilter{
		Query: c.QueryParam("q"),
		Tag:   c.QueryParam("tag"),
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return NewValidationError(c, "Invalid page", []ValidationError{
				{Field: "page", Message: "Must be an integer"},
			})
		}
		filter.Page = page
	}
	if sizeStr := c.QueryParam("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return NewValidationError(c, "Invalid page size", []ValidationError{
				{Field: "pageSize", Message: "Must be an integer"},
			})
		}
		filter.PageSize = size
	}

	page, err := h.customerService.ListCustomers(c.Request().Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list customers")
		return NewInternalError(c, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, page)
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id := c.Param("id")

	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	customer, err := h.customerService.UpdateCustomer(c.Request().Context(), id, service.UpdateCustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		AltPhone: req.AltPhone,
		Address:  req.Address,
		City:     req.City,
		Pincode:  req.Pincode,
		Tags:     req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return NewNotFoundError(c, "Customer not found")
		case errors.Is(err, domain.ErrCustomerNameEmpty):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrCustomerNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 200 characters or less"},
			})
		case errors.Is(err, domain.ErrCustomerPhoneInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "phone", Message: "Phone must be 10 digits"},
			})
		}
		log.Error().Err(err).Str("customer_id", id).Msg("Failed to update customer")
		return NewInternalError(c, "Failed to update customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id := c.Param("id")

	if err := h.customerService.DeleteCustomer(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return NewNotFoundError(c, "Customer not found")
		}
		log.Error().Err(err).Str("customer_id", id).Msg("Failed to delete customer")
		return NewInternalError(c, "Failed to delete customer")
	}

	log.Info().Str("customer_id", id).Msg("Customer deleted")

	return c.NoContent(http.StatusNoContent)
}
