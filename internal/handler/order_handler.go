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

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents the create order request body
type CreateOrderRequest struct {
	CustomerID    string  `json:"customerId"`
	OrderDate     string  `json:"orderDate,omitempty"` // YYYY-MM-DD, defaults to today
	TotalAmount   string  `json:"totalAmount"`
	AdvanceAmount string  `json:"advanceAmount,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest represents the update status request body
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	advanceAmount := decimal.Zero
	if req.AdvanceAmount != "" {
		advanceAmount, err = decimal.NewFromString(req.AdvanceAmount)
		if err != nil {
			return NewValidationError(c, "Invalid advance amount", []ValidationError{
				{Field: "advanceAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	var orderDate time.Time
	if req.OrderDate != "" {
		orderDate, err = time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return NewValidationError(c, "Invalid order date", []ValidationError{
				{Field: "orderDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		CustomerID:    req.CustomerID,
		OrderDate:     orderDate,
		TotalAmount:   totalAmount,
		AdvanceAmount: advanceAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return NewNotFoundError(c, "Customer not found")
		case errors.Is(err, domain.ErrCustomerIDEmpty):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "customerId", Message: "Customer ID is required"},
			})
		case errors.Is(err, domain.ErrOrderAmountInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Total amount must be positive"},
			})
		case errors.Is(err, domain.ErrOrderAdvanceInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "advanceAmount", Message: "Advance cannot be negative or exceed the total"},
			})
		}
		log.Error().Err(err).Str("customer_id", req.CustomerID).Msg("Failed to create order")
		return NewInternalError(c, "Failed to create order")
	}

	log.Info().Int32("order_id", order.ID).Str("customer_id", order.CustomerID).Msg("Order created")

	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseInt32Param(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		log.Error().Err(err).Int32("order_id", id).Msg("Failed to get order")
		return NewInternalError(c, "Failed to get order")
	}

	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	if customerID := c.QueryParam("customerId"); customerID != "" {
		orders, err := h.orderService.GetCustomerOrders(c.Request().Context(), customerID)
		if err != nil {
			if errors.Is(err, domain.ErrCustomerNotFound) {
				return NewNotFoundError(c, "Customer not found")
			}
			log.Error().Err(err).Str("customer_id", customerID).Msg("Failed to list orders")
			return NewInternalError(c, "Failed to list orders")
		}
		return c.JSON(http.StatusOK, orders)
	}

	orders, err := h.orderService.ListOrders(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		return NewInternalError(c, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := parseInt32Param(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return NewNotFoundError(c, "Order not found")
		case errors.Is(err, domain.ErrOrderStatusTransition):
			return NewConflictError(c, "Order cannot move to the requested status")
		}
		log.Error().Err(err).Int32("order_id", id).Msg("Failed to update order status")
		return NewInternalError(c, "Failed to update order status")
	}

	return c.JSON(http.StatusOK, order)
}
