package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/vasantham/chit-backend/internal/middleware"
)

// Handlers bundles every HTTP handler for route registration
type Handlers struct {
	Customer   *CustomerHandler
	Scheme     *SchemeHandler
	Enrollment *EnrollmentHandler
	Payment    *PaymentHandler
	Order      *OrderHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
	APIToken   *APITokenHandler
	Events     *EventsHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1, everything behind auth
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Customers
	api.POST("/customers", h.Customer.CreateCustomer)
	api.GET("/customers", h.Customer.ListCustomers)
	api.GET("/customers/:id", h.Customer.GetCustomer)
	api.PUT("/customers/:id", h.Customer.UpdateCustomer)
	api.DELETE("/customers/:id", h.Customer.DeleteCustomer)

	// Scheme assignment and customer enrollments
	api.POST("/customers/:id/schemes", h.Enrollment.AssignSchemes)
	api.GET("/customers/:id/schemes", h.Enrollment.GetCustomerEnrollments)

	// Schemes
	api.POST("/schemes", h.Scheme.CreateScheme)
	api.GET("/schemes", h.Scheme.ListSchemes)
	api.GET("/schemes/:id", h.Scheme.GetScheme)
	api.PUT("/schemes/:id", h.Scheme.UpdateScheme)
	api.DELETE("/schemes/:id", h.Scheme.DeleteScheme)

	// Enrollments and their ledgers
	api.GET("/enrollments/:fundNumber", h.Enrollment.GetEnrollment)
	api.GET("/enrollments/:fundNumber/pending", h.Enrollment.GetPendingDues)
	api.GET("/enrollments/:fundNumber/payments", h.Payment.GetPayments)
	api.POST("/enrollments/:fundNumber/pay-all", h.Payment.PayAllRemaining)

	// Payments
	api.POST("/payments", h.Payment.RecordPayment)

	// Orders
	api.POST("/orders", h.Order.CreateOrder)
	api.GET("/orders", h.Order.ListOrders)
	api.GET("/orders/:id", h.Order.GetOrder)
	api.PATCH("/orders/:id/status", h.Order.UpdateOrderStatus)

	// Dashboard
	api.GET("/dashboard/summary", h.Dashboard.GetSummary)

	// CSV exports
	api.GET("/exports/dues.csv", h.Export.ExportDues)
	api.GET("/exports/payments.csv", h.Export.ExportPayments)
	api.GET("/exports/customers.csv", h.Export.ExportCustomers)

	// API token management (admin key only, enforced in the handler)
	api.POST("/tokens", h.APIToken.CreateToken)
	api.GET("/tokens", h.APIToken.ListTokens)
	api.DELETE("/tokens/:id", h.APIToken.RevokeToken)

	// Dashboard event stream. Auth happens via query parameter inside the
	// handler, WebSocket clients cannot send an Authorization header
	e.GET("/api/v1/events", h.Events.HandleEvents)
}
