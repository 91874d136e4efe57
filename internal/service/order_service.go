package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	ws "github.com/vasantham/chit-backend/internal/websocket"
)

// OrderService handles purchase order business logic
type OrderService struct {
	orderRepo    domain.OrderRepository
	customerRepo domain.CustomerRepository
	publisher    ws.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo domain.OrderRepository, customerRepo domain.CustomerRepository) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		publisher:    &ws.NoOpPublisher{},
	}
}

// SetEventPublisher sets the publisher for dashboard events
func (s *OrderService) SetEventPublisher(publisher ws.EventPublisher) {
	s.publisher = publisher
}

// CreateOrderInput contains input for creating an order
type CreateOrderInput struct {
	CustomerID    string
	OrderDate     time.Time
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	Notes         *string
}

// CreateOrder creates a new order in Pending status
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if _, err := s.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &domain.Order{
		CustomerID:    input.CustomerID,
		OrderDate:     orderDate,
		Status:        domain.OrderStatusPending,
		TotalAmount:   input.TotalAmount,
		AdvanceAmount: input.AdvanceAmount,
		Notes:         input.Notes,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return s.orderRepo.Create(ctx, order)
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id int32) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.orderRepo.GetByID(ctx, id)
}

// GetCustomerOrders returns every order belonging to a customer
func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerIDEmpty
	}
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByCustomer(ctx, customerID)
}

// ListOrders returns every order
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// UpdateOrderStatus moves an order along its lifecycle. Delivered and
// Cancelled are terminal; backwards moves are rejected
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int32, status string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransition(status) {
		return nil, domain.ErrOrderStatusTransition
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.OrderUpdated(updated))

	return updated, nil
}
