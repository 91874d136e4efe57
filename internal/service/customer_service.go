package service

import (
	"context"
	"strings"

	"github.com/vasantham/chit-backend/internal/domain"
	ws "github.com/vasantham/chit-backend/internal/websocket"
)

// CustomerService handles customer business logic
type CustomerService struct {
	customerRepo domain.CustomerRepository
	publisher    ws.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo domain.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		publisher:    &ws.NoOpPublisher{},
	}
}

// SetEventPublisher sets the publisher for dashboard events
func (s *CustomerService) SetEventPublisher(publisher ws.EventPublisher) {
	s.publisher = publisher
}

// CreateCustomerInput contains input for creating a customer
type CreateCustomerInput struct {
	ID       string
	Name     string
	Phone    string
	AltPhone *string
	Address  string
	City     string
	Pincode  string
	Tags     []string
}

// CreateCustomer creates a new customer with an externally assigned ID
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:       strings.TrimSpace(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		AltPhone: input.AltPhone,
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
		Pincode:  strings.TrimSpace(input.Pincode),
		Tags:     input.Tags,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.CustomerCreated(created))

	return created, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	if id == "" {
		return nil, domain.ErrCustomerIDEmpty
	}
	return s.customerRepo.GetByID(ctx, id)
}

// ListCustomers returns a filtered page of customers
func (s *CustomerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter) (*domain.CustomerPage, error) {
	filter.Normalize()
	return s.customerRepo.List(ctx, filter)
}

// UpdateCustomerInput contains input for updating a customer
type UpdateCustomerInput struct {
	Name     string
	Phone    string
	AltPhone *string
	Address  string
	City     string
	Pincode  string
	Tags     []string
}

// UpdateCustomer updates an existing customer's details. The ID is immutable
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*domain.Customer, error) {
	existing, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &domain.Customer{
		ID:       existing.ID,
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		AltPhone: input.AltPhone,
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
		Pincode:  strings.TrimSpace(input.Pincode),
		Tags:     input.Tags,
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	return s.customerRepo.Update(ctx, updated)
}

// DeleteCustomer soft-deletes a customer. The ledger rows survive; the
// customer simply stops appearing in listings
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrCustomerIDEmpty
	}
	return s.customerRepo.SoftDelete(ctx, id)
}
