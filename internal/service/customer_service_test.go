package service

import (
	"context"
	"testing"

	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/testutil"
)

func TestCreateCustomer_Success(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		ID:      "CUST001",
		Name:    "  Lakshmi Traders  ",
		Phone:   "9876543210",
		City:    "Madurai",
		Pincode: "625001",
		Tags:    []string{"vip"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if customer.Name != "Lakshmi Traders" {
		t.Errorf("Expected trimmed name, got %q", customer.Name)
	}
	if _, err := repo.GetByID(context.Background(), "CUST001"); err != nil {
		t.Errorf("Expected customer to be stored, got %v", err)
	}
}

func TestCreateCustomer_DuplicateID(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	input := CreateCustomerInput{ID: "CUST001", Name: "Lakshmi", Phone: "9876543210"}
	if _, err := svc.CreateCustomer(context.Background(), input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := svc.CreateCustomer(context.Background(), input)
	if err != domain.ErrCustomerAlreadyExists {
		t.Errorf("Expected ErrCustomerAlreadyExists, got %v", err)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	cases := []struct {
		name  string
		input CreateCustomerInput
		want  error
	}{
		{"empty id", CreateCustomerInput{Name: "X"}, domain.ErrCustomerIDEmpty},
		{"bad id", CreateCustomerInput{ID: "CUST 001", Name: "X"}, domain.ErrCustomerIDInvalid},
		{"empty name", CreateCustomerInput{ID: "CUST001"}, domain.ErrCustomerNameEmpty},
		{"bad phone", CreateCustomerInput{ID: "CUST001", Name: "X", Phone: "12345"}, domain.ErrCustomerPhoneInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tc.input)
			if err != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestListCustomers_FiltersByQueryAndTag(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	repo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi Traders", Tags: []string{"vip"}})
	repo.AddCustomer(&domain.Customer{ID: "CUST002", Name: "Murugan Stores"})
	repo.AddCustomer(&domain.Customer{ID: "CUST003", Name: "Lakshmi Jewellers", Tags: []string{"vip"}})

	page, err := svc.ListCustomers(context.Background(), domain.CustomerFilter{Query: "lakshmi", Tag: "vip"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 matches, got %d", page.Total)
	}
}

func TestDeleteCustomer_HidesFromListing(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	repo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})

	if err := svc.DeleteCustomer(context.Background(), "CUST001"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.GetCustomer(context.Background(), "CUST001"); err != domain.ErrCustomerNotFound {
		t.Errorf("Expected ErrCustomerNotFound after delete, got %v", err)
	}
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	repo := testutil.NewMockCustomerRepository()
	svc := NewCustomerService(repo)

	_, err := svc.UpdateCustomer(context.Background(), "GHOST", UpdateCustomerInput{Name: "X"})
	if err != domain.ErrCustomerNotFound {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
}
