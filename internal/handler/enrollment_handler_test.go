package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/service"
	"github.com/vasantham/chit-backend/internal/testutil"
)

func enrollmentHandlerFixture() (*EnrollmentHandler, *testutil.MockCustomerRepository, *testutil.MockSchemeRepository, *testutil.MockDueRepository) {
	customerRepo := testutil.NewMockCustomerRepository()
	schemeRepo := testutil.NewMockSchemeRepository()
	dueRepo := testutil.NewMockDueRepository()
	enrollmentRepo := testutil.NewMockEnrollmentRepository(dueRepo)

	svc := service.NewEnrollmentService(enrollmentRepo, customerRepo, schemeRepo, dueRepo)
	return NewEnrollmentHandler(svc), customerRepo, schemeRepo, dueRepo
}

func TestAssignSchemesHandler_Success(t *testing.T) {
	e := echo.New()
	h, customerRepo, schemeRepo, dueRepo := enrollmentHandlerFixture()

	customerRepo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})
	schemeRepo.AddScheme(&domain.Scheme{
		ID:             1,
		Name:           "Gold Plan",
		TotalAmount:    decimal.NewFromInt(12000),
		AmountPerMonth: decimal.NewFromInt(1000),
		NumberOfDues:   12,
		MonthFrom:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	body := `{"schemeIds":[1]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/CUST001/schemes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("CUST001")

	if err := h.AssignSchemes(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var memberships []*domain.Membership
	if err := json.Unmarshal(rec.Body.Bytes(), &memberships); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(memberships) != 1 {
		t.Fatalf("Expected 1 membership, got %d", len(memberships))
	}

	dues, _ := dueRepo.GetLedger(c.Request().Context(), memberships[0].FundNumber)
	if len(dues) != 12 {
		t.Errorf("Expected 12 dues, got %d", len(dues))
	}
}

func TestAssignSchemesHandler_UnknownScheme(t *testing.T) {
	e := echo.New()
	h, customerRepo, _, _ := enrollmentHandlerFixture()
	customerRepo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})

	body := `{"schemeIds":[42]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/CUST001/schemes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("CUST001")

	if err := h.AssignSchemes(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAssignSchemesHandler_UnknownCustomer(t *testing.T) {
	e := echo.New()
	h, _, schemeRepo, _ := enrollmentHandlerFixture()
	schemeRepo.AddScheme(&domain.Scheme{
		ID: 1, Name: "Gold Plan",
		TotalAmount:    decimal.NewFromInt(12000),
		AmountPerMonth: decimal.NewFromInt(1000),
		NumberOfDues:   12,
		MonthFrom:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	body := `{"schemeIds":[1]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/GHOST/schemes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("GHOST")

	if err := h.AssignSchemes(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAssignSchemesHandler_SuppliedFundNumber(t *testing.T) {
	e := echo.New()
	h, customerRepo, schemeRepo, dueRepo := enrollmentHandlerFixture()

	customerRepo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})
	schemeRepo.AddScheme(&domain.Scheme{
		ID: 1, Name: "Gold Plan",
		TotalAmount:    decimal.NewFromInt(12000),
		AmountPerMonth: decimal.NewFromInt(1000),
		NumberOfDues:   12,
		MonthFrom:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	memberships := mustAssign(t, h, e, "CUST001", `{"schemeIds":[1],"fundNumber":"2024_01_7777"}`)
	if memberships[0].FundNumber != "2024_01_7777" {
		t.Errorf("Expected supplied fund number, got %s", memberships[0].FundNumber)
	}

	dues, _ := dueRepo.GetLedger(context.Background(), "2024_01_7777")
	if len(dues) != 12 {
		t.Errorf("Expected 12 dues under the supplied fund number, got %d", len(dues))
	}
}

func TestAssignSchemesHandler_BadSuppliedFundNumber(t *testing.T) {
	e := echo.New()
	h, customerRepo, schemeRepo, _ := enrollmentHandlerFixture()

	customerRepo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})
	schemeRepo.AddScheme(&domain.Scheme{
		ID: 1, Name: "Gold Plan",
		TotalAmount:    decimal.NewFromInt(12000),
		AmountPerMonth: decimal.NewFromInt(1000),
		NumberOfDues:   12,
		MonthFrom:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	body := `{"schemeIds":[1],"fundNumber":"garbage"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/CUST001/schemes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("CUST001")

	if err := h.AssignSchemes(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "fundNumber" {
		t.Errorf("Expected fundNumber validation error, got %+v", problem.Errors)
	}
}

func TestGetEnrollmentHandler_ReturnsLedger(t *testing.T) {
	e := echo.New()
	h, customerRepo, schemeRepo, _ := enrollmentHandlerFixture()

	customerRepo.AddCustomer(&domain.Customer{ID: "CUST001", Name: "Lakshmi"})
	schemeRepo.AddScheme(&domain.Scheme{
		ID: 1, Name: "Gold Plan",
		TotalAmount:    decimal.NewFromInt(6000),
		AmountPerMonth: decimal.NewFromInt(1000),
		NumberOfDues:   6,
		MonthFrom:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	// Enroll first to get a real fund number
	memberships := mustAssign(t, h, e, "CUST001", `{"schemeIds":[1]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/enrollments/"+memberships[0].FundNumber, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("fundNumber")
	c.SetParamValues(memberships[0].FundNumber)

	if err := h.GetEnrollment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var ledger domain.EnrollmentLedger
	if err := json.Unmarshal(rec.Body.Bytes(), &ledger); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(ledger.Dues) != 6 {
		t.Errorf("Expected 6 dues, got %d", len(ledger.Dues))
	}
}

func TestGetEnrollmentHandler_InvalidFundNumber(t *testing.T) {
	e := echo.New()
	h, _, _, _ := enrollmentHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/enrollments/garbage", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("fundNumber")
	c.SetParamValues("garbage")

	if err := h.GetEnrollment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func mustAssign(t *testing.T, h *EnrollmentHandler, e *echo.Echo, customerID, body string) []*domain.Membership {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+customerID+"/schemes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(customerID)

	if err := h.AssignSchemes(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var memberships []*domain.Membership
	if err := json.Unmarshal(rec.Body.Bytes(), &memberships); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return memberships
}
