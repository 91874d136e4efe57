package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/testutil"
)

type recordingExportRepo struct {
	paths []string
	data  [][]byte
}

func (r *recordingExportRepo) Store(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	r.paths = append(r.paths, objectPath)
	r.data = append(r.data, buf)
	return objectPath, nil
}

func (r *recordingExportRepo) Delete(ctx context.Context, objectPath string) error {
	return nil
}

func exportFixture() (*ExportService, *testutil.MockCustomerRepository, *testutil.MockDueRepository, *testutil.MockPaymentRepository, *recordingExportRepo) {
	customerRepo := testutil.NewMockCustomerRepository()
	dueRepo := testutil.NewMockDueRepository()
	paymentRepo := testutil.NewMockPaymentRepository(dueRepo)
	archive := &recordingExportRepo{}

	svc := NewExportService(customerRepo, dueRepo, paymentRepo, archive)
	return svc, customerRepo, dueRepo, paymentRepo, archive
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	return records
}

func TestExportDues_WritesStatusColumn(t *testing.T) {
	svc, _, dueRepo, _, archive := exportFixture()

	dueRepo.AddDue(&domain.Due{
		FundNumber: "2024_01_1234", SchemeID: 1, InstallmentNo: 1,
		DueDate:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DueAmount:      decimal.NewFromInt(1000),
		ReceivedAmount: decimal.NewFromInt(1000),
	})
	dueRepo.AddDue(&domain.Due{
		FundNumber: "2024_01_1234", SchemeID: 1, InstallmentNo: 2,
		DueDate:        time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		DueAmount:      decimal.NewFromInt(1000),
		ReceivedAmount: decimal.NewFromInt(300),
	})

	data, err := svc.ExportDues(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "fund_number" {
		t.Errorf("Expected fund_number header, got %s", records[0][0])
	}
	if records[1][6] != "Paid" {
		t.Errorf("Expected Paid status, got %s", records[1][6])
	}
	if records[2][6] != "Partially Paid" {
		t.Errorf("Expected Partially Paid status, got %s", records[2][6])
	}

	if len(archive.paths) != 1 {
		t.Fatalf("Expected 1 archived export, got %d", len(archive.paths))
	}
	if !bytes.Equal(archive.data[0], data) {
		t.Error("Archived bytes must match the returned CSV")
	}
}

func TestExportPayments_FiltersAndSwapsRange(t *testing.T) {
	svc, _, _, paymentRepo, _ := exportFixture()

	ref := "batch_1"
	paymentRepo.Payments = append(paymentRepo.Payments,
		&domain.Payment{FundNumber: "2024_01_1234", InstallmentNo: 1,
			Amount: decimal.NewFromInt(400), PaidDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Mode: domain.PaymentModeUPI, Reference: &ref},
		&domain.Payment{FundNumber: "2024_01_1234", InstallmentNo: 2,
			Amount: decimal.NewFromInt(600), PaidDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Mode: domain.PaymentModeCash},
	)

	// Bounds given in reverse order still work
	data, err := svc.ExportPayments(context.Background(),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(records))
	}
	if records[1][5] != "batch_1" {
		t.Errorf("Expected reference batch_1, got %s", records[1][5])
	}
}

func TestExportCustomers_JoinsTags(t *testing.T) {
	svc, customerRepo, _, _, _ := exportFixture()

	customerRepo.AddCustomer(&domain.Customer{
		ID: "CUST001", Name: "Lakshmi", Phone: "9876543210",
		City: "Madurai", Pincode: "625001", Tags: []string{"vip", "referral"},
	})

	data, err := svc.ExportCustomers(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(records))
	}
	if records[1][5] != "vip|referral" {
		t.Errorf("Expected joined tags, got %s", records[1][5])
	}
}

func TestExport_WithoutArchiveStore(t *testing.T) {
	customerRepo := testutil.NewMockCustomerRepository()
	dueRepo := testutil.NewMockDueRepository()
	paymentRepo := testutil.NewMockPaymentRepository(dueRepo)

	svc := NewExportService(customerRepo, dueRepo, paymentRepo, nil)

	data, err := svc.ExportDues(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	records := parseCSV(t, data)
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d rows", len(records))
	}
}
