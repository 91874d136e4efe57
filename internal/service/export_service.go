package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/repository/storage"
)

// Export kinds
const (
	ExportKindDues      = "dues"
	ExportKindPayments  = "payments"
	ExportKindCustomers = "customers"
)

const csvContentType = "text/csv"

// ExportService generates CSV exports of the ledger and optionally archives
// them to the configured export store
type ExportService struct {
	customerRepo domain.CustomerRepository
	dueRepo      domain.DueRepository
	paymentRepo  domain.PaymentRepository
	exportRepo   storage.ExportRepository
	now          func() time.Time
}

// NewExportService creates a new ExportService. exportRepo may be nil, in
// which case exports are generated but not archived
func NewExportService(
	customerRepo domain.CustomerRepository,
	dueRepo domain.DueRepository,
	paymentRepo domain.PaymentRepository,
	exportRepo storage.ExportRepository,
) *ExportService {
	return &ExportService{
		customerRepo: customerRepo,
		dueRepo:      dueRepo,
		paymentRepo:  paymentRepo,
		exportRepo:   exportRepo,
		now:          time.Now,
	}
}

// ExportDues writes every due row as CSV
func (s *ExportService) ExportDues(ctx context.Context) ([]byte, error) {
	dues, err := s.dueRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"fund_number", "scheme_id", "installment_no", "due_date", "due_amount", "received_amount", "status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, due := range dues {
		record := []string{
			due.FundNumber,
			fmt.Sprintf("%d", due.SchemeID),
			fmt.Sprintf("%d", due.InstallmentNo),
			due.DueDate.Format("2006-01-02"),
			due.DueAmount.String(),
			due.ReceivedAmount.String(),
			string(due.Status()),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.archive(ctx, ExportKindDues, buf.Bytes())
	return buf.Bytes(), nil
}

// ExportPayments writes the payments with paid dates in [from, to] as CSV
func (s *ExportService) ExportPayments(ctx context.Context, from, to time.Time) ([]byte, error) {
	if to.Before(from) {
		from, to = to, from
	}

	payments, err := s.paymentRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"fund_number", "installment_no", "amount", "paid_date", "mode", "reference"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range payments {
		reference := ""
		if p.Reference != nil {
			reference = *p.Reference
		}
		record := []string{
			p.FundNumber,
			fmt.Sprintf("%d", p.InstallmentNo),
			p.Amount.String(),
			p.PaidDate.Format("2006-01-02"),
			p.Mode,
			reference,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.archive(ctx, ExportKindPayments, buf.Bytes())
	return buf.Bytes(), nil
}

// ExportCustomers writes every non-deleted customer as CSV
func (s *ExportService) ExportCustomers(ctx context.Context) ([]byte, error) {
	page, err := s.customerRepo.List(ctx, domain.CustomerFilter{Page: 1, PageSize: 200})
	if err != nil {
		return nil, err
	}
	customers := page.Customers

	// Walk the remaining pages
	for int64(len(customers)) < page.Total {
		next, err := s.customerRepo.List(ctx, domain.CustomerFilter{Page: page.Page + 1, PageSize: 200})
		if err != nil {
			return nil, err
		}
		if len(next.Customers) == 0 {
			break
		}
		customers = append(customers, next.Customers...)
		page = next
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "phone", "city", "pincode", "tags"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, c := range customers {
		record := []string{
			c.ID,
			c.Name,
			c.Phone,
			c.City,
			c.Pincode,
			strings.Join(c.Tags, "|"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.archive(ctx, ExportKindCustomers, buf.Bytes())
	return buf.Bytes(), nil
}

// archive stores a copy of the export. Failures are logged, not returned: the
// caller still gets their CSV even when the archive store is down
func (s *ExportService) archive(ctx context.Context, kind string, data []byte) {
	if s.exportRepo == nil {
		return
	}

	objectPath := storage.ObjectPath(kind, s.now())
	if _, err := s.exportRepo.Store(ctx, objectPath, bytes.NewReader(data), csvContentType, int64(len(data))); err != nil {
		log.Warn().
			Err(err).
			Str("kind", kind).
			Str("object_path", objectPath).
			Msg("Failed to archive export")
		return
	}

	log.Info().
		Str("kind", kind).
		Str("object_path", objectPath).
		Int("bytes", len(data)).
		Msg("Export archived")
}
