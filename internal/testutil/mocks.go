package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vasantham/chit-backend/internal/domain"
)

// MockCustomerRepository is a mock implementation of domain.CustomerRepository
type MockCustomerRepository struct {
	Customers map[string]*domain.Customer
	CreateFn  func(customer *domain.Customer) (*domain.Customer, error)
}

// NewMockCustomerRepository creates a new MockCustomerRepository
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		Customers: make(map[string]*domain.Customer),
	}
}

// Create stores a new customer
func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if m.CreateFn != nil {
		return m.CreateFn(customer)
	}
	if _, ok := m.Customers[customer.ID]; ok {
		return nil, domain.ErrCustomerAlreadyExists
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	m.Customers[customer.ID] = customer
	return customer, nil
}

// GetByID retrieves a customer by ID
func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if customer, ok := m.Customers[id]; ok && customer.DeletedAt == nil {
		return customer, nil
	}
	return nil, domain.ErrCustomerNotFound
}

// List returns a filtered page of customers
func (m *MockCustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) (*domain.CustomerPage, error) {
	filter.Normalize()

	ids := make([]string, 0, len(m.Customers))
	for id, c := range m.Customers {
		if c.DeletedAt != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	matched := make([]*domain.Customer, 0, len(ids))
	for _, id := range ids {
		c := m.Customers[id]
		if filter.Tag != "" && !hasTag(c.Tags, filter.Tag) {
			continue
		}
		if filter.Query != "" && !containsFold(c.Name, filter.Query) && !containsFold(c.ID, filter.Query) {
			continue
		}
		matched = append(matched, c)
	}

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.CustomerPage{
		Customers: matched[start:end],
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// Update replaces an existing customer
func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	existing, ok := m.Customers[customer.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrCustomerNotFound
	}
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = time.Now()
	m.Customers[customer.ID] = customer
	return customer, nil
}

// SoftDelete marks a customer deleted
func (m *MockCustomerRepository) SoftDelete(ctx context.Context, id string) error {
	customer, ok := m.Customers[id]
	if !ok || customer.DeletedAt != nil {
		return domain.ErrCustomerNotFound
	}
	now := time.Now()
	customer.DeletedAt = &now
	return nil
}

// Count returns the number of non-deleted customers
func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	for _, c := range m.Customers {
		if c.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

// AddCustomer adds a customer to the mock repository (helper for tests)
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.Customers[customer.ID] = customer
}

// MockSchemeRepository is a mock implementation of domain.SchemeRepository
type MockSchemeRepository struct {
	Schemes map[int32]*domain.Scheme
	NextID  int32
}

// NewMockSchemeRepository creates a new MockSchemeRepository
func NewMockSchemeRepository() *MockSchemeRepository {
	return &MockSchemeRepository{
		Schemes: make(map[int32]*domain.Scheme),
		NextID:  1,
	}
}

// Create stores a new scheme
func (m *MockSchemeRepository) Create(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	scheme.ID = m.NextID
	m.NextID++
	scheme.CreatedAt = time.Now()
	scheme.UpdatedAt = scheme.CreatedAt
	m.Schemes[scheme.ID] = scheme
	return scheme, nil
}

// GetByID retrieves a scheme by ID
func (m *MockSchemeRepository) GetByID(ctx context.Context, id int32) (*domain.Scheme, error) {
	if scheme, ok := m.Schemes[id]; ok && scheme.DeletedAt == nil {
		return scheme, nil
	}
	return nil, domain.ErrSchemeNotFound
}

// GetAll returns every non-deleted scheme ordered by ID
func (m *MockSchemeRepository) GetAll(ctx context.Context) ([]*domain.Scheme, error) {
	ids := make([]int, 0, len(m.Schemes))
	for id, s := range m.Schemes {
		if s.DeletedAt == nil {
			ids = append(ids, int(id))
		}
	}
	sort.Ints(ids)
	schemes := make([]*domain.Scheme, 0, len(ids))
	for _, id := range ids {
		schemes = append(schemes, m.Schemes[int32(id)])
	}
	return schemes, nil
}

// Update replaces an existing scheme
func (m *MockSchemeRepository) Update(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	existing, ok := m.Schemes[scheme.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrSchemeNotFound
	}
	scheme.CreatedAt = existing.CreatedAt
	scheme.UpdatedAt = time.Now()
	m.Schemes[scheme.ID] = scheme
	return scheme, nil
}

// SoftDelete marks a scheme deleted
func (m *MockSchemeRepository) SoftDelete(ctx context.Context, id int32) error {
	scheme, ok := m.Schemes[id]
	if !ok || scheme.DeletedAt != nil {
		return domain.ErrSchemeNotFound
	}
	now := time.Now()
	scheme.DeletedAt = &now
	return nil
}

// Count returns the number of non-deleted schemes
func (m *MockSchemeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	for _, s := range m.Schemes {
		if s.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

// AddScheme adds a scheme to the mock repository (helper for tests)
func (m *MockSchemeRepository) AddScheme(scheme *domain.Scheme) {
	m.Schemes[scheme.ID] = scheme
	if scheme.ID >= m.NextID {
		m.NextID = scheme.ID + 1
	}
}

// MockDueRepository is a mock implementation of domain.DueRepository.
// Dues are keyed by fund number in installment order
type MockDueRepository struct {
	Dues   map[string][]*domain.Due
	NextID int32
}

// NewMockDueRepository creates a new MockDueRepository
func NewMockDueRepository() *MockDueRepository {
	return &MockDueRepository{
		Dues:   make(map[string][]*domain.Due),
		NextID: 1,
	}
}

// GetLedger returns every due row for a fund number
func (m *MockDueRepository) GetLedger(ctx context.Context, fundNumber string) ([]*domain.Due, error) {
	return m.Dues[fundNumber], nil
}

// GetByInstallment retrieves one due row
func (m *MockDueRepository) GetByInstallment(ctx context.Context, fundNumber string, installmentNo int32) (*domain.Due, error) {
	for _, due := range m.Dues[fundNumber] {
		if due.InstallmentNo == installmentNo {
			return due, nil
		}
	}
	return nil, domain.ErrDueNotFound
}

// GetPending returns the dues with received amount below the due amount
func (m *MockDueRepository) GetPending(ctx context.Context, fundNumber string) ([]*domain.Due, error) {
	pending := make([]*domain.Due, 0)
	for _, due := range m.Dues[fundNumber] {
		if due.ReceivedAmount.LessThan(due.DueAmount) {
			pending = append(pending, due)
		}
	}
	return pending, nil
}

// ListAll returns every due row across all fund numbers
func (m *MockDueRepository) ListAll(ctx context.Context) ([]*domain.Due, error) {
	funds := make([]string, 0, len(m.Dues))
	for fund := range m.Dues {
		funds = append(funds, fund)
	}
	sort.Strings(funds)
	all := make([]*domain.Due, 0)
	for _, fund := range funds {
		all = append(all, m.Dues[fund]...)
	}
	return all, nil
}

// SumOutstanding returns the total outstanding across all dues
func (m *MockDueRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, dues := range m.Dues {
		for _, due := range dues {
			sum = sum.Add(due.Outstanding())
		}
	}
	return sum, nil
}

// AddDue adds a due row to the mock repository (helper for tests)
func (m *MockDueRepository) AddDue(due *domain.Due) {
	if due.ID == 0 {
		due.ID = m.NextID
		m.NextID++
	}
	m.Dues[due.FundNumber] = append(m.Dues[due.FundNumber], due)
}

// MockEnrollmentRepository is a mock implementation of domain.EnrollmentRepository.
// It shares a MockDueRepository so that replacing a customer's memberships also
// replaces their due rows, mirroring the transactional repository
type MockEnrollmentRepository struct {
	ByFund    map[string]*domain.Membership
	DueRepo   *MockDueRepository
	NextID    int32
	ReplaceFn func(customerID string, memberships []*domain.Membership, dues []*domain.Due) error
}

// NewMockEnrollmentRepository creates a new MockEnrollmentRepository
func NewMockEnrollmentRepository(dueRepo *MockDueRepository) *MockEnrollmentRepository {
	return &MockEnrollmentRepository{
		ByFund:  make(map[string]*domain.Membership),
		DueRepo: dueRepo,
		NextID:  1,
	}
}

// ReplaceForCustomer deletes the customer's memberships and dues, then inserts
// the given rows. A fund number already held by another customer is reported as
// ErrFundNumberDuplicate without mutating anything
func (m *MockEnrollmentRepository) ReplaceForCustomer(ctx context.Context, customerID string, memberships []*domain.Membership, dues []*domain.Due) error {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(customerID, memberships, dues)
	}

	for _, membership := range memberships {
		if existing, ok := m.ByFund[membership.FundNumber]; ok && existing.CustomerID != customerID {
			return domain.ErrFundNumberDuplicate
		}
	}

	for fund, membership := range m.ByFund {
		if membership.CustomerID == customerID {
			delete(m.ByFund, fund)
			delete(m.DueRepo.Dues, fund)
		}
	}

	now := time.Now()
	for _, membership := range memberships {
		membership.ID = m.NextID
		m.NextID++
		membership.CreatedAt = now
		m.ByFund[membership.FundNumber] = membership
	}
	for _, due := range dues {
		due.CreatedAt = now
		m.DueRepo.AddDue(due)
	}
	return nil
}

// GetByFundNumber retrieves a membership by fund number
func (m *MockEnrollmentRepository) GetByFundNumber(ctx context.Context, fundNumber string) (*domain.Membership, error) {
	if membership, ok := m.ByFund[fundNumber]; ok {
		return membership, nil
	}
	return nil, domain.ErrEnrollmentNotFound
}

// GetByCustomer returns every membership belonging to a customer
func (m *MockEnrollmentRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Membership, error) {
	funds := make([]string, 0)
	for fund, membership := range m.ByFund {
		if membership.CustomerID == customerID {
			funds = append(funds, fund)
		}
	}
	sort.Strings(funds)
	memberships := make([]*domain.Membership, 0, len(funds))
	for _, fund := range funds {
		memberships = append(memberships, m.ByFund[fund])
	}
	return memberships, nil
}

// CountActive returns the number of active memberships
func (m *MockEnrollmentRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, membership := range m.ByFund {
		if membership.Status == domain.MembershipStatusActive {
			n++
		}
	}
	return n, nil
}

// AddMembership adds a membership to the mock repository (helper for tests)
func (m *MockEnrollmentRepository) AddMembership(membership *domain.Membership) {
	if membership.ID == 0 {
		membership.ID = m.NextID
		m.NextID++
	}
	m.ByFund[membership.FundNumber] = membership
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository.
// It shares a MockDueRepository so recording a payment also updates the due row
type MockPaymentRepository struct {
	Payments []*domain.Payment
	DueRepo  *MockDueRepository
	NextID   int32
	RecordFn func(payment *domain.Payment) (*domain.Payment, *domain.Due, error)
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository(dueRepo *MockDueRepository) *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make([]*domain.Payment, 0),
		DueRepo:  dueRepo,
		NextID:   1,
	}
}

// RecordWithDueUpdate appends the payment and applies the additive update to
// the matching due row. With no matching due nothing is recorded
func (m *MockPaymentRepository) RecordWithDueUpdate(ctx context.Context, payment *domain.Payment) (*domain.Payment, *domain.Due, error) {
	if m.RecordFn != nil {
		return m.RecordFn(payment)
	}

	due, err := m.DueRepo.GetByInstallment(ctx, payment.FundNumber, payment.InstallmentNo)
	if err != nil {
		return nil, nil, err
	}

	payment.ID = m.NextID
	m.NextID++
	payment.CreatedAt = time.Now()
	m.Payments = append(m.Payments, payment)

	due.ReceivedAmount = due.ReceivedAmount.Add(payment.Amount)
	paidAt := payment.PaidDate
	due.LastReceivedAt = &paidAt

	return payment, due, nil
}

// GetByFundNumber returns every payment against a fund number
func (m *MockPaymentRepository) GetByFundNumber(ctx context.Context, fundNumber string) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if p.FundNumber == fundNumber {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// ListBetween returns payments with paid dates in [from, to]
func (m *MockPaymentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if !p.PaidDate.Before(from) && !p.PaidDate.After(to) {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// SumReceivedBetween returns the total amount received in [from, to]
func (m *MockPaymentRepository) SumReceivedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range m.Payments {
		if !p.PaidDate.Before(from) && !p.PaidDate.After(to) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// MockOrderRepository is a mock implementation of domain.OrderRepository
type MockOrderRepository struct {
	Orders map[int32]*domain.Order
	NextID int32
}

// NewMockOrderRepository creates a new MockOrderRepository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[int32]*domain.Order),
		NextID: 1,
	}
}

// Create stores a new order
func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.ID = m.NextID
	m.NextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.Orders[order.ID] = order
	return order, nil
}

// GetByID retrieves an order by ID
func (m *MockOrderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	if order, ok := m.Orders[id]; ok {
		return order, nil
	}
	return nil, domain.ErrOrderNotFound
}

// GetByCustomer returns every order belonging to a customer
func (m *MockOrderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	ids := make([]int, 0)
	for id, order := range m.Orders {
		if order.CustomerID == customerID {
			ids = append(ids, int(id))
		}
	}
	sort.Ints(ids)
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, m.Orders[int32(id)])
	}
	return orders, nil
}

// GetAll returns every order ordered by ID
func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	ids := make([]int, 0, len(m.Orders))
	for id := range m.Orders {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, m.Orders[int32(id)])
	}
	return orders, nil
}

// Update replaces an existing order
func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	existing, ok := m.Orders[order.ID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.CreatedAt = existing.CreatedAt
	order.UpdatedAt = time.Now()
	m.Orders[order.ID] = order
	return order, nil
}

// UpdateStatus updates only the status of an order
func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int32, status string) (*domain.Order, error) {
	order, ok := m.Orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return order, nil
}

// AddOrder adds an order to the mock repository (helper for tests)
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.Orders[order.ID] = order
	if order.ID >= m.NextID {
		m.NextID = order.ID + 1
	}
}

// MockAPITokenRepository is a mock implementation of domain.APITokenRepository
type MockAPITokenRepository struct {
	Tokens map[uuid.UUID]*domain.APIToken
	ByHash map[string]*domain.APIToken
}

// NewMockAPITokenRepository creates a new MockAPITokenRepository
func NewMockAPITokenRepository() *MockAPITokenRepository {
	return &MockAPITokenRepository{
		Tokens: make(map[uuid.UUID]*domain.APIToken),
		ByHash: make(map[string]*domain.APIToken),
	}
}

// Create stores a new API token
func (m *MockAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	m.Tokens[token.ID] = token
	m.ByHash[token.TokenHash] = token
	return nil
}

// GetAll returns every token
func (m *MockAPITokenRepository) GetAll(ctx context.Context) ([]*domain.APIToken, error) {
	tokens := make([]*domain.APIToken, 0, len(m.Tokens))
	for _, t := range m.Tokens {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].CreatedAt.Before(tokens[j].CreatedAt) })
	return tokens, nil
}

// GetByHash retrieves a non-revoked token by hash
func (m *MockAPITokenRepository) GetByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	if token, ok := m.ByHash[hash]; ok && token.RevokedAt == nil {
		return token, nil
	}
	return nil, domain.ErrAPITokenNotFound
}

// Revoke marks a token revoked
func (m *MockAPITokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	token, ok := m.Tokens[id]
	if !ok || token.RevokedAt != nil {
		return domain.ErrAPITokenNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

// UpdateLastUsed records the last use of a token
func (m *MockAPITokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	token, ok := m.Tokens[id]
	if !ok {
		return domain.ErrAPITokenNotFound
	}
	now := time.Now()
	token.LastUsedAt = &now
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
