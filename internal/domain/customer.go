package domain

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrCustomerIDEmpty        = errors.New("customer id is required")
	ErrCustomerIDInvalid      = errors.New("customer id must be alphanumeric")
	ErrCustomerNameEmpty      = errors.New("customer name is required")
	ErrCustomerNameTooLong    = errors.New("customer name must be 200 characters or less")
	ErrCustomerPhoneInvalid   = errors.New("customer phone must be 10 digits")
	ErrCustomerAlreadyExists  = errors.New("customer already exists")
)

var (
	customerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{10}$`)
)

// Customer is a person enrolled with the operator. The ID is assigned
// externally (legacy ledger books) and never regenerated.
type Customer struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	AltPhone  *string    `json:"altPhone,omitempty"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Pincode   string     `json:"pincode"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (c *Customer) Validate() error {
	if c.ID == "" {
		return ErrCustomerIDEmpty
	}
	if !customerIDPattern.MatchString(c.ID) {
		return ErrCustomerIDInvalid
	}
	if c.Name == "" {
		return ErrCustomerNameEmpty
	}
	if len(c.Name) > MaxNameLength {
		return ErrCustomerNameTooLong
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return ErrCustomerPhoneInvalid
	}
	return nil
}

// CustomerFilter carries the typed listing parameters. Queries bind these as
// placeholders; no WHERE clauses are assembled from strings.
type CustomerFilter struct {
	Query    string // matches name or id, case-insensitive substring
	Tag      string
	Page     int
	PageSize int
}

func (f *CustomerFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 200 {
		f.PageSize = 50
	}
}

func (f CustomerFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// CustomerPage is one page of a filtered customer listing
type CustomerPage struct {
	Customers []*Customer `json:"customers"`
	Total     int64       `json:"total"`
	Page      int         `json:"page"`
	PageSize  int         `json:"pageSize"`
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter CustomerFilter) (*CustomerPage, error)
	Update(ctx context.Context, customer *Customer) (*Customer, error)
	SoftDelete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
