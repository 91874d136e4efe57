package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasantham/chit-backend/internal/domain"
)

const customerColumns = `id, name, phone, alt_phone, address, city, pincode, tags, created_at, updated_at, deleted_at`

// CustomerRepository implements domain.CustomerRepository using PostgreSQL
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, phone, alt_phone, address, city, pincode, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+customerColumns,
		customer.ID, customer.Name, customer.Phone, customer.AltPhone,
		customer.Address, customer.City, customer.Pincode, customer.Tags)

	created, err := scanCustomer(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCustomerAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a customer by its external identifier
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL`, id)

	customer, err := scanCustomer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// List retrieves one page of customers matching the filter. The filter fields
// bind as placeholders; empty values disable the corresponding predicate.
func (r *CustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) (*domain.CustomerPage, error) {
	filter.Normalize()

	const predicate = `
		deleted_at IS NULL
		AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR id ILIKE '%' || $1 || '%')
		AND ($2 = '' OR $2 = ANY(tags))`

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE`+predicate,
		filter.Query, filter.Tag).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE`+predicate+`
		ORDER BY name, id
		LIMIT $3 OFFSET $4`,
		filter.Query, filter.Tag, filter.PageSize, filter.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.CustomerPage{
		Customers: customers,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// Update updates a customer's mutable fields
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, alt_phone = $4, address = $5, city = $6,
		    pincode = $7, tags = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+customerColumns,
		customer.ID, customer.Name, customer.Phone, customer.AltPhone,
		customer.Address, customer.City, customer.Pincode, customer.Tags)

	updated, err := scanCustomer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a customer as deleted
func (r *CustomerRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Count returns the number of active customers
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.AltPhone, &c.Address, &c.City,
		&c.Pincode, &c.Tags, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
