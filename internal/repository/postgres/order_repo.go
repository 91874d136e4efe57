package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasantham/chit-backend/internal/domain"
)

const orderColumns = `id, customer_id, order_date, status, total_amount, advance_amount, notes, created_at, updated_at`

// OrderRepository implements domain.OrderRepository using PostgreSQL
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	totalAmount, err := decimalToPgNumeric(order.TotalAmount)
	if err != nil {
		return nil, err
	}
	advanceAmount, err := decimalToPgNumeric(order.AdvanceAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, order_date, status, total_amount, advance_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		order.CustomerID, pgtype.Date{Time: order.OrderDate, Valid: true},
		order.Status, totalAmount, advanceAmount, order.Notes)

	return scanOrder(row)
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetByCustomer retrieves all orders for a customer
func (r *OrderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC, id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// GetAll retrieves all orders, newest first
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// Update updates an order's amounts and notes
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	totalAmount, err := decimalToPgNumeric(order.TotalAmount)
	if err != nil {
		return nil, err
	}
	advanceAmount, err := decimalToPgNumeric(order.AdvanceAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET order_date = $2, total_amount = $3, advance_amount = $4, notes = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		order.ID, pgtype.Date{Time: order.OrderDate, Valid: true},
		totalAmount, advanceAmount, order.Notes)

	updated, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdateStatus moves an order to a new status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int32, status string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status)

	updated, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var orderDate pgtype.Date
	var totalAmount, advanceAmount pgtype.Numeric

	err := row.Scan(&o.ID, &o.CustomerID, &orderDate, &o.Status, &totalAmount,
		&advanceAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.OrderDate = orderDate.Time
	o.TotalAmount = pgNumericToDecimal(totalAmount)
	o.AdvanceAmount = pgNumericToDecimal(advanceAmount)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
