package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravtsov/salonbot/internal/model"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (phone, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, customer.Phone, customer.Name).
		Scan(&customer.ID, &customer.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create customer: %w", err)
	}

	return nil
}

// GetByPhone returns the customer with the given phone, or nil if absent.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	query := `
		SELECT id, phone, name, created_at
		FROM customers
		WHERE phone = $1
	`

	var customer model.Customer
	err := r.pool.QueryRow(ctx, query, phone).Scan(
		&customer.ID,
		&customer.Phone,
		&customer.Name,
		&customer.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}

	return &customer, nil
}

// UpdateName backfills the display name.
func (r *CustomerRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `
		UPDATE customers
		SET name = $1
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("update customer name: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer not found")
	}

	return nil
}
