package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (id, name, phone_number, pin_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.PhoneNumber,
		nullString(customer.PinHash),
	).Scan(&customer.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.ErrPhoneAlreadyRegistered
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT id, name, phone_number, COALESCE(pin_hash, ''), created_at
		FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&customer.ID, &customer.Name, &customer.PhoneNumber, &customer.PinHash, &customer.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return customer, nil
}

func (r *PostgresCustomerRepository) GetByPhone(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	query := `SELECT id, name, phone_number, COALESCE(pin_hash, ''), created_at
		FROM customers WHERE phone_number = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, phoneNumber).
		Scan(&customer.ID, &customer.Name, &customer.PhoneNumber, &customer.PinHash, &customer.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return customer, nil
}

func (r *PostgresCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT id, name, phone_number, COALESCE(pin_hash, ''), created_at
		FROM customers ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(&customer.ID, &customer.Name, &customer.PhoneNumber, &customer.PinHash, &customer.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over customers: %w", err)
	}
	return customers, nil
}

func (r *PostgresCustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if customer exists: %w", err)
	}
	return exists, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
