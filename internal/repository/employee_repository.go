package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
}

type PostgresEmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `INSERT INTO employees (id, email, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		employee.ID,
		employee.Email,
		employee.PasswordHash,
		employee.Role,
		employee.IsActive,
	).Scan(&employee.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.ErrEmployeeAlreadyExists
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *PostgresEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT id, email, password_hash, role, is_active, created_at
		FROM employees WHERE email = $1`

	employee := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&employee.ID, &employee.Email, &employee.PasswordHash, &employee.Role, &employee.IsActive, &employee.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return employee, nil
}
