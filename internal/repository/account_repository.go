package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	Credit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
	CreditTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error
	DebitTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error
}

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (id, customer_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, account.ID, account.CustomerID, account.Balance).
		Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT id, customer_id, balance, created_at, updated_at FROM accounts WHERE id = $1`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.CustomerID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	query := `SELECT id, customer_id, balance, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`

	account := &models.Account{}
	err := tx.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.CustomerID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID for update: %w", err)
	}

	return account, nil
}

func (r *PostgresAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT id, customer_id, balance, created_at, updated_at FROM accounts ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *PostgresAccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Account, error) {
	query := `SELECT id, customer_id, balance, created_at, updated_at FROM accounts
		WHERE customer_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by customer: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Update overwrites balance and owner id. Administrative use only.
func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET customer_id = $1, balance = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, account.CustomerID, account.Balance, account.ID).
		Scan(&account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return errors.ErrAccountNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting account: %w", err)
	}

	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}

	return nil
}

// Credit adds amount to the balance atomically and returns the new balance.
func (r *PostgresAccountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING balance`

	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Decimal{}, errors.ErrAccountNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("failed to credit account: %w", err)
	}
	return balance, nil
}

// Debit subtracts amount atomically. The balance >= amount guard enforces the
// no-negative-balance invariant at the storage layer.
func (r *PostgresAccountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts SET balance = balance - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND balance >= $1
		RETURNING balance`

	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if err != sql.ErrNoRows {
		return decimal.Decimal{}, fmt.Errorf("failed to debit account: %w", err)
	}

	// Disambiguate a missing row from a guard rejection.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to check account existence: %w", err)
	}
	if !exists {
		return decimal.Decimal{}, errors.ErrAccountNotFound
	}
	return decimal.Decimal{}, errors.ErrInsufficientFunds
}

func (r *PostgresAccountRepository) CreditTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := tx.ExecContext(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after crediting account: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) DebitTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND balance >= $1`

	result, err := tx.ExecContext(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after debiting account: %w", err)
	}
	if rowsAffected == 0 {
		// The row is locked by the caller, so the only way the guard fails
		// is an insufficient balance.
		return errors.ErrInsufficientFunds
	}
	return nil
}

func scanAccounts(rows *sql.Rows) ([]*models.Account, error) {
	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(&account.ID, &account.CustomerID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}
