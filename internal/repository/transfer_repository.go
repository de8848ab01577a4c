package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rahulnair/bank-backoffice/internal/models"
)

type TransferRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error
	ListAll(ctx context.Context) ([]*models.Transfer, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Transfer, error)
}

type PostgresTransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *PostgresTransferRepository {
	return &PostgresTransferRepository{db: db}
}

// Create inserts the transfer row inside the caller's transaction so it
// commits atomically with the balance updates it records.
func (r *PostgresTransferRepository) Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}

	query := `INSERT INTO transfers (id, from_account_id, to_account_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := tx.QueryRowContext(ctx, query,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
	).Scan(&transfer.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *PostgresTransferRepository) ListAll(ctx context.Context) ([]*models.Transfer, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, created_at
		FROM transfers
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func (r *PostgresTransferRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Transfer, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, created_at
		FROM transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers by account ID: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func scanTransfers(rows *sql.Rows) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	for rows.Next() {
		transfer := &models.Transfer{}
		err := rows.Scan(&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID, &transfer.Amount, &transfer.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transfers: %w", err)
	}
	return transfers, nil
}
