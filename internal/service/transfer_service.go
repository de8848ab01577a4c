package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rahulnair/bank-backoffice/internal/auth"
	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
	"github.com/rahulnair/bank-backoffice/internal/repository"
)

type TransferService interface {
	Create(ctx context.Context, caller auth.Caller, req *models.CreateTransferRequest) (*models.Transfer, error)
	List(ctx context.Context, caller auth.Caller) ([]*models.Transfer, error)
}

type TransferServiceImpl struct {
	db           *sql.DB
	accountRepo  repository.AccountRepository
	transferRepo repository.TransferRepository
	logger       *slog.Logger
}

func NewTransferService(db *sql.DB, accountRepo repository.AccountRepository, transferRepo repository.TransferRepository, logger *slog.Logger) *TransferServiceImpl {
	return &TransferServiceImpl{
		db:           db,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		logger:       logger,
	}
}

// Create moves funds between two accounts. The debit, credit, and transfer
// row insert happen inside one database transaction with both account rows
// locked, so no reader ever observes a partial transfer.
func (s *TransferServiceImpl) Create(ctx context.Context, caller auth.Caller, req *models.CreateTransferRequest) (*models.Transfer, error) {
	if err := s.validateTransferRequest(req); err != nil {
		s.logger.Warn("invalid transfer request",
			"from_account_id", req.FromAccountID,
			"to_account_id", req.ToAccountID,
			"amount", req.Amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	// Resolve both accounts up front so missing ids and ownership failures
	// surface before any mutation.
	source, err := s.accountRepo.GetByID(ctx, req.FromAccountID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("source account %s: %w", req.FromAccountID, err)
		}
		return nil, errors.NewTransactionError("get source account", err)
	}

	if _, err := s.accountRepo.GetByID(ctx, req.ToAccountID); err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("destination account %s: %w", req.ToAccountID, err)
		}
		return nil, errors.NewTransactionError("get destination account", err)
	}

	// Customers may only move funds out of their own accounts.
	if err := auth.RequireOwnerOrStaff(caller, source.CustomerID); err != nil {
		s.logger.Warn("transfer rejected, caller does not own source account",
			"from_account_id", req.FromAccountID,
			"caller_id", caller.ID,
			"caller_role", string(caller.Role),
		)
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Error("failed to begin transaction", "error", err.Error())
		return nil, errors.NewTransactionError("begin", err)
	}

	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	// Lock both rows in ascending id order so two opposing transfers on the
	// same pair cannot deadlock.
	first, second := req.FromAccountID, req.ToAccountID
	if second < first {
		first, second = second, first
	}
	if _, err := s.accountRepo.GetByIDForUpdate(ctx, tx, first); err != nil {
		return nil, s.lockError(first, req, err)
	}
	if _, err := s.accountRepo.GetByIDForUpdate(ctx, tx, second); err != nil {
		return nil, s.lockError(second, req, err)
	}

	if err := s.accountRepo.DebitTx(ctx, tx, req.FromAccountID, req.Amount); err != nil {
		if errors.IsInsufficientFunds(err) {
			s.logger.Warn("transfer rejected, insufficient funds",
				"from_account_id", req.FromAccountID,
				"amount", req.Amount.String(),
			)
			return nil, err
		}
		return nil, errors.NewTransactionError("debit source account", err)
	}

	if err := s.accountRepo.CreditTx(ctx, tx, req.ToAccountID, req.Amount); err != nil {
		return nil, errors.NewTransactionError("credit destination account", err)
	}

	transfer := &models.Transfer{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	}

	if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, errors.NewTransactionError("create transfer record", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transfer",
			"transfer_id", transfer.ID,
			"error", err.Error(),
		)
		return nil, errors.NewTransactionError("commit", err)
	}

	// Nullify tx to avoid rollback in defer
	tx = nil

	s.logger.Info("transfer completed",
		"transfer_id", transfer.ID,
		"from_account_id", transfer.FromAccountID,
		"to_account_id", transfer.ToAccountID,
		"amount", transfer.Amount.String(),
	)
	return transfer, nil
}

// List returns every transfer, newest first. Customers are restricted to the
// per-account history instead.
func (s *TransferServiceImpl) List(ctx context.Context, caller auth.Caller) ([]*models.Transfer, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return nil, err
	}
	return s.transferRepo.ListAll(ctx)
}

func (s *TransferServiceImpl) validateTransferRequest(req *models.CreateTransferRequest) error {
	if req.FromAccountID == "" {
		return errors.NewValidationError("from_account_id", "must be non-empty")
	}
	if req.ToAccountID == "" {
		return errors.NewValidationError("to_account_id", "must be non-empty")
	}
	if req.FromAccountID == req.ToAccountID {
		return errors.ErrSameAccount
	}
	if !req.Amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	return nil
}

func (s *TransferServiceImpl) lockError(id string, req *models.CreateTransferRequest, err error) error {
	if errors.IsNotFound(err) {
		// The account existed moments ago; it was deleted concurrently.
		return fmt.Errorf("account %s: %w", id, err)
	}
	s.logger.Error("failed to lock account for transfer",
		"account_id", id,
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"error", err.Error(),
	)
	return errors.NewTransactionError("lock account", err)
}
