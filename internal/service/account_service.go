package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulnair/bank-backoffice/internal/auth"
	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
	"github.com/rahulnair/bank-backoffice/internal/repository"
)

type AccountService interface {
	Create(ctx context.Context, caller auth.Caller, req *models.CreateAccountRequest) (*models.Account, error)
	Get(ctx context.Context, caller auth.Caller, id string) (*models.Account, error)
	List(ctx context.Context, caller auth.Caller) ([]*models.Account, error)
	Update(ctx context.Context, caller auth.Caller, id string, req *models.UpdateAccountRequest) (*models.Account, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
	Deposit(ctx context.Context, caller auth.Caller, id string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, caller auth.Caller, id string, amount decimal.Decimal) (decimal.Decimal, error)
	Balance(ctx context.Context, caller auth.Caller, id string) (decimal.Decimal, error)
	Transfers(ctx context.Context, caller auth.Caller, id string) ([]*models.AccountTransfer, error)
}

type AccountServiceImpl struct {
	accountRepo  repository.AccountRepository
	customerRepo repository.CustomerRepository
	transferRepo repository.TransferRepository
	logger       *slog.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, customerRepo repository.CustomerRepository, transferRepo repository.TransferRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		transferRepo: transferRepo,
		logger:       logger,
	}
}

// Create opens an account for an existing customer with a positive initial
// deposit. Staff only.
func (s *AccountServiceImpl) Create(ctx context.Context, caller auth.Caller, req *models.CreateAccountRequest) (*models.Account, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return nil, err
	}

	if req.CustomerID == "" {
		return nil, errors.NewValidationError("customer_id", "must be non-empty")
	}
	if !req.InitialDeposit.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	exists, err := s.customerRepo.Exists(ctx, req.CustomerID)
	if err != nil {
		s.logger.Error("failed to check customer existence",
			"customer_id", req.CustomerID,
			"error", err.Error(),
		)
		return nil, err
	}
	if !exists {
		return nil, errors.ErrCustomerNotFound
	}

	account := &models.Account{
		ID:         uuid.New().String(),
		CustomerID: req.CustomerID,
		Balance:    req.InitialDeposit,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("failed to create account",
			"customer_id", req.CustomerID,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account created",
		"account_id", account.ID,
		"customer_id", account.CustomerID,
	)
	return account, nil
}

func (s *AccountServiceImpl) Get(ctx context.Context, caller auth.Caller, id string) (*models.Account, error) {
	account, err := s.loadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrStaff(caller, account.CustomerID); err != nil {
		return nil, err
	}
	return account, nil
}

// List returns every account for staff and only the caller's own accounts for
// customers.
func (s *AccountServiceImpl) List(ctx context.Context, caller auth.Caller) ([]*models.Account, error) {
	if caller.Role.IsStaff() {
		return s.accountRepo.List(ctx)
	}
	if caller.Role == auth.RoleCustomer {
		return s.accountRepo.ListByCustomer(ctx, caller.ID)
	}
	return nil, errors.ErrForbidden
}

// Update is an administrative override of balance and owner, unrelated to any
// transfer history. Staff only.
func (s *AccountServiceImpl) Update(ctx context.Context, caller auth.Caller, id string, req *models.UpdateAccountRequest) (*models.Account, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return nil, err
	}

	account, err := s.loadAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Balance != nil {
		if req.Balance.IsNegative() {
			return nil, errors.ErrNegativeBalance
		}
		account.Balance = *req.Balance
	}
	if req.CustomerID != nil {
		exists, err := s.customerRepo.Exists(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.ErrCustomerNotFound
		}
		account.CustomerID = *req.CustomerID
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("failed to update account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account updated",
		"account_id", account.ID,
		"customer_id", account.CustomerID,
	)
	return account, nil
}

func (s *AccountServiceImpl) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return err
	}
	if id == "" {
		return errors.NewValidationError("id", "must be non-empty")
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to delete account",
				"account_id", id,
				"error", err.Error(),
			)
		}
		return err
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, caller auth.Caller, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}

	balance, err := s.accountRepo.Credit(ctx, id, amount)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to deposit",
				"account_id", id,
				"error", err.Error(),
			)
		}
		return decimal.Decimal{}, err
	}

	s.logger.Info("deposit applied",
		"account_id", id,
		"amount", amount.String(),
	)
	return balance, nil
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, caller auth.Caller, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}

	balance, err := s.accountRepo.Debit(ctx, id, amount)
	if err != nil {
		if errors.IsInsufficientFunds(err) {
			s.logger.Warn("withdrawal rejected, insufficient funds",
				"account_id", id,
				"amount", amount.String(),
			)
		} else if !errors.IsNotFound(err) {
			s.logger.Error("failed to withdraw",
				"account_id", id,
				"error", err.Error(),
			)
		}
		return decimal.Decimal{}, err
	}

	s.logger.Info("withdrawal applied",
		"account_id", id,
		"amount", amount.String(),
	)
	return balance, nil
}

func (s *AccountServiceImpl) Balance(ctx context.Context, caller auth.Caller, id string) (decimal.Decimal, error) {
	account, err := s.loadAccount(ctx, id)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := auth.RequireOwnerOrStaff(caller, account.CustomerID); err != nil {
		return decimal.Decimal{}, err
	}
	return account.Balance, nil
}

// Transfers returns the account's transfer history, newest first, with each
// row annotated as outgoing or incoming relative to the account.
func (s *AccountServiceImpl) Transfers(ctx context.Context, caller auth.Caller, id string) ([]*models.AccountTransfer, error) {
	account, err := s.loadAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrStaff(caller, account.CustomerID); err != nil {
		return nil, err
	}

	transfers, err := s.transferRepo.ListByAccount(ctx, id)
	if err != nil {
		s.logger.Error("failed to list transfers for account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	annotated := make([]*models.AccountTransfer, 0, len(transfers))
	for _, t := range transfers {
		direction := models.DirectionIncoming
		if t.FromAccountID == id {
			direction = models.DirectionOutgoing
		}
		annotated = append(annotated, &models.AccountTransfer{
			Transfer:  *t,
			Direction: direction,
		})
	}
	return annotated, nil
}

func (s *AccountServiceImpl) loadAccount(ctx context.Context, id string) (*models.Account, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "must be non-empty")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("failed to load account %s: %w", id, err)
	}
	return account, nil
}
