package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
)

// In-memory repository fakes. The *sql.Tx variants are only reached through a
// real database transaction, so the fakes back them with the same map.

type fakeCustomerRepo struct {
	customers map[string]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	for _, existing := range r.customers {
		if existing.PhoneNumber == customer.PhoneNumber {
			return errors.ErrPhoneAlreadyRegistered
		}
	}
	customer.CreatedAt = time.Now().UTC()
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, errors.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *fakeCustomerRepo) GetByPhone(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	for _, customer := range r.customers {
		if customer.PhoneNumber == phoneNumber {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, errors.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	for _, customer := range r.customers {
		clone := *customer
		customers = append(customers, &clone)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].CreatedAt.Before(customers[j].CreatedAt) })
	return customers, nil
}

func (r *fakeCustomerRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.customers[id]
	return ok, nil
}

type fakeAccountRepo struct {
	accounts map[string]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.Account)}
}

func (r *fakeAccountRepo) add(id, customerID string, balance decimal.Decimal) {
	now := time.Now().UTC()
	r.accounts[id] = &models.Account{
		ID:         id,
		CustomerID: customerID,
		Balance:    balance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, account := range r.accounts {
		clone := *account
		accounts = append(accounts, &clone)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *fakeAccountRepo) ListByCustomer(ctx context.Context, customerID string) ([]*models.Account, error) {
	all, _ := r.List(ctx)
	var accounts []*models.Account
	for _, account := range all {
		if account.CustomerID == customerID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return errors.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now().UTC()
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return errors.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) Credit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, ok := r.accounts[id]
	if !ok {
		return decimal.Decimal{}, errors.ErrAccountNotFound
	}
	account.Balance = account.Balance.Add(amount)
	return account.Balance, nil
}

func (r *fakeAccountRepo) Debit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, ok := r.accounts[id]
	if !ok {
		return decimal.Decimal{}, errors.ErrAccountNotFound
	}
	if account.Balance.LessThan(amount) {
		return decimal.Decimal{}, errors.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)
	return account.Balance, nil
}

func (r *fakeAccountRepo) CreditTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error {
	_, err := r.Credit(ctx, id, amount)
	return err
}

func (r *fakeAccountRepo) DebitTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error {
	_, err := r.Debit(ctx, id, amount)
	return err
}

type fakeTransferRepo struct {
	transfers []*models.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{}
}

func (r *fakeTransferRepo) Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = "t" + time.Now().Format("150405.000000000")
	}
	transfer.CreatedAt = time.Now().UTC()
	clone := *transfer
	r.transfers = append(r.transfers, &clone)
	return nil
}

func (r *fakeTransferRepo) ListAll(ctx context.Context) ([]*models.Transfer, error) {
	transfers := make([]*models.Transfer, 0, len(r.transfers))
	for i := len(r.transfers) - 1; i >= 0; i-- {
		clone := *r.transfers[i]
		transfers = append(transfers, &clone)
	}
	return transfers, nil
}

func (r *fakeTransferRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Transfer, error) {
	all, _ := r.ListAll(ctx)
	var transfers []*models.Transfer
	for _, transfer := range all {
		if transfer.FromAccountID == accountID || transfer.ToAccountID == accountID {
			transfers = append(transfers, transfer)
		}
	}
	return transfers, nil
}
