package service

import (
	"context"
	goerrors "errors"
	"strings"
	"testing"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
)

// The happy path needs a real database transaction and is covered by the
// integration tests. These exercise every rule that fires before the
// transaction begins.

func newTransferFixture(t *testing.T) (*TransferServiceImpl, *fakeAccountRepo, *fakeTransferRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	transfers := newFakeTransferRepo()
	svc := NewTransferService(nil, accounts, transfers, testLogger())
	return svc, accounts, transfers
}

func TestTransferValidation(t *testing.T) {
	svc, accounts, _ := newTransferFixture(t)
	ctx := context.Background()
	accounts.add("acc-a", "cust-alice", dec("1000"))
	accounts.add("acc-b", "cust-bob", dec("200"))

	tests := []struct {
		name string
		req  models.CreateTransferRequest
		want error
	}{
		{"same account", models.CreateTransferRequest{FromAccountID: "acc-a", ToAccountID: "acc-a", Amount: dec("10")}, errors.ErrSameAccount},
		{"zero amount", models.CreateTransferRequest{FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: dec("0")}, errors.ErrInvalidAmount},
		{"negative amount", models.CreateTransferRequest{FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: dec("-5")}, errors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, staff, &tt.req); !goerrors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	// empty ids are validation errors
	if _, err := svc.Create(ctx, staff, &models.CreateTransferRequest{ToAccountID: "acc-b", Amount: dec("10")}); !errors.IsValidationError(err) {
		t.Fatalf("expected validation error for empty source, got %v", err)
	}
}

func TestTransferMissingAccounts(t *testing.T) {
	svc, accounts, _ := newTransferFixture(t)
	ctx := context.Background()
	accounts.add("acc-a", "cust-alice", dec("1000"))

	_, err := svc.Create(ctx, staff, &models.CreateTransferRequest{
		FromAccountID: "acc-ghost", ToAccountID: "acc-a", Amount: dec("10"),
	})
	if !goerrors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for source, got %v", err)
	}
	// the error names the missing account
	if !strings.Contains(err.Error(), "acc-ghost") {
		t.Fatalf("error should name the missing account id: %v", err)
	}

	_, err = svc.Create(ctx, staff, &models.CreateTransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-ghost", Amount: dec("10"),
	})
	if !goerrors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for destination, got %v", err)
	}
	if !strings.Contains(err.Error(), "acc-ghost") {
		t.Fatalf("error should name the missing account id: %v", err)
	}

	// the source balance is untouched by the failed attempt
	source, _ := accounts.GetByID(ctx, "acc-a")
	if !source.Balance.Equal(dec("1000")) {
		t.Fatalf("source balance = %s after failed transfer, want 1000", source.Balance)
	}
}

func TestTransferOwnershipIsolation(t *testing.T) {
	svc, accounts, _ := newTransferFixture(t)
	ctx := context.Background()
	accounts.add("acc-a", "cust-alice", dec("1000"))
	accounts.add("acc-b", "cust-bob", dec("200"))

	// a customer cannot move funds out of someone else's account
	_, err := svc.Create(ctx, bob, &models.CreateTransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: dec("10"),
	})
	if !goerrors.Is(err, errors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	source, _ := accounts.GetByID(ctx, "acc-a")
	if !source.Balance.Equal(dec("1000")) {
		t.Fatalf("source balance = %s after forbidden transfer, want 1000", source.Balance)
	}

	// a missing destination is reported before ownership is considered
	_, err = svc.Create(ctx, bob, &models.CreateTransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-ghost", Amount: dec("10"),
	})
	if !goerrors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for missing destination, got %v", err)
	}
}

func TestListTransfersStaffOnly(t *testing.T) {
	svc, _, transfers := newTransferFixture(t)
	ctx := context.Background()

	transfers.Create(ctx, nil, &models.Transfer{ID: "t1", FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: dec("10")})
	transfers.Create(ctx, nil, &models.Transfer{ID: "t2", FromAccountID: "acc-b", ToAccountID: "acc-a", Amount: dec("20")})

	listed, err := svc.List(ctx, employee)
	if err != nil {
		t.Fatalf("staff List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d transfers, want 2", len(listed))
	}
	if listed[0].ID != "t2" {
		t.Fatalf("listed[0] = %s, want newest first (t2)", listed[0].ID)
	}

	if _, err := svc.List(ctx, alice); !goerrors.Is(err, errors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer, got %v", err)
	}
}
