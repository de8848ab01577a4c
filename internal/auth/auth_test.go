package auth

import (
	goerrors "errors"
	"testing"
	"time"

	"github.com/rahulnair/bank-backoffice/internal/errors"
)

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("cust-1", RoleCustomer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	caller, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if caller.ID != "cust-1" || caller.Role != RoleCustomer {
		t.Fatalf("caller = %+v, want id=cust-1 role=customer", caller)
	}
}

func TestTokenBearerPrefix(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("emp-1", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	caller, err := tm.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("Verify with Bearer prefix: %v", err)
	}
	if caller.ID != "emp-1" || caller.Role != RoleAdmin {
		t.Fatalf("caller = %+v, want id=emp-1 role=admin", caller)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue("cust-1", RoleCustomer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tm.Verify(token); !goerrors.Is(err, errors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("cust-1", RoleCustomer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !goerrors.Is(err, errors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for wrong secret, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	for _, raw := range []string{"", "Bearer ", "not-a-token", "Bearer not.a.token"} {
		if _, err := tm.Verify(raw); !goerrors.Is(err, errors.ErrUnauthenticated) {
			t.Fatalf("Verify(%q): expected ErrUnauthenticated, got %v", raw, err)
		}
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		allowed []Role
		wantErr bool
	}{
		{"admin allowed", Caller{ID: "e1", Role: RoleAdmin}, []Role{RoleAdmin, RoleEmployee}, false},
		{"employee allowed", Caller{ID: "e2", Role: RoleEmployee}, []Role{RoleAdmin, RoleEmployee}, false},
		{"customer rejected", Caller{ID: "c1", Role: RoleCustomer}, []Role{RoleAdmin, RoleEmployee}, true},
		{"customer allowed explicitly", Caller{ID: "c1", Role: RoleCustomer}, []Role{RoleCustomer}, false},
		{"empty allowed set rejects everyone", Caller{ID: "e1", Role: RoleAdmin}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.caller, tt.allowed...)
			if tt.wantErr && !goerrors.Is(err, errors.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequireOwnerOrStaff(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		ownerID string
		wantErr bool
	}{
		{"admin bypasses ownership", Caller{ID: "e1", Role: RoleAdmin}, "c9", false},
		{"employee bypasses ownership", Caller{ID: "e2", Role: RoleEmployee}, "c9", false},
		{"owning customer allowed", Caller{ID: "c1", Role: RoleCustomer}, "c1", false},
		{"other customer rejected", Caller{ID: "c1", Role: RoleCustomer}, "c2", true},
		{"unknown role rejected", Caller{ID: "x", Role: Role("ghost")}, "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwnerOrStaff(tt.caller, tt.ownerID)
			if tt.wantErr && !goerrors.Is(err, errors.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHashAndCheckSecret(t *testing.T) {
	hashed, err := HashSecret("1234")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if hashed == "1234" {
		t.Fatal("hash must not equal the plain secret")
	}
	if !CheckSecret("1234", hashed) {
		t.Fatal("CheckSecret should accept the original secret")
	}
	if CheckSecret("4321", hashed) {
		t.Fatal("CheckSecret should reject a wrong secret")
	}
}
