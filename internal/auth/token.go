package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rahulnair/bank-backoffice/internal/errors"
)

// TokenManager issues and verifies HS256 bearer tokens carrying the caller
// identity and role.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *TokenManager) Issue(subjectID string, role Role) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	})

	return token.SignedString(m.secret)
}

// Verify parses and validates a raw token and returns the caller it encodes.
// A leading "Bearer " prefix is tolerated.
func (m *TokenManager) Verify(raw string) (Caller, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "Bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return Caller{}, errors.ErrUnauthenticated
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrUnauthenticated
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, errors.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, errors.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := Role(roleStr)
	if sub == "" || !role.Valid() {
		return Caller{}, errors.ErrUnauthenticated
	}

	return Caller{ID: sub, Role: role}, nil
}
