package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes an employee password or customer PIN with bcrypt.
func HashSecret(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckSecret reports whether plain matches the stored bcrypt hash.
func CheckSecret(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
