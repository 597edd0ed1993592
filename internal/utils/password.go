package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// HashPassword returns the bcrypt hash of plain.  Costs outside bcrypt's
// range fall back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash with a login attempt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
