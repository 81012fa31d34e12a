// Package security wraps password hashing. Grounded on the original system's
// hashed_password login flow; bcrypt is the ecosystem-standard choice for it
// (no pack example shows an alternative), documented in DESIGN.md.
package security

import "golang.org/x/crypto/bcrypt"

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
