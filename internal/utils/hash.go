package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted bcrypt hash from a plaintext password.
//
// bcrypt embeds the salt and cost parameters in the produced hash, so
// verification needs no additional state. cost values outside the range
// supported by bcrypt fall back to bcrypt.DefaultCost.
//
// Returns an error only on internal failure; any non-empty password of
// acceptable length hashes successfully.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("error occurred during password hashing: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches the given bcrypt hash.
//
// The comparison is constant-time with respect to the password, so it is
// safe against timing side channels. A mismatch is not an error condition;
// the error return signals malformed hashes or internal failure only.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("error occurred during password verification: %w", err)
}
