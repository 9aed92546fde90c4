package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userhub/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is fixed; it is not part of the runtime configuration.
const passwordCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of p.
func HashPassword(p models.PlaintextSecret) (models.HashedSecret, error) {
	h, err := bcrypt.GenerateFromPassword(p.Bytes(), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return models.HashedSecret(h), nil
}

// VerifyPassword reports whether p matches the stored hash. A mismatch is
// (false, nil); a hash that cannot be decoded is (false, err).
func VerifyPassword(p models.PlaintextSecret, hash models.HashedSecret) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), p.Bytes())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
