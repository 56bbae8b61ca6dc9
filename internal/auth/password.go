package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and checks bcrypt password hashes.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher. A cost outside the bcrypt range falls back
// to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted one-way hash of the password. bcrypt embeds a fresh
// random salt per call, so hashing the same password twice yields different
// outputs.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. The comparison is
// constant time; a malformed stored hash counts as a mismatch.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
