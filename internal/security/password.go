package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless configured otherwise.
const DefaultCost = 10

// Hasher derives and checks salted bcrypt password hashes.
type Hasher struct {
	cost int

	// dummy is compared against when no user matches, so a login for an
	// unknown email spends the same bcrypt time as a wrong password. It is
	// built at the configured cost.
	dummy []byte
}

// NewHasher clamps cost into the range bcrypt accepts.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		// only reachable on a failing entropy source
		panic("security: build dummy hash: " + err.Error())
	}

	return Hasher{cost: cost, dummy: dummy}
}

// HashPassword hashes a plain text password with bcrypt.
func (h Hasher) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
// A mismatch is reported as bcrypt.ErrMismatchedHashAndPassword.
func (h Hasher) CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

func (h Hasher) Burn(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}

// IsMismatch reports whether err means "wrong password" rather than a broken hash.
func IsMismatch(err error) bool {
	return errors.Is(err, bcrypt.ErrMismatchedHashAndPassword)
}
