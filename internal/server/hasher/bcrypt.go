// Package hasher implements one-way hashing of PINs with bcrypt.
package hasher

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless configured otherwise.
const DefaultCost = 10

// dummySecret feeds Burn. Its value is irrelevant; only the cost matters.
const dummySecret = "gophauth-timing-equalizer"

// Bcrypt hashes and verifies secrets. It holds no mutable state and is safe
// for concurrent use.
type Bcrypt struct {
	cost  int
	dummy []byte
}

// New returns a Bcrypt hasher with the given cost.
func New(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, &common.ConfigurationError{
			Field: "BcryptCost",
			Msg:   fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost),
		}
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummySecret), cost)
	if err != nil {
		return nil, fmt.Errorf("hasher: prepare dummy hash: %w", err)
	}
	return &Bcrypt{cost: cost, dummy: dummy}, nil
}

// Cost reports the configured work factor.
func (b *Bcrypt) Cost() int { return b.cost }

// Hash returns a salted bcrypt digest of secret. Two calls on the same
// input return different strings.
func (b *Bcrypt) Hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether secret matches hash. Any comparison that cannot be
// completed, including a malformed hash, yields false.
func (b *Bcrypt) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Burn performs one full comparison against an internal hash and discards
// the result, so a lookup miss costs the same as a wrong secret.
func (b *Bcrypt) Burn(secret string) {
	_ = bcrypt.CompareHashAndPassword(b.dummy, []byte(secret))
}
