// Package hasher provides hashing implementations and a ready-made
// secret field descriptor that hashes on write.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/fieldprop/core/field"
)

// Hasher hashes plaintext values.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(hash []byte, plaintext string) bool
}

// Bcrypt uses bcrypt for hashing.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the given cost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash generates a bcrypt hash from plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare checks if plaintext matches hash.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

var _ Hasher = (*Bcrypt)(nil)

// Fake provides a no-op hasher for testing (NOT FOR PRODUCTION).
type Fake struct{}

// Hash returns the plaintext as bytes (no actual hashing).
func (Fake) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Compare does simple equality check.
func (Fake) Compare(hash []byte, plaintext string) bool {
	return string(hash) == plaintext
}

var _ Hasher = Fake{}

// SecretField returns a descriptor backed by slot that stores only the
// hash of values written to it. The materialized map never retains the
// plaintext past the write's refresh pass.
func SecretField(slot string, h Hasher) *field.Descriptor {
	d := field.Slot(slot, field.Config{Default: ""})
	return d.Setter(func(inst field.Instance, value any) error {
		plaintext, ok := value.(string)
		if !ok {
			return fmt.Errorf("secret field: expected string, got %T", value)
		}
		hash, err := h.Hash(plaintext)
		if err != nil {
			return fmt.Errorf("hash secret: %w", err)
		}
		return inst.SetSlot(slot, string(hash))
	})
}
