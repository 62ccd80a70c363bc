// Package otp keeps short-lived one-time login codes. Codes are consumed on
// first use; expiry is enforced on read and by a background janitor.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"parking-slot-control/internal/config"
	"parking-slot-control/internal/storage"
)

const codeDigits = 6

type StoreType string

// Supported OTP stores.
const (
	Memory StoreType = "memory"
	SQL    StoreType = "sql"
)

type Store interface {
	// Put stores a code for an email address with a TTL.
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume verifies and deletes the code.
	// Returns true if a live matching code existed.
	Consume(ctx context.Context, email, code string) (bool, error)

	ExpireCodes(ctx context.Context) error
}

// GenerateCode returns a random numeric code of codeDigits digits.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

// NewStore builds the appropriate Store implementation based on cfg.
func NewStore(cfg *config.Config, provider storage.Provider) (Store, error) {
	switch StoreType(cfg.OTPStore) {
	case Memory:
		return NewMemoryStore(), nil
	case SQL:
		return NewSQLStore(provider), nil
	default:
		return nil, fmt.Errorf("unknown otp store type %q", cfg.OTPStore)
	}
}

// InitStore builds the configured store and starts its janitor.
func InitStore(cfg *config.Config, provider storage.Provider) (Store, error) {
	store, err := NewStore(cfg, provider)
	if err != nil {
		return nil, err
	}

	switch s := store.(type) {
	case *MemoryStore:
		go s.janitor()
	case *SQLStore:
		go s.janitor()
	}

	slog.Info("Initialized OTP store", "type", cfg.OTPStore)
	return store, nil
}
