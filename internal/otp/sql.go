package otp

import (
	"context"
	"log/slog"
	"time"

	"parking-slot-control/internal/storage"
)

// SQLStore persists codes through the storage provider so they survive
// restarts and are shared between instances.
type SQLStore struct {
	storage storage.Provider
	stop    chan struct{}
}

func NewSQLStore(provider storage.Provider) *SQLStore {
	return &SQLStore{
		storage: provider,
		stop:    make(chan struct{}),
	}
}

func (s *SQLStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.storage.CreateOTP(ctx, email, code, time.Now().UTC().Add(ttl))
}

func (s *SQLStore) Consume(ctx context.Context, email, code string) (bool, error) {
	return s.storage.ConsumeOTP(ctx, email, code)
}

func (s *SQLStore) ExpireCodes(ctx context.Context) error {
	return s.storage.ExpireOTPs(ctx, time.Now().UTC())
}

func (s *SQLStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.ExpireCodes(context.Background()); err != nil {
				slog.Warn("Failed to expire OTP codes", "error", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the janitor
func (s *SQLStore) Close() {
	close(s.stop)
}
