package parking

import (
	"context"
	"log/slog"

	"parking-slot-control/internal/storage"
)

// Notifier is the outcome-email side channel of the lifecycle. Failures are
// recorded, never escalated.
type Notifier interface {
	SendApproval(ctx context.Context, to, plateNumber, slotNumber, location string) error
	SendRejection(ctx context.Context, to, plateNumber, location, reason string) error
	SendPaymentSuccess(ctx context.Context, to, plateNumber, slotNumber, location string, amount int64) error
}

// EmailStatus reports the outcome of one best-effort notification.
type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Service implements the slot request lifecycle: the request ledger, the
// allocation procedure and the surrounding slot/vehicle administration.
type Service struct {
	store  storage.Provider
	notify Notifier

	// Fee per started hour.
	hourlyRate int64

	logger *slog.Logger
}

func NewService(store storage.Provider, notify Notifier, hourlyRate int64) *Service {
	return &Service{
		store:      store,
		notify:     notify,
		hourlyRate: hourlyRate,
		logger:     slog.With("component", "parking"),
	}
}

// audit appends to the audit trail. Append failures are logged server-side
// and swallowed; they never affect the calling operation.
func (s *Service) audit(ctx context.Context, userID int64, action string) {
	if err := s.store.AppendLog(ctx, userID, action); err != nil {
		s.logger.Warn("Audit log append failed", "user_id", userID, "action", action, "error", err)
	}
}
