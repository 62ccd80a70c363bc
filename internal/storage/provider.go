package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parking-slot-control/internal/config"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record already exists")
	ErrSlotTaken  = errors.New("slot no longer available")
	ErrNotPending = errors.New("request is not pending")
)

// ListParams is the common paging/search input for listings.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	// Restrict to rows owned by this user. Nil means no restriction (admin).
	OwnerID *int64
	// Slots only: restrict to status=available.
	AvailableOnly bool
}

func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// User methods
	CreateUser(ctx context.Context, user User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, params ListParams) (*Page[User], error)
	MarkUserVerified(ctx context.Context, id int64) error

	// Vehicle methods
	CreateVehicle(ctx context.Context, vehicle Vehicle) (*Vehicle, error)
	GetVehicleForUser(ctx context.Context, id, userID int64) (*Vehicle, error)
	ListVehicles(ctx context.Context, params ListParams) (*Page[Vehicle], error)
	UpdateVehicle(ctx context.Context, vehicle Vehicle) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id, userID int64) error

	// Parking slot methods
	CreateSlots(ctx context.Context, slots []ParkingSlot) ([]ParkingSlot, error)
	ListSlots(ctx context.Context, params ListParams) (*Page[ParkingSlot], error)
	UpdateSlot(ctx context.Context, slot ParkingSlot) (*ParkingSlot, error)
	DeleteSlot(ctx context.Context, id int64) (string, error)
	// FindCompatibleSlots returns available slots matching the vehicle,
	// ordered by ascending id so allocation is deterministic when several
	// slots tie.
	FindCompatibleSlots(ctx context.Context, vehicleType, size string) ([]ParkingSlot, error)
	// FindSlotLocation reports a location string for any slot matching the
	// vehicle regardless of availability. Used for rejection notices only.
	FindSlotLocation(ctx context.Context, vehicleType, size string) (string, error)

	// Slot request methods
	CreateRequest(ctx context.Context, request SlotRequest) (*SlotRequest, error)
	GetRequest(ctx context.Context, id int64) (*SlotRequest, error)
	GetPendingRequestDetail(ctx context.Context, id int64) (*RequestDetail, error)
	ListRequests(ctx context.Context, params ListParams) (*Page[RequestWithVehicle], error)
	// UpdateRequest persists new times/vehicle/amount iff the request is
	// still pending and owned by request.UserID.
	UpdateRequest(ctx context.Context, request SlotRequest) (*SlotRequest, error)
	DeleteRequest(ctx context.Context, id, userID int64) error
	// ApproveRequest claims the slot and transitions the request in one
	// transaction. The slot claim is a conditional update re-checking
	// status=available; ErrSlotTaken is returned (and everything rolled
	// back) when a concurrent approval won the slot.
	ApproveRequest(ctx context.Context, requestID int64, slot ParkingSlot, approvedAt time.Time) (*SlotRequest, error)
	// RejectRequest transitions pending -> rejected with a conditional
	// update so it cannot race a concurrent approval.
	RejectRequest(ctx context.Context, id int64) (*SlotRequest, error)

	// Audit log methods
	AppendLog(ctx context.Context, userID int64, action string) error
	ListLogs(ctx context.Context, params ListParams) (*Page[LogEntry], error)

	// OTP methods
	CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, email, code string) (bool, error)
	ExpireOTPs(ctx context.Context, now time.Time) error
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.PostgreSQL != nil:
		provider := NewPostgresProvider(config)
		if provider == nil {
			slog.Error("Failed to open postgres storage")
			return nil
		}
		if err := provider.runMigrations("postgres"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			slog.Error("Failed to open sqlite storage")
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
