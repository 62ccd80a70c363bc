package parking

import (
	"context"
	"errors"
	"fmt"

	"parking-slot-control/internal/storage"
)

// RequestInput is the client-supplied portion of a slot request.
type RequestInput struct {
	VehicleID int64  `json:"vehicle_id"`
	EntryTime string `json:"entry_time"`
	ExitTime  string `json:"exit_time"`
}

// validated resolves the input against the actor's vehicles and computes the
// fee. Shared by Create and Update.
func (s *Service) validated(ctx context.Context, actor Actor, in RequestInput) (*storage.SlotRequest, error) {
	if in.VehicleID == 0 || in.EntryTime == "" || in.ExitTime == "" {
		return nil, fmt.Errorf("%w: vehicle ID, entry time, and exit time are required", ErrValidation)
	}

	entry, err := ParseTime(in.EntryTime)
	if err != nil {
		return nil, err
	}
	exit, err := ParseTime(in.ExitTime)
	if err != nil {
		return nil, err
	}
	if !exit.After(entry) {
		return nil, fmt.Errorf("%w: exit time must be after entry time", ErrValidation)
	}

	// Ownership check doubles as the existence check.
	if _, err := s.store.GetVehicleForUser(ctx, in.VehicleID, actor.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle not found", ErrNotFound)
		}
		return nil, err
	}

	return &storage.SlotRequest{
		UserID:    actor.UserID,
		VehicleID: in.VehicleID,
		EntryTime: entry,
		ExitTime:  exit,
		Amount:    Fee(entry, exit, s.hourlyRate),
	}, nil
}

// CreateRequest files a new pending slot request owned by the actor.
func (s *Service) CreateRequest(ctx context.Context, actor Actor, in RequestInput) (*storage.SlotRequest, error) {
	request, err := s.validated(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateRequest(ctx, *request)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Request created for vehicle %d, amount %d", in.VehicleID, created.Amount))
	return created, nil
}

// ListRequests returns a page of requests joined with vehicle plate/type.
// Non-admin actors only ever see their own requests.
func (s *Service) ListRequests(ctx context.Context, actor Actor, page, limit int, search string) (*storage.Page[storage.RequestWithVehicle], error) {
	params := listParams(page, limit, search)
	if !actor.IsAdmin() {
		params.OwnerID = &actor.UserID
	}

	result, err := s.store.ListRequests(ctx, params)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor.UserID, "Viewed slot requests")
	return result, nil
}

// UpdateRequest replaces the vehicle and time window of a request that is
// still pending and owned by the actor, recomputing the fee.
func (s *Service) UpdateRequest(ctx context.Context, actor Actor, id int64, in RequestInput) (*storage.SlotRequest, error) {
	request, err := s.validated(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	request.ID = id

	updated, err := s.store.UpdateRequest(ctx, *request)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: request not found or not editable", ErrNotFound)
		}
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Request %d updated, amount %d", id, updated.Amount))
	return updated, nil
}

// DeleteRequest removes a pending request owned by the actor.
func (s *Service) DeleteRequest(ctx context.Context, actor Actor, id int64) error {
	if err := s.store.DeleteRequest(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: request not found or not deletable", ErrNotFound)
		}
		return err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Request %d deleted", id))
	return nil
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func listParams(page, limit int, search string) storage.ListParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return storage.ListParams{Page: page, Limit: limit, Search: search}
}
