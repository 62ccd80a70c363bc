package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parking-slot-control/internal/storage"
)

// VehicleInput is a vehicle definition as submitted by its owner.
type VehicleInput struct {
	PlateNumber string `json:"plate_number"`
	VehicleType string `json:"vehicle_type"`
	Size        string `json:"size"`
}

func (in VehicleInput) sanitized(userID int64) (storage.Vehicle, error) {
	vehicle := storage.Vehicle{
		UserID:      userID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(in.PlateNumber)),
		VehicleType: strings.ToLower(strings.TrimSpace(in.VehicleType)),
		Size:        strings.ToLower(strings.TrimSpace(in.Size)),
	}
	if vehicle.PlateNumber == "" || vehicle.VehicleType == "" || vehicle.Size == "" {
		return vehicle, fmt.Errorf("%w: plate number, vehicle type and size are required", ErrValidation)
	}
	if err := validVehicleType(vehicle.VehicleType); err != nil {
		return vehicle, err
	}
	if err := validSize(vehicle.Size); err != nil {
		return vehicle, err
	}
	return vehicle, nil
}

func (s *Service) CreateVehicle(ctx context.Context, actor Actor, in VehicleInput) (*storage.Vehicle, error) {
	vehicle, err := in.sanitized(actor.UserID)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateVehicle(ctx, vehicle)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: plate number already registered", ErrValidation)
		}
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Vehicle %s registered", created.PlateNumber))
	return created, nil
}

// ListVehicles pages through vehicles. Non-admins only see their own.
func (s *Service) ListVehicles(ctx context.Context, actor Actor, page, limit int, search string) (*storage.Page[storage.Vehicle], error) {
	params := listParams(page, limit, search)
	if !actor.IsAdmin() {
		params.OwnerID = &actor.UserID
	}
	return s.store.ListVehicles(ctx, params)
}

func (s *Service) UpdateVehicle(ctx context.Context, actor Actor, id int64, in VehicleInput) (*storage.Vehicle, error) {
	vehicle, err := in.sanitized(actor.UserID)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id

	updated, err := s.store.UpdateVehicle(ctx, vehicle)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%w: vehicle not found", ErrNotFound)
		case errors.Is(err, storage.ErrConflict):
			return nil, fmt.Errorf("%w: plate number already registered", ErrValidation)
		}
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Vehicle %s updated", updated.PlateNumber))
	return updated, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, actor Actor, id int64) error {
	if err := s.store.DeleteVehicle(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: vehicle not found", ErrNotFound)
		}
		return err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Vehicle %d deleted", id))
	return nil
}

// ListLogs pages through the audit trail. Admin only.
func (s *Service) ListLogs(ctx context.Context, actor Actor, page, limit int, search string) (*storage.Page[storage.LogEntry], error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.store.ListLogs(ctx, listParams(page, limit, search))
}

// ListUsers pages through registered accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor Actor, page, limit int, search string) (*storage.Page[storage.User], error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.store.ListUsers(ctx, listParams(page, limit, search))
}
