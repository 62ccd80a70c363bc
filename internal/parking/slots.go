package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parking-slot-control/internal/storage"
)

// SlotInput is one slot definition as submitted by an administrator.
type SlotInput struct {
	SlotNumber  string `json:"slot_number"`
	Size        string `json:"size"`
	VehicleType string `json:"vehicle_type"`
	Location    string `json:"location"`
}

func (in SlotInput) sanitized() (storage.ParkingSlot, error) {
	slot := storage.ParkingSlot{
		SlotNumber:  strings.TrimSpace(in.SlotNumber),
		Size:        strings.ToLower(strings.TrimSpace(in.Size)),
		VehicleType: strings.ToLower(strings.TrimSpace(in.VehicleType)),
		Location:    strings.TrimSpace(in.Location),
	}
	if slot.SlotNumber == "" || slot.Size == "" || slot.VehicleType == "" || slot.Location == "" {
		return slot, fmt.Errorf("%w: all slot fields are required", ErrValidation)
	}
	if err := validSize(slot.Size); err != nil {
		return slot, err
	}
	if err := validVehicleType(slot.VehicleType); err != nil {
		return slot, err
	}
	return slot, nil
}

// BulkCreateSlots validates and inserts a batch of slots in one transaction.
func (s *Service) BulkCreateSlots(ctx context.Context, actor Actor, inputs []SlotInput) ([]storage.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: slots array is required and cannot be empty", ErrValidation)
	}

	slots := make([]storage.ParkingSlot, 0, len(inputs))
	for _, in := range inputs {
		slot, err := in.sanitized()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	created, err := s.store.CreateSlots(ctx, slots)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: slot number already exists", ErrValidation)
		}
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Bulk created %d slots", len(created)))
	return created, nil
}

// ListSlots pages through slots. Non-admins only see available ones.
func (s *Service) ListSlots(ctx context.Context, actor Actor, page, limit int, search string) (*storage.Page[storage.ParkingSlot], error) {
	params := listParams(page, limit, strings.Join(strings.Fields(search), " "))
	params.AvailableOnly = !actor.IsAdmin()

	result, err := s.store.ListSlots(ctx, params)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor.UserID, "Slots list viewed")
	return result, nil
}

func (s *Service) UpdateSlot(ctx context.Context, actor Actor, id int64, in SlotInput) (*storage.ParkingSlot, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	slot, err := in.sanitized()
	if err != nil {
		return nil, err
	}
	slot.ID = id

	updated, err := s.store.UpdateSlot(ctx, slot)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%w: slot not found", ErrNotFound)
		case errors.Is(err, storage.ErrConflict):
			return nil, fmt.Errorf("%w: slot number already exists", ErrValidation)
		}
		return nil, err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Slot %s updated", updated.SlotNumber))
	return updated, nil
}

func (s *Service) DeleteSlot(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	slotNumber, err := s.store.DeleteSlot(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: slot not found", ErrNotFound)
		}
		return err
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Slot %s deleted", slotNumber))
	return nil
}
