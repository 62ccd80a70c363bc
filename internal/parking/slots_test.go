package parking

import (
	"context"
	"errors"
	"testing"
)

func TestSlotInput_Sanitized(t *testing.T) {
	in := SlotInput{
		SlotNumber:  "  A-3 ",
		Size:        " Medium ",
		VehicleType: "CAR",
		Location:    " North wing ",
	}

	slot, err := in.sanitized()
	if err != nil {
		t.Fatalf("sanitized failed: %v", err)
	}
	if slot.SlotNumber != "A-3" || slot.Size != "medium" || slot.VehicleType != "car" || slot.Location != "North wing" {
		t.Errorf("unexpected slot: %+v", slot)
	}
}

func TestSlotInput_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		in   SlotInput
	}{
		{"missing field", SlotInput{SlotNumber: "A-3", Size: "medium", VehicleType: "car"}},
		{"bad size", SlotInput{SlotNumber: "A-3", Size: "huge", VehicleType: "car", Location: "North"}},
		{"bad type", SlotInput{SlotNumber: "A-3", Size: "medium", VehicleType: "bike", Location: "North"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.in.sanitized(); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestBulkCreateSlots_AdminOnly(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	in := []SlotInput{{SlotNumber: "A-3", Size: "medium", VehicleType: "car", Location: "North"}}
	if _, err := svc.BulkCreateSlots(context.Background(), userActor, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestBulkCreateSlots_EmptyInput(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.BulkCreateSlots(context.Background(), adminActor, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestVehicleInput_Sanitized(t *testing.T) {
	in := VehicleInput{PlateNumber: " abc-123 ", VehicleType: "Car", Size: "MEDIUM"}

	vehicle, err := in.sanitized(7)
	if err != nil {
		t.Fatalf("sanitized failed: %v", err)
	}
	if vehicle.PlateNumber != "ABC-123" || vehicle.VehicleType != "car" || vehicle.Size != "medium" {
		t.Errorf("unexpected vehicle: %+v", vehicle)
	}
	if vehicle.UserID != 7 {
		t.Errorf("owner = %d, want 7", vehicle.UserID)
	}
}

func TestListLogs_AdminOnly(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.ListLogs(context.Background(), userActor, 1, 10, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.ListUsers(context.Background(), userActor, 1, 10, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestListUsers_ClampsPaging(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ListUsers(context.Background(), adminActor, 0, 1000, ""); err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}

	if store.userParams.Page != 1 || store.userParams.Limit != maxPageLimit {
		t.Errorf("params = %+v, want page 1 limit %d", store.userParams, maxPageLimit)
	}
}
