package parking

import (
	"context"
	"errors"
	"testing"

	"parking-slot-control/internal/storage"
)

func storeWithVehicle() *fakeStore {
	return &fakeStore{
		vehicles: map[int64]storage.Vehicle{
			5: {ID: 5, UserID: userActor.UserID, PlateNumber: "ABC-123", VehicleType: "car", Size: "medium"},
		},
	}
}

func TestCreateRequest_MissingFields(t *testing.T) {
	svc := newTestService(storeWithVehicle(), &fakeNotifier{})

	tests := []struct {
		name string
		in   RequestInput
	}{
		{"no vehicle", RequestInput{EntryTime: "2025-05-20T14:00:00", ExitTime: "2025-05-20T16:00:00"}},
		{"no entry time", RequestInput{VehicleID: 5, ExitTime: "2025-05-20T16:00:00"}},
		{"no exit time", RequestInput{VehicleID: 5, EntryTime: "2025-05-20T14:00:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateRequest(context.Background(), userActor, tt.in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateRequest_ExitBeforeEntry(t *testing.T) {
	svc := newTestService(storeWithVehicle(), &fakeNotifier{})

	in := RequestInput{VehicleID: 5, EntryTime: "2025-05-20T16:00:00", ExitTime: "2025-05-20T14:00:00"}
	if _, err := svc.CreateRequest(context.Background(), userActor, in); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestCreateRequest_VehicleNotOwned(t *testing.T) {
	svc := newTestService(storeWithVehicle(), &fakeNotifier{})

	other := Actor{UserID: 42, Role: storage.RoleUser}
	in := RequestInput{VehicleID: 5, EntryTime: "2025-05-20T14:00:00", ExitTime: "2025-05-20T16:00:00"}
	if _, err := svc.CreateRequest(context.Background(), other, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreateRequest_ComputesFee(t *testing.T) {
	store := storeWithVehicle()
	svc := newTestService(store, &fakeNotifier{})

	in := RequestInput{VehicleID: 5, EntryTime: "2025-05-20T14:00:00", ExitTime: "2025-05-20T15:30:01"}
	created, err := svc.CreateRequest(context.Background(), userActor, in)
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if created.Amount != 2000 {
		t.Errorf("amount = %d, want 2000", created.Amount)
	}
	if created.Status != storage.RequestPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	if created.UserID != userActor.UserID {
		t.Errorf("owner = %d, want %d", created.UserID, userActor.UserID)
	}
}

func TestUpdateRequest_NotEditable(t *testing.T) {
	store := storeWithVehicle()
	store.updateErr = storage.ErrNotFound
	svc := newTestService(store, &fakeNotifier{})

	in := RequestInput{VehicleID: 5, EntryTime: "2025-05-20T14:00:00", ExitTime: "2025-05-20T16:00:00"}
	if _, err := svc.UpdateRequest(context.Background(), userActor, 1, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteRequest_NotDeletable(t *testing.T) {
	store := storeWithVehicle()
	store.deleteErr = storage.ErrNotFound
	svc := newTestService(store, &fakeNotifier{})

	if err := svc.DeleteRequest(context.Background(), userActor, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListRequests_NonAdminScopedToOwner(t *testing.T) {
	store := storeWithVehicle()
	store.listResult = storage.NewPage([]storage.RequestWithVehicle{}, 0, 1, 10)
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ListRequests(context.Background(), userActor, 1, 10, ""); err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}

	if store.listParams.OwnerID == nil || *store.listParams.OwnerID != userActor.UserID {
		t.Errorf("list params not scoped to owner: %+v", store.listParams)
	}
}

func TestListRequests_AdminSeesAll(t *testing.T) {
	store := storeWithVehicle()
	store.listResult = storage.NewPage([]storage.RequestWithVehicle{}, 0, 1, 10)
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ListRequests(context.Background(), adminActor, 1, 10, ""); err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}

	if store.listParams.OwnerID != nil {
		t.Errorf("admin listing should not be owner scoped: %+v", store.listParams)
	}
}
