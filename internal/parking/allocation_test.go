package parking

import (
	"context"
	"errors"
	"testing"

	"parking-slot-control/internal/storage"
)

func pendingDetail() *storage.RequestDetail {
	return &storage.RequestDetail{
		SlotRequest: storage.SlotRequest{
			ID:     1,
			UserID: 7,
			Status: storage.RequestPending,
			Amount: 2000,
		},
		PlateNumber: "ABC-123",
		VehicleType: "car",
		VehicleSize: "medium",
		OwnerEmail:  "owner@example.com",
	}
}

func TestApproveRequest_NonAdminForbidden(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), userActor, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestApproveRequest_AlreadyProcessed(t *testing.T) {
	store := &fakeStore{detailErr: storage.ErrNotFound}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), adminActor, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestApproveRequest_NoCompatibleSlots(t *testing.T) {
	store := &fakeStore{detail: pendingDetail()}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), adminActor, 1); !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("got %v, want ErrNoCapacity", err)
	}
}

func TestApproveRequest_BlankSlotNumber(t *testing.T) {
	store := &fakeStore{
		detail: pendingDetail(),
		slots:  []storage.ParkingSlot{{ID: 3, SlotNumber: "  "}},
	}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), adminActor, 1); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("got %v, want ErrIntegrity", err)
	}
}

func TestApproveRequest_Success(t *testing.T) {
	store := &fakeStore{
		detail: pendingDetail(),
		slots: []storage.ParkingSlot{
			{ID: 3, SlotNumber: "A-3", Location: "North wing", Status: storage.SlotAvailable},
		},
	}
	notify := &fakeNotifier{}
	svc := newTestService(store, notify)

	result, err := svc.ApproveRequest(context.Background(), adminActor, 1)
	if err != nil {
		t.Fatalf("ApproveRequest failed: %v", err)
	}

	if result.Slot == nil || result.Slot.SlotNumber != "A-3" {
		t.Errorf("unexpected slot in result: %+v", result.Slot)
	}
	if result.Slot.Status != storage.SlotUnavailable {
		t.Errorf("slot status = %s, want unavailable", result.Slot.Status)
	}
	if result.Amount != 2000 {
		t.Errorf("amount = %d, want 2000", result.Amount)
	}
	if result.ApprovalEmailStatus != EmailSent || result.PaymentEmailStatus != EmailSent {
		t.Errorf("email statuses = %s/%s, want sent/sent", result.ApprovalEmailStatus, result.PaymentEmailStatus)
	}
	if len(notify.approvals) != 1 || notify.approvals[0] != "owner@example.com" {
		t.Errorf("approval emails = %v", notify.approvals)
	}
	if notify.lastAmount != 2000 {
		t.Errorf("payment email amount = %d, want 2000", notify.lastAmount)
	}
}

func TestApproveRequest_RetriesNextSlotWhenClaimed(t *testing.T) {
	store := &fakeStore{
		detail: pendingDetail(),
		slots: []storage.ParkingSlot{
			{ID: 3, SlotNumber: "A-3", Status: storage.SlotAvailable},
			{ID: 5, SlotNumber: "A-5", Status: storage.SlotAvailable},
		},
		approveErrs: []error{storage.ErrSlotTaken, nil},
	}
	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.ApproveRequest(context.Background(), adminActor, 1)
	if err != nil {
		t.Fatalf("ApproveRequest failed: %v", err)
	}

	if len(store.approveSlots) != 2 || store.approveSlots[1] != 5 {
		t.Errorf("approve attempts = %v, want [3 5]", store.approveSlots)
	}
	if result.Slot.SlotNumber != "A-5" {
		t.Errorf("allocated slot = %s, want A-5", result.Slot.SlotNumber)
	}
}

func TestApproveRequest_AllSlotsClaimed(t *testing.T) {
	store := &fakeStore{
		detail: pendingDetail(),
		slots: []storage.ParkingSlot{
			{ID: 3, SlotNumber: "A-3", Status: storage.SlotAvailable},
			{ID: 5, SlotNumber: "A-5", Status: storage.SlotAvailable},
		},
		approveErrs: []error{storage.ErrSlotTaken, storage.ErrSlotTaken},
	}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), adminActor, 1); !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("got %v, want ErrNoCapacity", err)
	}
}

func TestApproveRequest_ConcurrentlyProcessed(t *testing.T) {
	store := &fakeStore{
		detail:      pendingDetail(),
		slots:       []storage.ParkingSlot{{ID: 3, SlotNumber: "A-3", Status: storage.SlotAvailable}},
		approveErrs: []error{storage.ErrNotPending},
	}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.ApproveRequest(context.Background(), adminActor, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestApproveRequest_EmailFailureDoesNotRevert(t *testing.T) {
	store := &fakeStore{
		detail: pendingDetail(),
		slots:  []storage.ParkingSlot{{ID: 3, SlotNumber: "A-3", Status: storage.SlotAvailable}},
	}
	notify := &fakeNotifier{approvalErr: errors.New("smtp down")}
	svc := newTestService(store, notify)

	result, err := svc.ApproveRequest(context.Background(), adminActor, 1)
	if err != nil {
		t.Fatalf("ApproveRequest failed: %v", err)
	}

	if result.ApprovalEmailStatus != EmailFailed {
		t.Errorf("approval email status = %s, want failed", result.ApprovalEmailStatus)
	}
	if result.PaymentEmailStatus != EmailSent {
		t.Errorf("payment email status = %s, want sent", result.PaymentEmailStatus)
	}
}

func TestRejectRequest_ReasonRequired(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.RejectRequest(context.Background(), adminActor, 1, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestRejectRequest_NonAdminForbidden(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeNotifier{})

	if _, err := svc.RejectRequest(context.Background(), userActor, 1, "full"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestRejectRequest_Success(t *testing.T) {
	store := &fakeStore{detail: pendingDetail(), location: "North wing"}
	notify := &fakeNotifier{}
	svc := newTestService(store, notify)

	result, err := svc.RejectRequest(context.Background(), adminActor, 1, "maintenance")
	if err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}

	if result.Request.Status != storage.RequestRejected {
		t.Errorf("request status = %s, want rejected", result.Request.Status)
	}
	if result.EmailStatus != EmailSent {
		t.Errorf("email status = %s, want sent", result.EmailStatus)
	}
	if notify.lastReason != "maintenance" || notify.lastLocation != "North wing" {
		t.Errorf("notification args = %q/%q", notify.lastReason, notify.lastLocation)
	}
}

func TestRejectRequest_UnknownLocation(t *testing.T) {
	store := &fakeStore{detail: pendingDetail(), locationErr: storage.ErrNotFound}
	notify := &fakeNotifier{}
	svc := newTestService(store, notify)

	if _, err := svc.RejectRequest(context.Background(), adminActor, 1, "full"); err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}
	if notify.lastLocation != "unknown" {
		t.Errorf("location = %q, want unknown", notify.lastLocation)
	}
}

func TestRejectRequest_ConcurrentlyProcessed(t *testing.T) {
	store := &fakeStore{detail: pendingDetail(), rejectErr: storage.ErrNotPending}
	svc := newTestService(store, &fakeNotifier{})

	if _, err := svc.RejectRequest(context.Background(), adminActor, 1, "full"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRejectRequest_EmailFailureReported(t *testing.T) {
	store := &fakeStore{detail: pendingDetail(), location: "North wing"}
	notify := &fakeNotifier{rejectionErr: errors.New("smtp down")}
	svc := newTestService(store, notify)

	result, err := svc.RejectRequest(context.Background(), adminActor, 1, "full")
	if err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}
	if result.EmailStatus != EmailFailed {
		t.Errorf("email status = %s, want failed", result.EmailStatus)
	}
}
