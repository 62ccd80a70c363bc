package parking

import (
	"context"
	"fmt"
	"time"

	"parking-slot-control/internal/storage"
)

// fakeStore implements the handful of Provider methods the lifecycle touches.
// The embedded interface panics on anything a test did not mean to call.
type fakeStore struct {
	storage.Provider

	vehicles map[int64]storage.Vehicle

	created    *storage.SlotRequest
	detail     *storage.RequestDetail
	detailErr  error
	updated    *storage.SlotRequest
	updateErr  error
	deleteErr  error
	listResult *storage.Page[storage.RequestWithVehicle]
	listParams storage.ListParams

	slots       []storage.ParkingSlot
	location    string
	locationErr error

	// Outcome per ApproveRequest call, consumed in order. nil means success.
	approveErrs  []error
	approveSlots []int64
	approved     *storage.SlotRequest

	rejectErr error
	rejected  *storage.SlotRequest

	logs []string

	userParams storage.ListParams
}

func (f *fakeStore) GetVehicleForUser(ctx context.Context, id, userID int64) (*storage.Vehicle, error) {
	vehicle, ok := f.vehicles[id]
	if !ok || vehicle.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &vehicle, nil
}

func (f *fakeStore) CreateRequest(ctx context.Context, request storage.SlotRequest) (*storage.SlotRequest, error) {
	request.ID = 1
	request.Status = storage.RequestPending
	f.created = &request
	return &request, nil
}

func (f *fakeStore) ListRequests(ctx context.Context, params storage.ListParams) (*storage.Page[storage.RequestWithVehicle], error) {
	f.listParams = params
	return f.listResult, nil
}

func (f *fakeStore) UpdateRequest(ctx context.Context, request storage.SlotRequest) (*storage.SlotRequest, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &request
	return &request, nil
}

func (f *fakeStore) DeleteRequest(ctx context.Context, id, userID int64) error {
	return f.deleteErr
}

func (f *fakeStore) GetPendingRequestDetail(ctx context.Context, id int64) (*storage.RequestDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeStore) FindCompatibleSlots(ctx context.Context, vehicleType, size string) ([]storage.ParkingSlot, error) {
	return f.slots, nil
}

func (f *fakeStore) FindSlotLocation(ctx context.Context, vehicleType, size string) (string, error) {
	if f.locationErr != nil {
		return "", f.locationErr
	}
	return f.location, nil
}

func (f *fakeStore) ApproveRequest(ctx context.Context, requestID int64, slot storage.ParkingSlot, approvedAt time.Time) (*storage.SlotRequest, error) {
	call := len(f.approveSlots)
	f.approveSlots = append(f.approveSlots, slot.ID)

	if call < len(f.approveErrs) && f.approveErrs[call] != nil {
		return nil, f.approveErrs[call]
	}

	approved := f.approved
	if approved == nil {
		approved = &storage.SlotRequest{ID: requestID, Status: storage.RequestApproved}
	}
	approved.SlotID = &slot.ID
	approved.SlotNumber = &slot.SlotNumber
	approved.ApprovedAt = &approvedAt
	return approved, nil
}

func (f *fakeStore) RejectRequest(ctx context.Context, id int64) (*storage.SlotRequest, error) {
	if f.rejectErr != nil {
		return nil, f.rejectErr
	}
	if f.rejected == nil {
		f.rejected = &storage.SlotRequest{ID: id, Status: storage.RequestRejected}
	}
	return f.rejected, nil
}

func (f *fakeStore) ListUsers(ctx context.Context, params storage.ListParams) (*storage.Page[storage.User], error) {
	f.userParams = params
	return storage.NewPage([]storage.User{}, 0, params.Page, params.Limit), nil
}

func (f *fakeStore) AppendLog(ctx context.Context, userID int64, action string) error {
	f.logs = append(f.logs, fmt.Sprintf("%d:%s", userID, action))
	return nil
}

// fakeNotifier records every send and fails on demand.
type fakeNotifier struct {
	approvalErr  error
	rejectionErr error
	paymentErr   error

	approvals  []string
	rejections []string
	payments   []string

	lastLocation string
	lastReason   string
	lastAmount   int64
}

func (f *fakeNotifier) SendApproval(ctx context.Context, to, plateNumber, slotNumber, location string) error {
	f.approvals = append(f.approvals, to)
	f.lastLocation = location
	return f.approvalErr
}

func (f *fakeNotifier) SendRejection(ctx context.Context, to, plateNumber, location, reason string) error {
	f.rejections = append(f.rejections, to)
	f.lastLocation = location
	f.lastReason = reason
	return f.rejectionErr
}

func (f *fakeNotifier) SendPaymentSuccess(ctx context.Context, to, plateNumber, slotNumber, location string, amount int64) error {
	f.payments = append(f.payments, to)
	f.lastAmount = amount
	return f.paymentErr
}

func newTestService(store *fakeStore, notify *fakeNotifier) *Service {
	return NewService(store, notify, 1000)
}

var (
	adminActor = Actor{UserID: 99, Role: storage.RoleAdmin}
	userActor  = Actor{UserID: 7, Role: storage.RoleUser}
)
