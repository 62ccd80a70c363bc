package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking-slot-control/internal/storage"
)

// ApprovalResult carries the primary outcome of an approval plus the status
// of each best-effort side effect.
type ApprovalResult struct {
	Message             string               `json:"message"`
	Slot                *storage.ParkingSlot `json:"slot"`
	Amount              int64                `json:"amount"`
	ApprovalEmailStatus EmailStatus          `json:"approvalEmailStatus"`
	PaymentEmailStatus  EmailStatus          `json:"paymentEmailStatus"`
}

// RejectionResult mirrors ApprovalResult for the reject path.
type RejectionResult struct {
	Message     string               `json:"message"`
	Request     *storage.SlotRequest `json:"request"`
	EmailStatus EmailStatus          `json:"emailStatus"`
}

// ApproveRequest allocates a compatible slot to a pending request. Candidate
// slots are tried in ascending id order; the slot claim and the request
// transition commit in one transaction. When a concurrent approval wins a
// candidate, the next one is tried within the same pass.
func (s *Service) ApproveRequest(ctx context.Context, actor Actor, id int64) (*ApprovalResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	detail, err := s.store.GetPendingRequestDetail(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}
		return nil, err
	}

	candidates, err := s.store.FindCompatibleSlots(ctx, detail.VehicleType, detail.VehicleSize)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCapacity
	}

	var slot *storage.ParkingSlot
	var approved *storage.SlotRequest
	approvedAt := time.Now().UTC()
	for i := range candidates {
		candidate := &candidates[i]
		if strings.TrimSpace(candidate.SlotNumber) == "" {
			return nil, ErrIntegrity
		}

		approved, err = s.store.ApproveRequest(ctx, id, *candidate, approvedAt)
		if err == nil {
			slot = candidate
			break
		}
		if errors.Is(err, storage.ErrSlotTaken) {
			// Lost the race for this slot; the transaction rolled back, the
			// request is still pending. Try the next candidate.
			s.logger.Debug("Slot claimed concurrently, retrying", "request_id", id, "slot_id", candidate.ID)
			continue
		}
		if errors.Is(err, storage.ErrNotPending) {
			return nil, fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}
		return nil, err
	}
	if slot == nil {
		return nil, ErrNoCapacity
	}
	slot.Status = storage.SlotUnavailable

	// Read-back verification. Not required for correctness; discrepancies
	// are logged, never failed.
	if approved.SlotNumber == nil || *approved.SlotNumber != slot.SlotNumber {
		s.logger.Error("Slot number mismatch after approval", "request_id", id, "expected", slot.SlotNumber)
	}
	if approved.Amount != detail.Amount {
		s.logger.Error("Amount mismatch after approval", "request_id", id, "saved", approved.Amount, "expected", detail.Amount)
	}

	approvalEmailStatus := EmailSent
	if err := s.notify.SendApproval(ctx, detail.OwnerEmail, detail.PlateNumber, slot.SlotNumber, slot.Location); err != nil {
		s.logger.Warn("Approval email failed", "request_id", id, "to", detail.OwnerEmail, "error", err)
		approvalEmailStatus = EmailFailed
	}

	paymentEmailStatus := EmailSent
	if err := s.notify.SendPaymentSuccess(ctx, detail.OwnerEmail, detail.PlateNumber, slot.SlotNumber, slot.Location, detail.Amount); err != nil {
		s.logger.Warn("Payment email failed", "request_id", id, "to", detail.OwnerEmail, "error", err)
		paymentEmailStatus = EmailFailed
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Request %d approved, slot %s, amount %d", id, slot.SlotNumber, detail.Amount))

	return &ApprovalResult{
		Message: fmt.Sprintf("Request approved. Payment of %d processed successfully. You may now enter the parking area.",
			detail.Amount),
		Slot:                slot,
		Amount:              detail.Amount,
		ApprovalEmailStatus: approvalEmailStatus,
		PaymentEmailStatus:  paymentEmailStatus,
	}, nil
}

// RejectRequest transitions a pending request to rejected and notifies the
// owner. The transition is guarded by the current status so it cannot race a
// concurrent approval.
func (s *Service) RejectRequest(ctx context.Context, actor Actor, id int64, reason string) (*RejectionResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	detail, err := s.store.GetPendingRequestDetail(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}
		return nil, err
	}

	// Location is reported in the notice only; no state depends on it.
	location, err := s.store.FindSlotLocation(ctx, detail.VehicleType, detail.VehicleSize)
	if err != nil {
		location = "unknown"
	}

	rejected, err := s.store.RejectRequest(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotPending) {
			return nil, fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}
		return nil, err
	}

	emailStatus := EmailSent
	if err := s.notify.SendRejection(ctx, detail.OwnerEmail, detail.PlateNumber, location, reason); err != nil {
		s.logger.Warn("Rejection email failed", "request_id", id, "to", detail.OwnerEmail, "error", err)
		emailStatus = EmailFailed
	}

	s.audit(ctx, actor.UserID, fmt.Sprintf("Request %d rejected, reason: %s", id, reason))

	return &RejectionResult{
		Message:     "Request rejected",
		Request:     rejected,
		EmailStatus: emailStatus,
	}, nil
}
