package routes

import (
	"fmt"
	"net/http"
	"testing"

	"parking-slot-control/internal/jwt"
	"parking-slot-control/internal/parking"
)

func TestGetErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", parking.ErrValidation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: exit time must be after entry time", parking.ErrValidation), http.StatusBadRequest},
		{"not found", parking.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("%w: request not found or already processed", parking.ErrNotFound), http.StatusNotFound},
		{"forbidden", parking.ErrForbidden, http.StatusForbidden},
		{"no capacity", parking.ErrNoCapacity, http.StatusBadRequest},
		{"integrity", parking.ErrIntegrity, http.StatusInternalServerError},
		{"bad token", jwt.ErrNonValidToken, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorStatus(tt.err); got != tt.want {
				t.Errorf("GetErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetErrorInfo_WrappedKeepsSpecificMessage(t *testing.T) {
	err := fmt.Errorf("%w: rejection reason is required", parking.ErrValidation)

	info := GetErrorInfo(err)
	if info.Message != err.Error() {
		t.Errorf("message = %q, want the wrapped error text", info.Message)
	}
}

func TestGetErrorInfo_InternalErrorsAreGeneric(t *testing.T) {
	err := fmt.Errorf("pq: connection refused")

	info := GetErrorInfo(err)
	if info.Message != "An internal error occurred" {
		t.Errorf("message = %q, internal detail must not leak", info.Message)
	}
}

func TestGetErrorInfo_StopCodes(t *testing.T) {
	info := GetErrorInfo(parking.ErrForbidden)
	if len(info.StopCodes) != 1 || info.StopCodes[0] != "FORBIDDEN" {
		t.Errorf("stop codes = %v", info.StopCodes)
	}
}
