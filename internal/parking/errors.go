package parking

import "errors"

// Lifecycle error taxonomy. Routes map these onto HTTP status codes;
// everything else surfacing from storage is treated as an internal error.
var (
	// Malformed or missing input, including a non-chronological time window.
	ErrValidation = errors.New("invalid request")
	// Entity missing, not owned by the caller, or no longer pending.
	ErrNotFound = errors.New("not found")
	// Caller lacks the admin capability.
	ErrForbidden = errors.New("admin access required")
	// No compatible slot is available.
	ErrNoCapacity = errors.New("no compatible slots available")
	// Corrupt reference data, e.g. a blank slot number.
	ErrIntegrity = errors.New("invalid slot number in parking slots table")
)
