package parking

import "parking-slot-control/internal/storage"

// Actor identifies the authenticated caller of a lifecycle operation. It is
// threaded explicitly through every operation instead of being read from
// ambient request state.
type Actor struct {
	UserID int64
	Role   storage.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == storage.RoleAdmin
}
