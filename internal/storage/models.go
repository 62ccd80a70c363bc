package storage

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Verified     bool      `db:"verified" json:"verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Vehicle struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	PlateNumber string    `db:"plate_number" json:"plate_number"`
	VehicleType string    `db:"vehicle_type" json:"vehicle_type"`
	Size        string    `db:"size" json:"size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ParkingSlot struct {
	ID          int64      `db:"id" json:"id"`
	SlotNumber  string     `db:"slot_number" json:"slot_number"`
	Size        string     `db:"size" json:"size"`
	VehicleType string     `db:"vehicle_type" json:"vehicle_type"`
	Location    string     `db:"location" json:"location"`
	Status      SlotStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type SlotRequest struct {
	ID         int64         `db:"id" json:"id"`
	UserID     int64         `db:"user_id" json:"user_id"`
	VehicleID  int64         `db:"vehicle_id" json:"vehicle_id"`
	Status     RequestStatus `db:"request_status" json:"request_status"`
	EntryTime  time.Time     `db:"entry_time" json:"entry_time"`
	ExitTime   time.Time     `db:"exit_time" json:"exit_time"`
	Amount     int64         `db:"amount" json:"amount"`
	SlotID     *int64        `db:"slot_id" json:"slot_id,omitempty"`
	SlotNumber *string       `db:"slot_number" json:"slot_number,omitempty"`
	ApprovedAt *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// RequestWithVehicle is a SlotRequest joined with its vehicle for listings.
type RequestWithVehicle struct {
	SlotRequest
	PlateNumber string `db:"plate_number" json:"plate_number"`
	VehicleType string `db:"vehicle_type" json:"vehicle_type"`
}

// RequestDetail carries everything the allocation procedure needs in one
// load: the pending request, the vehicle it was filed for and the owner's
// contact address.
type RequestDetail struct {
	SlotRequest
	PlateNumber string `db:"plate_number" json:"plate_number"`
	VehicleType string `db:"vehicle_type" json:"vehicle_type"`
	VehicleSize string `db:"size" json:"size"`
	OwnerEmail  string `db:"email" json:"email"`
}

type LogEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Page is a single page of a listing plus its pagination math.
type Page[T any] struct {
	Data        []T   `json:"data"`
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// NewPage computes the pagination envelope for a slice of rows.
func NewPage[T any](data []T, total int64, page, limit int) *Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Page[T]{
		Data:        data,
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}
}
