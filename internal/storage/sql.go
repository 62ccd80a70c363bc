package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"parking-slot-control/internal/config"
)

// SQLProvider implements Provider on top of sqlx. Queries are written with
// `?` bindvars and passed through Rebind so the same code serves both the
// sqlite and postgres backends.
type SQLProvider struct {
	db *sqlx.DB

	config *config.Storage

	logger *slog.Logger
}

func NewSQLProvider(config *config.Storage, driverName string, dataSource string) (provider *SQLProvider) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil
	}

	logger := slog.With("component", "storage")

	return &SQLProvider{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := p.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// --- Users ---

func (p *SQLProvider) CreateUser(ctx context.Context, user User) (*User, error) {
	// RETURNING works on both backends; database/sql LastInsertId does not.
	query := p.db.Rebind(`INSERT INTO users (name, email, password_hash, role, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	now := time.Now().UTC()
	err := p.db.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role, user.Verified, now).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.CreatedAt = now
	return &user, nil
}

func (p *SQLProvider) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := p.db.Rebind(`SELECT * FROM users WHERE email = ?`)
	if err := p.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (p *SQLProvider) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := p.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := p.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (p *SQLProvider) ListUsers(ctx context.Context, params ListParams) (*Page[User], error) {
	pattern := "%" + params.Search + "%"

	var total int64
	countQuery := p.db.Rebind(`SELECT COUNT(*) FROM users
		WHERE LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)`)
	if err := p.db.GetContext(ctx, &total, countQuery, pattern, pattern); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	var users []User
	query := p.db.Rebind(`SELECT * FROM users
		WHERE LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)
		ORDER BY id LIMIT ? OFFSET ?`)
	if err := p.db.SelectContext(ctx, &users, query, pattern, pattern, params.Limit, params.Offset()); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return NewPage(users, total, params.Page, params.Limit), nil
}

func (p *SQLProvider) MarkUserVerified(ctx context.Context, id int64) error {
	query := p.db.Rebind(`UPDATE users SET verified = ? WHERE id = ?`)
	res, err := p.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Vehicles ---

func (p *SQLProvider) CreateVehicle(ctx context.Context, vehicle Vehicle) (*Vehicle, error) {
	query := p.db.Rebind(`INSERT INTO vehicles (user_id, plate_number, vehicle_type, size, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	now := time.Now().UTC()
	err := p.db.QueryRowContext(ctx, query, vehicle.UserID, vehicle.PlateNumber, vehicle.VehicleType, vehicle.Size, now).Scan(&vehicle.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	vehicle.CreatedAt = now
	return &vehicle, nil
}

func (p *SQLProvider) GetVehicleForUser(ctx context.Context, id, userID int64) (*Vehicle, error) {
	var vehicle Vehicle
	query := p.db.Rebind(`SELECT * FROM vehicles WHERE id = ? AND user_id = ?`)
	if err := p.db.GetContext(ctx, &vehicle, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &vehicle, nil
}

func (p *SQLProvider) ListVehicles(ctx context.Context, params ListParams) (*Page[Vehicle], error) {
	pattern := "%" + params.Search + "%"
	where := `WHERE (LOWER(plate_number) LIKE LOWER(?) OR LOWER(vehicle_type) LIKE LOWER(?))`
	args := []any{pattern, pattern}
	if params.OwnerID != nil {
		where += ` AND user_id = ?`
		args = append(args, *params.OwnerID)
	}

	var total int64
	countQuery := p.db.Rebind(`SELECT COUNT(*) FROM vehicles ` + where)
	if err := p.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count vehicles: %w", err)
	}

	var vehicles []Vehicle
	query := p.db.Rebind(`SELECT * FROM vehicles ` + where + ` ORDER BY id LIMIT ? OFFSET ?`)
	args = append(args, params.Limit, params.Offset())
	if err := p.db.SelectContext(ctx, &vehicles, query, args...); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return NewPage(vehicles, total, params.Page, params.Limit), nil
}

func (p *SQLProvider) UpdateVehicle(ctx context.Context, vehicle Vehicle) (*Vehicle, error) {
	query := p.db.Rebind(`UPDATE vehicles SET plate_number = ?, vehicle_type = ?, size = ?
		WHERE id = ? AND user_id = ?`)
	res, err := p.db.ExecContext(ctx, query, vehicle.PlateNumber, vehicle.VehicleType, vehicle.Size, vehicle.ID, vehicle.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return p.GetVehicleForUser(ctx, vehicle.ID, vehicle.UserID)
}

func (p *SQLProvider) DeleteVehicle(ctx context.Context, id, userID int64) error {
	query := p.db.Rebind(`DELETE FROM vehicles WHERE id = ? AND user_id = ?`)
	res, err := p.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Parking slots ---

func (p *SQLProvider) CreateSlots(ctx context.Context, slots []ParkingSlot) ([]ParkingSlot, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin slot insert: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO parking_slots (slot_number, size, vehicle_type, location, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	now := time.Now().UTC()
	created := make([]ParkingSlot, 0, len(slots))
	for _, slot := range slots {
		slot.Status = SlotAvailable
		slot.CreatedAt = now
		err := tx.QueryRowContext(ctx, query, slot.SlotNumber, slot.Size, slot.VehicleType, slot.Location, slot.Status, now).Scan(&slot.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("insert slot %q: %w", slot.SlotNumber, err)
		}
		created = append(created, slot)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit slot insert: %w", err)
	}
	return created, nil
}

func (p *SQLProvider) ListSlots(ctx context.Context, params ListParams) (*Page[ParkingSlot], error) {
	pattern := "%" + params.Search + "%"
	where := `WHERE (LOWER(slot_number) LIKE LOWER(?) OR LOWER(vehicle_type) LIKE LOWER(?))`
	args := []any{pattern, pattern}
	if params.AvailableOnly {
		where += ` AND status = ?`
		args = append(args, SlotAvailable)
	}

	var total int64
	countQuery := p.db.Rebind(`SELECT COUNT(*) FROM parking_slots ` + where)
	if err := p.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count slots: %w", err)
	}

	var slots []ParkingSlot
	query := p.db.Rebind(`SELECT * FROM parking_slots ` + where + ` ORDER BY id LIMIT ? OFFSET ?`)
	args = append(args, params.Limit, params.Offset())
	if err := p.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return NewPage(slots, total, params.Page, params.Limit), nil
}

func (p *SQLProvider) UpdateSlot(ctx context.Context, slot ParkingSlot) (*ParkingSlot, error) {
	query := p.db.Rebind(`UPDATE parking_slots SET slot_number = ?, size = ?, vehicle_type = ?, location = ?
		WHERE id = ?`)
	res, err := p.db.ExecContext(ctx, query, slot.SlotNumber, slot.Size, slot.VehicleType, slot.Location, slot.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var updated ParkingSlot
	get := p.db.Rebind(`SELECT * FROM parking_slots WHERE id = ?`)
	if err := p.db.GetContext(ctx, &updated, get, slot.ID); err != nil {
		return nil, fmt.Errorf("reload slot: %w", err)
	}
	return &updated, nil
}

func (p *SQLProvider) DeleteSlot(ctx context.Context, id int64) (string, error) {
	var slotNumber string
	get := p.db.Rebind(`SELECT slot_number FROM parking_slots WHERE id = ?`)
	if err := p.db.GetContext(ctx, &slotNumber, get, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load slot: %w", err)
	}

	query := p.db.Rebind(`DELETE FROM parking_slots WHERE id = ?`)
	if _, err := p.db.ExecContext(ctx, query, id); err != nil {
		return "", fmt.Errorf("delete slot: %w", err)
	}
	return slotNumber, nil
}

func (p *SQLProvider) FindCompatibleSlots(ctx context.Context, vehicleType, size string) ([]ParkingSlot, error) {
	var slots []ParkingSlot
	// Lowest id first. The allocation outcome must not depend on storage
	// order when several slots tie.
	query := p.db.Rebind(`SELECT * FROM parking_slots
		WHERE vehicle_type = ? AND size = ? AND status = ?
		ORDER BY id`)
	if err := p.db.SelectContext(ctx, &slots, query, vehicleType, size, SlotAvailable); err != nil {
		return nil, fmt.Errorf("find compatible slots: %w", err)
	}
	return slots, nil
}

func (p *SQLProvider) FindSlotLocation(ctx context.Context, vehicleType, size string) (string, error) {
	var location string
	query := p.db.Rebind(`SELECT location FROM parking_slots
		WHERE vehicle_type = ? AND size = ? ORDER BY id LIMIT 1`)
	if err := p.db.GetContext(ctx, &location, query, vehicleType, size); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find slot location: %w", err)
	}
	return location, nil
}

// --- Slot requests ---

func (p *SQLProvider) CreateRequest(ctx context.Context, request SlotRequest) (*SlotRequest, error) {
	query := p.db.Rebind(`INSERT INTO slot_requests (user_id, vehicle_id, request_status, entry_time, exit_time, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	now := time.Now().UTC()
	request.Status = RequestPending
	err := p.db.QueryRowContext(ctx, query, request.UserID, request.VehicleID, request.Status,
		request.EntryTime, request.ExitTime, request.Amount, now).Scan(&request.ID)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.CreatedAt = now
	return &request, nil
}

func (p *SQLProvider) GetRequest(ctx context.Context, id int64) (*SlotRequest, error) {
	var request SlotRequest
	query := p.db.Rebind(`SELECT * FROM slot_requests WHERE id = ?`)
	if err := p.db.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &request, nil
}

func (p *SQLProvider) GetPendingRequestDetail(ctx context.Context, id int64) (*RequestDetail, error) {
	var detail RequestDetail
	query := p.db.Rebind(`SELECT sr.*, v.plate_number, v.vehicle_type, v.size, u.email
		FROM slot_requests sr
		JOIN vehicles v ON sr.vehicle_id = v.id
		JOIN users u ON sr.user_id = u.id
		WHERE sr.id = ? AND sr.request_status = ?`)
	if err := p.db.GetContext(ctx, &detail, query, id, RequestPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request detail: %w", err)
	}
	return &detail, nil
}

func (p *SQLProvider) ListRequests(ctx context.Context, params ListParams) (*Page[RequestWithVehicle], error) {
	pattern := "%" + params.Search + "%"
	where := `WHERE (LOWER(v.plate_number) LIKE LOWER(?) OR LOWER(sr.request_status) LIKE LOWER(?))`
	args := []any{pattern, pattern}
	if params.OwnerID != nil {
		where += ` AND sr.user_id = ?`
		args = append(args, *params.OwnerID)
	}

	var total int64
	countQuery := p.db.Rebind(`SELECT COUNT(*)
		FROM slot_requests sr JOIN vehicles v ON sr.vehicle_id = v.id ` + where)
	if err := p.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}

	var requests []RequestWithVehicle
	query := p.db.Rebind(`SELECT sr.*, v.plate_number, v.vehicle_type
		FROM slot_requests sr JOIN vehicles v ON sr.vehicle_id = v.id ` + where + `
		ORDER BY sr.id LIMIT ? OFFSET ?`)
	args = append(args, params.Limit, params.Offset())
	if err := p.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return NewPage(requests, total, params.Page, params.Limit), nil
}

func (p *SQLProvider) UpdateRequest(ctx context.Context, request SlotRequest) (*SlotRequest, error) {
	query := p.db.Rebind(`UPDATE slot_requests SET vehicle_id = ?, entry_time = ?, exit_time = ?, amount = ?
		WHERE id = ? AND user_id = ? AND request_status = ?`)
	res, err := p.db.ExecContext(ctx, query, request.VehicleID, request.EntryTime, request.ExitTime,
		request.Amount, request.ID, request.UserID, RequestPending)
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return p.GetRequest(ctx, request.ID)
}

func (p *SQLProvider) DeleteRequest(ctx context.Context, id, userID int64) error {
	query := p.db.Rebind(`DELETE FROM slot_requests WHERE id = ? AND user_id = ? AND request_status = ?`)
	res, err := p.db.ExecContext(ctx, query, id, userID, RequestPending)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveRequest performs the only concurrency-sensitive write in the
// system. Claiming the slot re-checks status=available inside the
// transaction; two concurrent approvals racing for the same slot resolve to
// exactly one winner, the loser gets ErrSlotTaken and no state change.
func (p *SQLProvider) ApproveRequest(ctx context.Context, requestID int64, slot ParkingSlot, approvedAt time.Time) (*SlotRequest, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approval: %w", err)
	}
	defer tx.Rollback()

	claim := tx.Rebind(`UPDATE parking_slots SET status = ? WHERE id = ? AND status = ?`)
	res, err := tx.ExecContext(ctx, claim, SlotUnavailable, slot.ID, SlotAvailable)
	if err != nil {
		return nil, fmt.Errorf("claim slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrSlotTaken
	}

	transition := tx.Rebind(`UPDATE slot_requests
		SET request_status = ?, slot_id = ?, slot_number = ?, approved_at = ?
		WHERE id = ? AND request_status = ?`)
	res, err = tx.ExecContext(ctx, transition, RequestApproved, slot.ID, slot.SlotNumber, approvedAt, requestID, RequestPending)
	if err != nil {
		return nil, fmt.Errorf("transition request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Request left pending state while we were allocating. Roll the
		// slot claim back with the transaction.
		return nil, ErrNotPending
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approval: %w", err)
	}

	return p.GetRequest(ctx, requestID)
}

func (p *SQLProvider) RejectRequest(ctx context.Context, id int64) (*SlotRequest, error) {
	query := p.db.Rebind(`UPDATE slot_requests SET request_status = ?
		WHERE id = ? AND request_status = ?`)
	res, err := p.db.ExecContext(ctx, query, RequestRejected, id, RequestPending)
	if err != nil {
		return nil, fmt.Errorf("reject request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotPending
	}
	return p.GetRequest(ctx, id)
}

// --- Audit log ---

const maxActionLen = 100

func (p *SQLProvider) AppendLog(ctx context.Context, userID int64, action string) error {
	// Truncate by rune, not byte. Plate numbers and rejection reasons flow
	// into actions and may carry multi-byte characters.
	if utf8.RuneCountInString(action) > maxActionLen {
		runes := []rune(action)
		action = string(runes[:maxActionLen])
	}
	query := p.db.Rebind(`INSERT INTO logs (user_id, action, created_at) VALUES (?, ?, ?)`)
	if _, err := p.db.ExecContext(ctx, query, userID, action, time.Now().UTC()); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

func (p *SQLProvider) ListLogs(ctx context.Context, params ListParams) (*Page[LogEntry], error) {
	pattern := "%" + params.Search + "%"

	var total int64
	countQuery := p.db.Rebind(`SELECT COUNT(*) FROM logs WHERE LOWER(action) LIKE LOWER(?)`)
	if err := p.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	var logs []LogEntry
	query := p.db.Rebind(`SELECT * FROM logs WHERE LOWER(action) LIKE LOWER(?)
		ORDER BY id DESC LIMIT ? OFFSET ?`)
	if err := p.db.SelectContext(ctx, &logs, query, pattern, params.Limit, params.Offset()); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return NewPage(logs, total, params.Page, params.Limit), nil
}

// --- OTP codes ---

func (p *SQLProvider) CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	query := p.db.Rebind(`INSERT INTO otp_codes (email, code, expires_at) VALUES (?, ?, ?)`)
	if _, err := p.db.ExecContext(ctx, query, email, code, expiresAt); err != nil {
		return fmt.Errorf("create otp: %w", err)
	}
	return nil
}

func (p *SQLProvider) ConsumeOTP(ctx context.Context, email, code string) (bool, error) {
	query := p.db.Rebind(`DELETE FROM otp_codes WHERE email = ? AND code = ? AND expires_at > ?`)
	res, err := p.db.ExecContext(ctx, query, email, code, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (p *SQLProvider) ExpireOTPs(ctx context.Context, now time.Time) error {
	query := p.db.Rebind(`DELETE FROM otp_codes WHERE expires_at <= ?`)
	if _, err := p.db.ExecContext(ctx, query, now); err != nil {
		return fmt.Errorf("expire otps: %w", err)
	}
	return nil
}
