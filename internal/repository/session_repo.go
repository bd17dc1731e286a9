package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

// SessionFilter narrows session history queries.
type SessionFilter struct {
	FacilityID int
	ActiveOnly bool
	VehicleIDs []int // empty means no vehicle scoping
	Limit      int
}

type SessionRepository interface {
	Create(s *db.ParkingSession) error
	GetOpenByPlate(plate string) (*db.ParkingSession, error)
	Close(sessionID int, exitTime time.Time, durationMinutes, amount int, paymentStatus string) error
	MarkPaid(sessionID int) error
	List(f SessionFilter) ([]db.ParkingSession, error)
	DeleteByFacility(facilityID int) error
	StatsSince(facilityID int, since time.Time) (entries int, revenue int, active int, err error)
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(database *sql.DB) SessionRepository {
	return &sessionRepository{db: database}
}

const sessionColumns = `id, vehicle_id, facility_id, spot_id, reservation_id, plate_number, spot_name,
	entry_time, exit_time, duration_minutes, amount, payment_status, session_type, entry_method`

func scanSession(s *db.ParkingSession, scan func(...interface{}) error) error {
	return scan(&s.ID, &s.VehicleID, &s.FacilityID, &s.SpotID, &s.ReservationID,
		&s.PlateNumber, &s.SpotName, &s.EntryTime, &s.ExitTime, &s.DurationMinutes,
		&s.Amount, &s.PaymentStatus, &s.SessionType, &s.EntryMethod)
}

// Create inserts an open session. The partial unique index on
// (plate_number) WHERE exit_time IS NULL is the real duplicate-entry
// guard; a violation surfaces here as ErrDuplicateEntry.
func (r *sessionRepository) Create(s *db.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions
		(vehicle_id, facility_id, spot_id, reservation_id, plate_number, spot_name, entry_time, payment_status, session_type, entry_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRow(query,
		s.VehicleID, s.FacilityID, s.SpotID, s.ReservationID, s.PlateNumber,
		s.SpotName, s.EntryTime, s.PaymentStatus, s.SessionType, s.EntryMethod,
	).Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetOpenByPlate returns the open session for a plate. If an anomaly
// ever left several open, the most recent entry wins.
func (r *sessionRepository) GetOpenByPlate(plate string) (*db.ParkingSession, error) {
	var s db.ParkingSession
	err := scanSession(&s, r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM parking_sessions
		 WHERE plate_number = $1 AND exit_time IS NULL
		 ORDER BY entry_time DESC
		 LIMIT 1`, plate).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("error querying open session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Close(sessionID int, exitTime time.Time, durationMinutes, amount int, paymentStatus string) error {
	_, err := r.db.Exec(
		`UPDATE parking_sessions
		 SET exit_time = $2, duration_minutes = $3, amount = $4, payment_status = $5
		 WHERE id = $1`,
		sessionID, exitTime, durationMinutes, amount, paymentStatus)
	if err != nil {
		return fmt.Errorf("error closing session %d: %w", sessionID, err)
	}
	return nil
}

func (r *sessionRepository) MarkPaid(sessionID int) error {
	_, err := r.db.Exec(
		`UPDATE parking_sessions SET payment_status = $2 WHERE id = $1`,
		sessionID, db.PaymentPaid)
	if err != nil {
		return fmt.Errorf("error marking session %d paid: %w", sessionID, err)
	}
	return nil
}

func (r *sessionRepository) List(f SessionFilter) ([]db.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE 1=1`
	args := []interface{}{}
	if len(f.VehicleIDs) > 0 {
		args = append(args, pq.Array(f.VehicleIDs))
		query += fmt.Sprintf(" AND vehicle_id = ANY($%d)", len(args))
	}
	if f.FacilityID > 0 {
		args = append(args, f.FacilityID)
		query += fmt.Sprintf(" AND facility_id = $%d", len(args))
	}
	if f.ActiveOnly {
		query += " AND exit_time IS NULL"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY entry_time DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []db.ParkingSession{}
	for rows.Next() {
		var s db.ParkingSession
		if err := scanSession(&s, rows.Scan); err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) DeleteByFacility(facilityID int) error {
	var err error
	if facilityID > 0 {
		_, err = r.db.Exec(`DELETE FROM parking_sessions WHERE facility_id = $1`, facilityID)
	} else {
		_, err = r.db.Exec(`DELETE FROM parking_sessions`)
	}
	if err != nil {
		return fmt.Errorf("error deleting sessions: %w", err)
	}
	return nil
}

// StatsSince aggregates today's dashboard numbers for one facility.
func (r *sessionRepository) StatsSince(facilityID int, since time.Time) (int, int, int, error) {
	var entries, revenue, active int
	err := r.db.QueryRow(
		`SELECT
			COUNT(*) FILTER (WHERE entry_time >= $2),
			COALESCE(SUM(amount) FILTER (WHERE entry_time >= $2 AND payment_status = 'paid'), 0),
			COUNT(*) FILTER (WHERE exit_time IS NULL)
		 FROM parking_sessions WHERE facility_id = $1`,
		facilityID, since).Scan(&entries, &revenue, &active)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("error aggregating session stats: %w", err)
	}
	return entries, revenue, active, nil
}
