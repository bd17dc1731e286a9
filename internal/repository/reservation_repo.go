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

type ReservationRepository interface {
	Create(res *db.Reservation) error
	GetByID(id int) (*db.Reservation, error)
	FindConfirmed(vehicleID, facilityID int) (*db.Reservation, error)
	UpdateStatus(id int, status string) error
	UpdateFields(id int, start, end *time.Time, notes *string) error
	List(userID int, status string, all bool) ([]db.Reservation, error)
	OverdueConfirmed(now time.Time) ([]db.Reservation, error)
	CancelBatch(ids []int) error
	DeleteByFacility(facilityID int) error
	CountSince(facilityID int, since time.Time) (int, error)
}

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(database *sql.DB) ReservationRepository {
	return &reservationRepository{db: database}
}

const reservationColumns = `r.id, r.user_id, r.vehicle_id, r.facility_id, r.spot_id,
	COALESCE(s.spot_name, ''), r.reserved_start, r.reserved_end, r.status, r.amount,
	r.payment_status, r.qr_code, r.notes, r.created_at, r.updated_at`

const reservationJoin = ` FROM reservations r LEFT JOIN parking_spots s ON s.id = r.spot_id `

func scanReservation(res *db.Reservation, scan func(...interface{}) error) error {
	return scan(&res.ID, &res.UserID, &res.VehicleID, &res.FacilityID, &res.SpotID,
		&res.SpotName, &res.ReservedStart, &res.ReservedEnd, &res.Status, &res.Amount,
		&res.PaymentStatus, &res.QRCode, &res.Notes, &res.CreatedAt, &res.UpdatedAt)
}

func (r *reservationRepository) Create(res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(user_id, vehicle_id, facility_id, spot_id, reserved_start, reserved_end, status, amount, payment_status, qr_code, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		res.UserID, res.VehicleID, res.FacilityID, res.SpotID,
		res.ReservedStart, res.ReservedEnd, res.Status, res.Amount,
		res.PaymentStatus, res.QRCode, res.Notes,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) GetByID(id int) (*db.Reservation, error) {
	var res db.Reservation
	err := scanReservation(&res, r.db.QueryRow(
		`SELECT `+reservationColumns+reservationJoin+`WHERE r.id = $1`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return &res, nil
}

// FindConfirmed returns the confirmed reservation for a vehicle at a
// facility, if any. Used by the session engine on entry.
func (r *reservationRepository) FindConfirmed(vehicleID, facilityID int) (*db.Reservation, error) {
	var res db.Reservation
	err := scanReservation(&res, r.db.QueryRow(
		`SELECT `+reservationColumns+reservationJoin+`
		 WHERE r.vehicle_id = $1 AND r.facility_id = $2 AND r.status = $3
		 ORDER BY r.reserved_start
		 LIMIT 1`, vehicleID, facilityID, db.ReservationConfirmed).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying confirmed reservation: %w", err)
	}
	return &res, nil
}

func (r *reservationRepository) UpdateStatus(id int, status string) error {
	_, err := r.db.Exec(
		`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating reservation %d status: %w", id, err)
	}
	return nil
}

// UpdateFields mutates only the whitelisted mutable fields. Availability
// is not re-validated for a changed window: the reservation keeps the
// spot it was allocated at creation.
func (r *reservationRepository) UpdateFields(id int, start, end *time.Time, notes *string) error {
	_, err := r.db.Exec(
		`UPDATE reservations
		 SET reserved_start = COALESCE($2, reserved_start),
		     reserved_end = COALESCE($3, reserved_end),
		     notes = COALESCE($4, notes),
		     updated_at = NOW()
		 WHERE id = $1`, id, start, end, notes)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", id, err)
	}
	return nil
}

func (r *reservationRepository) List(userID int, status string, all bool) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoin + `WHERE 1=1`
	args := []interface{}{}
	if !all {
		args = append(args, userID)
		query += fmt.Sprintf(" AND r.user_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY r.reserved_start DESC LIMIT 100"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	reservations := []db.Reservation{}
	for rows.Next() {
		var res db.Reservation
		if err := scanReservation(&res, rows.Scan); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// OverdueConfirmed returns confirmed reservations whose window already
// ended. The cron job cancels them and frees their held spots.
func (r *reservationRepository) OverdueConfirmed(now time.Time) ([]db.Reservation, error) {
	rows, err := r.db.Query(
		`SELECT `+reservationColumns+reservationJoin+`
		 WHERE r.status = $1 AND r.reserved_end < $2`, db.ReservationConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("error querying overdue reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := scanReservation(&res, rows.Scan); err != nil {
			return nil, fmt.Errorf("error scanning overdue reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) CancelBatch(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		db.ReservationCancelled, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error cancelling reservations: %w", err)
	}
	return nil
}

func (r *reservationRepository) DeleteByFacility(facilityID int) error {
	var err error
	if facilityID > 0 {
		_, err = r.db.Exec(`DELETE FROM reservations WHERE facility_id = $1`, facilityID)
	} else {
		_, err = r.db.Exec(`DELETE FROM reservations`)
	}
	if err != nil {
		return fmt.Errorf("error deleting reservations: %w", err)
	}
	return nil
}

func (r *reservationRepository) CountSince(facilityID int, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM reservations WHERE facility_id = $1 AND reserved_start >= $2`,
		facilityID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting reservations: %w", err)
	}
	return count, nil
}
