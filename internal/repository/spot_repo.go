package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

// SpotRepository owns the occupancy/reservation state of parking spots.
// Allocation methods are single conditional statements so that two
// concurrent requests can never claim the same spot: the find and the
// flag flip happen in one UPDATE, serialized by row locks.
type SpotRepository interface {
	ClaimFirstAvailable(facilityID int) (*db.ParkingSpot, error)
	ReserveFirstAvailable(facilityID int, spotType string) (*db.ParkingSpot, error)
	Occupy(spotID int) error
	Release(spotID int) error
	ClearReservation(spotID int) error
	GetByID(spotID int) (*db.ParkingSpot, error)
	ListByFacility(facilityID int) ([]db.ParkingSpot, error)
	InitSpots(facilityID int, count int, prefix string, floorID *int, spotType string) error
	Update(spotID int, spotType *string, isActive *bool) error
	ReleaseAll(facilityID int) error
}

type spotRepository struct {
	db *sql.DB
}

func NewSpotRepository(database *sql.DB) SpotRepository {
	return &spotRepository{db: database}
}

const spotColumns = `id, facility_id, floor_id, spot_name, spot_type, is_occupied, is_reserved, is_active`

func scanSpot(row *sql.Row) (*db.ParkingSpot, error) {
	var s db.ParkingSpot
	err := row.Scan(&s.ID, &s.FacilityID, &s.FloorID, &s.SpotName, &s.SpotType,
		&s.IsOccupied, &s.IsReserved, &s.IsActive)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClaimFirstAvailable marks the lowest-id free spot in the facility as
// occupied and returns it. The inner SELECT and the UPDATE run as one
// statement; SKIP LOCKED makes concurrent walk-ins pick distinct rows
// instead of queueing on the same one.
func (r *spotRepository) ClaimFirstAvailable(facilityID int) (*db.ParkingSpot, error) {
	query := `
		UPDATE parking_spots SET is_occupied = TRUE, is_reserved = FALSE
		WHERE id = (
			SELECT id FROM parking_spots
			WHERE facility_id = $1 AND is_occupied = FALSE AND is_reserved = FALSE AND is_active = TRUE
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + spotColumns
	spot, err := scanSpot(r.db.QueryRow(query, facilityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrFacilityFull
		}
		return nil, fmt.Errorf("error claiming spot: %w", err)
	}
	return spot, nil
}

// ReserveFirstAvailable puts a reservation hold on the lowest-id free
// spot of the requested type. Same atomicity scheme as ClaimFirstAvailable.
func (r *spotRepository) ReserveFirstAvailable(facilityID int, spotType string) (*db.ParkingSpot, error) {
	query := `
		UPDATE parking_spots SET is_reserved = TRUE
		WHERE id = (
			SELECT id FROM parking_spots
			WHERE facility_id = $1 AND spot_type = $2
			  AND is_occupied = FALSE AND is_reserved = FALSE AND is_active = TRUE
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + spotColumns
	spot, err := scanSpot(r.db.QueryRow(query, facilityID, spotType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNoSpotOfType
		}
		return nil, fmt.Errorf("error reserving spot: %w", err)
	}
	return spot, nil
}

// Occupy flips a specific spot to occupied, clearing any reservation
// hold. The is_occupied = FALSE condition is the compare-and-swap: if
// another request occupied the spot first, ErrSpotTaken is returned and
// the caller falls back to a free-spot search.
func (r *spotRepository) Occupy(spotID int) error {
	res, err := r.db.Exec(
		`UPDATE parking_spots SET is_occupied = TRUE, is_reserved = FALSE
		 WHERE id = $1 AND is_occupied = FALSE`, spotID)
	if err != nil {
		return fmt.Errorf("error occupying spot %d: %w", spotID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrSpotTaken
	}
	return nil
}

// Release frees a spot entirely: both flags cleared.
func (r *spotRepository) Release(spotID int) error {
	_, err := r.db.Exec(
		`UPDATE parking_spots SET is_occupied = FALSE, is_reserved = FALSE WHERE id = $1`, spotID)
	if err != nil {
		return fmt.Errorf("error releasing spot %d: %w", spotID, err)
	}
	return nil
}

// ClearReservation drops a reservation hold without touching occupancy.
func (r *spotRepository) ClearReservation(spotID int) error {
	_, err := r.db.Exec(
		`UPDATE parking_spots SET is_reserved = FALSE WHERE id = $1`, spotID)
	if err != nil {
		return fmt.Errorf("error clearing reservation on spot %d: %w", spotID, err)
	}
	return nil
}

func (r *spotRepository) GetByID(spotID int) (*db.ParkingSpot, error) {
	spot, err := scanSpot(r.db.QueryRow(
		`SELECT `+spotColumns+` FROM parking_spots WHERE id = $1`, spotID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying spot %d: %w", spotID, err)
	}
	return spot, nil
}

func (r *spotRepository) ListByFacility(facilityID int) ([]db.ParkingSpot, error) {
	rows, err := r.db.Query(
		`SELECT `+spotColumns+` FROM parking_spots WHERE facility_id = $1 ORDER BY id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("error listing spots: %w", err)
	}
	defer rows.Close()

	var spots []db.ParkingSpot
	for rows.Next() {
		var s db.ParkingSpot
		if err := rows.Scan(&s.ID, &s.FacilityID, &s.FloorID, &s.SpotName, &s.SpotType,
			&s.IsOccupied, &s.IsReserved, &s.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning spot: %w", err)
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}

// InitSpots creates count spots named <prefix>-01..NN for a facility and
// updates the facility total. Fails if the facility already has spots.
func (r *spotRepository) InitSpots(facilityID int, count int, prefix string, floorID *int, spotType string) error {
	var existing int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM parking_spots WHERE facility_id = $1`, facilityID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("error checking existing spots: %w", err)
	}
	if existing > 0 {
		return apperrors.Validation("Spots already initialized for this facility")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("%s-%02d", prefix, i)
		if _, err := tx.Exec(
			`INSERT INTO parking_spots (facility_id, floor_id, spot_name, spot_type) VALUES ($1, $2, $3, $4)`,
			facilityID, floorID, name, spotType); err != nil {
			return fmt.Errorf("error inserting spot %s: %w", name, err)
		}
	}
	if _, err := tx.Exec(
		`UPDATE facilities SET total_spots = $1, updated_at = NOW() WHERE id = $2`, count, facilityID); err != nil {
		return fmt.Errorf("error updating facility total: %w", err)
	}
	return tx.Commit()
}

func (r *spotRepository) Update(spotID int, spotType *string, isActive *bool) error {
	_, err := r.db.Exec(
		`UPDATE parking_spots
		 SET spot_type = COALESCE($2, spot_type), is_active = COALESCE($3, is_active)
		 WHERE id = $1`, spotID, spotType, isActive)
	if err != nil {
		return fmt.Errorf("error updating spot %d: %w", spotID, err)
	}
	return nil
}

// ReleaseAll frees every spot, optionally scoped to one facility. Used by
// the system reset.
func (r *spotRepository) ReleaseAll(facilityID int) error {
	query := `UPDATE parking_spots SET is_occupied = FALSE, is_reserved = FALSE`
	var err error
	if facilityID > 0 {
		_, err = r.db.Exec(query+` WHERE facility_id = $1`, facilityID)
	} else {
		_, err = r.db.Exec(query)
	}
	if err != nil {
		return fmt.Errorf("error releasing spots: %w", err)
	}
	return nil
}
