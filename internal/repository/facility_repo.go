package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

// OccupancySummary is the live spot breakdown for one facility.
type OccupancySummary struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
	Available int `json:"available"`
}

type FacilityRepository interface {
	Create(f *db.Facility) error
	GetByID(id int) (*db.Facility, error)
	ListActive() ([]db.Facility, error)
	Update(id int, fields map[string]interface{}) error
	Delete(id int) error
	HourlyRate(id int) (int, error)
	Occupancy(id int) (*OccupancySummary, error)
	ListFloors(facilityID int) ([]db.Floor, error)
}

type facilityRepository struct {
	db *sql.DB
}

func NewFacilityRepository(database *sql.DB) FacilityRepository {
	return &facilityRepository{db: database}
}

const facilityColumns = `id, name, address, city, latitude, longitude, total_spots, hourly_rate,
	operating_hours_start, operating_hours_end, image_url, is_active, created_at, updated_at`

func scanFacility(f *db.Facility, scan func(...interface{}) error) error {
	return scan(&f.ID, &f.Name, &f.Address, &f.City, &f.Latitude, &f.Longitude,
		&f.TotalSpots, &f.HourlyRate, &f.OperatingHoursStart, &f.OperatingHoursEnd,
		&f.ImageURL, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
}

func (r *facilityRepository) Create(f *db.Facility) error {
	err := r.db.QueryRow(
		`INSERT INTO facilities
		 (name, address, city, latitude, longitude, total_spots, hourly_rate, operating_hours_start, operating_hours_end, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, is_active, created_at, updated_at`,
		f.Name, f.Address, f.City, f.Latitude, f.Longitude, f.TotalSpots,
		f.HourlyRate, f.OperatingHoursStart, f.OperatingHoursEnd, f.ImageURL,
	).Scan(&f.ID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) GetByID(id int) (*db.Facility, error) {
	var f db.Facility
	err := scanFacility(&f, r.db.QueryRow(
		`SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying facility %d: %w", id, err)
	}
	return &f, nil
}

func (r *facilityRepository) ListActive() ([]db.Facility, error) {
	rows, err := r.db.Query(
		`SELECT ` + facilityColumns + ` FROM facilities WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing facilities: %w", err)
	}
	defer rows.Close()

	facilities := []db.Facility{}
	for rows.Next() {
		var f db.Facility
		if err := scanFacility(&f, rows.Scan); err != nil {
			return nil, fmt.Errorf("error scanning facility: %w", err)
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

// Update applies only whitelisted columns from fields.
func (r *facilityRepository) Update(id int, fields map[string]interface{}) error {
	allowed := map[string]bool{
		"name": true, "address": true, "city": true, "latitude": true, "longitude": true,
		"hourly_rate": true, "operating_hours_start": true, "operating_hours_end": true,
		"is_active": true, "image_url": true,
	}
	set := ""
	args := []interface{}{id}
	for col, val := range fields {
		if !allowed[col] {
			continue
		}
		args = append(args, val)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}
	if set == "" {
		return apperrors.Validation("No fields to update")
	}
	_, err := r.db.Exec(
		`UPDATE facilities SET `+set+`, updated_at = NOW() WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("error updating facility %d: %w", id, err)
	}
	return nil
}

func (r *facilityRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting facility %d: %w", id, err)
	}
	return nil
}

func (r *facilityRepository) HourlyRate(id int) (int, error) {
	var rate int
	err := r.db.QueryRow(`SELECT hourly_rate FROM facilities WHERE id = $1`, id).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("error querying hourly rate: %w", err)
	}
	return rate, nil
}

func (r *facilityRepository) Occupancy(id int) (*OccupancySummary, error) {
	var s OccupancySummary
	err := r.db.QueryRow(
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_occupied),
			COUNT(*) FILTER (WHERE is_reserved AND NOT is_occupied)
		 FROM parking_spots WHERE facility_id = $1 AND is_active = TRUE`,
		id).Scan(&s.Total, &s.Occupied, &s.Reserved)
	if err != nil {
		return nil, fmt.Errorf("error querying occupancy: %w", err)
	}
	s.Available = s.Total - s.Occupied - s.Reserved
	return &s, nil
}

func (r *facilityRepository) ListFloors(facilityID int) ([]db.Floor, error) {
	rows, err := r.db.Query(
		`SELECT id, facility_id, floor_number, name FROM floors WHERE facility_id = $1 ORDER BY floor_number`,
		facilityID)
	if err != nil {
		return nil, fmt.Errorf("error listing floors: %w", err)
	}
	defer rows.Close()

	floors := []db.Floor{}
	for rows.Next() {
		var f db.Floor
		if err := rows.Scan(&f.ID, &f.FacilityID, &f.FloorNumber, &f.Name); err != nil {
			return nil, fmt.Errorf("error scanning floor: %w", err)
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}
