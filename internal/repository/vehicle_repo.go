package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

type VehicleRepository interface {
	Create(v *db.Vehicle) error
	GetByPlate(plate string) (*db.Vehicle, error)
	GetByID(id int) (*db.Vehicle, error)
	List(userID int, all bool) ([]db.Vehicle, error)
	IDsByUser(userID int) ([]int, error)
	Update(id int, fields VehicleUpdate) error
	Deactivate(id int) error
}

// VehicleUpdate carries the whitelisted mutable fields; nil means keep.
type VehicleUpdate struct {
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Color       *string `json:"color"`
	Year        *int    `json:"year"`
	VehicleType *string `json:"vehicle_type"`
	IsActive    *bool   `json:"is_active"`
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(database *sql.DB) VehicleRepository {
	return &vehicleRepository{db: database}
}

const vehicleColumns = `id, user_id, plate_number, make, model, color, year, vehicle_type, is_active, created_at`

func (r *vehicleRepository) Create(v *db.Vehicle) error {
	err := r.db.QueryRow(
		`INSERT INTO vehicles (user_id, plate_number, make, model, color, year, vehicle_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, is_active, created_at`,
		v.UserID, v.PlateNumber, v.Make, v.Model, v.Color, v.Year, v.VehicleType,
	).Scan(&v.ID, &v.IsActive, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("error registering vehicle %s: %w", v.PlateNumber, err)
	}
	return nil
}

// GetByPlate resolves an active vehicle by plate. Unregistered plates
// return ErrNotFound; the session engine treats that as a walk-in.
func (r *vehicleRepository) GetByPlate(plate string) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.db.QueryRow(
		`SELECT `+vehicleColumns+` FROM vehicles WHERE plate_number = $1 AND is_active = TRUE LIMIT 1`,
		plate).Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.Make, &v.Model, &v.Color,
		&v.Year, &v.VehicleType, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying vehicle by plate: %w", err)
	}
	return &v, nil
}

func (r *vehicleRepository) GetByID(id int) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.db.QueryRow(
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`,
		id).Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.Make, &v.Model, &v.Color,
		&v.Year, &v.VehicleType, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *vehicleRepository) List(userID int, all bool) ([]db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []interface{}{}
	if !all {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []db.Vehicle{}
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.Make, &v.Model,
			&v.Color, &v.Year, &v.VehicleType, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) IDsByUser(userID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT id FROM vehicles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *vehicleRepository) Update(id int, fields VehicleUpdate) error {
	_, err := r.db.Exec(
		`UPDATE vehicles
		 SET make = COALESCE($2, make),
		     model = COALESCE($3, model),
		     color = COALESCE($4, color),
		     year = COALESCE($5, year),
		     vehicle_type = COALESCE($6, vehicle_type),
		     is_active = COALESCE($7, is_active)
		 WHERE id = $1`,
		id, fields.Make, fields.Model, fields.Color, fields.Year, fields.VehicleType, fields.IsActive)
	if err != nil {
		return fmt.Errorf("error updating vehicle %d: %w", id, err)
	}
	return nil
}

func (r *vehicleRepository) Deactivate(id int) error {
	_, err := r.db.Exec(`UPDATE vehicles SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating vehicle %d: %w", id, err)
	}
	return nil
}
