package repository

import (
	"database/sql"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

// CameraRepository and GateRepository back the hardware plumbing
// endpoints consumed by the admin dashboard.

type CameraRepository interface {
	Create(c *db.Camera) error
	List(facilityID int) ([]db.Camera, error)
	Delete(id int) error
}

type cameraRepository struct {
	db *sql.DB
}

func NewCameraRepository(database *sql.DB) CameraRepository {
	return &cameraRepository{db: database}
}

func (r *cameraRepository) Create(c *db.Camera) error {
	err := r.db.QueryRow(
		`INSERT INTO cameras (facility_id, camera_id, name, camera_type, source_url, gate_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_active`,
		c.FacilityID, c.CameraID, c.Name, c.CameraType, c.SourceURL, c.GateID,
	).Scan(&c.ID, &c.IsActive)
	if err != nil {
		return fmt.Errorf("error adding camera: %w", err)
	}
	return nil
}

func (r *cameraRepository) List(facilityID int) ([]db.Camera, error) {
	query := `SELECT id, facility_id, camera_id, name, camera_type, source_url, gate_id, is_active FROM cameras`
	args := []interface{}{}
	if facilityID > 0 {
		query += ` WHERE facility_id = $1`
		args = append(args, facilityID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing cameras: %w", err)
	}
	defer rows.Close()

	cameras := []db.Camera{}
	for rows.Next() {
		var c db.Camera
		if err := rows.Scan(&c.ID, &c.FacilityID, &c.CameraID, &c.Name, &c.CameraType,
			&c.SourceURL, &c.GateID, &c.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning camera: %w", err)
		}
		cameras = append(cameras, c)
	}
	return cameras, rows.Err()
}

func (r *cameraRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM cameras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting camera %d: %w", id, err)
	}
	return nil
}

type GateRepository interface {
	Create(g *db.Gate) error
	List(facilityID int) ([]db.Gate, error)
	SetStatus(id int, status string) error
	RecordEvent(e *db.GateEvent) error
}

type gateRepository struct {
	db *sql.DB
}

func NewGateRepository(database *sql.DB) GateRepository {
	return &gateRepository{db: database}
}

func (r *gateRepository) Create(g *db.Gate) error {
	err := r.db.QueryRow(
		`INSERT INTO gates (facility_id, name, gate_type, hardware_ip, camera_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status`,
		g.FacilityID, g.Name, g.GateType, g.HardwareIP, g.CameraID,
	).Scan(&g.ID, &g.Status)
	if err != nil {
		return fmt.Errorf("error adding gate: %w", err)
	}
	return nil
}

func (r *gateRepository) List(facilityID int) ([]db.Gate, error) {
	query := `SELECT id, facility_id, name, gate_type, hardware_ip, camera_id, status FROM gates`
	args := []interface{}{}
	if facilityID > 0 {
		query += ` WHERE facility_id = $1`
		args = append(args, facilityID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing gates: %w", err)
	}
	defer rows.Close()

	gates := []db.Gate{}
	for rows.Next() {
		var g db.Gate
		if err := rows.Scan(&g.ID, &g.FacilityID, &g.Name, &g.GateType,
			&g.HardwareIP, &g.CameraID, &g.Status); err != nil {
			return nil, fmt.Errorf("error scanning gate: %w", err)
		}
		gates = append(gates, g)
	}
	return gates, rows.Err()
}

func (r *gateRepository) SetStatus(id int, status string) error {
	res, err := r.db.Exec(`UPDATE gates SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating gate %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *gateRepository) RecordEvent(e *db.GateEvent) error {
	err := r.db.QueryRow(
		`INSERT INTO gate_events (gate_id, event_type, triggered_by, operator_id, plate_number)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.GateID, e.EventType, e.TriggeredBy, e.OperatorID, e.PlateNumber,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording gate event: %w", err)
	}
	return nil
}

type DetectionRepository interface {
	Create(d *db.DetectionLog) error
	List(facilityID, limit int) ([]db.DetectionLog, error)
	UpdateAction(id int, action string) error
}

type detectionRepository struct {
	db *sql.DB
}

func NewDetectionRepository(database *sql.DB) DetectionRepository {
	return &detectionRepository{db: database}
}

func (r *detectionRepository) Create(d *db.DetectionLog) error {
	err := r.db.QueryRow(
		`INSERT INTO detection_logs
		 (camera_id, facility_id, plate_number, confidence, vehicle_id, is_registered, detected_at, action_taken, vehicle_class, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		d.CameraID, d.FacilityID, d.PlateNumber, d.Confidence, d.VehicleID,
		d.IsRegistered, d.DetectedAt, d.ActionTaken, d.VehicleClass, d.ImageURL,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("error logging detection: %w", err)
	}
	return nil
}

func (r *detectionRepository) List(facilityID, limit int) ([]db.DetectionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, camera_id, facility_id, plate_number, confidence, vehicle_id, is_registered, detected_at, action_taken, vehicle_class, image_url
		FROM detection_logs`
	args := []interface{}{}
	if facilityID > 0 {
		query += ` WHERE facility_id = $1`
		args = append(args, facilityID)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY detected_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing detections: %w", err)
	}
	defer rows.Close()

	detections := []db.DetectionLog{}
	for rows.Next() {
		var d db.DetectionLog
		if err := rows.Scan(&d.ID, &d.CameraID, &d.FacilityID, &d.PlateNumber,
			&d.Confidence, &d.VehicleID, &d.IsRegistered, &d.DetectedAt,
			&d.ActionTaken, &d.VehicleClass, &d.ImageURL); err != nil {
			return nil, fmt.Errorf("error scanning detection: %w", err)
		}
		detections = append(detections, d)
	}
	return detections, rows.Err()
}

func (r *detectionRepository) UpdateAction(id int, action string) error {
	res, err := r.db.Exec(`UPDATE detection_logs SET action_taken = $2 WHERE id = $1`, id, action)
	if err != nil {
		return fmt.Errorf("error updating detection %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
