package service

import (
	"errors"
	"time"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

// HardwareService covers the physical plumbing: cameras, gates and the
// detection log fed by the plate-recognition service.
type HardwareService struct {
	cameraRepo    repository.CameraRepository
	gateRepo      repository.GateRepository
	detectionRepo repository.DetectionRepository
	vehicleRepo   repository.VehicleRepository
}

func NewHardwareService(
	cameraRepo repository.CameraRepository,
	gateRepo repository.GateRepository,
	detectionRepo repository.DetectionRepository,
	vehicleRepo repository.VehicleRepository,
) *HardwareService {
	return &HardwareService{
		cameraRepo:    cameraRepo,
		gateRepo:      gateRepo,
		detectionRepo: detectionRepo,
		vehicleRepo:   vehicleRepo,
	}
}

func (s *HardwareService) CreateCamera(c *db.Camera) error {
	if c.CameraID == "" || c.FacilityID == 0 {
		return apperrors.Validation("camera_id and facility_id are required")
	}
	if c.CameraType == "" {
		c.CameraType = "entry"
	}
	c.IsActive = true
	return s.cameraRepo.Create(c)
}

func (s *HardwareService) ListCameras(facilityID int) ([]db.Camera, error) {
	return s.cameraRepo.List(facilityID)
}

func (s *HardwareService) DeleteCamera(id int) error {
	return s.cameraRepo.Delete(id)
}

func (s *HardwareService) CreateGate(g *db.Gate) error {
	if g.Name == "" || g.FacilityID == 0 {
		return apperrors.Validation("Gate name and facility_id are required")
	}
	if g.GateType == "" {
		g.GateType = "entry"
	}
	g.Status = "closed"
	return s.gateRepo.Create(g)
}

func (s *HardwareService) ListGates(facilityID int) ([]db.Gate, error) {
	return s.gateRepo.List(facilityID)
}

// OperateGate flips a gate open or closed on operator command and logs
// the event.
func (s *HardwareService) OperateGate(gateID int, open bool, operatorID int, plate string) error {
	status := "closed"
	eventType := "close"
	if open {
		status = "open"
		eventType = "open"
	}
	if err := s.gateRepo.SetStatus(gateID, status); err != nil {
		return err
	}

	event := &db.GateEvent{
		GateID:      gateID,
		EventType:   eventType,
		TriggeredBy: "manual",
		OperatorID:  &operatorID,
	}
	if plate != "" {
		normalized := NormalizePlate(plate)
		event.PlateNumber = &normalized
	}
	return s.gateRepo.RecordEvent(event)
}

// IngestDetection records a plate read from a camera and flags whether
// the plate belongs to a registered vehicle. The caller is the LPR
// service; unregistered plates are still logged.
func (s *HardwareService) IngestDetection(cameraID, plate string, confidence float64, facilityID *int, vehicleClass, imageURL *string) (*db.DetectionLog, error) {
	if cameraID == "" || plate == "" {
		return nil, apperrors.Validation("camera_id and plate_number are required")
	}

	detection := &db.DetectionLog{
		CameraID:     cameraID,
		FacilityID:   facilityID,
		PlateNumber:  NormalizePlate(plate),
		Confidence:   confidence,
		DetectedAt:   time.Now(),
		ActionTaken:  "logged",
		VehicleClass: vehicleClass,
		ImageURL:     imageURL,
	}

	vehicle, err := s.vehicleRepo.GetByPlate(detection.PlateNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if vehicle != nil {
		detection.VehicleID = &vehicle.ID
		detection.IsRegistered = true
	}

	if err := s.detectionRepo.Create(detection); err != nil {
		return nil, err
	}
	return detection, nil
}

func (s *HardwareService) ListDetections(facilityID, limit int) ([]db.DetectionLog, error) {
	return s.detectionRepo.List(facilityID, limit)
}

func (s *HardwareService) UpdateDetectionAction(id int, action string) error {
	if action == "" {
		return apperrors.Validation("action_taken is required")
	}
	return s.detectionRepo.UpdateAction(id, action)
}
