package service

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

type VehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// Register adds a vehicle under the user's account. Plates are stored
// upper-cased; a plate can only be registered once while active.
func (s *VehicleService) Register(userID int, plate, make, model, color, vehicleType string, year *int) (*db.Vehicle, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, apperrors.Validation("Plate number is required")
	}
	if vehicleType == "" {
		vehicleType = "car"
	}

	vehicle := &db.Vehicle{
		UserID:      userID,
		PlateNumber: plate,
		Make:        make,
		Model:       model,
		Color:       color,
		Year:        year,
		VehicleType: vehicleType,
		IsActive:    true,
	}
	if err := s.vehicleRepo.Create(vehicle); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperrors.Conflict("Plate is already registered")
		}
		return nil, err
	}
	return vehicle, nil
}

// List returns the user's vehicles, or all vehicles for admins.
func (s *VehicleService) List(userID int, isAdmin, all bool) ([]db.Vehicle, error) {
	return s.vehicleRepo.List(userID, isAdmin && all)
}

// Update mutates a vehicle the caller owns.
func (s *VehicleService) Update(vehicleID, userID int, isAdmin bool, fields repository.VehicleUpdate) (*db.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && vehicle.UserID != userID {
		return nil, apperrors.Forbidden("You do not own this vehicle")
	}
	if err := s.vehicleRepo.Update(vehicleID, fields); err != nil {
		return nil, err
	}
	return s.vehicleRepo.GetByID(vehicleID)
}

// Deactivate soft-deletes a vehicle the caller owns.
func (s *VehicleService) Deactivate(vehicleID, userID int, isAdmin bool) error {
	vehicle, err := s.vehicleRepo.GetByID(vehicleID)
	if err != nil {
		return err
	}
	if !isAdmin && vehicle.UserID != userID {
		return apperrors.Forbidden("You do not own this vehicle")
	}
	return s.vehicleRepo.Deactivate(vehicleID)
}

// LookupByPlate resolves an active vehicle for gate-side callers.
func (s *VehicleService) LookupByPlate(plate string) (*db.Vehicle, error) {
	return s.vehicleRepo.GetByPlate(NormalizePlate(plate))
}

// NormalizePlate upper-cases and trims a plate number so LPR reads and
// manual input compare equal.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
