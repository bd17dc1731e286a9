package service

import (
	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

type FacilityService struct {
	facilityRepo repository.FacilityRepository
	spotRepo     repository.SpotRepository
}

func NewFacilityService(facilityRepo repository.FacilityRepository, spotRepo repository.SpotRepository) *FacilityService {
	return &FacilityService{facilityRepo: facilityRepo, spotRepo: spotRepo}
}

func (s *FacilityService) Create(f *db.Facility) error {
	if f.Name == "" || f.Address == "" {
		return apperrors.Validation("Facility name and address are required")
	}
	if f.HourlyRate <= 0 {
		f.HourlyRate = DefaultHourlyRate
	}
	return s.facilityRepo.Create(f)
}

func (s *FacilityService) Get(id int) (*db.Facility, error) {
	return s.facilityRepo.GetByID(id)
}

func (s *FacilityService) ListActive() ([]db.Facility, error) {
	return s.facilityRepo.ListActive()
}

func (s *FacilityService) Update(id int, fields map[string]interface{}) (*db.Facility, error) {
	if err := s.facilityRepo.Update(id, fields); err != nil {
		return nil, err
	}
	return s.facilityRepo.GetByID(id)
}

func (s *FacilityService) Delete(id int) error {
	return s.facilityRepo.Delete(id)
}

// Occupancy reports live spot counts for a facility.
func (s *FacilityService) Occupancy(id int) (*repository.OccupancySummary, error) {
	return s.facilityRepo.Occupancy(id)
}

func (s *FacilityService) ListFloors(facilityID int) ([]db.Floor, error) {
	return s.facilityRepo.ListFloors(facilityID)
}

// InitSpots bulk-creates numbered spots for a facility. Refuses to run
// twice for the same facility.
func (s *FacilityService) InitSpots(facilityID, count int, prefix string, floorID *int, spotType string) error {
	if count <= 0 || count > 10000 {
		return apperrors.Validation("Spot count must be between 1 and 10000")
	}
	if prefix == "" {
		prefix = "A"
	}
	if spotType == "" {
		spotType = "regular"
	}
	if _, err := s.facilityRepo.GetByID(facilityID); err != nil {
		return err
	}
	return s.spotRepo.InitSpots(facilityID, count, prefix, floorID, spotType)
}

func (s *FacilityService) ListSpots(facilityID int) ([]db.ParkingSpot, error) {
	return s.spotRepo.ListByFacility(facilityID)
}

func (s *FacilityService) UpdateSpot(spotID int, spotType *string, isActive *bool) (*db.ParkingSpot, error) {
	if err := s.spotRepo.Update(spotID, spotType, isActive); err != nil {
		return nil, err
	}
	return s.spotRepo.GetByID(spotID)
}
