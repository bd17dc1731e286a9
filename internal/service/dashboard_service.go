package service

import (
	"time"

	"sentrapark/internal/db"
	"sentrapark/internal/repository"
)

// DashboardStats is the admin overview for one facility.
type DashboardStats struct {
	FacilityID        int `json:"facility_id"`
	TotalSpots        int `json:"total_spots"`
	OccupiedSpots     int `json:"occupied_spots"`
	ReservedSpots     int `json:"reserved_spots"`
	AvailableSpots    int `json:"available_spots"`
	ActiveSessions    int `json:"active_sessions"`
	EntriesToday      int `json:"entries_today"`
	RevenueToday      int `json:"revenue_today"`
	ReservationsToday int `json:"reservations_today"`
}

type DashboardService struct {
	sessionRepo     repository.SessionRepository
	reservationRepo repository.ReservationRepository
	facilityRepo    repository.FacilityRepository
}

func NewDashboardService(
	sessionRepo repository.SessionRepository,
	reservationRepo repository.ReservationRepository,
	facilityRepo repository.FacilityRepository,
) *DashboardService {
	return &DashboardService{
		sessionRepo:     sessionRepo,
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
	}
}

// Stats aggregates today's numbers for a facility.
func (s *DashboardService) Stats(facilityID int) (*DashboardStats, error) {
	occupancy, err := s.facilityRepo.Occupancy(facilityID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	entries, revenue, active, err := s.sessionRepo.StatsSince(facilityID, midnight)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservationRepo.CountSince(facilityID, midnight)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		FacilityID:        facilityID,
		TotalSpots:        occupancy.Total,
		OccupiedSpots:     occupancy.Occupied,
		ReservedSpots:     occupancy.Reserved,
		AvailableSpots:    occupancy.Available,
		ActiveSessions:    active,
		EntriesToday:      entries,
		RevenueToday:      revenue,
		ReservationsToday: reservations,
	}, nil
}

// RecentActivity returns the latest sessions for the facility feed.
func (s *DashboardService) RecentActivity(facilityID, limit int) ([]db.ParkingSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.sessionRepo.List(repository.SessionFilter{FacilityID: facilityID, Limit: limit})
}
