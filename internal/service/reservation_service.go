package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

// DefaultReservationFee applies when a facility has no reservation plan.
const DefaultReservationFee = 200

type ReservationService struct {
	reservationRepo repository.ReservationRepository
	spotRepo        repository.SpotRepository
	pricingRepo     repository.PricingRepository
	notify          *NotifyService
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	spotRepo repository.SpotRepository,
	pricingRepo repository.PricingRepository,
	notify *NotifyService,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		spotRepo:        spotRepo,
		pricingRepo:     pricingRepo,
		notify:          notify,
	}
}

// Create reserves the first free spot of the requested type and persists a
// confirmed reservation carrying an opaque QR token.
func (s *ReservationService) Create(userID, vehicleID, facilityID int, start, end time.Time, spotType, notes string) (*db.Reservation, error) {
	spot, err := s.spotRepo.ReserveFirstAvailable(facilityID, spotType)
	if err != nil {
		return nil, err
	}

	fee, err := s.pricingRepo.ReservationRate(facilityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("ERROR: failed to load reservation rate for facility %d: %v", facilityID, err)
		}
		fee = DefaultReservationFee
	}

	reservation := &db.Reservation{
		UserID:        userID,
		VehicleID:     vehicleID,
		FacilityID:    facilityID,
		SpotID:        &spot.ID,
		SpotName:      spot.SpotName,
		ReservedStart: start,
		ReservedEnd:   end,
		Status:        db.ReservationConfirmed,
		Amount:        fee,
		PaymentStatus: db.PaymentPending,
		QRCode:        uuid.NewString(),
		Notes:         notes,
	}
	if err := s.reservationRepo.Create(reservation); err != nil {
		if releaseErr := s.spotRepo.ClearReservation(spot.ID); releaseErr != nil {
			log.Printf("ERROR: failed to unreserve spot %d after reservation failure: %v", spot.ID, releaseErr)
		}
		return nil, err
	}

	s.notify.NotifyWithEmail(userID, "reservation", "Reservation confirmed",
		fmt.Sprintf("Spot %s is reserved for you from %s to %s.",
			spot.SpotName, start.Format(time.RFC3339), end.Format(time.RFC3339)),
		map[string]interface{}{"reservation_id": reservation.ID, "spot": spot.SpotName})

	return reservation, nil
}

// Cancel releases the held spot and marks the reservation cancelled. Only
// confirmed reservations can be cancelled; a checked-in one is already tied
// to a live session.
func (s *ReservationService) Cancel(reservationID, userID int, isAdmin bool) error {
	reservation, err := s.reservationRepo.GetByID(reservationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if !isAdmin && reservation.UserID != userID {
		return apperrors.Forbidden("You do not own this reservation")
	}
	if reservation.Status != db.ReservationConfirmed {
		return apperrors.Conflict("Only confirmed reservations can be cancelled")
	}

	if reservation.SpotID != nil {
		if err := s.spotRepo.ClearReservation(*reservation.SpotID); err != nil {
			log.Printf("ERROR: failed to unreserve spot %d on cancellation: %v", *reservation.SpotID, err)
		}
	}
	if err := s.reservationRepo.UpdateStatus(reservationID, db.ReservationCancelled); err != nil {
		return err
	}

	s.notify.Notify(reservation.UserID, "reservation", "Reservation cancelled",
		fmt.Sprintf("Your reservation for spot %s was cancelled.", reservation.SpotName),
		map[string]interface{}{"reservation_id": reservationID})
	return nil
}

// Update mutates the whitelisted fields of a reservation. Availability for
// a changed time window is not re-validated; the spot hold is unchanged.
func (s *ReservationService) Update(reservationID, userID int, isAdmin bool, start, end *time.Time, notes *string) (*db.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && reservation.UserID != userID {
		return nil, apperrors.Forbidden("You do not own this reservation")
	}
	if err := s.reservationRepo.UpdateFields(reservationID, start, end, notes); err != nil {
		return nil, err
	}
	return s.reservationRepo.GetByID(reservationID)
}

// List returns the caller's reservations, or every reservation for admins.
func (s *ReservationService) List(userID int, status string, isAdmin, all bool) ([]db.Reservation, error) {
	return s.reservationRepo.List(userID, status, isAdmin && all)
}

// ExpireOverdue cancels confirmed reservations whose window has passed and
// frees their spots. Run from the scheduler.
func (s *ReservationService) ExpireOverdue(now time.Time) (int, error) {
	overdue, err := s.reservationRepo.OverdueConfirmed(now)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(overdue))
	for _, reservation := range overdue {
		ids = append(ids, reservation.ID)
		if reservation.SpotID != nil {
			if err := s.spotRepo.ClearReservation(*reservation.SpotID); err != nil {
				log.Printf("ERROR: failed to unreserve spot %d for expired reservation %d: %v",
					*reservation.SpotID, reservation.ID, err)
			}
		}
	}
	if err := s.reservationRepo.CancelBatch(ids); err != nil {
		return 0, err
	}

	for _, reservation := range overdue {
		s.notify.Notify(reservation.UserID, "reservation", "Reservation expired",
			fmt.Sprintf("Your reservation for spot %s expired and was cancelled.", reservation.SpotName),
			map[string]interface{}{"reservation_id": reservation.ID})
	}
	return len(ids), nil
}
