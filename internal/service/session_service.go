package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

// Fallbacks when a facility has no rate configured.
const (
	DefaultHourlyRate = 150
	GateOpen          = "open"
	GatePending       = "pending"
	GateDeny          = "deny"
)

// EntryResult is what the gate controller needs to act on an entry.
type EntryResult struct {
	SessionID    int    `json:"session_id"`
	Spot         string `json:"spot"`
	SessionType  string `json:"session_type"`
	IsRegistered bool   `json:"is_registered"`
	GateAction   string `json:"gate_action"`
}

// ExitResult is the settlement summary returned at the exit gate.
type ExitResult struct {
	SessionID       int    `json:"session_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Amount          int    `json:"amount"`
	PaymentStatus   string `json:"payment_status"`
	GateAction      string `json:"gate_action"`
}

// SessionService drives the entry/exit lifecycle. All spot and wallet
// mutations go through conditional repository operations, so concurrent
// requests for the same facility or plate cannot double-allocate.
type SessionService struct {
	sessionRepo      repository.SessionRepository
	spotRepo         repository.SpotRepository
	vehicleRepo      repository.VehicleRepository
	reservationRepo  repository.ReservationRepository
	subscriptionRepo repository.SubscriptionRepository
	facilityRepo     repository.FacilityRepository
	walletRepo       repository.WalletRepository
	paymentRepo      repository.PaymentRepository
	notify           *NotifyService
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	spotRepo repository.SpotRepository,
	vehicleRepo repository.VehicleRepository,
	reservationRepo repository.ReservationRepository,
	subscriptionRepo repository.SubscriptionRepository,
	facilityRepo repository.FacilityRepository,
	walletRepo repository.WalletRepository,
	paymentRepo repository.PaymentRepository,
	notify *NotifyService,
) *SessionService {
	return &SessionService{
		sessionRepo:      sessionRepo,
		spotRepo:         spotRepo,
		vehicleRepo:      vehicleRepo,
		reservationRepo:  reservationRepo,
		subscriptionRepo: subscriptionRepo,
		facilityRepo:     facilityRepo,
		walletRepo:       walletRepo,
		paymentRepo:      paymentRepo,
		notify:           notify,
	}
}

// RecordEntry registers a vehicle entering a facility and assigns a spot.
// The duplicate check here is advisory; the store's partial unique index on
// open sessions is the real guard, so a racing insert still comes back as
// ErrDuplicateEntry and the claimed spot is released again.
func (s *SessionService) RecordEntry(plate string, facilityID int, entryMethod string) (*EntryResult, error) {
	plate = NormalizePlate(plate)
	if _, err := s.sessionRepo.GetOpenByPlate(plate); err == nil {
		return nil, apperrors.ErrDuplicateEntry
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByPlate(plate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	isRegistered := vehicle != nil

	sessionType := db.SessionWalkIn
	var spot *db.ParkingSpot
	var reservation *db.Reservation

	if isRegistered {
		reservation, err = s.reservationRepo.FindConfirmed(vehicle.ID, facilityID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if reservation != nil {
			sessionType = db.SessionReserved
			spot = s.claimReservedSpot(reservation)
		} else {
			sub, err := s.subscriptionRepo.FindActive(vehicle.ID, facilityID, time.Now())
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if sub != nil {
				sessionType = db.SessionSubscription
			}
		}
	}

	if spot == nil {
		spot, err = s.spotRepo.ClaimFirstAvailable(facilityID)
		if err != nil {
			return nil, err
		}
	}

	session := &db.ParkingSession{
		FacilityID:    facilityID,
		SpotID:        spot.ID,
		PlateNumber:   plate,
		SpotName:      spot.SpotName,
		EntryTime:     time.Now(),
		PaymentStatus: db.PaymentPending,
		SessionType:   sessionType,
		EntryMethod:   entryMethod,
	}
	if isRegistered {
		session.VehicleID = &vehicle.ID
	}
	if reservation != nil {
		session.ReservationID = &reservation.ID
	}

	if err := s.sessionRepo.Create(session); err != nil {
		if releaseErr := s.spotRepo.Release(spot.ID); releaseErr != nil {
			log.Printf("ERROR: failed to release spot %d after entry failure: %v", spot.ID, releaseErr)
		}
		return nil, err
	}

	if reservation != nil {
		if err := s.reservationRepo.UpdateStatus(reservation.ID, db.ReservationCheckedIn); err != nil {
			log.Printf("ERROR: failed to mark reservation %d checked in: %v", reservation.ID, err)
		}
	}

	gateAction := GatePending
	if isRegistered {
		gateAction = GateOpen
		s.notify.Notify(vehicle.UserID, "entry", "Vehicle entered",
			fmt.Sprintf("%s entered the facility and was assigned spot %s.", plate, spot.SpotName),
			map[string]interface{}{"session_id": session.ID, "spot": spot.SpotName})
	}

	return &EntryResult{
		SessionID:    session.ID,
		Spot:         spot.SpotName,
		SessionType:  sessionType,
		IsRegistered: isRegistered,
		GateAction:   gateAction,
	}, nil
}

// claimReservedSpot tries to occupy the spot held by a confirmed
// reservation. A stale or lost spot is not an error; the caller falls
// back to the free-spot search.
func (s *SessionService) claimReservedSpot(reservation *db.Reservation) *db.ParkingSpot {
	if reservation.SpotID == nil {
		return nil
	}
	spot, err := s.spotRepo.GetByID(*reservation.SpotID)
	if err != nil {
		log.Printf("WARNING: reservation %d references missing spot %d: %v",
			reservation.ID, *reservation.SpotID, err)
		return nil
	}
	if err := s.spotRepo.Occupy(spot.ID); err != nil {
		if errors.Is(err, apperrors.ErrSpotTaken) {
			log.Printf("WARNING: reserved spot %s lost to a concurrent claim, reassigning", spot.SpotName)
			return nil
		}
		log.Printf("ERROR: failed to occupy reserved spot %d: %v", spot.ID, err)
		return nil
	}
	spot.IsOccupied = true
	spot.IsReserved = false
	return spot
}

// RecordExit closes the open session for a plate, frees the spot and
// settles billing. The gate is fail-open: the spot is released before any
// billing work, and the result always tells the gate to open.
func (s *SessionService) RecordExit(plate, paymentMethod string) (*ExitResult, error) {
	plate = NormalizePlate(plate)
	session, err := s.sessionRepo.GetOpenByPlate(plate)
	if err != nil {
		return nil, err
	}

	if err := s.spotRepo.Release(session.SpotID); err != nil {
		log.Printf("ERROR: failed to release spot %d on exit: %v", session.SpotID, err)
	}

	now := time.Now()
	durationMinutes := int(now.Sub(session.EntryTime).Minutes())
	if durationMinutes < 0 {
		durationMinutes = 0
	}

	amount := 0
	paymentStatus := db.PaymentWaived
	if session.SessionType != db.SessionSubscription {
		rate, err := s.facilityRepo.HourlyRate(session.FacilityID)
		if err != nil || rate <= 0 {
			rate = DefaultHourlyRate
		}
		billedHours := (durationMinutes + 59) / 60
		if billedHours < 1 {
			billedHours = 1
		}
		amount = billedHours * rate
		paymentStatus = db.PaymentPending
	}

	if err := s.sessionRepo.Close(session.ID, now, durationMinutes, amount, paymentStatus); err != nil {
		return nil, err
	}

	if session.ReservationID != nil {
		if err := s.reservationRepo.UpdateStatus(*session.ReservationID, db.ReservationCompleted); err != nil {
			log.Printf("ERROR: failed to complete reservation %d: %v", *session.ReservationID, err)
		}
	}

	var ownerID int
	if session.VehicleID != nil {
		if vehicle, err := s.vehicleRepo.GetByID(*session.VehicleID); err == nil {
			ownerID = vehicle.UserID
		}
	}

	if amount > 0 && ownerID != 0 && paymentMethod == "wallet" {
		if paid := s.settleFromWallet(session.ID, ownerID, amount, plate); paid {
			paymentStatus = db.PaymentPaid
		}
	}

	if ownerID != 0 {
		s.notify.Notify(ownerID, "exit", "Vehicle exited",
			fmt.Sprintf("%s exited after %d minutes. Amount: %d (%s).", plate, durationMinutes, amount, paymentStatus),
			map[string]interface{}{"session_id": session.ID, "amount": amount})
	}

	return &ExitResult{
		SessionID:       session.ID,
		DurationMinutes: durationMinutes,
		Amount:          amount,
		PaymentStatus:   paymentStatus,
		GateAction:      GateOpen,
	}, nil
}

// settleFromWallet attempts the conditional wallet debit. An insufficient
// balance leaves the session pending for downstream settlement.
func (s *SessionService) settleFromWallet(sessionID, userID, amount int, plate string) bool {
	if _, err := s.walletRepo.Debit(userID, amount); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			log.Printf("ERROR: wallet debit for session %d failed: %v", sessionID, err)
		}
		return false
	}

	payment := &db.Payment{
		UserID:        userID,
		SessionID:     &sessionID,
		Amount:        amount,
		PaymentMethod: "wallet",
		PaymentStatus: db.PaymentCompleted,
		Description:   fmt.Sprintf("Parking fee for %s", plate),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		log.Printf("ERROR: failed to record payment for session %d: %v", sessionID, err)
	}
	if err := s.sessionRepo.MarkPaid(sessionID); err != nil {
		log.Printf("ERROR: failed to mark session %d paid: %v", sessionID, err)
	}
	return true
}

// ListSessions returns session history. Regular users only see sessions
// for their own vehicles; admins may request everything.
func (s *SessionService) ListSessions(userID int, isAdmin, all bool, facilityID int, activeOnly bool, limit int) ([]db.ParkingSession, error) {
	filter := repository.SessionFilter{
		FacilityID: facilityID,
		ActiveOnly: activeOnly,
		Limit:      limit,
	}
	if !(isAdmin && all) {
		vehicleIDs, err := s.vehicleRepo.IDsByUser(userID)
		if err != nil {
			return nil, err
		}
		if len(vehicleIDs) == 0 {
			return []db.ParkingSession{}, nil
		}
		filter.VehicleIDs = vehicleIDs
	}
	return s.sessionRepo.List(filter)
}

// ResetFacility wipes all sessions and reservations for a facility and
// frees every spot. Intended for admin maintenance only.
func (s *SessionService) ResetFacility(facilityID int) error {
	if err := s.sessionRepo.DeleteByFacility(facilityID); err != nil {
		return err
	}
	if err := s.reservationRepo.DeleteByFacility(facilityID); err != nil {
		return err
	}
	return s.spotRepo.ReleaseAll(facilityID)
}
