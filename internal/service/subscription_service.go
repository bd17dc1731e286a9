package service

import (
	"errors"
	"fmt"
	"time"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	pricingRepo      repository.PricingRepository
	walletRepo       repository.WalletRepository
	paymentRepo      repository.PaymentRepository
	notify           *NotifyService
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	pricingRepo repository.PricingRepository,
	walletRepo repository.WalletRepository,
	paymentRepo repository.PaymentRepository,
	notify *NotifyService,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		pricingRepo:      pricingRepo,
		walletRepo:       walletRepo,
		paymentRepo:      paymentRepo,
		notify:           notify,
	}
}

// Purchase buys a monthly plan for a vehicle, paid from the wallet. A
// vehicle can hold only one active subscription per facility.
func (s *SubscriptionService) Purchase(userID, vehicleID, facilityID, planID int) (*db.Subscription, error) {
	plan, err := s.pricingRepo.GetByID(planID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Pricing plan not found")
		}
		return nil, err
	}
	if plan.PlanType != db.PlanMonthly || !plan.IsActive {
		return nil, apperrors.Validation("Plan is not an active monthly plan")
	}
	if plan.FacilityID != facilityID {
		return nil, apperrors.Validation("Plan does not belong to this facility")
	}

	if existing, err := s.subscriptionRepo.FindActive(vehicleID, facilityID, time.Now()); err == nil && existing != nil {
		return nil, apperrors.Conflict("Vehicle already has an active subscription for this facility")
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := s.walletRepo.Debit(userID, plan.Rate); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return nil, apperrors.Validation("Insufficient wallet balance")
		}
		return nil, err
	}

	now := time.Now()
	subscription := &db.Subscription{
		UserID:     userID,
		VehicleID:  vehicleID,
		FacilityID: facilityID,
		PlanID:     planID,
		StartDate:  now,
		EndDate:    now.AddDate(0, 0, 30),
		Status:     db.SubscriptionActive,
		AutoRenew:  false,
	}
	if err := s.subscriptionRepo.Create(subscription); err != nil {
		// Refund the debit, the subscription row was never created.
		if _, creditErr := s.walletRepo.Credit(userID, plan.Rate); creditErr != nil {
			return nil, fmt.Errorf("subscription insert failed (%v) and refund failed: %w", err, creditErr)
		}
		return nil, err
	}

	payment := &db.Payment{
		UserID:         userID,
		SubscriptionID: &subscription.ID,
		Amount:         plan.Rate,
		PaymentMethod:  "wallet",
		PaymentStatus:  db.PaymentCompleted,
		Description:    fmt.Sprintf("Monthly subscription: %s", plan.Name),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return subscription, fmt.Errorf("subscription created but payment record failed: %w", err)
	}

	s.notify.NotifyWithEmail(userID, "subscription", "Subscription active",
		fmt.Sprintf("Your %s subscription is active until %s.",
			plan.Name, subscription.EndDate.Format("2006-01-02")),
		map[string]interface{}{"subscription_id": subscription.ID})

	return subscription, nil
}

// List returns the caller's subscriptions, or all of them for admins.
func (s *SubscriptionService) List(userID int, all bool) ([]db.Subscription, error) {
	return s.subscriptionRepo.List(userID, all)
}

// Cancel marks a subscription cancelled. Billing is prepaid, so there is
// no refund; the subscription simply stops waiving sessions.
func (s *SubscriptionService) Cancel(subscriptionID int) error {
	return s.subscriptionRepo.UpdateStatus(subscriptionID, db.SubscriptionCancelled)
}

// SetAutoRenew toggles the auto-renew flag.
func (s *SubscriptionService) SetAutoRenew(subscriptionID int, autoRenew bool) error {
	return s.subscriptionRepo.SetAutoRenew(subscriptionID, autoRenew)
}

// ExpireLapsed marks active subscriptions past their end date as expired.
// Run from the scheduler.
func (s *SubscriptionService) ExpireLapsed(now time.Time) (int, error) {
	ids, err := s.subscriptionRepo.ActivePastEnd(now)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.subscriptionRepo.ExpireBatch(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
