package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

func newSubscriptionFixture(planRate, balance int) (*SubscriptionService, *fakeSubscriptionRepo, *fakeWalletRepo) {
	subscriptions := newFakeSubscriptionRepo()
	wallets := newFakeWalletRepo()
	wallets.Create(7)
	if balance > 0 {
		wallets.Credit(7, balance)
	}
	users := newFakeUserRepo()
	users.add(7, "owner@example.com")
	pricing := &fakePricingRepo{plans: map[int]*db.PricingPlan{
		1: {ID: 1, FacilityID: 1, Name: "Monthly", PlanType: db.PlanMonthly, Rate: planRate, IsActive: true},
		2: {ID: 2, FacilityID: 1, Name: "Reservation", PlanType: db.PlanReservation, Rate: 200, IsActive: true},
	}}
	notify := NewNotifyService(&fakeNotificationRepo{}, users)
	svc := NewSubscriptionService(subscriptions, pricing, wallets, &fakePaymentRepo{}, notify)
	return svc, subscriptions, wallets
}

func TestPurchaseSubscriptionDebitsWallet(t *testing.T) {
	svc, _, wallets := newSubscriptionFixture(5000, 6000)

	subscription, err := svc.Purchase(7, 1, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, db.SubscriptionActive, subscription.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), subscription.EndDate, time.Minute)

	wallet, _ := wallets.GetByUserID(7)
	assert.Equal(t, 1000, wallet.Balance)
}

func TestPurchaseSubscriptionInsufficientBalance(t *testing.T) {
	svc, _, wallets := newSubscriptionFixture(5000, 100)

	_, err := svc.Purchase(7, 1, 1, 1)
	httpErr, ok := apperrors.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)

	wallet, _ := wallets.GetByUserID(7)
	assert.Equal(t, 100, wallet.Balance)
}

func TestPurchaseRejectsReservationPlan(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(5000, 6000)

	_, err := svc.Purchase(7, 1, 1, 2)
	httpErr, ok := apperrors.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}

func TestPurchaseRejectsSecondActiveSubscription(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(5000, 20000)

	_, err := svc.Purchase(7, 1, 1, 1)
	require.NoError(t, err)

	_, err = svc.Purchase(7, 1, 1, 1)
	httpErr, ok := apperrors.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestExpireLapsedSubscriptions(t *testing.T) {
	svc, subscriptions, _ := newSubscriptionFixture(5000, 6000)

	subscriptions.Create(&db.Subscription{
		UserID: 7, VehicleID: 1, FacilityID: 1, PlanID: 1,
		StartDate: time.Now().AddDate(0, 0, -40), EndDate: time.Now().AddDate(0, 0, -10),
		Status: db.SubscriptionActive,
	})

	count, err := svc.ExpireLapsed(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	subs, _ := subscriptions.List(7, false)
	require.Len(t, subs, 1)
	assert.Equal(t, db.SubscriptionExpired, subs[0].Status)
}
