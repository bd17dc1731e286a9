package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

type reservationFixture struct {
	svc           *ReservationService
	spots         *fakeSpotRepo
	reservations  *fakeReservationRepo
	notifications *fakeNotificationRepo
	users         *fakeUserRepo
}

func newReservationFixture(spotCount, reservationRate int) *reservationFixture {
	f := &reservationFixture{
		spots:         newFakeSpotRepo(1, spotCount),
		reservations:  newFakeReservationRepo(),
		notifications: &fakeNotificationRepo{},
		users:         newFakeUserRepo(),
	}
	f.users.add(7, "owner@example.com")
	notify := NewNotifyService(f.notifications, f.users)
	f.svc = NewReservationService(f.reservations, f.spots,
		&fakePricingRepo{reservationRate: reservationRate}, notify)
	return f
}

func TestCreateReservationHoldsSpot(t *testing.T) {
	f := newReservationFixture(3, 250)

	start := time.Now().Add(time.Hour)
	end := start.Add(2 * time.Hour)
	reservation, err := f.svc.Create(7, 1, 1, start, end, "regular", "near the lift please")
	require.NoError(t, err)

	assert.Equal(t, db.ReservationConfirmed, reservation.Status)
	assert.Equal(t, 250, reservation.Amount)
	assert.NotEmpty(t, reservation.QRCode)
	assert.Equal(t, db.PaymentPending, reservation.PaymentStatus)

	spot, _ := f.spots.GetByID(*reservation.SpotID)
	assert.True(t, spot.IsReserved)
	assert.False(t, spot.IsOccupied)
	assert.GreaterOrEqual(t, f.notifications.count(7), 1)

	stored, err := f.reservations.GetByID(reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, "near the lift please", stored.Notes)
}

func TestCreateReservationDefaultFee(t *testing.T) {
	f := newReservationFixture(3, 0)

	reservation, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "regular", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultReservationFee, reservation.Amount)
}

func TestCreateReservationNoSpotOfType(t *testing.T) {
	f := newReservationFixture(1, 250)

	_, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "ev", "")
	assert.ErrorIs(t, err, apperrors.ErrNoSpotOfType)
}

func TestCancelReleasesSpot(t *testing.T) {
	f := newReservationFixture(3, 250)

	reservation, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "regular", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(reservation.ID, 7, false))

	updated, _ := f.reservations.GetByID(reservation.ID)
	assert.Equal(t, db.ReservationCancelled, updated.Status)
	spot, _ := f.spots.GetByID(*reservation.SpotID)
	assert.False(t, spot.IsReserved)
}

func TestCancelMissingReservationIsNoop(t *testing.T) {
	f := newReservationFixture(3, 250)
	assert.NoError(t, f.svc.Cancel(999, 7, false))
}

func TestCancelCheckedInConflicts(t *testing.T) {
	f := newReservationFixture(3, 250)

	reservation, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "regular", "")
	require.NoError(t, err)
	require.NoError(t, f.reservations.UpdateStatus(reservation.ID, db.ReservationCheckedIn))

	err = f.svc.Cancel(reservation.ID, 7, false)
	httpErr, ok := apperrors.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestCancelForeignReservationForbidden(t *testing.T) {
	f := newReservationFixture(3, 250)

	reservation, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "regular", "")
	require.NoError(t, err)

	err = f.svc.Cancel(reservation.ID, 8, false)
	httpErr, ok := apperrors.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
}

func TestUpdateReservationWhitelistedFields(t *testing.T) {
	f := newReservationFixture(3, 250)

	reservation, err := f.svc.Create(7, 1, 1, time.Now(), time.Now().Add(time.Hour), "regular", "old note")
	require.NoError(t, err)

	newEnd := time.Now().Add(3 * time.Hour)
	notes := "new note"
	updated, err := f.svc.Update(reservation.ID, 7, false, nil, &newEnd, &notes)
	require.NoError(t, err)

	assert.Equal(t, "new note", updated.Notes)
	assert.WithinDuration(t, newEnd, updated.ReservedEnd, time.Second)
	// The spot hold is untouched.
	spot, _ := f.spots.GetByID(*reservation.SpotID)
	assert.True(t, spot.IsReserved)
}

func TestExpireOverdueCancelsAndFrees(t *testing.T) {
	f := newReservationFixture(3, 250)

	past := time.Now().Add(-2 * time.Hour)
	reservation, err := f.svc.Create(7, 1, 1, past.Add(-time.Hour), past, "regular", "")
	require.NoError(t, err)

	count, err := f.svc.ExpireOverdue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, _ := f.reservations.GetByID(reservation.ID)
	assert.Equal(t, db.ReservationCancelled, updated.Status)
	spot, _ := f.spots.GetByID(*reservation.SpotID)
	assert.False(t, spot.IsReserved)
}
