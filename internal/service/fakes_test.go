package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

// In-memory repositories for service tests. The spot and wallet fakes
// reproduce the store's conditional-write semantics under a mutex so the
// concurrency tests exercise the same guarantees the SQL layer gives.

type fakeSpotRepo struct {
	mu    sync.Mutex
	spots map[int]*db.ParkingSpot
}

func newFakeSpotRepo(facilityID, count int) *fakeSpotRepo {
	r := &fakeSpotRepo{spots: map[int]*db.ParkingSpot{}}
	for i := 1; i <= count; i++ {
		r.spots[i] = &db.ParkingSpot{
			ID: i, FacilityID: facilityID, SpotName: fmt.Sprintf("A-%02d", i),
			SpotType: "regular", IsActive: true,
		}
	}
	return r
}

func (r *fakeSpotRepo) sortedIDs() []int {
	ids := make([]int, 0, len(r.spots))
	for id := range r.spots {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *fakeSpotRepo) ClaimFirstAvailable(facilityID int) (*db.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.sortedIDs() {
		s := r.spots[id]
		if s.FacilityID == facilityID && s.IsActive && !s.IsOccupied && !s.IsReserved {
			s.IsOccupied = true
			copy := *s
			return &copy, nil
		}
	}
	return nil, apperrors.ErrFacilityFull
}

func (r *fakeSpotRepo) ReserveFirstAvailable(facilityID int, spotType string) (*db.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.sortedIDs() {
		s := r.spots[id]
		if s.FacilityID == facilityID && s.SpotType == spotType && s.IsActive && !s.IsOccupied && !s.IsReserved {
			s.IsReserved = true
			copy := *s
			return &copy, nil
		}
	}
	return nil, apperrors.ErrNoSpotOfType
}

func (r *fakeSpotRepo) Occupy(spotID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spots[spotID]
	if !ok || s.IsOccupied {
		return apperrors.ErrSpotTaken
	}
	s.IsOccupied = true
	s.IsReserved = false
	return nil
}

func (r *fakeSpotRepo) Release(spotID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.spots[spotID]; ok {
		s.IsOccupied = false
		s.IsReserved = false
	}
	return nil
}

func (r *fakeSpotRepo) ClearReservation(spotID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.spots[spotID]; ok {
		s.IsReserved = false
	}
	return nil
}

func (r *fakeSpotRepo) GetByID(spotID int) (*db.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spots[spotID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *fakeSpotRepo) ListByFacility(facilityID int) ([]db.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.ParkingSpot{}
	for _, id := range r.sortedIDs() {
		if r.spots[id].FacilityID == facilityID {
			out = append(out, *r.spots[id])
		}
	}
	return out, nil
}

func (r *fakeSpotRepo) InitSpots(facilityID, count int, prefix string, floorID *int, spotType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i <= count; i++ {
		id := len(r.spots) + 1
		r.spots[id] = &db.ParkingSpot{
			ID: id, FacilityID: facilityID, FloorID: floorID,
			SpotName: fmt.Sprintf("%s-%02d", prefix, i),
			SpotType: spotType, IsActive: true,
		}
	}
	return nil
}

func (r *fakeSpotRepo) Update(spotID int, spotType *string, isActive *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spots[spotID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if spotType != nil {
		s.SpotType = *spotType
	}
	if isActive != nil {
		s.IsActive = *isActive
	}
	return nil
}

func (r *fakeSpotRepo) ReleaseAll(facilityID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.spots {
		if s.FacilityID == facilityID {
			s.IsOccupied = false
			s.IsReserved = false
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*db.ParkingSession
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1}
}

func (r *fakeSessionRepo) Create(s *db.ParkingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.PlateNumber == s.PlateNumber && existing.ExitTime == nil {
			return apperrors.ErrDuplicateEntry
		}
	}
	s.ID = r.nextID
	r.nextID++
	copy := *s
	r.sessions = append(r.sessions, &copy)
	return nil
}

func (r *fakeSessionRepo) GetOpenByPlate(plate string) (*db.ParkingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *db.ParkingSession
	for _, s := range r.sessions {
		if s.PlateNumber == plate && s.ExitTime == nil {
			if found == nil || s.EntryTime.After(found.EntryTime) {
				found = s
			}
		}
	}
	if found == nil {
		return nil, apperrors.ErrNoActiveSession
	}
	copy := *found
	return &copy, nil
}

func (r *fakeSessionRepo) Close(sessionID int, exitTime time.Time, durationMinutes, amount int, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == sessionID {
			s.ExitTime = &exitTime
			s.DurationMinutes = &durationMinutes
			s.Amount = &amount
			s.PaymentStatus = paymentStatus
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeSessionRepo) MarkPaid(sessionID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == sessionID {
			s.PaymentStatus = db.PaymentPaid
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeSessionRepo) List(f repository.SessionFilter) ([]db.ParkingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.ParkingSession{}
	for _, s := range r.sessions {
		if f.FacilityID != 0 && s.FacilityID != f.FacilityID {
			continue
		}
		if f.ActiveOnly && s.ExitTime != nil {
			continue
		}
		if len(f.VehicleIDs) > 0 {
			match := false
			for _, id := range f.VehicleIDs {
				if s.VehicleID != nil && *s.VehicleID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSessionRepo) DeleteByFacility(facilityID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.FacilityID != facilityID {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

func (r *fakeSessionRepo) StatsSince(facilityID int, since time.Time) (int, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, revenue, active := 0, 0, 0
	for _, s := range r.sessions {
		if s.FacilityID != facilityID {
			continue
		}
		if !s.EntryTime.Before(since) {
			entries++
			if s.Amount != nil {
				revenue += *s.Amount
			}
		}
		if s.ExitTime == nil {
			active++
		}
	}
	return entries, revenue, active, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[int]*db.Reservation
	nextID       int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[int]*db.Reservation{}, nextID: 1}
}

func (r *fakeReservationRepo) Create(res *db.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = r.nextID
	r.nextID++
	copy := *res
	r.reservations[res.ID] = &copy
	return nil
}

func (r *fakeReservationRepo) GetByID(id int) (*db.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copy := *res
	return &copy, nil
}

func (r *fakeReservationRepo) FindConfirmed(vehicleID, facilityID int) (*db.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.VehicleID == vehicleID && res.FacilityID == facilityID && res.Status == db.ReservationConfirmed {
			copy := *res
			return &copy, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeReservationRepo) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	res.Status = status
	return nil
}

func (r *fakeReservationRepo) UpdateFields(id int, start, end *time.Time, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if start != nil {
		res.ReservedStart = *start
	}
	if end != nil {
		res.ReservedEnd = *end
	}
	if notes != nil {
		res.Notes = *notes
	}
	return nil
}

func (r *fakeReservationRepo) List(userID int, status string, all bool) ([]db.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Reservation{}
	for _, res := range r.reservations {
		if !all && res.UserID != userID {
			continue
		}
		if status != "" && res.Status != status {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *fakeReservationRepo) OverdueConfirmed(now time.Time) ([]db.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Reservation{}
	for _, res := range r.reservations {
		if res.Status == db.ReservationConfirmed && res.ReservedEnd.Before(now) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) CancelBatch(ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if res, ok := r.reservations[id]; ok {
			res.Status = db.ReservationCancelled
		}
	}
	return nil
}

func (r *fakeReservationRepo) DeleteByFacility(facilityID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, res := range r.reservations {
		if res.FacilityID == facilityID {
			delete(r.reservations, id)
		}
	}
	return nil
}

func (r *fakeReservationRepo) CountSince(facilityID int, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, res := range r.reservations {
		if res.FacilityID == facilityID && !res.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeWalletRepo struct {
	mu       sync.Mutex
	balances map[int]int
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{balances: map[int]int{}}
}

func (r *fakeWalletRepo) GetByUserID(userID int) (*db.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &db.Wallet{UserID: userID, Balance: balance, Currency: "LKR"}, nil
}

func (r *fakeWalletRepo) Create(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[userID]; !ok {
		r.balances[userID] = 0
	}
	return nil
}

func (r *fakeWalletRepo) Credit(userID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] += amount
	return r.balances[userID], nil
}

func (r *fakeWalletRepo) Debit(userID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok || balance < amount {
		return 0, apperrors.ErrInsufficientBalance
	}
	r.balances[userID] = balance - amount
	return r.balances[userID], nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []db.Payment
}

func (r *fakePaymentRepo) Create(p *db.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = len(r.payments) + 1
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakePaymentRepo) List(userID int, all bool) ([]db.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Payment{}
	for _, p := range r.payments {
		if all || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[int]*db.Vehicle
	nextID   int
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[int]*db.Vehicle{}, nextID: 1}
}

func (r *fakeVehicleRepo) add(userID int, plate string) *db.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := &db.Vehicle{ID: r.nextID, UserID: userID, PlateNumber: plate, VehicleType: "car", IsActive: true}
	r.vehicles[v.ID] = v
	r.nextID++
	return v
}

func (r *fakeVehicleRepo) Create(v *db.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vehicles {
		if existing.PlateNumber == v.PlateNumber && existing.IsActive {
			return apperrors.Conflict("Plate is already registered")
		}
	}
	v.ID = r.nextID
	r.nextID++
	copy := *v
	r.vehicles[v.ID] = &copy
	return nil
}

func (r *fakeVehicleRepo) GetByPlate(plate string) (*db.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.PlateNumber == plate && v.IsActive {
			copy := *v
			return &copy, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeVehicleRepo) GetByID(id int) (*db.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (r *fakeVehicleRepo) List(userID int, all bool) ([]db.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Vehicle{}
	for _, v := range r.vehicles {
		if all || v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) IDsByUser(userID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []int{}
	for _, v := range r.vehicles {
		if v.UserID == userID {
			out = append(out, v.ID)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) Update(id int, fields repository.VehicleUpdate) error {
	return nil
}

func (r *fakeVehicleRepo) Deactivate(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vehicles[id]; ok {
		v.IsActive = false
	}
	return nil
}

type fakeFacilityRepo struct {
	rate int
}

func (r *fakeFacilityRepo) Create(f *db.Facility) error        { return nil }
func (r *fakeFacilityRepo) ListActive() ([]db.Facility, error) { return nil, nil }
func (r *fakeFacilityRepo) Update(id int, fields map[string]interface{}) error {
	return nil
}
func (r *fakeFacilityRepo) Delete(id int) error { return nil }

func (r *fakeFacilityRepo) GetByID(id int) (*db.Facility, error) {
	return &db.Facility{ID: id, Name: "Test Facility", HourlyRate: r.rate, IsActive: true}, nil
}

func (r *fakeFacilityRepo) HourlyRate(id int) (int, error) {
	return r.rate, nil
}

func (r *fakeFacilityRepo) Occupancy(id int) (*repository.OccupancySummary, error) {
	return &repository.OccupancySummary{}, nil
}

func (r *fakeFacilityRepo) ListFloors(facilityID int) ([]db.Floor, error) { return nil, nil }

type fakeSubscriptionRepo struct {
	mu            sync.Mutex
	subscriptions map[int]*db.Subscription
	nextID        int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subscriptions: map[int]*db.Subscription{}, nextID: 1}
}

func (r *fakeSubscriptionRepo) Create(s *db.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	copy := *s
	r.subscriptions[s.ID] = &copy
	return nil
}

func (r *fakeSubscriptionRepo) FindActive(vehicleID, facilityID int, on time.Time) (*db.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscriptions {
		if s.VehicleID == vehicleID && s.FacilityID == facilityID &&
			s.Status == db.SubscriptionActive && !s.EndDate.Before(on) {
			copy := *s
			return &copy, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeSubscriptionRepo) List(userID int, all bool) ([]db.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Subscription{}
	for _, s := range r.subscriptions {
		if all || s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subscriptions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSubscriptionRepo) SetAutoRenew(id int, autoRenew bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subscriptions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.AutoRenew = autoRenew
	return nil
}

func (r *fakeSubscriptionRepo) ActivePastEnd(on time.Time) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []int{}
	for _, s := range r.subscriptions {
		if s.Status == db.SubscriptionActive && s.EndDate.Before(on) {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (r *fakeSubscriptionRepo) ExpireBatch(ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if s, ok := r.subscriptions[id]; ok {
			s.Status = db.SubscriptionExpired
		}
	}
	return nil
}

type fakePricingRepo struct {
	plans           map[int]*db.PricingPlan
	reservationRate int
}

func (r *fakePricingRepo) GetByID(id int) (*db.PricingPlan, error) {
	if plan, ok := r.plans[id]; ok {
		return plan, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePricingRepo) ReservationRate(facilityID int) (int, error) {
	if r.reservationRate == 0 {
		return 0, apperrors.ErrNotFound
	}
	return r.reservationRate, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int]*db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*db.User{}}
}

func (r *fakeUserRepo) add(id int, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = &db.User{ID: id, Email: email, FullName: "Test User", Role: db.RoleUser, IsActive: true}
}

func (r *fakeUserRepo) Create(u *db.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = len(r.users) + 1
	copy := *u
	r.users[u.ID] = &copy
	return nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetByID(id int) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) List(role string) ([]db.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdateProfile(id int, fullName, phone *string) error { return nil }

func (r *fakeUserRepo) UpdateAdminFields(id int, role *string, isActive *bool) error { return nil }

type fakeDetectionRepo struct {
	mu         sync.Mutex
	detections []db.DetectionLog
}

func (r *fakeDetectionRepo) Create(d *db.DetectionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = len(r.detections) + 1
	r.detections = append(r.detections, *d)
	return nil
}

func (r *fakeDetectionRepo) List(facilityID, limit int) ([]db.DetectionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.DetectionLog{}
	for _, d := range r.detections {
		if facilityID == 0 || (d.FacilityID != nil && *d.FacilityID == facilityID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDetectionRepo) UpdateAction(id int, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.detections {
		if r.detections[i].ID == id {
			r.detections[i].ActionTaken = action
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []db.Notification
}

func (r *fakeNotificationRepo) Create(n *db.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = len(r.notifications) + 1
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(userID, limit int) ([]db.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []db.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id int) error { return nil }

func (r *fakeNotificationRepo) MarkAllRead(userID int) error { return nil }

func (r *fakeNotificationRepo) count(userID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count
}
