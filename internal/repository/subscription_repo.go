package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

type SubscriptionRepository interface {
	Create(s *db.Subscription) error
	FindActive(vehicleID, facilityID int, on time.Time) (*db.Subscription, error)
	List(userID int, all bool) ([]db.Subscription, error)
	UpdateStatus(id int, status string) error
	SetAutoRenew(id int, autoRenew bool) error
	ActivePastEnd(on time.Time) ([]int, error)
	ExpireBatch(ids []int) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(database *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: database}
}

const subscriptionColumns = `id, user_id, vehicle_id, facility_id, plan_id, start_date, end_date, status, auto_renew, created_at`

func (r *subscriptionRepository) Create(s *db.Subscription) error {
	err := r.db.QueryRow(
		`INSERT INTO subscriptions (user_id, vehicle_id, facility_id, plan_id, start_date, end_date, status, auto_renew)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		s.UserID, s.VehicleID, s.FacilityID, s.PlanID, s.StartDate, s.EndDate,
		s.Status, s.AutoRenew,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

// FindActive returns the active, unexpired subscription for a vehicle at
// a facility. The end_date condition makes the answer correct even
// before the expiry job has swept an overdue row.
func (r *subscriptionRepository) FindActive(vehicleID, facilityID int, on time.Time) (*db.Subscription, error) {
	var s db.Subscription
	err := r.db.QueryRow(
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE vehicle_id = $1 AND facility_id = $2 AND status = $3 AND end_date >= $4
		 LIMIT 1`, vehicleID, facilityID, db.SubscriptionActive, on).Scan(
		&s.ID, &s.UserID, &s.VehicleID, &s.FacilityID, &s.PlanID,
		&s.StartDate, &s.EndDate, &s.Status, &s.AutoRenew, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying active subscription: %w", err)
	}
	return &s, nil
}

func (r *subscriptionRepository) List(userID int, all bool) ([]db.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	args := []interface{}{}
	if !all {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []db.Subscription{}
	for rows.Next() {
		var s db.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.VehicleID, &s.FacilityID, &s.PlanID,
			&s.StartDate, &s.EndDate, &s.Status, &s.AutoRenew, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *subscriptionRepository) UpdateStatus(id int, status string) error {
	_, err := r.db.Exec(`UPDATE subscriptions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating subscription %d: %w", id, err)
	}
	return nil
}

func (r *subscriptionRepository) SetAutoRenew(id int, autoRenew bool) error {
	_, err := r.db.Exec(`UPDATE subscriptions SET auto_renew = $2 WHERE id = $1`, id, autoRenew)
	if err != nil {
		return fmt.Errorf("error updating subscription %d auto_renew: %w", id, err)
	}
	return nil
}

func (r *subscriptionRepository) ActivePastEnd(on time.Time) ([]int, error) {
	rows, err := r.db.Query(
		`SELECT id FROM subscriptions WHERE status = $1 AND end_date < $2`,
		db.SubscriptionActive, on)
	if err != nil {
		return nil, fmt.Errorf("error querying expired subscriptions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *subscriptionRepository) ExpireBatch(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(
		`UPDATE subscriptions SET status = $1 WHERE id = ANY($2)`,
		db.SubscriptionExpired, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error expiring subscriptions: %w", err)
	}
	return nil
}
