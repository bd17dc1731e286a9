package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

type PricingRepository interface {
	GetByID(id int) (*db.PricingPlan, error)
	ReservationRate(facilityID int) (int, error)
}

type pricingRepository struct {
	db *sql.DB
}

func NewPricingRepository(database *sql.DB) PricingRepository {
	return &pricingRepository{db: database}
}

func (r *pricingRepository) GetByID(id int) (*db.PricingPlan, error) {
	var p db.PricingPlan
	err := r.db.QueryRow(
		`SELECT id, facility_id, name, plan_type, rate, is_active FROM pricing_plans WHERE id = $1`,
		id).Scan(&p.ID, &p.FacilityID, &p.Name, &p.PlanType, &p.Rate, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying pricing plan %d: %w", id, err)
	}
	return &p, nil
}

// ReservationRate returns the facility's active reservation plan rate,
// or ErrNotFound when none is configured (caller falls back to the
// default fee).
func (r *pricingRepository) ReservationRate(facilityID int) (int, error) {
	var rate int
	err := r.db.QueryRow(
		`SELECT rate FROM pricing_plans
		 WHERE facility_id = $1 AND plan_type = $2 AND is_active = TRUE
		 LIMIT 1`, facilityID, db.PlanReservation).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("error querying reservation rate: %w", err)
	}
	return rate, nil
}
