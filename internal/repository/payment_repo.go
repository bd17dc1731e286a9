package repository

import (
	"database/sql"
	"fmt"

	"sentrapark/internal/db"
)

type PaymentRepository interface {
	Create(p *db.Payment) error
	List(userID int, all bool) ([]db.Payment, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(database *sql.DB) PaymentRepository {
	return &paymentRepository{db: database}
}

func (r *paymentRepository) Create(p *db.Payment) error {
	err := r.db.QueryRow(
		`INSERT INTO payments (user_id, session_id, subscription_id, amount, payment_method, payment_status, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		p.UserID, p.SessionID, p.SubscriptionID, p.Amount, p.PaymentMethod,
		p.PaymentStatus, p.Description,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) List(userID int, all bool) ([]db.Payment, error) {
	query := `SELECT id, user_id, session_id, subscription_id, amount, payment_method, payment_status, description, created_at
		FROM payments`
	args := []interface{}{}
	if !all {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	payments := []db.Payment{}
	for rows.Next() {
		var p db.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.SessionID, &p.SubscriptionID,
			&p.Amount, &p.PaymentMethod, &p.PaymentStatus, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
