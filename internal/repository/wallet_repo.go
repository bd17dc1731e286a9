package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

// WalletRepository holds per-user balances. Debit and Credit are single
// atomic statements; the balance >= amount condition on Debit is what
// keeps the balance from ever going negative under concurrent load.
type WalletRepository interface {
	GetByUserID(userID int) (*db.Wallet, error)
	Create(userID int) error
	Credit(userID, amount int) (newBalance int, err error)
	Debit(userID, amount int) (newBalance int, err error)
}

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(database *sql.DB) WalletRepository {
	return &walletRepository{db: database}
}

func (r *walletRepository) GetByUserID(userID int) (*db.Wallet, error) {
	var w db.Wallet
	err := r.db.QueryRow(
		`SELECT id, user_id, balance, currency, updated_at FROM user_wallets WHERE user_id = $1`,
		userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying wallet for user %d: %w", userID, err)
	}
	return &w, nil
}

func (r *walletRepository) Create(userID int) error {
	_, err := r.db.Exec(
		`INSERT INTO user_wallets (user_id, balance) VALUES ($1, 0)`, userID)
	if err != nil {
		return fmt.Errorf("error creating wallet for user %d: %w", userID, err)
	}
	return nil
}

func (r *walletRepository) Credit(userID, amount int) (int, error) {
	var balance int
	err := r.db.QueryRow(
		`UPDATE user_wallets SET balance = balance + $2, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING balance`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("error crediting wallet for user %d: %w", userID, err)
	}
	return balance, nil
}

// Debit is a conditional decrement: it only fires when the balance
// covers the amount, so a losing concurrent debit leaves the balance
// untouched and returns ErrInsufficientBalance.
func (r *walletRepository) Debit(userID, amount int) (int, error) {
	var balance int
	err := r.db.QueryRow(
		`UPDATE user_wallets SET balance = balance - $2, updated_at = NOW()
		 WHERE user_id = $1 AND balance >= $2
		 RETURNING balance`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("error debiting wallet for user %d: %w", userID, err)
	}
	return balance, nil
}
