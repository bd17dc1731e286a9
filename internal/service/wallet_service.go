package service

import (
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

type WalletService struct {
	walletRepo  repository.WalletRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	stripe      *StripeService
	notify      *NotifyService
}

func NewWalletService(
	walletRepo repository.WalletRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	stripe *StripeService,
	notify *NotifyService,
) *WalletService {
	return &WalletService{
		walletRepo:  walletRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		stripe:      stripe,
		notify:      notify,
	}
}

// GetWallet returns the user's wallet, creating an empty one on first use.
func (s *WalletService) GetWallet(userID int) (*db.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := s.walletRepo.Create(userID); err != nil {
				return nil, err
			}
			return s.walletRepo.GetByUserID(userID)
		}
		return nil, err
	}
	return wallet, nil
}

// TopUp credits the wallet directly and records the payment.
func (s *WalletService) TopUp(userID, amount int, method string) (int, error) {
	if amount <= 0 {
		return 0, apperrors.Validation("Top-up amount must be positive")
	}
	if method == "" {
		method = "cash"
	}

	newBalance, err := s.walletRepo.Credit(userID, amount)
	if err != nil {
		return 0, err
	}

	payment := &db.Payment{
		UserID:        userID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentStatus: db.PaymentCompleted,
		Description:   "Wallet top-up",
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return newBalance, fmt.Errorf("top-up credited but payment record failed: %w", err)
	}

	s.notify.Notify(userID, "wallet", "Wallet topped up",
		fmt.Sprintf("Your wallet was credited with %d. New balance: %d.", amount, newBalance),
		map[string]interface{}{"amount": amount, "balance": newBalance})
	return newBalance, nil
}

// StartCheckout creates a Stripe Checkout session for a card top-up and
// returns the hosted payment URL.
func (s *WalletService) StartCheckout(userID, amount int) (string, error) {
	if amount <= 0 {
		return "", apperrors.Validation("Top-up amount must be positive")
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}

	wallet, err := s.GetWallet(userID)
	if err != nil {
		return "", err
	}

	url, _, err := s.stripe.CreateTopUpCheckout(userID, int64(amount), wallet.Currency, user.Email)
	if err != nil {
		return "", err
	}
	return url, nil
}

// ConfirmCheckout credits the wallet after a completed Stripe checkout.
// Called from the webhook handler.
func (s *WalletService) ConfirmCheckout(userID, amount int) error {
	_, err := s.TopUp(userID, amount, "card")
	return err
}

// ListPayments returns payment history, user-scoped unless admin.
func (s *WalletService) ListPayments(userID int, all bool) ([]db.Payment, error) {
	return s.paymentRepo.List(userID, all)
}
