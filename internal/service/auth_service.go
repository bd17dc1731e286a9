package service

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
	"sentrapark/internal/repository"
)

type AuthService struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
}

func NewAuthService(userRepo repository.UserRepository, walletRepo repository.WalletRepository) *AuthService {
	return &AuthService{userRepo: userRepo, walletRepo: walletRepo}
}

// Signup registers a user and opens an empty wallet for them.
func (s *AuthService) Signup(email, password, fullName, phone string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || fullName == "" {
		return nil, "", apperrors.Validation("Email, password and full name are required")
	}
	if len(password) < 8 {
		return nil, "", apperrors.Validation("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &db.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
		Role:         db.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, "", apperrors.Conflict("Email is already registered")
		}
		return nil, "", err
	}

	if err := s.walletRepo.Create(user.ID); err != nil {
		log.Printf("ERROR: failed to create wallet for user %d: %v", user.ID, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns a signed JWT.
func (s *AuthService) Login(email, password string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("Invalid credentials")
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", apperrors.Forbidden("Account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile returns the user record for an authenticated id.
func (s *AuthService) GetProfile(userID int) (*db.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the user's own mutable fields.
func (s *AuthService) UpdateProfile(userID int, fullName, phone *string) (*db.User, error) {
	if err := s.userRepo.UpdateProfile(userID, fullName, phone); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// ListUsers returns users for the admin directory, optionally filtered
// by role.
func (s *AuthService) ListUsers(role string) ([]db.User, error) {
	return s.userRepo.List(role)
}

// AdminUpdateUser changes role or active state. Admins cannot demote or
// disable themselves.
func (s *AuthService) AdminUpdateUser(targetID, adminID int, role *string, isActive *bool) (*db.User, error) {
	if targetID == adminID {
		return nil, apperrors.Conflict("You cannot modify your own account here")
	}
	if role != nil {
		switch *role {
		case db.RoleUser, db.RoleOperator, db.RoleAdmin:
		default:
			return nil, apperrors.Validation("Unknown role")
		}
	}
	if err := s.userRepo.UpdateAdminFields(targetID, role, isActive); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(targetID)
}

func (s *AuthService) generateToken(user *db.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
