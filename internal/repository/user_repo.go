package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"sentrapark/internal/db"
	apperrors "sentrapark/internal/errors"
)

type UserRepository interface {
	Create(u *db.User) error
	GetByEmail(email string) (*db.User, error)
	GetByID(id int) (*db.User, error)
	List(role string) ([]db.User, error)
	UpdateProfile(id int, fullName, phone *string) error
	UpdateAdminFields(id int, role *string, isActive *bool) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

const userColumns = `id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at`

func scanUser(u *db.User, scan func(...interface{}) error) error {
	return scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepository) Create(u *db.User) error {
	err := r.db.QueryRow(
		`INSERT INTO users (email, password_hash, full_name, phone, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := scanUser(&u, r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	err := scanUser(&u, r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepository) List(role string) ([]db.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []db.User{}
	for rows.Next() {
		var u db.User
		if err := scanUser(&u, rows.Scan); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateProfile(id int, fullName, phone *string) error {
	_, err := r.db.Exec(
		`UPDATE users
		 SET full_name = COALESCE($2, full_name), phone = COALESCE($3, phone), updated_at = NOW()
		 WHERE id = $1`, id, fullName, phone)
	if err != nil {
		return fmt.Errorf("error updating user %d: %w", id, err)
	}
	return nil
}

func (r *userRepository) UpdateAdminFields(id int, role *string, isActive *bool) error {
	_, err := r.db.Exec(
		`UPDATE users
		 SET role = COALESCE($2, role), is_active = COALESCE($3, is_active), updated_at = NOW()
		 WHERE id = $1`, id, role, isActive)
	if err != nil {
		return fmt.Errorf("error updating user %d: %w", id, err)
	}
	return nil
}
