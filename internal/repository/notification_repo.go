package repository

import (
	"database/sql"
	"fmt"

	"sentrapark/internal/db"
)

type NotificationRepository interface {
	Create(n *db.Notification) error
	ListByUser(userID, limit int) ([]db.Notification, error)
	MarkRead(id int) error
	MarkAllRead(userID int) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(database *sql.DB) NotificationRepository {
	return &notificationRepository{db: database}
}

func (r *notificationRepository) Create(n *db.Notification) error {
	var data interface{}
	if len(n.Data) > 0 {
		data = string(n.Data)
	}
	err := r.db.QueryRow(
		`INSERT INTO notifications (user_id, title, message, type, data)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		n.UserID, n.Title, n.Message, n.Type, data,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(userID, limit int) ([]db.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, user_id, title, message, type, COALESCE(data, 'null'), is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []db.Notification{}
	for rows.Next() {
		var n db.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type,
			&n.Data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(id int) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking notification %d read: %w", id, err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}
	return nil
}
