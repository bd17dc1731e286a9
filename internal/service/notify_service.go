package service

import (
	"encoding/json"
	"log"

	"sentrapark/internal/db"
	"sentrapark/internal/repository"
)

// NotifyService persists in-app notifications and fans out email/SMS
// copies in the background. Delivery failures are logged, never surfaced:
// a notification must not break the operation that triggered it.
type NotifyService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotifyService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *NotifyService {
	return &NotifyService{notificationRepo: notificationRepo, userRepo: userRepo}
}

// Notify stores an in-app notification for the user.
func (s *NotifyService) Notify(userID int, notifType, title, message string, data map[string]interface{}) {
	notification := &db.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("ERROR: failed to encode notification data for user %d: %v", userID, err)
		} else {
			notification.Data = raw
		}
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("ERROR: failed to store notification for user %d: %v", userID, err)
	}
}

// NotifyWithEmail stores the in-app notification and sends an email copy
// in the background.
func (s *NotifyService) NotifyWithEmail(userID int, notifType, title, message string, data map[string]interface{}) {
	s.Notify(userID, notifType, title, message, data)

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("ERROR: cannot resolve user %d for email notification: %v", userID, err)
		return
	}

	go func() {
		if err := SendEmailWithSendGrid(user.Email, user.FullName, title, message); err != nil {
			log.Printf("ERROR: failed to send email to %s: %v", user.Email, err)
		}
	}()
}

// NotifyWithSMS stores the in-app notification and sends an SMS copy in
// the background. Users without a phone number get the in-app copy only.
func (s *NotifyService) NotifyWithSMS(userID int, notifType, title, message string, data map[string]interface{}) {
	s.Notify(userID, notifType, title, message, data)

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("ERROR: cannot resolve user %d for SMS notification: %v", userID, err)
		return
	}
	if user.Phone == "" {
		return
	}

	go func() {
		if err := SendSMS(user.Phone, message); err != nil {
			log.Printf("ERROR: failed to send SMS to %s: %v", user.Phone, err)
		}
	}()
}

// ListForUser returns the user's notifications, newest first.
func (s *NotifyService) ListForUser(userID int, limit int) ([]db.Notification, error) {
	return s.notificationRepo.ListByUser(userID, limit)
}

// MarkRead flags a single notification as read.
func (s *NotifyService) MarkRead(notificationID int) error {
	return s.notificationRepo.MarkRead(notificationID)
}

// MarkAllRead flags all of the user's notifications as read.
func (s *NotifyService) MarkAllRead(userID int) error {
	return s.notificationRepo.MarkAllRead(userID)
}
