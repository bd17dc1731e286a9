package service

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// JobService owns the periodic maintenance work: expiring overdue
// reservations and lapsed subscriptions.
type JobService struct {
	reservations  *ReservationService
	subscriptions *SubscriptionService
	cron          *cron.Cron
}

func NewJobService(reservations *ReservationService, subscriptions *SubscriptionService) *JobService {
	return &JobService{
		reservations:  reservations,
		subscriptions: subscriptions,
		cron:          cron.New(),
	}
}

// Start schedules the recurring jobs and launches the scheduler.
func (s *JobService) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.RunReservationExpiry); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.RunSubscriptionExpiry); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("Cron: scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for running jobs.
func (s *JobService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunReservationExpiry cancels confirmed reservations past their window.
func (s *JobService) RunReservationExpiry() {
	count, err := s.reservations.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("Cron: reservation expiry failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Cron: cancelled %d overdue reservations", count)
	}
}

// RunSubscriptionExpiry marks active subscriptions past end_date expired.
func (s *JobService) RunSubscriptionExpiry() {
	count, err := s.subscriptions.ExpireLapsed(time.Now())
	if err != nil {
		log.Printf("Cron: subscription expiry failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Cron: expired %d subscriptions", count)
	}
}
