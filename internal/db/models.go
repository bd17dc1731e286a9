package db

import (
	"encoding/json"
	"time"
)

// Role values stored on users.role.
const (
	RoleUser     = "user"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	PlateNumber string    `json:"plate_number"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	Year        *int      `json:"year,omitempty"`
	VehicleType string    `json:"vehicle_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Facility struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	City                string    `json:"city"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	TotalSpots          int       `json:"total_spots"`
	HourlyRate          int       `json:"hourly_rate"`
	OperatingHoursStart string    `json:"operating_hours_start"`
	OperatingHoursEnd   string    `json:"operating_hours_end"`
	ImageURL            *string   `json:"image_url,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Floor struct {
	ID          int    `json:"id"`
	FacilityID  int    `json:"facility_id"`
	FloorNumber int    `json:"floor_number"`
	Name        string `json:"name"`
}

type ParkingSpot struct {
	ID         int    `json:"id"`
	FacilityID int    `json:"facility_id"`
	FloorID    *int   `json:"floor_id,omitempty"`
	SpotName   string `json:"spot_name"`
	SpotType   string `json:"spot_type"`
	IsOccupied bool   `json:"is_occupied"`
	IsReserved bool   `json:"is_reserved"`
	IsActive   bool   `json:"is_active"`
}

// Reservation status values. A confirmed reservation holds a spot claim;
// check-in hands the claim over to a session. Cancellation is only
// reachable from confirmed.
const (
	ReservationConfirmed = "confirmed"
	ReservationCheckedIn = "checked_in"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	VehicleID     int       `json:"vehicle_id"`
	FacilityID    int       `json:"facility_id"`
	SpotID        *int      `json:"spot_id,omitempty"`
	SpotName      string    `json:"spot_name,omitempty"`
	ReservedStart time.Time `json:"reserved_start"`
	ReservedEnd   time.Time `json:"reserved_end"`
	Status        string    `json:"status"`
	Amount        int       `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	QRCode        string    `json:"qr_code"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session types and payment states.
const (
	SessionWalkIn       = "walk_in"
	SessionReserved     = "reserved"
	SessionSubscription = "subscription"

	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentWaived    = "waived"
	PaymentCompleted = "completed"
)

type ParkingSession struct {
	ID              int        `json:"id"`
	VehicleID       *int       `json:"vehicle_id,omitempty"`
	FacilityID      int        `json:"facility_id"`
	SpotID          int        `json:"spot_id"`
	ReservationID   *int       `json:"reservation_id,omitempty"`
	PlateNumber     string     `json:"plate_number"`
	SpotName        string     `json:"spot_name"`
	EntryTime       time.Time  `json:"entry_time"`
	ExitTime        *time.Time `json:"exit_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Amount          *int       `json:"amount,omitempty"`
	PaymentStatus   string     `json:"payment_status"`
	SessionType     string     `json:"session_type"`
	EntryMethod     string     `json:"entry_method"`
}

type Wallet struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Balance   int       `json:"balance"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Payment struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	SessionID      *int      `json:"session_id,omitempty"`
	SubscriptionID *int      `json:"subscription_id,omitempty"`
	Amount         int       `json:"amount"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentStatus  string    `json:"payment_status"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	PlanReservation = "reservation"
	PlanMonthly     = "monthly"
)

type PricingPlan struct {
	ID         int    `json:"id"`
	FacilityID int    `json:"facility_id"`
	Name       string `json:"name"`
	PlanType   string `json:"plan_type"`
	Rate       int    `json:"rate"`
	IsActive   bool   `json:"is_active"`
}

const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	VehicleID  int       `json:"vehicle_id"`
	FacilityID int       `json:"facility_id"`
	PlanID     int       `json:"plan_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	AutoRenew  bool      `json:"auto_renew"`
	CreatedAt  time.Time `json:"created_at"`
}

type Camera struct {
	ID         int    `json:"id"`
	FacilityID int    `json:"facility_id"`
	CameraID   string `json:"camera_id"`
	Name       string `json:"name"`
	CameraType string `json:"camera_type"`
	SourceURL  string `json:"source_url"`
	GateID     *int   `json:"gate_id,omitempty"`
	IsActive   bool   `json:"is_active"`
}

type Gate struct {
	ID         int     `json:"id"`
	FacilityID int     `json:"facility_id"`
	Name       string  `json:"name"`
	GateType   string  `json:"gate_type"`
	HardwareIP *string `json:"hardware_ip,omitempty"`
	CameraID   *int    `json:"camera_id,omitempty"`
	Status     string  `json:"status"`
}

type GateEvent struct {
	ID          int       `json:"id"`
	GateID      int       `json:"gate_id"`
	EventType   string    `json:"event_type"`
	TriggeredBy string    `json:"triggered_by"`
	OperatorID  *int      `json:"operator_id,omitempty"`
	PlateNumber *string   `json:"plate_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type DetectionLog struct {
	ID           int       `json:"id"`
	CameraID     string    `json:"camera_id"`
	FacilityID   *int      `json:"facility_id,omitempty"`
	PlateNumber  string    `json:"plate_number"`
	Confidence   float64   `json:"confidence"`
	VehicleID    *int      `json:"vehicle_id,omitempty"`
	IsRegistered bool      `json:"is_registered"`
	DetectedAt   time.Time `json:"detected_at"`
	ActionTaken  string    `json:"action_taken"`
	VehicleClass *string   `json:"vehicle_class,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
}

type Notification struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
