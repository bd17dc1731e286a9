package api

import "time"

// Auth
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}
type AdminUpdateUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Sessions
type EntryRequest struct {
	Plate       string `json:"plate"`
	FacilityID  int    `json:"facility_id"`
	EntryMethod string `json:"entry_method"`
}
type ExitRequest struct {
	Plate         string `json:"plate"`
	PaymentMethod string `json:"payment_method"`
}

// Reservations
type CreateReservationRequest struct {
	VehicleID     int       `json:"vehicle_id"`
	FacilityID    int       `json:"facility_id"`
	ReservedStart time.Time `json:"reserved_start"`
	ReservedEnd   time.Time `json:"reserved_end"`
	SpotType      string    `json:"spot_type"`
	Notes         string    `json:"notes"`
}
type UpdateReservationRequest struct {
	Action        string     `json:"action"`
	ReservedStart *time.Time `json:"reserved_start"`
	ReservedEnd   *time.Time `json:"reserved_end"`
	Notes         *string    `json:"notes"`
}

// Wallet
type TopUpRequest struct {
	Amount int    `json:"amount"`
	Method string `json:"method"`
}

// Subscriptions
type PurchaseSubscriptionRequest struct {
	VehicleID  int `json:"vehicle_id"`
	FacilityID int `json:"facility_id"`
	PlanID     int `json:"plan_id"`
}
type UpdateSubscriptionRequest struct {
	Action    string `json:"action"`
	AutoRenew *bool  `json:"auto_renew"`
}

// Vehicles
type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	Year        *int   `json:"year"`
	VehicleType string `json:"vehicle_type"`
}

// Spots
type InitSpotsRequest struct {
	Count    int    `json:"count"`
	Prefix   string `json:"prefix"`
	FloorID  *int   `json:"floor_id"`
	SpotType string `json:"spot_type"`
}
type UpdateSpotRequest struct {
	SpotType *string `json:"spot_type"`
	IsActive *bool   `json:"is_active"`
}

// Hardware
type GateOperateRequest struct {
	Plate string `json:"plate"`
}
type DetectionRequest struct {
	CameraID     string  `json:"camera_id"`
	PlateNumber  string  `json:"plate_number"`
	Confidence   float64 `json:"confidence"`
	FacilityID   *int    `json:"facility_id"`
	VehicleClass *string `json:"vehicle_class"`
	ImageURL     *string `json:"image_url"`
}
type UpdateDetectionRequest struct {
	ActionTaken string `json:"action_taken"`
}

// System
type ResetRequest struct {
	FacilityID int `json:"facility_id"`
}
