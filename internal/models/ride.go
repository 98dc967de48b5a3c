package models

import (
	"time"
)

// RideStatus is the lifecycle state of a ride.
type RideStatus string

const (
	RideStatusPending        RideStatus = "pending"
	RideStatusDriverAssigned RideStatus = "driver_assigned"
	RideStatusStarted        RideStatus = "started"
	RideStatusCompleted      RideStatus = "completed"
	RideStatusCancelled      RideStatus = "cancelled"
)

// AllRideStatuses lists statuses in lifecycle order.
var AllRideStatuses = []RideStatus{
	RideStatusPending,
	RideStatusDriverAssigned,
	RideStatusStarted,
	RideStatusCompleted,
	RideStatusCancelled,
}

func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Cancellable reports whether a passenger or driver may still cancel.
func (s RideStatus) Cancellable() bool {
	return s == RideStatusPending || s == RideStatusDriverAssigned
}

// Reached reports whether s is at or past target on the forward path.
// Cancelled is off the forward path and never reaches anything but itself.
func (s RideStatus) Reached(target RideStatus) bool {
	if s == RideStatusCancelled || target == RideStatusCancelled {
		return s == target
	}
	return s.rank() >= target.rank()
}

func (s RideStatus) rank() int {
	switch s {
	case RideStatusPending:
		return 0
	case RideStatusDriverAssigned:
		return 1
	case RideStatusStarted:
		return 2
	case RideStatusCompleted:
		return 3
	}
	return -1
}

// RideClass selects the per-km rate.
type RideClass string

const (
	RideClassBasic   RideClass = "basic"
	RideClassPremium RideClass = "premium"
)

func (c RideClass) Valid() bool {
	return c == RideClassBasic || c == RideClassPremium
}

// Location represents a pickup or destination point
type Location struct {
	Address   string   `json:"address" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Ride is a passenger trip request and its lifecycle.
type Ride struct {
	ID               string     `json:"id" db:"id"`
	PassengerID      string     `json:"passengerId" db:"passenger_id"`
	DriverID         string     `json:"driverId" db:"driver_id"`
	Pickup           Location   `json:"pickup"`
	Destination      Location   `json:"destination"`
	DistanceKm       float64    `json:"distanceKm" db:"distance_km"`
	RideClass        RideClass  `json:"rideClass" db:"ride_class"`
	EstimatedPrice   float64    `json:"estimatedPrice" db:"estimated_price"`
	FinalPrice       *float64   `json:"finalPrice" db:"final_price"`
	Status           RideStatus `json:"status" db:"status"`
	PaymentConfirmed bool       `json:"paymentConfirmed" db:"payment_confirmed"`
	TripCode         string     `json:"tripCode,omitempty" db:"trip_code"`
	CancelledBy      string     `json:"cancelledBy,omitempty" db:"cancelled_by"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	AssignedAt       *time.Time `json:"assignedAt,omitempty" db:"assigned_at"`
	StartedAt        *time.Time `json:"startedAt,omitempty" db:"started_at"`
	EndedAt          *time.Time `json:"endedAt,omitempty" db:"ended_at"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
}

// IsParticipant reports whether the account is the ride's passenger or driver.
func (r *Ride) IsParticipant(accountID string) bool {
	return accountID != "" && (r.PassengerID == accountID || r.DriverID == accountID)
}

// Rating is a passenger's score for a completed ride.
type Rating struct {
	ID          string    `json:"id" db:"id"`
	RideID      string    `json:"rideId" db:"ride_id"`
	DriverID    string    `json:"driverId" db:"driver_id"`
	PassengerID string    `json:"passengerId" db:"passenger_id"`
	Score       int       `json:"score" db:"score"`
	Comment     string    `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
