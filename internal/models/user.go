package models

import (
	"regexp"
	"time"
)

// Role is the account role carried in session tokens.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePassenger, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// GhanaPhonePattern is the only accepted phone format: +233 followed by 9 digits.
var GhanaPhonePattern = regexp.MustCompile(`^\+233\d{9}$`)

func IsGhanaPhone(phone string) bool {
	return GhanaPhonePattern.MatchString(phone)
}

// Profile is the account row. FullName is empty until onboarding.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	PhotoURL  string    `json:"photoUrl,omitempty" db:"photo_url"`
	Rating    float64   `json:"rating" db:"rating"`
	Suspended bool      `json:"suspended" db:"suspended"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the view of a profile returned with session responses.
type PublicUser struct {
	ID       string  `json:"id"`
	Phone    string  `json:"phone"`
	FullName string  `json:"fullName"`
	Role     Role    `json:"role"`
	PhotoURL string  `json:"photoUrl,omitempty"`
	Rating   float64 `json:"rating"`
}

func (p *Profile) Public() PublicUser {
	return PublicUser{
		ID:       p.ID,
		Phone:    p.Phone,
		FullName: p.FullName,
		Role:     p.Role,
		PhotoURL: p.PhotoURL,
		Rating:   p.Rating,
	}
}

// Driver is the 1:1 vehicle record of a driver account.
type Driver struct {
	ProfileID    string    `json:"profileId" db:"profile_id"`
	CarMake      string    `json:"carMake" db:"car_make"`
	CarModel     string    `json:"carModel" db:"car_model"`
	CarYear      int       `json:"carYear" db:"car_year"`
	CarColor     string    `json:"carColor" db:"car_color"`
	PlateNumber  string    `json:"plateNumber" db:"plate_number"`
	SeatCapacity int       `json:"seatCapacity" db:"seat_capacity"`
	AC           bool      `json:"ac" db:"ac"`
	Quiet        bool      `json:"quiet" db:"quiet"`
	Music        bool      `json:"music" db:"music"`
	Premium      bool      `json:"premium" db:"premium"`
	Verified     bool      `json:"verified" db:"verified"`
	CurrentLat   *float64  `json:"currentLat,omitempty" db:"current_lat"`
	CurrentLng   *float64  `json:"currentLng,omitempty" db:"current_lng"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// HasVehicle reports whether vehicle setup has been completed.
func (d *Driver) HasVehicle() bool {
	return d != nil && d.CarMake != "" && d.PlateNumber != ""
}

// VehicleDetails is the payload of vehicle setup.
type VehicleDetails struct {
	CarMake      string `json:"carMake" validate:"required,max=50"`
	CarModel     string `json:"carModel" validate:"required,max=50"`
	CarYear      int    `json:"carYear" validate:"required,gte=1980,lte=2100"`
	CarColor     string `json:"carColor" validate:"required,max=30"`
	PlateNumber  string `json:"plateNumber" validate:"required,max=20"`
	SeatCapacity int    `json:"seatCapacity" validate:"required,gte=1,lte=8"`
	AC           bool   `json:"ac"`
	Quiet        bool   `json:"quiet"`
	Music        bool   `json:"music"`
	Premium      bool   `json:"premium"`
}

// DriverListing joins a driver record with the owning profile.
type DriverListing struct {
	Driver
	FullName  string  `json:"fullName"`
	Phone     string  `json:"phone"`
	Rating    float64 `json:"rating"`
	Suspended bool    `json:"suspended"`
}

// Passenger is a marker record for passenger accounts.
type Passenger struct {
	ProfileID string    `json:"profileId" db:"profile_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// WaitlistEntry is an append-only pre-launch signup.
type WaitlistEntry struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	Area      string    `json:"area" db:"area"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
