// Package onboarding decides which setup step an account must complete next.
package onboarding

import "github.com/rideghana/backend/internal/models"

type Step string

const (
	StepNone    Step = ""
	StepProfile Step = "profile"
	StepVehicle Step = "vehicle"
)

// Client routes the resolver redirects to.
const (
	RouteProfileSetup  = "/auth/profile-setup"
	RouteAdminHome     = "/admin"
	RouteDriverVehicle = "/driver/register"
	RouteDriverHome    = "/driver/post-route"
	RoutePassengerHome = "/passenger/home"
)

// Status is returned with every auth response and drives client routing guards.
type Status struct {
	IsComplete bool   `json:"isComplete"`
	NextStep   Step   `json:"nextStep,omitempty"`
	RedirectTo string `json:"redirectTo"`
}

// Resolve is a pure function of the profile name, role and, for drivers, the vehicle record.
// driver may be nil for accounts without a driver record.
func Resolve(profile *models.Profile, driver *models.Driver) Status {
	if profile == nil || profile.FullName == "" {
		return Status{IsComplete: false, NextStep: StepProfile, RedirectTo: RouteProfileSetup}
	}

	switch profile.Role {
	case models.RoleAdmin:
		return Status{IsComplete: true, RedirectTo: RouteAdminHome}
	case models.RoleDriver:
		if !driver.HasVehicle() {
			return Status{IsComplete: false, NextStep: StepVehicle, RedirectTo: RouteDriverVehicle}
		}
		return Status{IsComplete: true, RedirectTo: RouteDriverHome}
	default:
		return Status{IsComplete: true, RedirectTo: RoutePassengerHome}
	}
}
