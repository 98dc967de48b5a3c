package onboarding

import (
	"testing"

	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		driver  *models.Driver
		want    Status
	}{
		{
			name:    "new account without name",
			profile: &models.Profile{Role: models.RolePassenger},
			want:    Status{IsComplete: false, NextStep: StepProfile, RedirectTo: RouteProfileSetup},
		},
		{
			name:    "name missing wins over driver role",
			profile: &models.Profile{Role: models.RoleDriver},
			driver:  &models.Driver{CarMake: "Toyota", PlateNumber: "GR-1"},
			want:    Status{IsComplete: false, NextStep: StepProfile, RedirectTo: RouteProfileSetup},
		},
		{
			name:    "admin",
			profile: &models.Profile{FullName: "Esi Admin", Role: models.RoleAdmin},
			want:    Status{IsComplete: true, RedirectTo: RouteAdminHome},
		},
		{
			name:    "driver without driver record",
			profile: &models.Profile{FullName: "Kwame", Role: models.RoleDriver},
			want:    Status{IsComplete: false, NextStep: StepVehicle, RedirectTo: RouteDriverVehicle},
		},
		{
			name:    "driver with make but no plate",
			profile: &models.Profile{FullName: "Kwame", Role: models.RoleDriver},
			driver:  &models.Driver{CarMake: "Toyota"},
			want:    Status{IsComplete: false, NextStep: StepVehicle, RedirectTo: RouteDriverVehicle},
		},
		{
			name:    "driver with plate but no make",
			profile: &models.Profile{FullName: "Kwame", Role: models.RoleDriver},
			driver:  &models.Driver{PlateNumber: "GR-1234-20"},
			want:    Status{IsComplete: false, NextStep: StepVehicle, RedirectTo: RouteDriverVehicle},
		},
		{
			name:    "driver with vehicle",
			profile: &models.Profile{FullName: "Kwame", Role: models.RoleDriver},
			driver:  &models.Driver{CarMake: "Toyota", PlateNumber: "GR-1234-20"},
			want:    Status{IsComplete: true, RedirectTo: RouteDriverHome},
		},
		{
			name:    "passenger",
			profile: &models.Profile{FullName: "Ama", Role: models.RolePassenger},
			want:    Status{IsComplete: true, RedirectTo: RoutePassengerHome},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.profile, tt.driver)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Resolve(tt.profile, tt.driver))
		})
	}
}
