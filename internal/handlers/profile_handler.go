package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type ProfileHandler struct {
	service   *services.ProfileService
	validator *response.ValidationHelper
}

func NewProfileHandler(service *services.ProfileService, validator *response.ValidationHelper) *ProfileHandler {
	return &ProfileHandler{service: service, validator: validator}
}

type SetupProfileRequest struct {
	FullName string      `json:"fullName" validate:"required,min=2,max=120" example:"Ama Owusu"`
	Role     models.Role `json:"role" validate:"required,oneof=passenger driver" example:"passenger"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=2,max=120"`
	PhotoURL *string `json:"photoUrl,omitempty" validate:"omitempty,url,max=500"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90" example:"5.6037"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180" example:"-0.187"`
}

// SetupProfile completes the first onboarding step
// @Summary Set up profile
// @Description Set the name and choose passenger or driver.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetupProfileRequest true "Profile"
// @Success 200 {object} services.Session
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/setup-profile [post]
func (h *ProfileHandler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req SetupProfileRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.service.SetupProfile(r.Context(), c.AccountID(), req.FullName, req.Role)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Profile saved", sessionPayload(session))
}

// SetupVehicle registers the driver's vehicle
// @Summary Register vehicle
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.VehicleDetails true "Vehicle"
// @Success 200 {object} services.Session
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /auth/setup-vehicle [post]
func (h *ProfileHandler) SetupVehicle(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.VehicleDetails
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.service.SetupVehicle(r.Context(), c.AccountID(), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Vehicle registered", sessionPayload(session))
}

// UpdateProfile edits name or photo
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} services.Session
// @Failure 400 {object} response.ErrorResponse
// @Router /passenger/profile [put]
// @Router /driver/profile [put]
// @Router /admin/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.service.UpdateProfile(r.Context(), c.AccountID(), req.FullName, req.PhotoURL)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Profile updated", sessionPayload(session))
}

// UpdateLocation records the driver's position
// @Summary Update driver location
// @Tags Driver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LocationRequest true "Coordinates"
// @Success 200 {object} services.Session
// @Failure 400 {object} response.ErrorResponse
// @Router /driver/location [put]
func (h *ProfileHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req LocationRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.service.UpdateLocation(r.Context(), c.AccountID(), *req.Latitude, *req.Longitude)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Location updated", sessionPayload(session))
}
