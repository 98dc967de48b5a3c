package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type AdminHandler struct {
	admin     *services.AdminService
	analytics *services.AnalyticsService
	rides     *services.RideService
	waitlist  *services.WaitlistService
	validator *response.ValidationHelper
}

func NewAdminHandler(
	admin *services.AdminService,
	analytics *services.AnalyticsService,
	rides *services.RideService,
	waitlist *services.WaitlistService,
	validator *response.ValidationHelper,
) *AdminHandler {
	return &AdminHandler{admin: admin, analytics: analytics, rides: rides, waitlist: waitlist, validator: validator}
}

type VerifyDriverRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type SuspendUserRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// Users lists all accounts
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Profile
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"users": users})
}

// Drivers lists all drivers
// @Summary List drivers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.DriverListing
// @Router /admin/drivers [get]
func (h *AdminHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.admin.ListDrivers(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"drivers": drivers})
}

// Trips lists all rides
// @Summary List trips
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Ride
// @Router /admin/trips [get]
func (h *AdminHandler) Trips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.admin.ListTrips(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"trips": trips})
}

// Waitlist lists signups
// @Summary List waitlist
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.WaitlistEntry
// @Router /admin/waitlist [get]
func (h *AdminHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlist.List(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"waitlist": entries})
}

// Analytics returns the dashboard
// @Summary Platform analytics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Analytics
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.analytics.GetAnalytics(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"analytics": analytics})
}

// VerifyDriver sets the verified badge
// @Summary Verify driver
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver ID"
// @Param request body VerifyDriverRequest true "Verified flag"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/drivers/{id}/verify [post]
func (h *AdminHandler) VerifyDriver(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "Driver")
	if !ok {
		return
	}
	var req VerifyDriverRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.admin.VerifyDriver(r.Context(), c.AccountID(), id, *req.Verified); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Driver updated", nil)
}

// SuspendUser toggles suspension
// @Summary Suspend user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body SuspendUserRequest true "Suspended flag"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{id}/suspend [post]
func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "User")
	if !ok {
		return
	}
	var req SuspendUserRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.admin.SuspendUser(r.Context(), c.AccountID(), id, *req.Suspended); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "User updated", nil)
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "User")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(r.Context(), c.AccountID(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "User deleted", nil)
}

// CancelRide cancels any non-terminal ride
// @Summary Admin cancel ride
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Router /admin/rides/{rideId}/cancel [post]
func (h *AdminHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	ride, err := h.rides.AdminCancelRide(r.Context(), c.AccountID(), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Ride cancelled", map[string]any{"ride": ride})
}
