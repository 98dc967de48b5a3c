package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type RideHandler struct {
	rides     *services.RideService
	pricing   *services.PricingService
	earnings  *services.EarningsService
	validator *response.ValidationHelper
}

func NewRideHandler(rides *services.RideService, pricing *services.PricingService, earnings *services.EarningsService, validator *response.ValidationHelper) *RideHandler {
	return &RideHandler{rides: rides, pricing: pricing, earnings: earnings, validator: validator}
}

// TripRequest describes a route for search and estimates.
type TripRequest struct {
	Pickup      models.Location  `json:"pickup"`
	Destination models.Location  `json:"destination"`
	RideClass   models.RideClass `json:"rideClass,omitempty" validate:"omitempty,oneof=basic premium" example:"basic"`
}

type EndTripRequest struct {
	FinalFare *float64 `json:"finalFare,omitempty" validate:"omitempty,gt=0" example:"27.5"`
}

type RateRideRequest struct {
	Score   int    `json:"score" validate:"required,gte=1,lte=5" example:"5"`
	Comment string `json:"comment,omitempty" validate:"max=500"`
}

// SearchDrivers lists bookable drivers
// @Summary Search drivers
// @Description Drivers with seats and a registered vehicle, by rating then id, each with price and ETA.
// @Tags Rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TripRequest true "Route"
// @Success 200 {array} services.DriverMatch
// @Failure 400 {object} response.ErrorResponse
// @Router /drivers/search [post]
func (h *RideHandler) SearchDrivers(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	drivers, err := h.pricing.SearchDrivers(r.Context(), req.Pickup, req.Destination, req.RideClass)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"drivers": drivers})
}

// Estimate prices a route
// @Summary Estimate trip
// @Tags Rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TripRequest true "Route"
// @Success 200 {object} services.Estimate
// @Failure 400 {object} response.ErrorResponse
// @Router /drivers/estimate [post]
func (h *RideHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	estimate, err := h.pricing.EstimateTrip(r.Context(), req.Pickup, req.Destination, req.RideClass)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"estimate": estimate})
}

// RequestRide books a driver
// @Summary Request ride
// @Tags Rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RideRequest true "Ride"
// @Success 201 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rides [post]
func (h *RideHandler) RequestRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req services.RideRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	ride, err := h.rides.RequestRide(r.Context(), c.AccountID(), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, "Ride requested", map[string]any{"ride": ride})
}

// GetRide returns one ride
// @Summary Get ride
// @Tags Rides
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {object} models.Ride
// @Failure 404 {object} response.ErrorResponse
// @Router /rides/{rideId} [get]
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	ride, err := h.rides.GetRide(r.Context(), actorOf(c), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"ride": ride})
}

// CancelRide cancels before the trip starts
// @Summary Cancel ride
// @Tags Rides
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /rides/{rideId}/cancel [post]
func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	ride, err := h.rides.CancelRide(r.Context(), c.AccountID(), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Ride cancelled", map[string]any{"ride": ride})
}

// AcceptRide assigns the ride to the calling driver
// @Summary Accept ride
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /rides/{rideId}/accept [post]
func (h *RideHandler) AcceptRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	ride, err := h.rides.AcceptRide(r.Context(), c.AccountID(), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Ride accepted", map[string]any{"ride": ride})
}

// StartTrip begins an assigned ride
// @Summary Start trip
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /rides/{rideId}/start [post]
func (h *RideHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	ride, err := h.rides.StartTrip(r.Context(), c.AccountID(), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Trip started", map[string]any{"ride": ride})
}

// EndTrip completes a started ride
// @Summary End trip
// @Description Completes the ride, issues the trip code and fixes the final fare.
// @Tags Driver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Param request body EndTripRequest false "Final fare"
// @Success 200 {object} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /rides/{rideId}/end [post]
func (h *RideHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	var req EndTripRequest
	if r.ContentLength != 0 {
		if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
			response.Error(w, r, err)
			return
		}
	}

	ride, err := h.rides.EndTrip(r.Context(), c.AccountID(), rideID, req.FinalFare)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Trip completed", map[string]any{"ride": ride})
}

// PassengerRides lists the caller's rides
// @Summary Passenger rides
// @Tags Passenger
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Ride
// @Router /passenger/rides [get]
func (h *RideHandler) PassengerRides(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rides, err := h.rides.ListPassengerRides(r.Context(), c.AccountID())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"rides": rides})
}

// DriverRides lists the caller's assigned rides
// @Summary Driver rides
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Ride
// @Failure 400 {object} response.ErrorResponse
// @Router /driver/rides [get]
func (h *RideHandler) DriverRides(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	status := models.RideStatus(r.URL.Query().Get("status"))
	rides, err := h.rides.ListDriverRides(r.Context(), c.AccountID(), status)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"rides": rides})
}

// RateRide scores a completed ride
// @Summary Rate ride
// @Tags Passenger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Param request body RateRideRequest true "Rating"
// @Success 201 {object} models.Rating
// @Failure 400 {object} response.ErrorResponse
// @Router /rides/{rideId}/rate [post]
func (h *RideHandler) RateRide(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}
	var req RateRideRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	rating, err := h.rides.RateRide(r.Context(), c.AccountID(), rideID, req.Score, req.Comment)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, "Thanks for rating", map[string]any{"rating": rating})
}

// Earnings summarizes the driver's completed rides
// @Summary Driver earnings
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Earnings
// @Router /driver/earnings [get]
func (h *RideHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	earnings, err := h.earnings.GetEarnings(r.Context(), c.AccountID())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"earnings": earnings})
}
