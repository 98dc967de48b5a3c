package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type WaitlistHandler struct {
	service   *services.WaitlistService
	validator *response.ValidationHelper
}

func NewWaitlistHandler(service *services.WaitlistService, validator *response.ValidationHelper) *WaitlistHandler {
	return &WaitlistHandler{service: service, validator: validator}
}

// Join adds a pre-launch signup
// @Summary Join waitlist
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param request body services.WaitlistRequest true "Signup"
// @Success 201 {object} models.WaitlistEntry
// @Failure 400 {object} response.ErrorResponse
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req services.WaitlistRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	entry, err := h.service.Join(r.Context(), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, "You're on the list", map[string]any{"entry": entry})
}
