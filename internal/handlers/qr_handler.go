package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type QRHandler struct {
	service *services.QRService
}

func NewQRHandler(service *services.QRService) *QRHandler {
	return &QRHandler{service: service}
}

// TripCodeQR renders the trip code
// @Summary Trip code QR
// @Description PNG QR code of the trip code issued when the ride ended.
// @Tags Rides
// @Produce png
// @Security BearerAuth
// @Param rideId path string true "Ride ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rides/{rideId}/trip-code/qr [get]
func (h *QRHandler) TripCodeQR(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rideID, ok := pathID(w, r, "rideId", "Ride")
	if !ok {
		return
	}

	png, err := h.service.TripCodePNG(r.Context(), actorOf(c), rideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Write(png)
}
