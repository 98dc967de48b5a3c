package handlers

import (
	"io"
	"net/http"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

// SignatureHeader carries the provider's HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "X-Paystack-Signature"

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	service   *services.PaymentService
	validator *response.ValidationHelper
}

func NewPaymentHandler(service *services.PaymentService, validator *response.ValidationHelper) *PaymentHandler {
	return &PaymentHandler{service: service, validator: validator}
}

type InitializePaymentRequest struct {
	RideID string `json:"rideId" validate:"required,uuid"`
}

// Initialize opens a checkout
// @Summary Initialize payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InitializePaymentRequest true "Ride to pay for"
// @Success 200 {object} services.Checkout
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /payments/initialize [post]
func (h *PaymentHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req InitializePaymentRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	checkout, err := h.service.InitializePayment(r.Context(), c.AccountID(), req.RideID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Checkout created", map[string]any{"checkout": checkout})
}

// Webhook receives provider callbacks
// @Summary Payment webhook
// @Description Signature-verified provider callback. Only charge.success confirms a payment.
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Paystack-Signature header string true "Hex HMAC-SHA512 of the body"
// @Success 200 {object} object{success=bool,confirmed=bool}
// @Failure 401 {object} response.ErrorResponse
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		response.Error(w, r, apperrors.Wrap(apperrors.CodeInvalidInput, "Invalid request body", err))
		return
	}

	confirmed, err := h.service.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", map[string]any{"confirmed": confirmed})
}
