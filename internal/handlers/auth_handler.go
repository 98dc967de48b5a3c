package handlers

import (
	"net/http"

	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
)

type AuthHandler struct {
	service   *services.AuthService
	validator *response.ValidationHelper
}

func NewAuthHandler(service *services.AuthService, validator *response.ValidationHelper) *AuthHandler {
	return &AuthHandler{service: service, validator: validator}
}

// OTPRequest asks for a sign-in code.
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,ghanaphone" example:"+233241234567"`
}

// VerifyOTPRequest submits the code received by SMS.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,ghanaphone" example:"+233241234567"`
	OTP   string `json:"otp" validate:"required,len=6,numeric" example:"123456"`
}

// RequestOTP sends a one-time code
// @Summary Request OTP
// @Description Issue a 6-digit sign-in code for a Ghana phone number. Replaces any pending code.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body OTPRequest true "Phone number"
// @Success 200 {object} services.RequestOTPResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.service.RequestOTP(r.Context(), req.Phone)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	payload := map[string]any{
		"isNewUser": result.IsNewUser,
		"expiresAt": result.ExpiresAt,
	}
	if result.Code != "" {
		payload["otp"] = result.Code
	}
	response.OK(w, "OTP sent", payload)
}

// VerifyOTP signs the caller in
// @Summary Verify OTP
// @Description Consume the pending code and return a session. Creates the account on first sign-in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Phone and code"
// @Success 200 {object} services.Session
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := h.validator.DecodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.service.VerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Signed in", sessionPayload(session))
}

// Me returns the current session
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Session
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	session, err := h.service.Me(r.Context(), c)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", sessionPayload(session))
}

// Refresh reissues the token
// @Summary Refresh token
// @Description Issue a new token from the stored profile so role changes take effect.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Session
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	session, err := h.service.Refresh(r.Context(), c)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Token refreshed", sessionPayload(session))
}

// Logout revokes the token
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,message=string}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	if err := h.service.Logout(r.Context(), c); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Logged out", nil)
}
