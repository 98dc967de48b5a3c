// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
)

const maxBodyBytes = 1_048_576 // 1 MB

// ErrorResponse is the body of every failed request.
// @Description Error response structure
type ErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Validation failed"`
	Code    apperrors.Code    `json:"code" example:"INVALID_INPUT"`
	Details map[string]string `json:"details,omitempty"`
}

// ValidationHelper wraps a validator with the phone rule registered.
type ValidationHelper struct {
	validator *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterValidation("ghanaphone", func(fl validator.FieldLevel) bool {
		return models.IsGhanaPhone(fl.Field().String())
	})
	return &ValidationHelper{validator: v}
}

// ValidateStruct returns an INVALID_INPUT error with per-field details.
func (vh *ValidationHelper) ValidateStruct(s any) error {
	err := vh.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "Validation failed", err)
	}

	appErr := apperrors.Wrap(apperrors.CodeInvalidInput, "Validation failed", err)
	appErr.Details = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		appErr.Details[fe.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", fe.Tag())
		if fe.Tag() == "ghanaphone" {
			appErr.Code = apperrors.CodeInvalidPhone
			appErr.Message = "Phone number must be in the format +233XXXXXXXXX"
		}
	}
	return appErr
}

// Decode reads exactly one JSON object into dst, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "Invalid request body", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperrors.New(apperrors.CodeInvalidInput, "Request body must only contain a single JSON object")
	}
	return nil
}

// DecodeAndValidate combines Decode and ValidateStruct.
func (vh *ValidationHelper) DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := Decode(w, r, dst); err != nil {
		return err
	}
	return vh.ValidateStruct(dst)
}

// JSON writes payload merged into {"success": true}. Payload fields must not be named success.
func JSON(w http.ResponseWriter, status int, message string, payload map[string]any) {
	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, message string, payload map[string]any) {
	JSON(w, http.StatusOK, message, payload)
}

// Error maps err to its status and code. Server-side failures are logged with detail and
// reach the client only as the generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.From(err)
	status := apperrors.HTTPStatus(appErr.Code)

	message := appErr.Message
	if apperrors.IsServerSide(appErr.Code) {
		log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
		message = apperrors.GenericMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Message: message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
