package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otpRequest struct {
	Phone string `json:"phone" validate:"required,ghanaphone"`
	Code  string `json:"code" validate:"omitempty,len=6,numeric"`
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, vh.ValidateStruct(&otpRequest{Phone: "+233501234567", Code: "483920"}))
	})

	t.Run("bad phone is INVALID_PHONE", func(t *testing.T) {
		err := vh.ValidateStruct(&otpRequest{Phone: "0501234567"})
		assert.Equal(t, apperrors.CodeInvalidPhone, apperrors.CodeOf(err))
		assert.Contains(t, apperrors.From(err).Details, "Phone")
	})

	t.Run("other fields are INVALID_INPUT", func(t *testing.T) {
		err := vh.ValidateStruct(&otpRequest{Phone: "+233501234567", Code: "12"})
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
		assert.Equal(t, "Field Validation Failed on 'len' tag", apperrors.From(err).Details["Code"])
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"single object", `{"phone":"+233501234567"}`, false},
		{"unknown field", `{"phone":"+233501234567","extra":1}`, true},
		{"two objects", `{"phone":"a"}{"phone":"b"}`, true},
		{"not json", `phone=1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var dst otpRequest
			err := Decode(w, r, &dst)
			if tt.wantErr {
				assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, "OTP sent", map[string]any{"isNewUser": true})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "OTP sent", body["message"])
	assert.Equal(t, true, body["isNewUser"])
}

func TestError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/rides/1", nil)

	t.Run("client error keeps message", func(t *testing.T) {
		w := httptest.NewRecorder()
		Error(w, r, apperrors.New(apperrors.CodeForbidden, "Not your ride"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Not your ride", body.Message)
		assert.Equal(t, apperrors.CodeForbidden, body.Code)
	})

	t.Run("unknown error is generic", func(t *testing.T) {
		w := httptest.NewRecorder()
		Error(w, r, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
		assert.Contains(t, w.Body.String(), apperrors.GenericMessage)
		assert.Contains(t, w.Body.String(), string(apperrors.CodeUnexpected))
	})

	t.Run("upstream hides provider detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		Error(w, r, apperrors.Upstream(errors.New("sms gateway 503")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "503")
	})
}
