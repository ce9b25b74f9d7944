package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) common.APIResponse {
	t.Helper()
	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", common.NewValidationError("name", "this field is required"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", common.NewValidationError("", "bad")), http.StatusBadRequest},
		{"credentials", common.ErrInvalidCredentials, http.StatusBadRequest},
		{"inactive", common.ErrInactiveAccount, http.StatusBadRequest},
		{"already active", common.ErrAlreadyActive, http.StatusBadRequest},
		{"unauthorized", common.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", common.ErrForbidden, http.StatusForbidden},
		{"not found", common.NotFound("contact"), http.StatusNotFound},
		{"conflict", common.ErrConflict, http.StatusConflict},
		{"storage", common.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("dial tcp 10.0.0.1:3306: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "10.0.0.1")
			}
		})
	}
}

func TestRespondError_NotFoundMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	respondError(c, common.NotFound("contact"))
	assert.Equal(t, "contact not found", decode(t, w).Error.Message)
}

func TestBindingError_NamesJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		body    string
		field   string
		message string
	}{
		{`{"last_name":"Doe"}`, "first_name", "this field is required"},
		{`{"first_name":"Jane","last_name":"Doe","email":"nope"}`, "email", "enter a valid email address"},
		{`{"first_name":"Jane","last_name":"Doe","phone_number":"12ab"}`, "phone_number", "phone number must be entered in the format: '+999999999', up to 15 digits allowed"},
		{`{"first_name":"Jane","last_name":"Doe","birth_date":"03/01/1990"}`, "birth_date", "date has wrong format, use YYYY-MM-DD"},
		{`{"first_name":"` + strings.Repeat("x", 41) + `","last_name":"Doe"}`, "first_name", "ensure this field has no more than 40 characters"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(tt.body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req domain.ContactRequest
		err := bindRequest(c, &req)

		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr, tt.body)
		assert.Equal(t, tt.field, verr.Field)
		assert.Equal(t, tt.message, verr.Message)
	}
}

func TestBindingError_MalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{"first_name":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req domain.ContactRequest
	err := bindRequest(c, &req)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid request body", verr.Message)
}

func TestPhonePattern(t *testing.T) {
	for _, ok := range []string{"+14155552671", "123456789", "+112345678901234"} {
		assert.True(t, phonePattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"12345678", "+12-345-678", "phone", "1234567890123456789"} {
		assert.False(t, phonePattern.MatchString(bad), bad)
	}
}
