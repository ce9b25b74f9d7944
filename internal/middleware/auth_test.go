package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/prmhq/prm-backend/internal/common"
)

type stubAuthenticator map[string]uint64

func (s stubAuthenticator) Authenticate(_ context.Context, key string) (uint64, error) {
	if key == "broken" {
		return 0, errors.New("connection refused")
	}
	if id, ok := s[key]; ok {
		return id, nil
	}
	return 0, common.ErrUnauthorized
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TokenAuth(stubAuthenticator{"good-key": 42}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	return r
}

func TestTokenAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer", "Bearer good-key", http.StatusOK},
		{"token scheme", "Token good-key", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"unknown scheme", "Basic good-key", http.StatusUnauthorized},
		{"no key", "Bearer", http.StatusUnauthorized},
		{"unknown key", "Bearer nope", http.StatusUnauthorized},
		{"store failure", "Bearer broken", http.StatusServiceUnavailable},
	}

	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":42}`, w.Body.String())
			}
		})
	}
}

func TestGetUserID_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetUserID(c))

	SetUserID(c, 7)
	assert.Equal(t, uint64(7), GetUserID(c))
}
