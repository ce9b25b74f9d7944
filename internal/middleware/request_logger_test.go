package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prmhq/prm-backend/pkg/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(&bytes.Buffer{}) })
	return &buf
}

func TestRequestLogger_TagsRequestAndUser(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), TokenAuth(stubAuthenticator{"good-key": 42}))
	r.GET("/contacts/:code", func(c *gin.Context) {
		logger.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/contacts/aB3dE5gH", nil)
	req.Header.Set("Authorization", "Bearer good-key")
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "req-123", entry["request_id"])
		assert.EqualValues(t, 42, entry["user_id"])
	}

	var summary map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &summary))
	assert.Equal(t, "/contacts/:code", summary["route"])
	assert.EqualValues(t, 200, summary["status"])
}

func TestRequestLogger_GeneratesIDAndSkipsHealth(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Len(t, w.Header().Get(requestIDHeader), 36)
	assert.Empty(t, buf.String())
}

func TestRedactQuery(t *testing.T) {
	assert.Equal(t, "from=2024-01-01&to=2024-01-31", redactQuery("from=2024-01-01&to=2024-01-31"))
	assert.Equal(t, "token=REDACTED&page=2", redactQuery("token=abc.def.ghi&page=2"))
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders("/swagger/"))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/contacts", ok)
	r.GET("/swagger/index.html", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, apiCSP, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
