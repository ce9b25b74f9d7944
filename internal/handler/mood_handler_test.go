package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/middleware"
	"github.com/prmhq/prm-backend/internal/repository"
)

// --- Mock MoodService ---

type mockMoodService struct {
	mock.Mock
}

func (m *mockMoodService) Save(ctx context.Context, actorID uint64, mood *domain.Mood) (*domain.Mood, bool, error) {
	args := m.Called(actorID, mood)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Mood), args.Bool(1), args.Error(2)
}

func (m *mockMoodService) List(ctx context.Context, actorID uint64, q repository.ListQuery) ([]*domain.Mood, int64, error) {
	args := m.Called(actorID, q.Page, q.PerPage, len(q.Scopes))
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Mood), args.Get(1).(int64), args.Error(2)
}

func (m *mockMoodService) GetByDate(ctx context.Context, actorID uint64, date common.Date) (*domain.Mood, error) {
	args := m.Called(actorID, date.String())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mood), args.Error(1)
}

func (m *mockMoodService) DeleteByDate(ctx context.Context, actorID uint64, date common.Date) error {
	return m.Called(actorID, date.String()).Error(0)
}

const actorID uint64 = 7

func newMoodRouter(svc *mockMoodService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetUserID(c, actorID)
		c.Next()
	})
	h := NewMoodHandler(svc)
	r.GET("/moods", h.List)
	r.POST("/moods", h.Save)
	r.GET("/moods/:date", h.GetByDate)
	r.DELETE("/moods/:date", h.DeleteByDate)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

const moodBody = `{"date":"2024-03-01","mood":4,"highlights":"hike","description":"sunny"}`

func TestMoodHandler_SaveCreatedThenOverwritten(t *testing.T) {
	svc := new(mockMoodService)
	saved := &domain.Mood{Code: "aB3dE5gH", Mood: domain.MoodLevel(4)}
	svc.On("Save", actorID, mock.AnythingOfType("*domain.Mood")).Return(saved, true, nil).Once()
	svc.On("Save", actorID, mock.AnythingOfType("*domain.Mood")).Return(saved, false, nil).Once()
	r := newMoodRouter(svc)

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/moods", moodBody).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/moods", moodBody).Code)
	svc.AssertExpectations(t)
}

func TestMoodHandler_SaveValidation(t *testing.T) {
	svc := new(mockMoodService)
	r := newMoodRouter(svc)

	for _, body := range []string{
		`{"date":"2024-03-01","mood":6,"highlights":"x","description":"y"}`,
		`{"date":"2024-03-01","mood":0,"highlights":"x","description":"y"}`,
		`{"date":"01-03-2024","mood":3,"highlights":"x","description":"y"}`,
		`{"date":"2024-03-01","mood":3,"highlights":"` + strings.Repeat("h", 201) + `","description":"y"}`,
	} {
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/moods", body).Code, body)
	}
	svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMoodHandler_ListDateRange(t *testing.T) {
	svc := new(mockMoodService)
	svc.On("List", actorID, 1, 20, 1).Return([]*domain.Mood{}, int64(0), nil)
	r := newMoodRouter(svc)

	w := serve(r, http.MethodGet, "/moods?from=2024-03-01&to=2024-03-31", "")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 20, resp.Meta.PerPage)

	w = serve(r, http.MethodGet, "/moods?from=2024-03-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "'from' and 'to' params must come together", decode(t, w).Error.Message)

	w = serve(r, http.MethodGet, "/moods?from=2024-03-01&to=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "to", decode(t, w).Error.Field)

	svc.AssertNumberOfCalls(t, "List", 1)
}

func TestMoodHandler_ByDate(t *testing.T) {
	svc := new(mockMoodService)
	svc.On("GetByDate", actorID, "2024-03-01").Return(&domain.Mood{Code: "aB3dE5gH"}, nil)
	svc.On("GetByDate", actorID, "2024-03-02").Return(nil, common.NotFound("mood"))
	svc.On("DeleteByDate", actorID, "2024-03-01").Return(nil)
	r := newMoodRouter(svc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/moods/2024-03-01", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/moods/2024-03-02", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/moods/yesterday", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/moods/2024-03-01", "").Code)
}
