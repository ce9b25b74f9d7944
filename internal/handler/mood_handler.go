package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/internal/service"
)

// MoodHandler handles mood requests
type MoodHandler struct {
	moods service.MoodService
}

// NewMoodHandler creates a new MoodHandler
func NewMoodHandler(moods service.MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

// List handles GET /moods
// @Summary List moods
// @Tags moods
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} common.APIResponse{data=[]domain.Mood,meta=common.Meta}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /moods [get]
func (h *MoodHandler) List(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	q := listQuery(c, repository.DateBetween("date", r))

	items, total, err := h.moods.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

// Save handles POST /moods
// @Summary Log the mood of a day
// @Description Overwrites the mood already logged for that date
// @Tags moods
// @Accept json
// @Produce json
// @Param request body domain.MoodRequest true "Mood"
// @Success 200 {object} common.APIResponse{data=domain.Mood} "Existing mood overwritten"
// @Success 201 {object} common.APIResponse{data=domain.Mood} "Mood created"
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /moods [post]
func (h *MoodHandler) Save(c *gin.Context) {
	var req domain.MoodRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	mood, err := req.ToMood()
	if err != nil {
		respondError(c, err)
		return
	}

	saved, created, err := h.moods.Save(c.Request.Context(), currentUser(c), mood)
	if err != nil {
		respondError(c, err)
		return
	}
	if created {
		common.Created(c, saved)
		return
	}
	common.Success(c, saved)
}

// GetByDate handles GET /moods/:date
// @Summary Retrieve the mood of a day
// @Tags moods
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} common.APIResponse{data=domain.Mood}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /moods/{date} [get]
func (h *MoodHandler) GetByDate(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	mood, err := h.moods.GetByDate(c.Request.Context(), currentUser(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, mood)
}

// DeleteByDate handles DELETE /moods/:date
// @Summary Delete the mood of a day
// @Tags moods
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /moods/{date} [delete]
func (h *MoodHandler) DeleteByDate(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	if err := h.moods.DeleteByDate(c.Request.Context(), currentUser(c), date); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}

func pathDate(c *gin.Context) (common.Date, bool) {
	date, err := common.ParseDate(c.Param("date"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "date has wrong format, use YYYY-MM-DD", nil)
		return common.Date{}, false
	}
	return date, true
}
