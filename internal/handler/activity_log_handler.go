package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/internal/service"
)

// ActivityLogHandler handles activity log requests
type ActivityLogHandler struct {
	logs *service.ActivityLogService
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logs *service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{logs: logs}
}

// ListForActivity handles GET /activities/:code/logs
// @Summary List logs of an activity
// @Tags activity-logs
// @Produce json
// @Param code path string true "Activity code"
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param contact query string false "Only logs with this companion"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} common.APIResponse{data=[]domain.ActivityLog,meta=common.Meta}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities/{code}/logs [get]
func (h *ActivityLogHandler) ListForActivity(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	q := listQuery(c, repository.DateBetween("date", r))
	if scope, ok, err := memberScope(c, h.logs.Roster); err != nil {
		respondError(c, err)
		return
	} else if ok {
		q.Scopes = append(q.Scopes, scope)
	}

	items, total, err := h.logs.ListForActivity(c.Request.Context(), currentUser(c), c.Param("code"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

// CreateForActivity handles POST /activities/:code/logs
// @Summary Log an occurrence of an activity
// @Tags activity-logs
// @Accept json
// @Produce json
// @Param code path string true "Activity code"
// @Param request body domain.ActivityLogRequest true "Log"
// @Success 201 {object} common.APIResponse{data=domain.ActivityLog}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities/{code}/logs [post]
func (h *ActivityLogHandler) CreateForActivity(c *gin.Context) {
	var req domain.ActivityLogRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	log := &domain.ActivityLog{}
	if err := req.ApplyTo(log); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.logs.CreateForActivity(c.Request.Context(), currentUser(c), c.Param("code"), log)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, created)
}

// Get handles GET /activity-logs/:code
// @Summary Retrieve an activity log
// @Tags activity-logs
// @Produce json
// @Param code path string true "Log code"
// @Success 200 {object} common.APIResponse{data=domain.ActivityLog}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activity-logs/{code} [get]
func (h *ActivityLogHandler) Get(c *gin.Context) {
	log, err := h.logs.Get(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, log)
}

// Update handles PUT and PATCH /activity-logs/:code
// @Summary Update a log or add a companion
// @Description With ?contact=<code> the contact joins the companions and the body is ignored
// @Tags activity-logs
// @Accept json
// @Produce json
// @Param code path string true "Log code"
// @Param contact query string false "Contact to add as companion"
// @Param request body domain.ActivityLogRequest false "Log"
// @Success 200 {object} common.APIResponse{data=domain.ActivityLog}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activity-logs/{code} [put]
// @Router /activity-logs/{code} [patch]
func (h *ActivityLogHandler) Update(c *gin.Context) {
	log, err := h.logs.Apply(c.Request.Context(), currentUser(c), c.Param("code"),
		updateOp(c, domain.ActivityLogRequestFrom))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, log)
}

// Delete handles DELETE /activity-logs/:code
// @Summary Delete a log or remove a companion
// @Tags activity-logs
// @Param code path string true "Log code"
// @Param contact query string false "Companion to remove"
// @Success 204
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activity-logs/{code} [delete]
func (h *ActivityLogHandler) Delete(c *gin.Context) {
	if err := h.logs.Remove(c.Request.Context(), currentUser(c), c.Param("code"), deleteOp(c)); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}
