package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/service"
)

// ActivityHandler handles activity requests
type ActivityHandler struct {
	activities *service.Roster[domain.Activity, *domain.Activity]
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activities *service.Roster[domain.Activity, *domain.Activity]) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List handles GET /activities
// @Summary List activities
// @Tags activities
// @Produce json
// @Param contact query string false "Only activities with this partner"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} common.APIResponse{data=[]domain.Activity,meta=common.Meta}
// @Security BearerAuth
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	q := listQuery(c)
	if scope, ok, err := memberScope(c, h.activities); err != nil {
		respondError(c, err)
		return
	} else if ok {
		q.Scopes = append(q.Scopes, scope)
	}

	items, total, err := h.activities.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

// Create handles POST /activities
// @Summary Create an activity
// @Tags activities
// @Accept json
// @Produce json
// @Param request body domain.ActivityRequest true "Activity"
// @Success 201 {object} common.APIResponse{data=domain.Activity}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req domain.ActivityRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	activity := &domain.Activity{}
	if err := req.ApplyTo(activity); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.activities.Create(c.Request.Context(), currentUser(c), activity)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, created)
}

// Get handles GET /activities/:code
// @Summary Retrieve an activity
// @Tags activities
// @Produce json
// @Param code path string true "Activity code"
// @Success 200 {object} common.APIResponse{data=domain.Activity}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities/{code} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.activities.Get(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, activity)
}

// Update handles PUT and PATCH /activities/:code
// @Summary Update an activity or add a partner
// @Description With ?contact=<code> the contact joins the partners and the body is ignored
// @Tags activities
// @Accept json
// @Produce json
// @Param code path string true "Activity code"
// @Param contact query string false "Contact to add as partner"
// @Param request body domain.ActivityRequest false "Activity"
// @Success 200 {object} common.APIResponse{data=domain.Activity}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities/{code} [put]
// @Router /activities/{code} [patch]
func (h *ActivityHandler) Update(c *gin.Context) {
	activity, err := h.activities.Apply(c.Request.Context(), currentUser(c), c.Param("code"),
		updateOp(c, domain.ActivityRequestFrom))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, activity)
}

// Delete handles DELETE /activities/:code
// @Summary Delete an activity or remove a partner
// @Description With ?contact=<code> only the partnership is removed. Logs of a deleted activity are kept.
// @Tags activities
// @Param code path string true "Activity code"
// @Param contact query string false "Partner to remove"
// @Success 204
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /activities/{code} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.activities.Remove(c.Request.Context(), currentUser(c), c.Param("code"), deleteOp(c)); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}
