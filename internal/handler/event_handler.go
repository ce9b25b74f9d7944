package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/internal/service"
)

// EventHandler handles event requests
type EventHandler struct {
	events *service.Roster[domain.Event, *domain.Event]
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events *service.Roster[domain.Event, *domain.Event]) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /events
// @Summary List events
// @Tags events
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param contact query string false "Only events with this contact"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} common.APIResponse{data=[]domain.Event,meta=common.Meta}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	q := listQuery(c, repository.DateBetween("date", r))
	if scope, ok, err := memberScope(c, h.events); err != nil {
		respondError(c, err)
		return
	} else if ok {
		q.Scopes = append(q.Scopes, scope)
	}

	items, total, err := h.events.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

// Create handles POST /events
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param request body domain.EventRequest true "Event"
// @Success 201 {object} common.APIResponse{data=domain.Event}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req domain.EventRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	event := &domain.Event{}
	if err := req.ApplyTo(event); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.events.Create(c.Request.Context(), currentUser(c), event)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, created)
}

// Get handles GET /events/:code
// @Summary Retrieve an event
// @Tags events
// @Produce json
// @Param code path string true "Event code"
// @Success 200 {object} common.APIResponse{data=domain.Event}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /events/{code} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, event)
}

// Update handles PUT and PATCH /events/:code
// @Summary Update an event or add a contact
// @Description With ?contact=<code> the contact joins the event and the body is ignored
// @Tags events
// @Accept json
// @Produce json
// @Param code path string true "Event code"
// @Param contact query string false "Contact to add"
// @Param request body domain.EventRequest false "Event"
// @Success 200 {object} common.APIResponse{data=domain.Event}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /events/{code} [put]
// @Router /events/{code} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	event, err := h.events.Apply(c.Request.Context(), currentUser(c), c.Param("code"),
		updateOp(c, domain.EventRequestFrom))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, event)
}

// Delete handles DELETE /events/:code
// @Summary Delete an event or remove a contact
// @Tags events
// @Param code path string true "Event code"
// @Param contact query string false "Contact to remove"
// @Success 204
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /events/{code} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Remove(c.Request.Context(), currentUser(c), c.Param("code"), deleteOp(c)); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}
