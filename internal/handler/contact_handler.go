package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/service"
)

// ContactHandler handles contact requests
type ContactHandler struct {
	contacts *service.ResourceService[domain.Contact, *domain.Contact]
	pictures service.PictureService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *service.ResourceService[domain.Contact, *domain.Contact], pictures service.PictureService) *ContactHandler {
	return &ContactHandler{contacts: contacts, pictures: pictures}
}

// List handles GET /contacts
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} common.APIResponse{data=[]domain.Contact,meta=common.Meta}
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	q := listQuery(c)
	items, total, err := h.contacts.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

// Create handles POST /contacts
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body domain.ContactRequest true "Contact"
// @Success 201 {object} common.APIResponse{data=domain.Contact}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req domain.ContactRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	contact := &domain.Contact{}
	if err := req.ApplyTo(contact); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.contacts.Create(c.Request.Context(), currentUser(c), contact)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, created)
}

// Get handles GET /contacts/:code
// @Summary Retrieve a contact
// @Tags contacts
// @Produce json
// @Param code path string true "Contact code"
// @Success 200 {object} common.APIResponse{data=domain.Contact}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts/{code} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contacts.Get(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, contact)
}

// Update handles PUT and PATCH /contacts/:code
// @Summary Update a contact
// @Description PUT replaces every writable field, PATCH only the ones sent
// @Tags contacts
// @Accept json
// @Produce json
// @Param code path string true "Contact code"
// @Param request body domain.ContactRequest true "Contact"
// @Success 200 {object} common.APIResponse{data=domain.Contact}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts/{code} [put]
// @Router /contacts/{code} [patch]
func (h *ContactHandler) Update(c *gin.Context) {
	contact, err := h.contacts.Update(c.Request.Context(), currentUser(c), c.Param("code"),
		fieldUpdate(c, domain.ContactRequestFrom))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, contact)
}

// Delete handles DELETE /contacts/:code
// @Summary Delete a contact
// @Description Removes the contact from every roster it appears on
// @Tags contacts
// @Param code path string true "Contact code"
// @Success 204
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts/{code} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), currentUser(c), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}

// UploadPicture handles POST /contacts/:code/picture
// @Summary Upload a contact picture
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Contact code"
// @Param picture formData file true "Image file"
// @Success 200 {object} common.APIResponse{data=domain.Contact}
// @Failure 400 {object} common.APIResponse
// @Failure 503 {object} common.APIResponse
// @Security BearerAuth
// @Router /contacts/{code}/picture [post]
func (h *ContactHandler) UploadPicture(c *gin.Context) {
	pic, closeFn, err := formPicture(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	contact, err := h.pictures.SetContactPicture(c.Request.Context(), currentUser(c), c.Param("code"), pic)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, contact)
}
