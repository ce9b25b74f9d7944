package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/service"
)

// UserHandler handles account requests
type UserHandler struct {
	auth     service.AuthService
	pictures service.PictureService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(auth service.AuthService, pictures service.PictureService) *UserHandler {
	return &UserHandler{auth: auth, pictures: pictures}
}

// Signup handles POST /users/signup
// @Summary Register an account
// @Description Creates an inactive account and emails a confirmation token
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.SignupRequest true "Signup"
// @Success 201 {object} common.APIResponse{data=domain.User}
// @Failure 400 {object} common.APIResponse
// @Router /users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, user)
}

// Verify handles POST /users/verify
// @Summary Confirm an account
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.VerifyRequest true "Confirmation token"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /users/verify [post]
func (h *UserHandler) Verify(c *gin.Context) {
	var req domain.VerifyRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := h.auth.Verify(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"message": "account verified"})
}

// Login handles POST /users/login
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} common.APIResponse{data=domain.LoginResponse}
// @Failure 400 {object} common.APIResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, resp)
}

// Logout handles POST /users/logout
// @Summary Log out
// @Description Deletes the session token
// @Tags users
// @Success 204
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	common.NoContent(c)
}

// Profile handles GET /users/profile
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, user)
}

// Get handles GET /users/:username
// @Summary Retrieve an account
// @Description Only the account itself may read it
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/{username} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), currentUser(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, user)
}

// Update handles PUT and PATCH /users/:username
// @Summary Update an account and its profile
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body domain.UserUpdateRequest true "Account"
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/{username} [put]
// @Router /users/{username} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	user, err := h.auth.UpdateUser(c.Request.Context(), currentUser(c), c.Param("username"),
		fieldUpdate(c, domain.UserUpdateRequestFrom))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, user)
}

// UploadPicture handles POST /users/profile/picture
// @Summary Upload a profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param picture formData file true "Image file"
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Failure 400 {object} common.APIResponse
// @Failure 503 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/profile/picture [post]
func (h *UserHandler) UploadPicture(c *gin.Context) {
	pic, closeFn, err := formPicture(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	user, err := h.pictures.SetProfilePicture(c.Request.Context(), currentUser(c), pic)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, user)
}
