package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/middleware"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

const profileImageField = "profileImage"

type AuthHandler struct {
	authService *services.AuthService
	gateway     *media.Gateway
}

func NewAuthHandler(authService *services.AuthService, gateway *media.Gateway) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		gateway:     gateway,
	}
}

// Login handles admin login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// RegisterAdmin creates the single admin account
// POST /api/auth/register-admin
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	if err := h.authService.RegistrationOpen(); err != nil {
		response.Error(c, err)
		return
	}

	var req services.RegisterAdminRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	resp, err := h.authService.RegisterAdmin(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, resp)
}

// UploadProfile replaces the caller's profile picture
// POST /api/auth/upload-profile
func (h *AuthHandler) UploadProfile(c *gin.Context) {
	file, err := c.FormFile(profileImageField)
	if err != nil {
		switch {
		case middleware.IsBodyTooLarge(err):
			response.Error(c, response.NewPayloadTooLarge("request body too large"))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			response.Error(c, response.NewNoFile(profileImageField))
		default:
			response.Error(c, response.NewValidation("invalid multipart form"))
		}
		return
	}

	staged, err := h.gateway.Stage([]*multipart.FileHeader{file})
	if err != nil {
		response.Error(c, err)
		return
	}
	defer staged.Cleanup()

	url, err := h.authService.UploadProfileImage(c.Request.Context(), middleware.GetUserID(c), staged.Paths[0])
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"profileImage": url})
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
