package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/models"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts unauthenticated auth endpoints
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes mounts endpoints requiring a valid token
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/profile", h.GetProfile)
	rg.PUT("/auth/profile", h.UpdateProfile)
	rg.POST("/auth/change-password", h.ChangePassword)
	rg.POST("/auth/totp/enroll", h.EnrollTOTP)
	rg.POST("/auth/totp/disable", h.DisableTOTP)
}

// Login handles back-office login
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "login failed")
		return
	}

	common.SuccessResponse(c, response)
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/auth/profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get profile")
		return
	}

	common.SuccessResponse(c, user)
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/v1/auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update profile")
		return
	}

	common.SuccessResponse(c, user)
}

// ChangePassword changes the authenticated user's password
// POST /api/v1/auth/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		common.HandleServiceError(c, err, "failed to change password")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "password updated"})
}

// EnrollTOTP starts two-factor enrollment
// POST /api/v1/auth/totp/enroll
func (h *Handler) EnrollTOTP(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollment, err := h.service.EnrollTOTP(c.Request.Context(), userID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to enroll two-factor")
		return
	}

	common.SuccessResponse(c, enrollment)
}

// DisableTOTP removes two-factor after verifying a code
// POST /api/v1/auth/totp/disable
func (h *Handler) DisableTOTP(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DisableTOTP(c.Request.Context(), userID, req.Code); err != nil {
		common.HandleServiceError(c, err, "failed to disable two-factor")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "two-factor disabled"})
}
