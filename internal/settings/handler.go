package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globalpath/platform/pkg/common"
)

// Handler handles HTTP requests for admin settings
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetAll returns the full resolved settings snapshot
// GET /api/v1/admin/settings
func (h *Handler) GetAll(c *gin.Context) {
	common.SuccessResponse(c, h.service.GetAll(c.Request.Context()))
}

// GetCategory returns one resolved category
// GET /api/v1/admin/settings/:category
func (h *Handler) GetCategory(c *gin.Context) {
	category := Category(c.Param("category"))

	resolved, err := h.service.GetCategory(c.Request.Context(), category)
	if common.HandleServiceError(c, err, "failed to load settings") {
		return
	}

	common.SuccessResponse(c, resolved)
}

// GetOverrides returns the raw persisted rows for one category
// GET /api/v1/admin/settings/:category/overrides
func (h *Handler) GetOverrides(c *gin.Context) {
	category := Category(c.Param("category"))

	rows, err := h.service.ListOverrides(c.Request.Context(), category)
	if common.HandleServiceError(c, err, "failed to load settings") {
		return
	}

	common.SuccessResponse(c, rows)
}

// UpdateCategory overwrites values within one category
// PUT /api/v1/admin/settings/:category
func (h *Handler) UpdateCategory(c *gin.Context) {
	category := Category(c.Param("category"))

	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid settings payload")
		return
	}

	if err := h.service.UpdateCategory(c.Request.Context(), category, values); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "Settings saved successfully"})
}

// ResetKey reverts one key to its default
// DELETE /api/v1/admin/settings/:category/:key
func (h *Handler) ResetKey(c *gin.Context) {
	category := Category(c.Param("category"))
	key := c.Param("key")

	if err := h.service.ResetKey(c.Request.Context(), category, key); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to reset setting")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "Setting reset to default"})
}

// ClearCache forces the next read to hit the store
// POST /api/v1/admin/settings/cache/clear
func (h *Handler) ClearCache(c *gin.Context) {
	h.service.Resolver().ClearCache()
	common.SuccessResponse(c, gin.H{"message": "Settings cache cleared"})
}

// RegisterAdminRoutes registers settings routes on an admin router group
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.GetAll)
		settings.GET("/:category", h.GetCategory)
		settings.GET("/:category/overrides", h.GetOverrides)
		settings.PUT("/:category", h.UpdateCategory)
		settings.DELETE("/:category/:key", h.ResetKey)
		settings.POST("/cache/clear", h.ClearCache)
	}
}
