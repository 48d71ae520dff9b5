package menus

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
)

// Handler handles HTTP requests for navigation menus
type Handler struct {
	service *Service
}

// NewHandler creates a new menus handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the website navigation endpoint
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu", h.PublicMenu)
}

// RegisterAdminRoutes mounts the back-office menu endpoints
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu-items", h.ListMenuItems)
	rg.POST("/menu-items", h.CreateMenuItem)
	rg.PUT("/menu-items/:id", h.UpdateMenuItem)
	rg.DELETE("/menu-items/:id", h.DeleteMenuItem)
}

// PublicMenu returns the visible navigation tree
// GET /api/v1/menu
func (h *Handler) PublicMenu(c *gin.Context) {
	tree, err := h.service.PublicMenu(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "Failed to load menu")
		return
	}
	common.SuccessResponse(c, tree)
}

// ListMenuItems returns the flat entry list for the back office
// GET /api/v1/admin/menu-items
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.service.ListMenuItems(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list menu items")
		return
	}
	common.SuccessResponse(c, items)
}

// CreateMenuItem creates a navigation entry
// POST /api/v1/admin/menu-items
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.CreateMenuItem(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create menu item")
		return
	}
	common.CreatedResponse(c, item)
}

// UpdateMenuItem updates a navigation entry
// PUT /api/v1/admin/menu-items/:id
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.UpdateMenuItem(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update menu item")
		return
	}
	common.SuccessResponse(c, item)
}

// DeleteMenuItem removes a navigation entry
// DELETE /api/v1/admin/menu-items/:id
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.DeleteMenuItem(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "Failed to delete menu item")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}
