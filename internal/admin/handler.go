package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/pagination"
)

// Handler handles HTTP requests for back-office administration
type Handler struct {
	service *Service
}

// NewHandler creates a new admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin-only endpoints
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)

	rg.GET("/users", h.ListUsers)
	rg.POST("/users", h.CreateUser)
	rg.GET("/users/:id", h.GetUser)
	rg.POST("/users/:id/activate", h.ActivateUser)
	rg.POST("/users/:id/deactivate", h.DeactivateUser)
	rg.PUT("/users/:id/role", h.ChangeUserRole)

	rg.GET("/audit-logs", h.ListAuditLogs)
}

func adminAndTarget(c *gin.Context) (adminID, targetID uuid.UUID, ok bool) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	targetID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return adminID, targetID, true
}

// GetDashboard returns the landing page counters
// GET /api/v1/admin/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "Failed to load dashboard")
		return
	}
	common.SuccessResponse(c, stats)
}

// ListUsers returns staff accounts
// GET /api/v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	params := pagination.ParseParams(c)
	users, total, err := h.service.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list users")
		return
	}
	common.SuccessResponseWithMeta(c, users, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// CreateUser provisions a staff account
// POST /api/v1/admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.CreateStaffUser(c.Request.Context(), adminID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create user")
		return
	}
	common.CreatedResponse(c, user)
}

// GetUser returns a staff account by ID
// GET /api/v1/admin/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get user")
		return
	}
	common.SuccessResponse(c, user)
}

// ActivateUser re-enables a staff account
// POST /api/v1/admin/users/:id/activate
func (h *Handler) ActivateUser(c *gin.Context) {
	adminID, targetID, ok := adminAndTarget(c)
	if !ok {
		return
	}

	if err := h.service.ActivateUser(c.Request.Context(), adminID, targetID); err != nil {
		common.HandleServiceError(c, err, "Failed to activate user")
		return
	}
	common.SuccessResponse(c, gin.H{"activated": true})
}

// DeactivateUser disables a staff account
// POST /api/v1/admin/users/:id/deactivate
func (h *Handler) DeactivateUser(c *gin.Context) {
	adminID, targetID, ok := adminAndTarget(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateUser(c.Request.Context(), adminID, targetID); err != nil {
		common.HandleServiceError(c, err, "Failed to deactivate user")
		return
	}
	common.SuccessResponse(c, gin.H{"deactivated": true})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin editor counselor"`
}

// ChangeUserRole moves a staff account between roles
// PUT /api/v1/admin/users/:id/role
func (h *Handler) ChangeUserRole(c *gin.Context) {
	adminID, targetID, ok := adminAndTarget(c)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ChangeUserRole(c.Request.Context(), adminID, targetID, models.UserRole(req.Role)); err != nil {
		common.HandleServiceError(c, err, "Failed to change role")
		return
	}
	common.SuccessResponse(c, gin.H{"updated": true})
}

// ListAuditLogs returns the audit trail
// GET /api/v1/admin/audit-logs?action=create_user&target_type=user
func (h *Handler) ListAuditLogs(c *gin.Context) {
	params := pagination.ParseParams(c)

	filter := &AuditLogFilter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
	}
	if raw := c.Query("admin_id"); raw != "" {
		adminID, err := uuid.Parse(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid admin_id filter")
			return
		}
		filter.AdminID = &adminID
	}

	logs, total, err := h.service.ListAuditLogs(c.Request.Context(), params.Limit, params.Offset, filter)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list audit logs")
		return
	}
	common.SuccessResponseWithMeta(c, logs, pagination.BuildMeta(params.Limit, params.Offset, total))
}
