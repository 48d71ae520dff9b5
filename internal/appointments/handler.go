package appointments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/pagination"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the website booking endpoint
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments", h.BookAppointment)
}

// RegisterAdminRoutes mounts the back-office appointment endpoints
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.ListAppointments)
	rg.GET("/appointments/:id", h.GetAppointment)
	rg.POST("/appointments/:id/confirm", h.ConfirmAppointment)
	rg.POST("/appointments/:id/complete", h.CompleteAppointment)
	rg.POST("/appointments/:id/cancel", h.CancelAppointment)
	rg.POST("/appointments/:id/assign", h.AssignAppointment)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// BookAppointment records a public consultation booking
// POST /api/v1/appointments
func (h *Handler) BookAppointment(c *gin.Context) {
	var req models.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	appointment, err := h.service.BookAppointment(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to book appointment")
		return
	}
	common.CreatedResponse(c, appointment)
}

// ListAppointments lists bookings for the back office
// GET /api/v1/admin/appointments?status=pending
func (h *Handler) ListAppointments(c *gin.Context) {
	params := pagination.ParseParams(c)

	var status *models.AppointmentStatus
	if raw := c.Query("status"); raw != "" {
		st := models.AppointmentStatus(raw)
		switch st {
		case models.AppointmentPending, models.AppointmentConfirmed,
			models.AppointmentCompleted, models.AppointmentCancelled:
			status = &st
		default:
			common.ErrorResponse(c, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	appointments, total, err := h.service.ListAppointments(c.Request.Context(), params.Limit, params.Offset, status)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list appointments")
		return
	}
	common.SuccessResponseWithMeta(c, appointments, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetAppointment returns a booking by ID
// GET /api/v1/admin/appointments/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get appointment")
		return
	}
	common.SuccessResponse(c, appointment)
}

type confirmRequest struct {
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// ConfirmAppointment confirms a pending booking
// POST /api/v1/admin/appointments/:id/confirm
func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req confirmRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	appointment, err := h.service.ConfirmAppointment(c.Request.Context(), id, req.AssignedTo)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to confirm appointment")
		return
	}
	common.SuccessResponse(c, appointment)
}

// CompleteAppointment marks a confirmed booking as completed
// POST /api/v1/admin/appointments/:id/complete
func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	appointment, err := h.service.CompleteAppointment(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to complete appointment")
		return
	}
	common.SuccessResponse(c, appointment)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelAppointment cancels a booking with a reason
// POST /api/v1/admin/appointments/:id/cancel
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "a cancellation reason is required")
		return
	}

	appointment, err := h.service.CancelAppointment(c.Request.Context(), id, req.Reason)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to cancel appointment")
		return
	}
	common.SuccessResponse(c, appointment)
}

type assignRequest struct {
	CounselorID uuid.UUID `json:"counselor_id" binding:"required"`
}

// AssignAppointment assigns a counselor to a booking
// POST /api/v1/admin/appointments/:id/assign
func (h *Handler) AssignAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "counselor_id is required")
		return
	}

	appointment, err := h.service.AssignAppointment(c.Request.Context(), id, req.CounselorID)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to assign appointment")
		return
	}
	common.SuccessResponse(c, appointment)
}
