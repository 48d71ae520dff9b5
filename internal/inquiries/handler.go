package inquiries

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/pagination"
)

// Handler handles HTTP requests for inquiries
type Handler struct {
	service *Service
}

// NewHandler creates a new inquiries handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the contact-form endpoint
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiries", h.SubmitInquiry)
}

// RegisterAdminRoutes mounts the back-office triage endpoints
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/inquiries", h.ListInquiries)
	rg.GET("/inquiries/:id", h.GetInquiry)
	rg.POST("/inquiries/:id/respond", h.MarkResponded)
	rg.POST("/inquiries/:id/archive", h.Archive)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// SubmitInquiry records a contact-form submission
// POST /api/v1/inquiries
func (h *Handler) SubmitInquiry(c *gin.Context) {
	var req models.SubmitInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	inquiry, err := h.service.SubmitInquiry(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to submit inquiry")
		return
	}
	common.CreatedResponse(c, inquiry)
}

// ListInquiries lists submissions for the back office
// GET /api/v1/admin/inquiries?status=new
func (h *Handler) ListInquiries(c *gin.Context) {
	params := pagination.ParseParams(c)

	var status *models.InquiryStatus
	if raw := c.Query("status"); raw != "" {
		st := models.InquiryStatus(raw)
		switch st {
		case models.InquiryNew, models.InquiryResponded, models.InquiryArchived:
			status = &st
		default:
			common.ErrorResponse(c, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	inquiries, total, err := h.service.ListInquiries(c.Request.Context(), params.Limit, params.Offset, status)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list inquiries")
		return
	}
	common.SuccessResponseWithMeta(c, inquiries, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetInquiry returns a submission by ID
// GET /api/v1/admin/inquiries/:id
func (h *Handler) GetInquiry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	inquiry, err := h.service.GetInquiry(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get inquiry")
		return
	}
	common.SuccessResponse(c, inquiry)
}

// MarkResponded flags a submission as answered, optionally emailing a reply
// POST /api/v1/admin/inquiries/:id/respond
func (h *Handler) MarkResponded(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Body is optional: an empty request just changes the status.
	var reply *ReplyRequest
	if c.Request.ContentLength > 0 {
		var req ReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid reply body")
			return
		}
		reply = &req
	}

	inquiry, err := h.service.MarkResponded(c.Request.Context(), id, reply)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update inquiry")
		return
	}
	common.SuccessResponse(c, inquiry)
}

// Archive moves a submission out of the triage queue
// POST /api/v1/admin/inquiries/:id/archive
func (h *Handler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	inquiry, err := h.service.Archive(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to archive inquiry")
		return
	}
	common.SuccessResponse(c, inquiry)
}
