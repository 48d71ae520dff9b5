package payments

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/pagination"
)

// Handler handles HTTP requests for payments
type Handler struct {
	service *Service
}

// NewHandler creates a new payments handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts checkout and callback endpoints
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout", h.CreateCheckout)
	rg.POST("/payments/razorpay/verify", h.VerifyRazorpay)
	rg.POST("/webhooks/stripe", h.StripeWebhook)
}

// RegisterAdminRoutes mounts back-office payment endpoints
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.ListPayments)
	rg.GET("/payments/:id", h.GetPayment)
	rg.POST("/payments/:id/refund", h.RefundPayment)
}

// CreateCheckout starts a gateway payment for an appointment
// POST /api/v1/payments/checkout
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.CreateCheckout(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to start payment")
		return
	}

	common.CreatedResponse(c, resp)
}

// VerifyRazorpay validates the Razorpay checkout callback
// POST /api/v1/payments/razorpay/verify
func (h *Handler) VerifyRazorpay(c *gin.Context) {
	var req VerifyRazorpayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.service.VerifyRazorpayPayment(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to verify payment")
		return
	}

	common.SuccessResponse(c, payment)
}

// StripeWebhook applies Stripe webhook events
// POST /api/v1/webhooks/stripe
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read payload")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleStripeWebhook(c.Request.Context(), payload, sig); err != nil {
		common.HandleServiceError(c, err, "Failed to process webhook")
		return
	}

	c.Status(http.StatusOK)
}

// ListPayments lists payments for the dashboard
// GET /api/v1/admin/payments
func (h *Handler) ListPayments(c *gin.Context) {
	params := pagination.ParseParams(c)

	payments, total, err := h.service.ListPayments(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list payments")
		return
	}

	common.SuccessResponseWithMeta(c, payments, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetPayment retrieves a single payment
// GET /api/v1/admin/payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get payment")
		return
	}

	common.SuccessResponse(c, payment)
}

// RefundPayment refunds a succeeded payment
// POST /api/v1/admin/payments/:id/refund
func (h *Handler) RefundPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.service.RefundPayment(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to refund payment")
		return
	}

	common.SuccessResponse(c, payment)
}
