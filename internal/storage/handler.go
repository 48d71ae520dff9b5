package storage

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/middleware"
)

// Handler handles HTTP requests for file uploads
type Handler struct {
	uploader *Uploader
}

// NewHandler creates a new upload handler
func NewHandler(uploader *Uploader) *Handler {
	return &Handler{uploader: uploader}
}

// RegisterRoutes mounts upload endpoints on an authenticated route group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
	rg.DELETE("/uploads", h.Delete)
	rg.GET("/uploads/url", h.DownloadURL)
}

// Upload stores a file for the authenticated user
// POST /api/v1/admin/uploads
func (h *Handler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	category := c.PostForm("category")
	if category == "" {
		category = "misc"
	}

	result, err := h.uploader.Upload(c.Request.Context(), UploadInput{
		Category:    category,
		OwnerID:     userID.String(),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		common.HandleServiceError(c, err, "Failed to store upload")
		return
	}

	common.CreatedResponse(c, result)
}

// Delete removes a stored file by key
// DELETE /api/v1/admin/uploads?key=...
func (h *Handler) Delete(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.uploader.Delete(c.Request.Context(), key); err != nil {
		common.HandleServiceError(c, err, "Failed to delete upload")
		return
	}

	common.SuccessResponse(c, gin.H{"key": key})
}

// DownloadURL returns a time-limited download link for a stored file
// GET /api/v1/admin/uploads/url?key=...&expires_minutes=15
func (h *Handler) DownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "key is required")
		return
	}

	expires := 15 * time.Minute
	if raw := c.Query("expires_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 1 || minutes > 1440 {
			common.ErrorResponse(c, http.StatusBadRequest, "expires_minutes must be between 1 and 1440")
			return
		}
		expires = time.Duration(minutes) * time.Minute
	}

	url, err := h.uploader.PresignedURL(c.Request.Context(), key, expires)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to sign download URL")
		return
	}

	common.SuccessResponse(c, gin.H{"key": key, "url": url, "expires_in": int(expires.Seconds())})
}
