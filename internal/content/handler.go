package content

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/pagination"
)

// Handler handles HTTP requests for public content
type Handler struct {
	service *Service
}

// NewHandler creates a new content handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the website-facing read endpoints
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/countries", h.ListCountries)
	rg.GET("/countries/:slug", h.GetCountry)
	rg.GET("/countries/:slug/universities", h.ListCountryUniversities)
	rg.GET("/universities/:slug", h.GetUniversity)
	rg.GET("/universities/:slug/programs", h.ListUniversityPrograms)
	rg.GET("/programs/:slug", h.GetProgram)
	rg.GET("/blog", h.ListBlogPosts)
	rg.GET("/blog/:slug", h.GetBlogPost)
}

// RegisterAdminRoutes mounts the back-office CRUD endpoints
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/countries", h.AdminListCountries)
	rg.POST("/countries", h.AdminCreateCountry)
	rg.GET("/countries/:id", h.AdminGetCountry)
	rg.PUT("/countries/:id", h.AdminUpdateCountry)
	rg.DELETE("/countries/:id", h.AdminDeleteCountry)

	rg.GET("/universities", h.AdminListUniversities)
	rg.POST("/universities", h.AdminCreateUniversity)
	rg.GET("/universities/:id", h.AdminGetUniversity)
	rg.PUT("/universities/:id", h.AdminUpdateUniversity)
	rg.DELETE("/universities/:id", h.AdminDeleteUniversity)

	rg.POST("/programs", h.AdminCreateProgram)
	rg.GET("/programs/:id", h.AdminGetProgram)
	rg.PUT("/programs/:id", h.AdminUpdateProgram)
	rg.DELETE("/programs/:id", h.AdminDeleteProgram)

	rg.GET("/blog-posts", h.AdminListBlogPosts)
	rg.POST("/blog-posts", h.AdminCreateBlogPost)
	rg.GET("/blog-posts/:id", h.AdminGetBlogPost)
	rg.PUT("/blog-posts/:id", h.AdminUpdateBlogPost)
	rg.DELETE("/blog-posts/:id", h.AdminDeleteBlogPost)
	rg.POST("/blog-posts/:id/publish", h.AdminPublishBlogPost)
	rg.POST("/blog-posts/:id/unpublish", h.AdminUnpublishBlogPost)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// --- Public ---

// ListCountries returns published study destinations
// GET /api/v1/countries
func (h *Handler) ListCountries(c *gin.Context) {
	params := pagination.ParseParams(c)
	countries, total, err := h.service.ListPublishedCountries(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list countries")
		return
	}
	common.SuccessResponseWithMeta(c, countries, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetCountry returns a published destination page
// GET /api/v1/countries/:slug
func (h *Handler) GetCountry(c *gin.Context) {
	country, err := h.service.GetPublishedCountry(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get country")
		return
	}
	common.SuccessResponse(c, country)
}

// ListCountryUniversities returns a destination's published universities
// GET /api/v1/countries/:slug/universities
func (h *Handler) ListCountryUniversities(c *gin.Context) {
	universities, err := h.service.ListCountryUniversities(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list universities")
		return
	}
	common.SuccessResponse(c, universities)
}

// GetUniversity returns a published university page
// GET /api/v1/universities/:slug
func (h *Handler) GetUniversity(c *gin.Context) {
	university, err := h.service.GetPublishedUniversity(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get university")
		return
	}
	common.SuccessResponse(c, university)
}

// ListUniversityPrograms returns a university's published programs
// GET /api/v1/universities/:slug/programs
func (h *Handler) ListUniversityPrograms(c *gin.Context) {
	programs, err := h.service.ListUniversityPrograms(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list programs")
		return
	}
	common.SuccessResponse(c, programs)
}

// GetProgram returns a published program page
// GET /api/v1/programs/:slug
func (h *Handler) GetProgram(c *gin.Context) {
	program, err := h.service.GetPublishedProgram(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get program")
		return
	}
	common.SuccessResponse(c, program)
}

// ListBlogPosts returns published articles
// GET /api/v1/blog
func (h *Handler) ListBlogPosts(c *gin.Context) {
	params := pagination.ParseParams(c)
	posts, total, err := h.service.ListPublishedBlogPosts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list blog posts")
		return
	}
	common.SuccessResponseWithMeta(c, posts, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetBlogPost returns a published article
// GET /api/v1/blog/:slug
func (h *Handler) GetBlogPost(c *gin.Context) {
	post, err := h.service.GetPublishedBlogPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get blog post")
		return
	}
	common.SuccessResponse(c, post)
}

// --- Admin: countries ---

// AdminListCountries returns all destinations including drafts
// GET /api/v1/admin/countries
func (h *Handler) AdminListCountries(c *gin.Context) {
	params := pagination.ParseParams(c)
	countries, total, err := h.service.ListCountries(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list countries")
		return
	}
	common.SuccessResponseWithMeta(c, countries, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// AdminCreateCountry creates a destination page
// POST /api/v1/admin/countries
func (h *Handler) AdminCreateCountry(c *gin.Context) {
	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	country, err := h.service.CreateCountry(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create country")
		return
	}
	common.CreatedResponse(c, country)
}

// AdminGetCountry returns a destination by ID
// GET /api/v1/admin/countries/:id
func (h *Handler) AdminGetCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	country, err := h.service.GetCountry(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get country")
		return
	}
	common.SuccessResponse(c, country)
}

// AdminUpdateCountry updates a destination page
// PUT /api/v1/admin/countries/:id
func (h *Handler) AdminUpdateCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	country, err := h.service.UpdateCountry(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update country")
		return
	}
	common.SuccessResponse(c, country)
}

// AdminDeleteCountry removes a destination page
// DELETE /api/v1/admin/countries/:id
func (h *Handler) AdminDeleteCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCountry(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "Failed to delete country")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// --- Admin: universities ---

// AdminListUniversities returns all universities including drafts
// GET /api/v1/admin/universities
func (h *Handler) AdminListUniversities(c *gin.Context) {
	params := pagination.ParseParams(c)
	universities, total, err := h.service.ListUniversities(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list universities")
		return
	}
	common.SuccessResponseWithMeta(c, universities, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// AdminCreateUniversity creates a university
// POST /api/v1/admin/universities
func (h *Handler) AdminCreateUniversity(c *gin.Context) {
	var req UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	university, err := h.service.CreateUniversity(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create university")
		return
	}
	common.CreatedResponse(c, university)
}

// AdminGetUniversity returns a university by ID
// GET /api/v1/admin/universities/:id
func (h *Handler) AdminGetUniversity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	university, err := h.service.GetUniversity(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get university")
		return
	}
	common.SuccessResponse(c, university)
}

// AdminUpdateUniversity updates a university
// PUT /api/v1/admin/universities/:id
func (h *Handler) AdminUpdateUniversity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	university, err := h.service.UpdateUniversity(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update university")
		return
	}
	common.SuccessResponse(c, university)
}

// AdminDeleteUniversity removes a university
// DELETE /api/v1/admin/universities/:id
func (h *Handler) AdminDeleteUniversity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUniversity(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "Failed to delete university")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// --- Admin: programs ---

// AdminCreateProgram creates a program
// POST /api/v1/admin/programs
func (h *Handler) AdminCreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	program, err := h.service.CreateProgram(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create program")
		return
	}
	common.CreatedResponse(c, program)
}

// AdminGetProgram returns a program by ID
// GET /api/v1/admin/programs/:id
func (h *Handler) AdminGetProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	program, err := h.service.GetProgram(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get program")
		return
	}
	common.SuccessResponse(c, program)
}

// AdminUpdateProgram updates a program
// PUT /api/v1/admin/programs/:id
func (h *Handler) AdminUpdateProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	program, err := h.service.UpdateProgram(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update program")
		return
	}
	common.SuccessResponse(c, program)
}

// AdminDeleteProgram removes a program
// DELETE /api/v1/admin/programs/:id
func (h *Handler) AdminDeleteProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProgram(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "Failed to delete program")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// --- Admin: blog posts ---

// AdminListBlogPosts returns all articles including drafts
// GET /api/v1/admin/blog-posts
func (h *Handler) AdminListBlogPosts(c *gin.Context) {
	params := pagination.ParseParams(c)
	posts, total, err := h.service.ListBlogPosts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to list blog posts")
		return
	}
	common.SuccessResponseWithMeta(c, posts, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// AdminCreateBlogPost creates a draft article
// POST /api/v1/admin/blog-posts
func (h *Handler) AdminCreateBlogPost(c *gin.Context) {
	authorID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.CreateBlogPost(c.Request.Context(), authorID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to create blog post")
		return
	}
	common.CreatedResponse(c, post)
}

// AdminGetBlogPost returns an article by ID
// GET /api/v1/admin/blog-posts/:id
func (h *Handler) AdminGetBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.service.GetBlogPost(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to get blog post")
		return
	}
	common.SuccessResponse(c, post)
}

// AdminUpdateBlogPost updates an article
// PUT /api/v1/admin/blog-posts/:id
func (h *Handler) AdminUpdateBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.UpdateBlogPost(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to update blog post")
		return
	}
	common.SuccessResponse(c, post)
}

// AdminDeleteBlogPost removes an article
// DELETE /api/v1/admin/blog-posts/:id
func (h *Handler) AdminDeleteBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBlogPost(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "Failed to delete blog post")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// AdminPublishBlogPost makes an article live
// POST /api/v1/admin/blog-posts/:id/publish
func (h *Handler) AdminPublishBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.service.PublishBlogPost(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to publish blog post")
		return
	}
	common.SuccessResponse(c, post)
}

// AdminUnpublishBlogPost takes an article offline
// POST /api/v1/admin/blog-posts/:id/unpublish
func (h *Handler) AdminUnpublishBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.service.UnpublishBlogPost(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "Failed to unpublish blog post")
		return
	}
	common.SuccessResponse(c, post)
}
