package content

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/cache"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/tracing"
	"github.com/globalpath/platform/pkg/validation"
)

// Service handles content business logic. Public reads go through the
// redis cache when one is attached; admin writes invalidate the
// affected keys so published pages refresh within a request.
type Service struct {
	repo   RepositoryInterface
	cache  *cache.Manager
	events EventPublisher
}

// NewService creates a new content service
func NewService(repo RepositoryInterface, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

// SetCache attaches an optional cache manager for public reads.
func (s *Service) SetCache(cm *cache.Manager) {
	s.cache = cm
}

// Slugify converts a display name into a URL slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// checkExplicitSlug rejects hand-entered slugs that would not survive a URL.
// Empty means "derive from the name" and is always fine.
func checkExplicitSlug(slug string) error {
	if slug == "" {
		return nil
	}
	if !validation.ValidateSlug(slug) {
		return common.NewValidationError("slug may contain only lowercase letters, digits and dashes")
	}
	return nil
}

// --- Public reads ---

// ListPublishedCountries returns published destinations ordered by position.
func (s *Service) ListPublishedCountries(ctx context.Context, limit, offset int) ([]*models.Country, int64, error) {
	if s.cache != nil && offset == 0 {
		var cached []*models.Country
		err := s.cache.GetOrSet(ctx, cache.Keys.CountryList(), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			countries, _, err := s.repo.ListCountries(ctx, limit, offset, true)
			return countries, err
		})
		if err == nil {
			return cached, int64(len(cached)), nil
		}
	}
	return s.repo.ListCountries(ctx, limit, offset, true)
}

// GetPublishedCountry returns a published destination page by slug.
func (s *Service) GetPublishedCountry(ctx context.Context, slug string) (*models.Country, error) {
	tracing.AddSpanAttributes(ctx, tracing.ContentAttributes("country", slug)...)
	if s.cache != nil {
		var cached models.Country
		err := s.cache.GetOrSet(ctx, cache.Keys.Country(slug), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			return s.repo.GetCountryBySlug(ctx, slug, true)
		})
		if err == nil {
			return &cached, nil
		}
	}
	return s.repo.GetCountryBySlug(ctx, slug, true)
}

// ListCountryUniversities returns a published country's published universities.
func (s *Service) ListCountryUniversities(ctx context.Context, countrySlug string) ([]*models.University, error) {
	country, err := s.repo.GetCountryBySlug(ctx, countrySlug, true)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []*models.University
		err := s.cache.GetOrSet(ctx, cache.Keys.UniversityList(countrySlug), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			return s.repo.ListUniversitiesByCountry(ctx, country.ID, true)
		})
		if err == nil {
			return cached, nil
		}
	}
	return s.repo.ListUniversitiesByCountry(ctx, country.ID, true)
}

// GetPublishedUniversity returns a published university page by slug.
func (s *Service) GetPublishedUniversity(ctx context.Context, slug string) (*models.University, error) {
	if s.cache != nil {
		var cached models.University
		err := s.cache.GetOrSet(ctx, cache.Keys.University(slug), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			return s.repo.GetUniversityBySlug(ctx, slug, true)
		})
		if err == nil {
			return &cached, nil
		}
	}
	return s.repo.GetUniversityBySlug(ctx, slug, true)
}

// ListUniversityPrograms returns a published university's published programs.
func (s *Service) ListUniversityPrograms(ctx context.Context, universitySlug string) ([]*models.Program, error) {
	university, err := s.GetPublishedUniversity(ctx, universitySlug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProgramsByUniversity(ctx, university.ID, true)
}

// GetPublishedProgram returns a published program page by slug.
func (s *Service) GetPublishedProgram(ctx context.Context, slug string) (*models.Program, error) {
	if s.cache != nil {
		var cached models.Program
		err := s.cache.GetOrSet(ctx, cache.Keys.Program(slug), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			return s.repo.GetProgramBySlug(ctx, slug, true)
		})
		if err == nil {
			return &cached, nil
		}
	}
	return s.repo.GetProgramBySlug(ctx, slug, true)
}

// ListPublishedBlogPosts returns published articles newest first.
func (s *Service) ListPublishedBlogPosts(ctx context.Context, limit, offset int) ([]*models.BlogPost, int64, error) {
	return s.repo.ListBlogPosts(ctx, limit, offset, true)
}

// GetPublishedBlogPost returns a published article by slug.
func (s *Service) GetPublishedBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	if s.cache != nil {
		var cached models.BlogPost
		err := s.cache.GetOrSet(ctx, cache.Keys.BlogPost(slug), cache.TTL.Medium(), &cached, func() (interface{}, error) {
			return s.repo.GetBlogPostBySlug(ctx, slug, true)
		})
		if err == nil {
			return &cached, nil
		}
	}
	return s.repo.GetBlogPostBySlug(ctx, slug, true)
}

// --- Admin: countries ---

// CountryRequest is the admin payload for create/update of a destination.
type CountryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Slug         string  `json:"slug"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
	FlagImageURL *string `json:"flag_image_url"`
	HeroImageURL *string `json:"hero_image_url"`
	IsPublished  bool    `json:"is_published"`
	Position     int     `json:"position"`
}

func (req *CountryRequest) toModel() *models.Country {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	return &models.Country{
		Name:         req.Name,
		Slug:         slug,
		Summary:      req.Summary,
		Description:  req.Description,
		FlagImageURL: req.FlagImageURL,
		HeroImageURL: req.HeroImageURL,
		IsPublished:  req.IsPublished,
		Position:     req.Position,
	}
}

// CreateCountry creates a destination page.
func (s *Service) CreateCountry(ctx context.Context, req *CountryRequest) (*models.Country, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	country := req.toModel()
	if err := s.repo.CreateCountry(ctx, country); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.Keys.CountryList())
	if country.IsPublished {
		s.events.PublishContentPublished(ctx, "country", country.ID, country.Slug, country.Name)
	}
	return country, nil
}

// ListCountries returns all destinations for the back office.
func (s *Service) ListCountries(ctx context.Context, limit, offset int) ([]*models.Country, int64, error) {
	return s.repo.ListCountries(ctx, limit, offset, false)
}

// GetCountry returns a destination by ID regardless of publish state.
func (s *Service) GetCountry(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	return s.repo.GetCountryByID(ctx, id)
}

// UpdateCountry updates a destination page.
func (s *Service) UpdateCountry(ctx context.Context, id uuid.UUID, req *CountryRequest) (*models.Country, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetCountryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	country := req.toModel()
	country.ID = id
	if err := s.repo.UpdateCountry(ctx, country); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.Keys.CountryList(), cache.Keys.Country(existing.Slug), cache.Keys.Country(country.Slug), cache.Keys.UniversityList(existing.Slug))
	if !existing.IsPublished && country.IsPublished {
		s.events.PublishContentPublished(ctx, "country", country.ID, country.Slug, country.Name)
	}
	return country, nil
}

// DeleteCountry removes a destination page.
func (s *Service) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetCountryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCountry(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.Keys.CountryList(), cache.Keys.Country(existing.Slug), cache.Keys.UniversityList(existing.Slug))
	return nil
}

// --- Admin: universities ---

// UniversityRequest is the admin payload for create/update of a university.
type UniversityRequest struct {
	CountryID   uuid.UUID `json:"country_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Slug        string    `json:"slug"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	Website     *string   `json:"website"`
	LogoURL     *string   `json:"logo_url"`
	Ranking     *int      `json:"ranking"`
	IsPublished bool      `json:"is_published"`
}

func (req *UniversityRequest) toModel() *models.University {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	return &models.University{
		CountryID:   req.CountryID,
		Name:        req.Name,
		Slug:        slug,
		City:        req.City,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		Ranking:     req.Ranking,
		IsPublished: req.IsPublished,
	}
}

// CreateUniversity creates a university under a destination.
func (s *Service) CreateUniversity(ctx context.Context, req *UniversityRequest) (*models.University, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	country, err := s.repo.GetCountryByID(ctx, req.CountryID)
	if err != nil {
		return nil, err
	}

	university := req.toModel()
	if err := s.repo.CreateUniversity(ctx, university); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.Keys.UniversityList(country.Slug))
	if university.IsPublished {
		s.events.PublishContentPublished(ctx, "university", university.ID, university.Slug, university.Name)
	}
	return university, nil
}

// ListUniversities returns all universities for the back office.
func (s *Service) ListUniversities(ctx context.Context, limit, offset int) ([]*models.University, int64, error) {
	return s.repo.ListUniversities(ctx, limit, offset, false)
}

// GetUniversity returns a university by ID regardless of publish state.
func (s *Service) GetUniversity(ctx context.Context, id uuid.UUID) (*models.University, error) {
	return s.repo.GetUniversityByID(ctx, id)
}

// UpdateUniversity updates a university.
func (s *Service) UpdateUniversity(ctx context.Context, id uuid.UUID, req *UniversityRequest) (*models.University, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetUniversityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	university := req.toModel()
	university.ID = id
	if err := s.repo.UpdateUniversity(ctx, university); err != nil {
		return nil, err
	}

	keys := []string{cache.Keys.University(existing.Slug), cache.Keys.University(university.Slug)}
	if country, err := s.repo.GetCountryByID(ctx, university.CountryID); err == nil {
		keys = append(keys, cache.Keys.UniversityList(country.Slug))
	}
	s.invalidate(ctx, keys...)

	if !existing.IsPublished && university.IsPublished {
		s.events.PublishContentPublished(ctx, "university", university.ID, university.Slug, university.Name)
	}
	return university, nil
}

// DeleteUniversity removes a university.
func (s *Service) DeleteUniversity(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetUniversityByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteUniversity(ctx, id); err != nil {
		return err
	}

	keys := []string{cache.Keys.University(existing.Slug)}
	if country, err := s.repo.GetCountryByID(ctx, existing.CountryID); err == nil {
		keys = append(keys, cache.Keys.UniversityList(country.Slug))
	}
	s.invalidate(ctx, keys...)
	return nil
}

// --- Admin: programs ---

// ProgramRequest is the admin payload for create/update of a program.
type ProgramRequest struct {
	UniversityID uuid.UUID `json:"university_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Slug         string    `json:"slug"`
	Level        string    `json:"level" binding:"required,oneof=bachelor master phd diploma"`
	DurationText string    `json:"duration_text"`
	TuitionText  string    `json:"tuition_text"`
	Description  string    `json:"description"`
	BrochureURL  *string   `json:"brochure_url"`
	IsPublished  bool      `json:"is_published"`
}

func (req *ProgramRequest) toModel() *models.Program {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	return &models.Program{
		UniversityID: req.UniversityID,
		Name:         req.Name,
		Slug:         slug,
		Level:        req.Level,
		DurationText: req.DurationText,
		TuitionText:  req.TuitionText,
		Description:  req.Description,
		BrochureURL:  req.BrochureURL,
		IsPublished:  req.IsPublished,
	}
}

// CreateProgram creates a program under a university.
func (s *Service) CreateProgram(ctx context.Context, req *ProgramRequest) (*models.Program, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUniversityByID(ctx, req.UniversityID); err != nil {
		return nil, err
	}

	program := req.toModel()
	if err := s.repo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	if program.IsPublished {
		s.events.PublishContentPublished(ctx, "program", program.ID, program.Slug, program.Name)
	}
	return program, nil
}

// GetProgram returns a program by ID regardless of publish state.
func (s *Service) GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	return s.repo.GetProgramByID(ctx, id)
}

// UpdateProgram updates a program.
func (s *Service) UpdateProgram(ctx context.Context, id uuid.UUID, req *ProgramRequest) (*models.Program, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetProgramByID(ctx, id)
	if err != nil {
		return nil, err
	}

	program := req.toModel()
	program.ID = id
	if err := s.repo.UpdateProgram(ctx, program); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.Keys.Program(existing.Slug), cache.Keys.Program(program.Slug))
	if !existing.IsPublished && program.IsPublished {
		s.events.PublishContentPublished(ctx, "program", program.ID, program.Slug, program.Name)
	}
	return program, nil
}

// DeleteProgram removes a program.
func (s *Service) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetProgramByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProgram(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.Keys.Program(existing.Slug))
	return nil
}

// --- Admin: blog posts ---

// BlogPostRequest is the admin payload for create/update of an article.
type BlogPostRequest struct {
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt"`
	Body          string   `json:"body" binding:"required"`
	CoverImageURL *string  `json:"cover_image_url"`
	Tags          []string `json:"tags"`
}

// CreateBlogPost creates a draft article owned by the calling admin.
func (s *Service) CreateBlogPost(ctx context.Context, authorID uuid.UUID, req *BlogPostRequest) (*models.BlogPost, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}

	post := &models.BlogPost{
		AuthorID:      authorID,
		Title:         req.Title,
		Slug:          slug,
		Excerpt:       req.Excerpt,
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
		Tags:          req.Tags,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if err := s.repo.CreateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListBlogPosts returns all articles for the back office.
func (s *Service) ListBlogPosts(ctx context.Context, limit, offset int) ([]*models.BlogPost, int64, error) {
	return s.repo.ListBlogPosts(ctx, limit, offset, false)
}

// GetBlogPost returns an article by ID regardless of publish state.
func (s *Service) GetBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return s.repo.GetBlogPostByID(ctx, id)
}

// UpdateBlogPost updates an article, preserving its publish state.
func (s *Service) UpdateBlogPost(ctx context.Context, id uuid.UUID, req *BlogPostRequest) (*models.BlogPost, error) {
	if err := checkExplicitSlug(req.Slug); err != nil {
		return nil, err
	}
	post, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := post.Slug
	post.Title = req.Title
	post.Excerpt = req.Excerpt
	post.Body = req.Body
	post.CoverImageURL = req.CoverImageURL
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Slug != "" {
		post.Slug = req.Slug
	}

	if err := s.repo.UpdateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.Keys.BlogPost(oldSlug), cache.Keys.BlogPost(post.Slug))
	return post, nil
}

// PublishBlogPost makes an article live and announces it.
func (s *Service) PublishBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsPublished {
		return post, nil
	}

	now := time.Now().UTC()
	post.IsPublished = true
	post.PublishedAt = &now
	if err := s.repo.UpdateBlogPost(ctx, post); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.Keys.BlogPost(post.Slug))
	s.events.PublishContentPublished(ctx, "blog_post", post.ID, post.Slug, post.Title)
	return post, nil
}

// UnpublishBlogPost takes an article offline.
func (s *Service) UnpublishBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return post, nil
	}

	post.IsPublished = false
	if err := s.repo.UpdateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.Keys.BlogPost(post.Slug))
	return post, nil
}

// DeleteBlogPost removes an article.
func (s *Service) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBlogPost(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.Keys.BlogPost(existing.Slug))
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil || len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate content cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}
