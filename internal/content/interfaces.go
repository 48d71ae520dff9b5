package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for content repository operations
type RepositoryInterface interface {
	// Countries (study destinations)
	CreateCountry(ctx context.Context, country *models.Country) error
	GetCountryByID(ctx context.Context, id uuid.UUID) (*models.Country, error)
	GetCountryBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Country, error)
	ListCountries(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.Country, int64, error)
	UpdateCountry(ctx context.Context, country *models.Country) error
	DeleteCountry(ctx context.Context, id uuid.UUID) error

	// Universities
	CreateUniversity(ctx context.Context, university *models.University) error
	GetUniversityByID(ctx context.Context, id uuid.UUID) (*models.University, error)
	GetUniversityBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.University, error)
	ListUniversitiesByCountry(ctx context.Context, countryID uuid.UUID, publishedOnly bool) ([]*models.University, error)
	ListUniversities(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.University, int64, error)
	UpdateUniversity(ctx context.Context, university *models.University) error
	DeleteUniversity(ctx context.Context, id uuid.UUID) error

	// Programs
	CreateProgram(ctx context.Context, program *models.Program) error
	GetProgramByID(ctx context.Context, id uuid.UUID) (*models.Program, error)
	GetProgramBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Program, error)
	ListProgramsByUniversity(ctx context.Context, universityID uuid.UUID, publishedOnly bool) ([]*models.Program, error)
	UpdateProgram(ctx context.Context, program *models.Program) error
	DeleteProgram(ctx context.Context, id uuid.UUID) error

	// Blog posts
	CreateBlogPost(ctx context.Context, post *models.BlogPost) error
	GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	ListBlogPosts(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.BlogPost, int64, error)
	UpdateBlogPost(ctx context.Context, post *models.BlogPost) error
	DeleteBlogPost(ctx context.Context, id uuid.UUID) error
}

// EventPublisher publishes content lifecycle events
type EventPublisher interface {
	PublishContentPublished(ctx context.Context, contentType string, contentID uuid.UUID, slug, title string)
}
