package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
)

// Repository handles database operations for public content
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new content repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Countries ---

const countryColumns = `id, name, slug, summary, description, flag_image_url,
	hero_image_url, is_published, position, created_at, updated_at`

// CreateCountry inserts a new study destination
func (r *Repository) CreateCountry(ctx context.Context, country *models.Country) error {
	query := `
		INSERT INTO countries (id, name, slug, summary, description, flag_image_url,
			hero_image_url, is_published, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	country.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		country.ID, country.Name, country.Slug, country.Summary, country.Description,
		country.FlagImageURL, country.HeroImageURL, country.IsPublished, country.Position,
	).Scan(&country.CreatedAt, &country.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a country with slug %q already exists", country.Slug))
		}
		return common.NewInternalError("failed to create country", err)
	}
	return nil
}

// GetCountryByID retrieves a country by ID
func (r *Repository) GetCountryByID(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM countries WHERE id = $1`, countryColumns)
	return r.scanCountry(r.db.QueryRow(ctx, query, id))
}

// GetCountryBySlug retrieves a country by slug
func (r *Repository) GetCountryBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM countries WHERE slug = $1`, countryColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	return r.scanCountry(r.db.QueryRow(ctx, query, slug))
}

// ListCountries lists countries ordered by position
func (r *Repository) ListCountries(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.Country, int64, error) {
	whereClause := ""
	if publishedOnly {
		whereClause = "WHERE is_published = true"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM countries %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count countries", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM countries %s
		ORDER BY position, name
		LIMIT $1 OFFSET $2`, countryColumns, whereClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list countries", err)
	}
	defer rows.Close()

	countries := make([]*models.Country, 0)
	for rows.Next() {
		country, err := r.scanCountry(rows)
		if err != nil {
			return nil, 0, err
		}
		countries = append(countries, country)
	}
	return countries, total, nil
}

// UpdateCountry updates a country row
func (r *Repository) UpdateCountry(ctx context.Context, country *models.Country) error {
	query := `
		UPDATE countries
		SET name = $2, slug = $3, summary = $4, description = $5, flag_image_url = $6,
			hero_image_url = $7, is_published = $8, position = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		country.ID, country.Name, country.Slug, country.Summary, country.Description,
		country.FlagImageURL, country.HeroImageURL, country.IsPublished, country.Position,
	).Scan(&country.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("country not found", err)
		}
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a country with slug %q already exists", country.Slug))
		}
		return common.NewInternalError("failed to update country", err)
	}
	return nil
}

// DeleteCountry removes a country and cascades to its universities
func (r *Repository) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to delete country", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("country not found", nil)
	}
	return nil
}

func (r *Repository) scanCountry(row rowScanner) (*models.Country, error) {
	country := &models.Country{}
	err := row.Scan(
		&country.ID, &country.Name, &country.Slug, &country.Summary, &country.Description,
		&country.FlagImageURL, &country.HeroImageURL, &country.IsPublished, &country.Position,
		&country.CreatedAt, &country.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("country not found", err)
		}
		return nil, common.NewInternalError("failed to scan country", err)
	}
	return country, nil
}

// --- Universities ---

const universityColumns = `id, country_id, name, slug, city, description, website,
	logo_url, ranking, is_published, created_at, updated_at`

// CreateUniversity inserts a new partner university
func (r *Repository) CreateUniversity(ctx context.Context, university *models.University) error {
	query := `
		INSERT INTO universities (id, country_id, name, slug, city, description,
			website, logo_url, ranking, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	university.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		university.ID, university.CountryID, university.Name, university.Slug,
		university.City, university.Description, university.Website, university.LogoURL,
		university.Ranking, university.IsPublished,
	).Scan(&university.CreatedAt, &university.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a university with slug %q already exists", university.Slug))
		}
		return common.NewInternalError("failed to create university", err)
	}
	return nil
}

// GetUniversityByID retrieves a university by ID
func (r *Repository) GetUniversityByID(ctx context.Context, id uuid.UUID) (*models.University, error) {
	query := fmt.Sprintf(`SELECT %s FROM universities WHERE id = $1`, universityColumns)
	return r.scanUniversity(r.db.QueryRow(ctx, query, id))
}

// GetUniversityBySlug retrieves a university by slug
func (r *Repository) GetUniversityBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.University, error) {
	query := fmt.Sprintf(`SELECT %s FROM universities WHERE slug = $1`, universityColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	return r.scanUniversity(r.db.QueryRow(ctx, query, slug))
}

// ListUniversitiesByCountry lists a country's universities ordered by ranking
func (r *Repository) ListUniversitiesByCountry(ctx context.Context, countryID uuid.UUID, publishedOnly bool) ([]*models.University, error) {
	query := fmt.Sprintf(`SELECT %s FROM universities WHERE country_id = $1`, universityColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	query += ` ORDER BY ranking NULLS LAST, name`

	rows, err := r.db.Query(ctx, query, countryID)
	if err != nil {
		return nil, common.NewInternalError("failed to list universities", err)
	}
	defer rows.Close()

	universities := make([]*models.University, 0)
	for rows.Next() {
		university, err := r.scanUniversity(rows)
		if err != nil {
			return nil, err
		}
		universities = append(universities, university)
	}
	return universities, nil
}

// ListUniversities lists universities with pagination
func (r *Repository) ListUniversities(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.University, int64, error) {
	whereClause := ""
	if publishedOnly {
		whereClause = "WHERE is_published = true"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM universities %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count universities", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM universities %s
		ORDER BY name
		LIMIT $1 OFFSET $2`, universityColumns, whereClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list universities", err)
	}
	defer rows.Close()

	universities := make([]*models.University, 0)
	for rows.Next() {
		university, err := r.scanUniversity(rows)
		if err != nil {
			return nil, 0, err
		}
		universities = append(universities, university)
	}
	return universities, total, nil
}

// UpdateUniversity updates a university row
func (r *Repository) UpdateUniversity(ctx context.Context, university *models.University) error {
	query := `
		UPDATE universities
		SET country_id = $2, name = $3, slug = $4, city = $5, description = $6,
			website = $7, logo_url = $8, ranking = $9, is_published = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		university.ID, university.CountryID, university.Name, university.Slug,
		university.City, university.Description, university.Website, university.LogoURL,
		university.Ranking, university.IsPublished,
	).Scan(&university.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("university not found", err)
		}
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a university with slug %q already exists", university.Slug))
		}
		return common.NewInternalError("failed to update university", err)
	}
	return nil
}

// DeleteUniversity removes a university and cascades to its programs
func (r *Repository) DeleteUniversity(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM universities WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to delete university", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("university not found", nil)
	}
	return nil
}

func (r *Repository) scanUniversity(row rowScanner) (*models.University, error) {
	university := &models.University{}
	err := row.Scan(
		&university.ID, &university.CountryID, &university.Name, &university.Slug,
		&university.City, &university.Description, &university.Website, &university.LogoURL,
		&university.Ranking, &university.IsPublished, &university.CreatedAt, &university.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("university not found", err)
		}
		return nil, common.NewInternalError("failed to scan university", err)
	}
	return university, nil
}

// --- Programs ---

const programColumns = `id, university_id, name, slug, level, duration_text,
	tuition_text, description, brochure_url, is_published, created_at, updated_at`

// CreateProgram inserts a new study program
func (r *Repository) CreateProgram(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (id, university_id, name, slug, level, duration_text,
			tuition_text, description, brochure_url, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	program.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		program.ID, program.UniversityID, program.Name, program.Slug, program.Level,
		program.DurationText, program.TuitionText, program.Description,
		program.BrochureURL, program.IsPublished,
	).Scan(&program.CreatedAt, &program.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a program with slug %q already exists", program.Slug))
		}
		return common.NewInternalError("failed to create program", err)
	}
	return nil
}

// GetProgramByID retrieves a program by ID
func (r *Repository) GetProgramByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	query := fmt.Sprintf(`SELECT %s FROM programs WHERE id = $1`, programColumns)
	return r.scanProgram(r.db.QueryRow(ctx, query, id))
}

// GetProgramBySlug retrieves a program by slug
func (r *Repository) GetProgramBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Program, error) {
	query := fmt.Sprintf(`SELECT %s FROM programs WHERE slug = $1`, programColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	return r.scanProgram(r.db.QueryRow(ctx, query, slug))
}

// ListProgramsByUniversity lists a university's programs
func (r *Repository) ListProgramsByUniversity(ctx context.Context, universityID uuid.UUID, publishedOnly bool) ([]*models.Program, error) {
	query := fmt.Sprintf(`SELECT %s FROM programs WHERE university_id = $1`, programColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	query += ` ORDER BY level, name`

	rows, err := r.db.Query(ctx, query, universityID)
	if err != nil {
		return nil, common.NewInternalError("failed to list programs", err)
	}
	defer rows.Close()

	programs := make([]*models.Program, 0)
	for rows.Next() {
		program, err := r.scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, nil
}

// UpdateProgram updates a program row
func (r *Repository) UpdateProgram(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET university_id = $2, name = $3, slug = $4, level = $5, duration_text = $6,
			tuition_text = $7, description = $8, brochure_url = $9, is_published = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		program.ID, program.UniversityID, program.Name, program.Slug, program.Level,
		program.DurationText, program.TuitionText, program.Description,
		program.BrochureURL, program.IsPublished,
	).Scan(&program.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("program not found", err)
		}
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("a program with slug %q already exists", program.Slug))
		}
		return common.NewInternalError("failed to update program", err)
	}
	return nil
}

// DeleteProgram removes a program
func (r *Repository) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to delete program", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("program not found", nil)
	}
	return nil
}

func (r *Repository) scanProgram(row rowScanner) (*models.Program, error) {
	program := &models.Program{}
	err := row.Scan(
		&program.ID, &program.UniversityID, &program.Name, &program.Slug, &program.Level,
		&program.DurationText, &program.TuitionText, &program.Description,
		&program.BrochureURL, &program.IsPublished, &program.CreatedAt, &program.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("program not found", err)
		}
		return nil, common.NewInternalError("failed to scan program", err)
	}
	return program, nil
}

// --- Blog posts ---

const blogPostColumns = `id, author_id, title, slug, excerpt, body, cover_image_url,
	tags, is_published, published_at, created_at, updated_at`

// CreateBlogPost inserts a new article
func (r *Repository) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, author_id, title, slug, excerpt, body,
			cover_image_url, tags, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	post.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Slug, post.Excerpt, post.Body,
		post.CoverImageURL, post.Tags, post.IsPublished, post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("an article with slug %q already exists", post.Slug))
		}
		return common.NewInternalError("failed to create blog post", err)
	}
	return nil
}

// GetBlogPostByID retrieves an article by ID
func (r *Repository) GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts WHERE id = $1`, blogPostColumns)
	return r.scanBlogPost(r.db.QueryRow(ctx, query, id))
}

// GetBlogPostBySlug retrieves an article by slug
func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts WHERE slug = $1`, blogPostColumns)
	if publishedOnly {
		query += ` AND is_published = true`
	}
	return r.scanBlogPost(r.db.QueryRow(ctx, query, slug))
}

// ListBlogPosts lists articles newest first
func (r *Repository) ListBlogPosts(ctx context.Context, limit, offset int, publishedOnly bool) ([]*models.BlogPost, int64, error) {
	whereClause := ""
	orderClause := "ORDER BY created_at DESC"
	if publishedOnly {
		whereClause = "WHERE is_published = true"
		orderClause = "ORDER BY published_at DESC"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM blog_posts %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count blog posts", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM blog_posts %s
		%s
		LIMIT $1 OFFSET $2`, blogPostColumns, whereClause, orderClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list blog posts", err)
	}
	defer rows.Close()

	posts := make([]*models.BlogPost, 0)
	for rows.Next() {
		post, err := r.scanBlogPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, nil
}

// UpdateBlogPost updates an article row
func (r *Repository) UpdateBlogPost(ctx context.Context, post *models.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, excerpt = $4, body = $5, cover_image_url = $6,
			tags = $7, is_published = $8, published_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Body, post.CoverImageURL,
		post.Tags, post.IsPublished, post.PublishedAt,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("blog post not found", err)
		}
		if isUniqueViolation(err) {
			return common.NewConflictError(fmt.Sprintf("an article with slug %q already exists", post.Slug))
		}
		return common.NewInternalError("failed to update blog post", err)
	}
	return nil
}

// DeleteBlogPost removes an article
func (r *Repository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to delete blog post", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("blog post not found", nil)
	}
	return nil
}

func (r *Repository) scanBlogPost(row rowScanner) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt, &post.Body,
		&post.CoverImageURL, &post.Tags, &post.IsPublished, &post.PublishedAt,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("blog post not found", err)
		}
		return nil, common.NewInternalError("failed to scan blog post", err)
	}
	return post, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
