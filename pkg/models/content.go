package models

import (
	"time"

	"github.com/google/uuid"
)

// Country represents a study destination page
type Country struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Summary      string    `json:"summary" db:"summary"`
	Description  string    `json:"description" db:"description"`
	FlagImageURL *string   `json:"flag_image_url,omitempty" db:"flag_image_url"`
	HeroImageURL *string   `json:"hero_image_url,omitempty" db:"hero_image_url"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	Position     int       `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// University represents a partner university under a country
type University struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CountryID    uuid.UUID `json:"country_id" db:"country_id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	City         string    `json:"city" db:"city"`
	Description  string    `json:"description" db:"description"`
	Website      *string   `json:"website,omitempty" db:"website"`
	LogoURL      *string   `json:"logo_url,omitempty" db:"logo_url"`
	Ranking      *int      `json:"ranking,omitempty" db:"ranking"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Program represents a study program offered by a university
type Program struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UniversityID uuid.UUID `json:"university_id" db:"university_id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Level        string    `json:"level" db:"level"` // bachelor, master, phd, diploma
	DurationText string    `json:"duration_text" db:"duration_text"`
	TuitionText  string    `json:"tuition_text" db:"tuition_text"`
	Description  string    `json:"description" db:"description"`
	BrochureURL  *string   `json:"brochure_url,omitempty" db:"brochure_url"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPost represents a marketing blog article
type BlogPost struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	AuthorID      uuid.UUID  `json:"author_id" db:"author_id"`
	Title         string     `json:"title" db:"title"`
	Slug          string     `json:"slug" db:"slug"`
	Excerpt       string     `json:"excerpt" db:"excerpt"`
	Body          string     `json:"body" db:"body"`
	CoverImageURL *string    `json:"cover_image_url,omitempty" db:"cover_image_url"`
	Tags          []string   `json:"tags" db:"tags"`
	IsPublished   bool       `json:"is_published" db:"is_published"`
	PublishedAt   *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// MenuItem represents a navigation menu entry managed from the back office
type MenuItem struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Label     string     `json:"label" db:"label"`
	URL       string     `json:"url" db:"url"`
	Position  int        `json:"position" db:"position"`
	IsVisible bool       `json:"is_visible" db:"is_visible"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
