package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus represents the triage state of a contact-form submission
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryResponded InquiryStatus = "responded"
	InquiryArchived  InquiryStatus = "archived"
)

// Inquiry represents a contact-form submission from the public site
type Inquiry struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	FullName    string        `json:"full_name" db:"full_name"`
	Email       string        `json:"email" db:"email"`
	Phone       string        `json:"phone" db:"phone"`
	Subject     string        `json:"subject" db:"subject"`
	Message     string        `json:"message" db:"message"`
	CountrySlug *string       `json:"country_slug,omitempty" db:"country_slug"`
	Status      InquiryStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// SubmitInquiryRequest is the public contact-form payload
type SubmitInquiryRequest struct {
	FullName    string  `json:"full_name" binding:"required,min=2,max=120"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone" binding:"max=20"`
	Subject     string  `json:"subject" binding:"required,max=200"`
	Message     string  `json:"message" binding:"required,max=4000"`
	CountrySlug *string `json:"country_slug,omitempty"`
}
