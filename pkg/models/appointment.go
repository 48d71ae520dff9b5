package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of a consultation booking
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a consultation booking made from the public site
type Appointment struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	FullName     string            `json:"full_name" db:"full_name"`
	Email        string            `json:"email" db:"email"`
	Phone        string            `json:"phone" db:"phone"`
	Service      string            `json:"service" db:"service"` // counselling, visa, test-prep
	CountrySlug  *string           `json:"country_slug,omitempty" db:"country_slug"`
	Message      string            `json:"message" db:"message"`
	PreferredAt  time.Time         `json:"preferred_at" db:"preferred_at"`
	Status       AppointmentStatus `json:"status" db:"status"`
	AssignedTo   *uuid.UUID        `json:"assigned_to,omitempty" db:"assigned_to"`
	CancelReason *string           `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// BookAppointmentRequest is the public booking payload
type BookAppointmentRequest struct {
	FullName    string  `json:"full_name" binding:"required,min=2,max=120"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone" binding:"required,min=6,max=20"`
	Service     string  `json:"service" binding:"required,oneof=counselling visa test-prep application"`
	CountrySlug *string `json:"country_slug,omitempty"`
	Message     string  `json:"message" binding:"max=2000"`
	PreferredAt string  `json:"preferred_at" binding:"required"` // RFC3339
}
