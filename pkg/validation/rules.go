package validation

import (
	"time"
)

// PaginationRequest represents common pagination parameters
type PaginationRequest struct {
	Limit   int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset  int    `json:"offset" validate:"omitempty,gte=0"`
	SortBy  string `json:"sort_by" validate:"omitempty,alpha"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

// DateRangeRequest represents a date range filter
type DateRangeRequest struct {
	StartDate time.Time `json:"start_date" validate:"omitempty"`
	EndDate   time.Time `json:"end_date" validate:"omitempty"`
}

// ValidatePasswordStrength validates password complexity
func ValidatePasswordStrength(password string, minLength int) error {
	if minLength <= 0 {
		minLength = 8
	}

	validationErr := &ValidationError{Errors: make(map[string]string)}

	if len(password) < minLength {
		validationErr.AddError("password", "Password is too short")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// ValidateDateRange validates that end date is after start date
func ValidateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return &ValidationError{
			Errors: map[string]string{
				"date_range": "End date must be after start date",
			},
		}
	}
	return nil
}

// ValidateBookingTime validates that an appointment slot is in the future
func ValidateBookingTime(preferredAt time.Time) error {
	if !preferredAt.After(time.Now()) {
		return &ValidationError{
			Errors: map[string]string{
				"preferred_at": "Preferred time must be in the future",
			},
		}
	}
	return nil
}
