package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is the global validator instance
	Validate *validator.Validate

	// Common regex patterns
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`) // E.164 format
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators
	_ = Validate.RegisterValidation("slug", validateSlug)
	_ = Validate.RegisterValidation("phone", validatePhone)
	_ = Validate.RegisterValidation("hexcolor_value", validateHexColor)
	_ = Validate.RegisterValidation("user_role", validateUserRole)
	_ = Validate.RegisterValidation("appointment_status", validateAppointmentStatus)
	_ = Validate.RegisterValidation("inquiry_status", validateInquiryStatus)
	_ = Validate.RegisterValidation("program_level", validateProgramLevel)
}

// ValidateStruct validates a struct and returns a ValidationError if validation fails
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// validateSlug checks for lowercase dash-separated identifiers
func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

// validatePhone checks if phone number is in E.164 format
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validateHexColor checks CSS hex color notation
func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// validateUserRole checks if staff role is valid
func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []string{"admin", "editor", "counselor"}
	return contains(validRoles, fl.Field().String())
}

// validateAppointmentStatus checks if appointment status is valid
func validateAppointmentStatus(fl validator.FieldLevel) bool {
	validStatuses := []string{"pending", "confirmed", "completed", "cancelled"}
	return contains(validStatuses, fl.Field().String())
}

// validateInquiryStatus checks if inquiry status is valid
func validateInquiryStatus(fl validator.FieldLevel) bool {
	validStatuses := []string{"new", "responded", "archived"}
	return contains(validStatuses, fl.Field().String())
}

// validateProgramLevel checks if a study program level is valid
func validateProgramLevel(fl validator.FieldLevel) bool {
	validLevels := []string{"bachelor", "master", "phd", "diploma"}
	return contains(validLevels, fl.Field().String())
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	item = strings.ToLower(strings.TrimSpace(item))
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return len(email) > 0 && emailRegex.MatchString(email)
}

// ValidatePhoneNumber validates phone number format
func ValidatePhoneNumber(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// ValidateSlug validates a lowercase dash-separated identifier
func ValidateSlug(slug string) bool {
	return slugRegex.MatchString(slug)
}

// ValidateHexColor validates CSS hex color notation (#abc or #aabbcc)
func ValidateHexColor(color string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(color))
}

// ValidateAmount validates monetary amount
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount cannot be negative: %f", amount)
	}
	if amount > 100000 { // Max $100,000 per transaction
		return fmt.Errorf("amount exceeds maximum allowed: %f", amount)
	}
	return nil
}

// ValidateStringLength validates string length
func ValidateStringLength(s string, min, max int) error {
	length := len(strings.TrimSpace(s))
	if length < min {
		return fmt.Errorf("string length must be at least %d characters, got: %d", min, length)
	}
	if max > 0 && length > max {
		return fmt.Errorf("string length must be at most %d characters, got: %d", max, length)
	}
	return nil
}

// ValidateUUID validates UUID format
func ValidateUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
