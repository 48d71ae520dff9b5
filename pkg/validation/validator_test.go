package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"student@example.com",
		"first.last+tag@sub.example.co.uk",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.True(t, ValidatePhoneNumber("+998901234567"))
	assert.True(t, ValidatePhoneNumber("14155552671"))
	assert.False(t, ValidatePhoneNumber("0123"))
	assert.False(t, ValidatePhoneNumber("not-a-phone"))
	assert.False(t, ValidatePhoneNumber(""))
}

func TestValidateSlug(t *testing.T) {
	assert.True(t, ValidateSlug("united-kingdom"))
	assert.True(t, ValidateSlug("top-10-universities-2026"))
	assert.False(t, ValidateSlug("Uppercase"))
	assert.False(t, ValidateSlug("double--dash"))
	assert.False(t, ValidateSlug("-leading"))
	assert.False(t, ValidateSlug("trailing-"))
	assert.False(t, ValidateSlug(""))
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#0b5fff"))
	assert.True(t, ValidateHexColor("#FFF"))
	assert.False(t, ValidateHexColor("0b5fff"))
	assert.False(t, ValidateHexColor("#12345"))
	assert.False(t, ValidateHexColor("blue"))
}

func TestValidateUUID(t *testing.T) {
	assert.True(t, ValidateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, ValidateUUID("550e8400e29b41d4a716446655440000"))
	assert.False(t, ValidateUUID("not-a-uuid"))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(49.5))
	assert.Error(t, ValidateAmount(-1))
	assert.Error(t, ValidateAmount(100001))
}

func TestValidateStringLength(t *testing.T) {
	assert.NoError(t, ValidateStringLength("hello", 1, 10))
	assert.Error(t, ValidateStringLength("  ", 1, 10))
	assert.Error(t, ValidateStringLength("toolongvalue", 1, 5))
	assert.NoError(t, ValidateStringLength("nolimit", 1, 0))
}

type staffFixture struct {
	Email string `validate:"required,email"`
	Role  string `validate:"required,user_role"`
}

func TestValidateStruct_CustomRoleTag(t *testing.T) {
	assert.NoError(t, ValidateStruct(&staffFixture{Email: "a@b.co", Role: "counselor"}))

	err := ValidateStruct(&staffFixture{Email: "a@b.co", Role: "manager"})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, ve.Errors["role"], "admin, editor, counselor")
}

type statusFixture struct {
	Appointment string `validate:"omitempty,appointment_status"`
	Inquiry     string `validate:"omitempty,inquiry_status"`
	Level       string `validate:"omitempty,program_level"`
	Slug        string `validate:"omitempty,slug"`
}

func TestValidateStruct_DomainTags(t *testing.T) {
	assert.NoError(t, ValidateStruct(&statusFixture{
		Appointment: "confirmed",
		Inquiry:     "archived",
		Level:       "master",
		Slug:        "study-in-canada",
	}))

	assert.Error(t, ValidateStruct(&statusFixture{Appointment: "requested"}))
	assert.Error(t, ValidateStruct(&statusFixture{Inquiry: "open"}))
	assert.Error(t, ValidateStruct(&statusFixture{Level: "bootcamp"}))
	assert.Error(t, ValidateStruct(&statusFixture{Slug: "Not A Slug"}))
}

func TestValidateStruct_Pagination(t *testing.T) {
	assert.NoError(t, ValidateStruct(&PaginationRequest{Limit: 20, Offset: 0, SortDir: "desc"}))
	assert.Error(t, ValidateStruct(&PaginationRequest{Limit: 500}))
	assert.Error(t, ValidateStruct(&PaginationRequest{SortDir: "sideways"}))
}

func TestValidationErrorFormatting(t *testing.T) {
	ve := &ValidationError{}
	assert.Equal(t, "validation failed", ve.Error())
	assert.False(t, ve.HasErrors())

	ve.AddError("email", "must be a valid email address")
	ve.AddError("role", "must be one of: admin, editor, counselor")
	assert.True(t, ve.HasErrors())
	assert.Equal(t, "email: must be a valid email address; role: must be one of: admin, editor, counselor", ve.Error())
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("long enough secret", 12))
	assert.Error(t, ValidatePasswordStrength("short", 12))
	// Zero falls back to a sane minimum.
	assert.Error(t, ValidatePasswordStrength("seven77", 0))
	assert.NoError(t, ValidatePasswordStrength("eight888", 0))
}

func TestValidateDateRange(t *testing.T) {
	now := time.Now()
	assert.NoError(t, ValidateDateRange(now, now.Add(time.Hour)))
	assert.Error(t, ValidateDateRange(now, now.Add(-time.Hour)))
}

func TestValidateBookingTime(t *testing.T) {
	assert.NoError(t, ValidateBookingTime(time.Now().Add(48*time.Hour)))
	assert.Error(t, ValidateBookingTime(time.Now().Add(-time.Minute)))
}
