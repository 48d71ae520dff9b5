package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentBookedData is emitted when a visitor books a consultation.
// Subscribers use it to notify counselors and send the confirmation email.
type AppointmentBookedData struct {
	AppointmentID uuid.UUID  `json:"appointment_id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Service       string     `json:"service"`
	CountrySlug   *string    `json:"country_slug,omitempty"`
	PreferredAt   time.Time  `json:"preferred_at"`
	BookedAt      time.Time  `json:"booked_at"`
}

// AppointmentConfirmedData is emitted when a counselor confirms a booking.
type AppointmentConfirmedData struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AssignedTo    uuid.UUID `json:"assigned_to"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// AppointmentCancelledData is emitted when a booking is cancelled.
type AppointmentCancelledData struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Email         string    `json:"email"`
	Reason        string    `json:"reason"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

// PaymentCompletedData is emitted after a gateway confirms a payment.
type PaymentCompletedData struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Gateway       string    `json:"gateway"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	CompletedAt   time.Time `json:"completed_at"`
}

// PaymentFailedData is emitted when a gateway reports a failure.
type PaymentFailedData struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Gateway       string    `json:"gateway"`
	Reason        string    `json:"reason"`
	FailedAt      time.Time `json:"failed_at"`
}

// PaymentRefundedData is emitted when a refund is issued.
type PaymentRefundedData struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	Gateway    string    `json:"gateway"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	RefundedAt time.Time `json:"refunded_at"`
}

// ContentPublishedData is emitted when a piece of content goes live.
type ContentPublishedData struct {
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// InquiryReceivedData is emitted when the contact form is submitted.
type InquiryReceivedData struct {
	InquiryID  uuid.UUID `json:"inquiry_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}
