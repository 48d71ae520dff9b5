package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentGateway identifies which vendor processed a payment
type PaymentGateway string

const (
	GatewayStripe   PaymentGateway = "stripe"
	GatewayRazorpay PaymentGateway = "razorpay"
)

// PaymentStatus represents payment lifecycle state
type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment represents a service-fee payment for an appointment
type Payment struct {
	ID            uuid.UUID              `json:"id" db:"id"`
	AppointmentID uuid.UUID              `json:"appointment_id" db:"appointment_id"`
	Gateway       PaymentGateway         `json:"gateway" db:"gateway"`
	GatewayRef    string                 `json:"gateway_ref" db:"gateway_ref"` // intent/order id
	Amount        int64                  `json:"amount" db:"amount"`           // minor units
	Currency      string                 `json:"currency" db:"currency"`
	Status        PaymentStatus          `json:"status" db:"status"`
	FailureReason *string                `json:"failure_reason,omitempty" db:"failure_reason"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" db:"updated_at"`
}
