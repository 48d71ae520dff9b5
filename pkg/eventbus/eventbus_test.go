package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// NewEvent
// ---------------------------------------------------------------------------

func TestNewEvent_Success(t *testing.T) {
	data := map[string]string{"appointment_id": "abc"}

	event, err := NewEvent("appointments.booked", "api", data)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "appointments.booked", event.Type)
	assert.Equal(t, "api", event.Source)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())

	// ID should be a valid UUID
	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)

	// Data should be valid JSON
	var decoded map[string]string
	err = json.Unmarshal(event.Data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "abc", decoded["appointment_id"])
}

func TestNewEvent_NilData(t *testing.T) {
	event, err := NewEvent("test.event", "test-source", nil)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("null"), event.Data)
}

func TestNewEvent_ComplexData(t *testing.T) {
	slug := "canada"
	data := AppointmentBookedData{
		AppointmentID: uuid.New(),
		FullName:      "Priya Sharma",
		Email:         "priya@example.com",
		Phone:         "+911234567890",
		Service:       "counselling",
		CountrySlug:   &slug,
		PreferredAt:   time.Now().Add(48 * time.Hour),
		BookedAt:      time.Now(),
	}

	event, err := NewEvent(SubjectAppointmentBooked, "api", data)
	require.NoError(t, err)

	var decoded AppointmentBookedData
	require.NoError(t, json.Unmarshal(event.Data, &decoded))
	assert.Equal(t, data.AppointmentID, decoded.AppointmentID)
	assert.Equal(t, "counselling", decoded.Service)
	require.NotNil(t, decoded.CountrySlug)
	assert.Equal(t, "canada", *decoded.CountrySlug)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("test.event", "test-source", make(chan int))
	assert.Error(t, err)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		event, err := NewEvent("test.event", "test-source", nil)
		require.NoError(t, err)
		assert.False(t, seen[event.ID], "duplicate event ID %s", event.ID)
		seen[event.ID] = true
	}
}

func TestNewEvent_TimestampIsUTC(t *testing.T) {
	event, err := NewEvent("test.event", "test-source", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, event.Timestamp.Location())
}

// ---------------------------------------------------------------------------
// Subjects
// ---------------------------------------------------------------------------

func TestSubjectConstants(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{"AppointmentBooked", SubjectAppointmentBooked, "appointments.booked"},
		{"AppointmentConfirmed", SubjectAppointmentConfirmed, "appointments.confirmed"},
		{"AppointmentCancelled", SubjectAppointmentCancelled, "appointments.cancelled"},
		{"PaymentCompleted", SubjectPaymentCompleted, "payments.completed"},
		{"PaymentFailed", SubjectPaymentFailed, "payments.failed"},
		{"PaymentRefunded", SubjectPaymentRefunded, "payments.refunded"},
		{"ContentPublished", SubjectContentPublished, "content.published"},
		{"InquiryReceived", SubjectInquiryReceived, "inquiries.received"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.subject)
		})
	}
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.URL)
	assert.Equal(t, "globalpath", cfg.Name)
	assert.Equal(t, "GLOBALPATH", cfg.StreamName)
}

// ---------------------------------------------------------------------------
// HandlerFunc
// ---------------------------------------------------------------------------

func TestHandlerFunc_Invocation(t *testing.T) {
	var received *Event
	handler := HandlerFunc(func(ctx context.Context, event *Event) error {
		received = event
		return nil
	})

	event, err := NewEvent(SubjectPaymentCompleted, "api", nil)
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), event))
	assert.Same(t, event, received)
}

func TestHandlerFunc_ReturnsError(t *testing.T) {
	wantErr := errors.New("handler failed")
	handler := HandlerFunc(func(ctx context.Context, event *Event) error {
		return wantErr
	})

	event, err := NewEvent(SubjectPaymentFailed, "api", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, handler(context.Background(), event), wantErr)
}

// ---------------------------------------------------------------------------
// Payload serialization
// ---------------------------------------------------------------------------

func TestPaymentCompletedData_Serialization(t *testing.T) {
	data := PaymentCompletedData{
		PaymentID:     uuid.New(),
		AppointmentID: uuid.New(),
		Gateway:       "razorpay",
		Amount:        250000,
		Currency:      "inr",
		CompletedAt:   time.Now().UTC(),
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var decoded PaymentCompletedData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, data.PaymentID, decoded.PaymentID)
	assert.Equal(t, int64(250000), decoded.Amount)
	assert.Equal(t, "razorpay", decoded.Gateway)
}

func TestContentPublishedData_Serialization(t *testing.T) {
	data := ContentPublishedData{
		ContentType: "blog_post",
		ContentID:   uuid.New(),
		Slug:        "ielts-vs-toefl",
		Title:       "IELTS vs TOEFL: which one should you take?",
		PublishedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var decoded ContentPublishedData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, data.Slug, decoded.Slug)
}
