package inquiries

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for inquiry repository operations
type RepositoryInterface interface {
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	GetInquiryByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, limit, offset int, status *models.InquiryStatus) ([]*models.Inquiry, int64, error)
	UpdateInquiryStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error
}

// Acknowledger sends the auto-reply to the visitor. Best-effort.
type Acknowledger interface {
	SendAcknowledgement(ctx context.Context, inquiry *models.Inquiry)
}

// Forwarder pushes the inquiry to an external CRM. Best-effort.
type Forwarder interface {
	Forward(ctx context.Context, inquiry *models.Inquiry)
}

// EventPublisher publishes inquiry events
type EventPublisher interface {
	PublishInquiryReceived(ctx context.Context, inquiry *models.Inquiry)
}
