package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/eventbus"
	"github.com/globalpath/platform/pkg/logger"
)

// BusPublisher publishes content events to NATS. A nil bus disables
// publishing.
type BusPublisher struct {
	bus *eventbus.Bus
}

// NewBusPublisher wraps an event bus; bus may be nil.
func NewBusPublisher(bus *eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishContentPublished emits content.published
func (p *BusPublisher) PublishContentPublished(ctx context.Context, contentType string, contentID uuid.UUID, slug, title string) {
	if p.bus == nil {
		return
	}

	event, err := eventbus.NewEvent(eventbus.SubjectContentPublished, "content", eventbus.ContentPublishedData{
		ContentType: contentType,
		ContentID:   contentID,
		Slug:        slug,
		Title:       title,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to build content event", zap.Error(err))
		return
	}

	if err := p.bus.Publish(ctx, eventbus.SubjectContentPublished, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish content event",
			zap.String("content_type", contentType),
			zap.String("slug", slug),
			zap.Error(err),
		)
	}
}
