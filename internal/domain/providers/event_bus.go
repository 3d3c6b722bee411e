package providers

import (
	"context"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

// EventChannelRecommendations carries all pipeline outcome events.
const EventChannelRecommendations = "recommendations:events"

// EventBus publishes recommendation events for out-of-process consumers.
type EventBus interface {
	// Publish publishes an event to the channel
	Publish(ctx context.Context, channel string, event *entities.RecommendationEvent) error

	// Close closes the event bus
	Close() error
}
