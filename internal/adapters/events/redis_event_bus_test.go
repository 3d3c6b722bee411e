package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

func TestPublish_ClosedBusRejectsEvents(t *testing.T) {
	// A nil connection proves the closed check fires before any Redis call.
	bus := NewRedisEventBus(nil)
	assert.NoError(t, bus.Close())

	event := &entities.RecommendationEvent{
		ID:        "evt-1",
		Type:      entities.EventRecommendationCreated,
		ResultID:  "abc12345",
		CreatedAt: time.Now(),
	}

	err := bus.Publish(context.Background(), "recommendations:events", event)
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	bus := NewRedisEventBus(nil)

	assert.NoError(t, bus.Close())
	assert.NoError(t, bus.Close())
}
