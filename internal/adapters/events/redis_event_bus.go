package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/providers"
	redisclient "github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/redis"
)

// RedisEventBus publishes recommendation outcome events over Redis Pub/Sub.
// Consumers subscribe out of process; this service only emits.
type RedisEventBus struct {
	client *redisclient.Client
	mu     sync.Mutex
	closed bool
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{client: client}
}

// Publish publishes an event to the channel. Publishing on a closed bus is an
// error so a shutdown race surfaces instead of writing to a dead connection.
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.RecommendationEvent) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return fmt.Errorf("event bus is closed")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close marks the bus closed; subsequent publishes fail.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}
