package providers

import (
	"context"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

// ResultForwarder posts a finished result to the upstream application server.
type ResultForwarder interface {
	Forward(ctx context.Context, result *entities.RecommendationResult) error
}
