package repositories

import (
	"context"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

// RecommendationLogRepository persists the pipeline audit log.
type RecommendationLogRepository interface {
	// LogRun records one pipeline execution
	LogRun(ctx context.Context, run *entities.RecommendationRun) error

	// ListFallbackRuns returns the most recent degraded runs
	ListFallbackRuns(ctx context.Context, limit int) ([]*entities.RecommendationRun, error)
}
