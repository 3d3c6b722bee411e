package providers

import (
	"context"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
)

// PassageSearcher retrieves policy passages relevant to a query. A failed or
// empty search is reported through the error / empty slice; callers degrade to
// the fallback result rather than surfacing the failure.
type PassageSearcher interface {
	// Search returns up to limit passages ranked by relevance
	Search(ctx context.Context, query string, limit int) ([]entities.Passage, error)
}
