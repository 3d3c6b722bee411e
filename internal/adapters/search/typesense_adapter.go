package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/providers"
	tsclient "github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/typesense"
	"github.com/bloomwell/maternity-ai/backend/pkg/retry"
)

// searchRetryTimeout bounds one search including its single retry.
const searchRetryTimeout = 5 * time.Second

// TypesenseAdapter implements passage retrieval over the policy-clause index.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.PassageSearcher = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Search returns up to limit passages ranked by relevance to the query.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]entities.Passage, error) {
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("content,product_name"),
		PerPage: pointer.Int(limit),
	}

	var result *api.SearchResult
	err := retry.Do(ctx, retry.SingleRetryConfig(searchRetryTimeout), func() error {
		res, err := a.client.Client().Collection(tsclient.PassagesCollection).Documents().Search(ctx, searchParams)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}

	passages := []entities.Passage{}
	if result.Hits == nil {
		return passages, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		passages = append(passages, docToPassage(*hit.Document))
	}

	return passages, nil
}

// Index upserts one passage into the collection.
func (a *TypesenseAdapter) Index(ctx context.Context, passage entities.Passage) error {
	document := map[string]interface{}{
		"id":           uuid.New().String(),
		"content":      passage.Content,
		"product_name": passage.ProductName,
		"page_number":  passage.PageNumber,
		"source_file":  passage.SourceFile,
		"indexed_at":   time.Now().Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.PassagesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index passage: %w", err)
	}

	return nil
}

// docToPassage rebuilds a passage from the map Typesense returns. Missing or
// mistyped fields fall back to zero values.
func docToPassage(doc map[string]interface{}) entities.Passage {
	passage := entities.Passage{}

	if val, ok := doc["content"].(string); ok {
		passage.Content = val
	}
	if val, ok := doc["product_name"].(string); ok {
		passage.ProductName = val
	}
	if val, ok := doc["page_number"].(float64); ok {
		passage.PageNumber = int(val)
	}
	if val, ok := doc["source_file"].(string); ok {
		passage.SourceFile = val
	}

	return passage
}
