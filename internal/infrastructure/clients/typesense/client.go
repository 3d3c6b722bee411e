package typesense

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/bloomwell/maternity-ai/backend/pkg/config"
	"github.com/bloomwell/maternity-ai/backend/pkg/retry"
)

const (
	// PassagesCollection holds indexed policy-clause excerpts.
	PassagesCollection = "policy_passages"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("Typesense connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Println("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the passage collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == PassagesCollection {
			log.Printf("Typesense collection '%s' already exists", PassagesCollection)
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: PassagesCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "content",
				Type: "string",
			},
			{
				Name:  "product_name",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name: "page_number",
				Type: "int32",
			},
			{
				Name: "source_file",
				Type: "string",
			},
			{
				Name: "indexed_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("indexed_at"),
	}

	_, err = c.client.Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("Created Typesense collection '%s'", PassagesCollection)
	return nil
}

// DropCollection deletes the passage collection if it exists. Used by the
// indexer's -reset flag before a full re-index.
func (c *Client) DropCollection(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == PassagesCollection {
			if _, err := c.client.Collection(PassagesCollection).Delete(ctx); err != nil {
				return fmt.Errorf("failed to delete collection: %w", err)
			}
			log.Printf("Dropped Typesense collection '%s'", PassagesCollection)
			return nil
		}
	}

	return nil
}
