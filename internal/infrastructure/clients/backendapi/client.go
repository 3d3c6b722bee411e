package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
	"github.com/bloomwell/maternity-ai/backend/pkg/retry"
)

const resultsPath = "/api/ai/recommendation-results"

// forwardTimeout bounds the whole delivery including the single retry.
const forwardTimeout = 10 * time.Second

// Client forwards finished recommendation results to the upstream application
// server. Delivery is best-effort; the caller ignores failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the upstream callback endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: forwardTimeout,
		},
	}
}

// Forward posts the result to the upstream server, retrying once on failure.
func (c *Client) Forward(ctx context.Context, result *entities.RecommendationResult) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}

	body, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return retry.Do(ctx, retry.SingleRetryConfig(forwardTimeout), func() error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+resultsPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("backend request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(fmt.Sprintf("backend returned status %d", resp.StatusCode), nil)
	}

	return nil
}
