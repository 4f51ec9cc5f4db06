package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// Client fetches the secondary priced-fixture feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewClient(cfg config.PricingConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries: cfg.MaxRetries,
	}
}

// Fetch returns the priced fixtures for a category. Transient failures are
// retried with exponential backoff; a feed that stays down leaves the batch
// unpriced, which the caller treats as a degradation, not a cycle failure.
func (c *Client) Fetch(ctx context.Context, category string) ([]models.PricedFixture, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	if category != "" {
		q.Set("category", category)
	}
	u.RawQuery = q.Encode()

	var fixtures []models.PricedFixture

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetch priced fixtures: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("priced fixtures feed returned status %d", resp.StatusCode)
		}

		fixtures = fixtures[:0]
		if err := json.NewDecoder(resp.Body).Decode(&fixtures); err != nil {
			return backoff.Permanent(fmt.Errorf("decode priced fixtures: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return fixtures, nil
}
