package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
)

// FeedProvider reads the latest rates document from a JSON rate feed such
// as https://api.exchangerate-api.com/v4/latest/USD.
type FeedProvider struct {
	client *http.Client
	url    string
}

// NewFeedProvider builds a provider with its own client. A zero timeout
// leaves the transport defaults in place.
func NewFeedProvider(url string, timeout time.Duration) *FeedProvider {
	return &FeedProvider{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (p *FeedProvider) URL() string {
	return p.url
}

func (p *FeedProvider) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %w: status %d", domain.ErrFetch, domain.ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrFetch, err)
	}
	return body, nil
}
