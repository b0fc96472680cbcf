package domain

import "context"

// RateFetcher performs one blocking read of the upstream rate feed and
// returns the raw body of a 2xx response.
type RateFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}
