package internode

import "context"

// UsageSource binds a Client to a discovered resource URL so callers can
// fetch snapshots without carrying the URL around.
type UsageSource struct {
	client      *Client
	resourceURL string
}

// Source returns a UsageSource for the given resource URL
func (c *Client) Source(resourceURL string) *UsageSource {
	return &UsageSource{client: c, resourceURL: resourceURL}
}

// Fetch retrieves a usage snapshot using the bounded retry policy
func (s *UsageSource) Fetch(ctx context.Context) (UsageSnapshot, error) {
	return s.client.FetchUsageWithRetry(ctx, s.resourceURL)
}
