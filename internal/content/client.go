package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the transport capability the synchronizer runs on: one
// GET at a time, bounded by a per-call timeout.
type HTTPClient interface {
	// Get fetches url, giving up after timeout. A non-nil error covers
	// transport failures and timeouts; status is only meaningful when
	// err is nil.
	Get(ctx context.Context, url string, timeout time.Duration) (status int, body []byte, err error)
}

// Client is the default HTTPClient on net/http.
type Client struct {
	client *http.Client // reused across calls
}

var _ HTTPClient = (*Client)(nil)

// NewHTTPClient returns the default transport. Per-call timeouts are
// applied through the request context, so one client serves both the
// short version checks and the longer content fetches.
func NewHTTPClient() *Client {
	return &Client{client: &http.Client{}}
}

func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
