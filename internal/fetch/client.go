// Package fetch retrieves ActivityStreams documents from remote nodes.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultUserAgent   = "wildebeest"

	acceptHeader = "application/activity+json"
)

// RemoteFetchError reports a non-success response from a remote node.
// Retry policy is the caller's concern.
type RemoteFetchError struct {
	URI    string
	Status int
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch %s: unexpected status %d", e.URI, e.Status)
}

// Client is an HTTP client for remote object documents.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a fetch client. Zero timeout and empty userAgent
// select the defaults.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchObject retrieves the object document at uri, asking for its
// ActivityStreams representation. Returns *RemoteFetchError carrying
// the HTTP status when the response is not successful.
func (c *Client) FetchObject(ctx context.Context, uri string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteFetchError{URI: uri, Status: resp.StatusCode}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("fetch %s: decode body: %w", uri, err)
	}
	return doc, nil
}
