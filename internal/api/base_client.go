package api

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = 100
	// DefaultTimeout bounds a single API request
	DefaultTimeout = 30 * time.Second
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
// Follows Interface Segregation Principle.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient builds the HTTP client used by platform clients.
// In bearer mode the transport attaches the token to every request;
// in private-token mode the platform client sets its own header.
func NewHTTPClient(ctx context.Context, config ClientConfig, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if config.AuthMode != AuthBearer {
		return &http.Client{Timeout: timeout}
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token})
	client := oauth2.NewClient(ctx, source)
	client.Timeout = timeout
	return client
}
