// Package transport provides protocol-level request execution for the connector.
//
// The transport layer separates wire concerns (HTTP client settings, TLS
// verification, rate limiting) from connector-level concerns (outcome
// classification, payload shaping). A Transport reports the raw status
// code and body of every completed exchange; deciding whether a given
// status is a success belongs to the dispatcher above it.
package transport

import (
	"context"
)

// Transport executes requests against the cluster.
type Transport interface {
	// Execute sends a request and returns the raw response.
	// The context controls cancellation and deadlines.
	// An error is returned only for network-level failures; any
	// completed exchange yields a Response regardless of status code.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g., "http").
	Name() string

	// SetRateLimiter configures rate limiting for this transport.
	// Rate limiting occurs before request execution.
	SetRateLimiter(limiter RateLimiter)
}

// Request represents a transport-agnostic request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, ...)
	// Required, must be non-empty
	Method string

	// URL is the full request URL
	// Required
	URL string

	// Headers are request headers
	// Optional, may be nil or empty map
	Headers map[string]string

	// BasicAuth attaches HTTP basic authentication when non-nil
	BasicAuth *BasicAuth

	// Body is the request body
	// Optional, may be nil or empty slice
	Body []byte
}

// BasicAuth holds HTTP basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the raw response body
	Body []byte
}

// RateLimiter provides rate limiting for transport requests.
// Implementations should block until a request is allowed.
type RateLimiter interface {
	// Wait blocks until a request is allowed under the rate limit.
	// Returns an error if the context is cancelled before the request can proceed.
	Wait(ctx context.Context) error
}
