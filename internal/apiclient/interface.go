// Package apiclient provides the HTTP client for the firewall log monitoring REST API.
// It builds requests against a configured base URL, interprets responses by content type
// and normalizes every failure into a single APIError value. Resource groups (logs, users,
// auth, alerts, settings) are thin call-sites over Client.Request.
package apiclient

import (
	"context"
	"net/http"
)

// Doer executes a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Configurator provides the connection settings a Client is built from.
// Implementations must be safe to read from multiple goroutines.
type Configurator interface {
	// GetBaseURL returns the root all request paths are resolved against.
	GetBaseURL() string
	// GetDefaultHeaders returns headers sent with every request, merged over
	// the Content-Type default.
	GetDefaultHeaders() map[string]string
}

// Requester is the low-level surface of the client.
type Requester interface {
	// Do issues the request and returns the tagged result.
	Do(ctx context.Context, opts RequestOptions) (*Result, error)

	// Request issues the request and returns the unwrapped JSON value or text.
	Request(ctx context.Context, opts RequestOptions) (any, error)
}

var _ Requester = &Client{}
var _ Doer = &http.Client{}
