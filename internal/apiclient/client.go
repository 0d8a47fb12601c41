package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/fwmon/fwmon/internal/common/logtrace"
	"github.com/fwmon/fwmon/internal/common/uuid"
	"github.com/rs/zerolog/log"
)

// Client issues requests against the firewall log monitoring API.
// It holds only immutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	headers map[string]string
	doer    Doer

	Logs     *LogsService
	Users    *UsersService
	Auth     *AuthService
	Alerts   *AlertsService
	Settings *SettingsService
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the transport used to issue requests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a client for the base URL and default headers provided by cfg.
func New(cfg Configurator, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.GetBaseURL(), "/"),
		headers: map[string]string{},
		doer:    &http.Client{},
	}
	maps.Copy(c.headers, cfg.GetDefaultHeaders())
	for _, opt := range opts {
		opt(c)
	}

	c.Logs = &LogsService{resource{c: c, path: "/logs"}}
	c.Users = &UsersService{resource{c: c, path: "/users"}}
	c.Auth = &AuthService{c: c}
	c.Alerts = &AlertsService{resource{c: c, path: "/alerts"}}
	c.Settings = &SettingsService{resource{c: c, path: "/settings"}}
	return c
}

// BaseURL returns the root all paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes a single API call.
type RequestOptions struct {
	Method  string            // GET, POST, PUT, DELETE or PATCH; empty means GET
	Path    string            // resolved against the base URL
	Query   *Query            // optional, encoded in insertion order
	Body    any               // optional, JSON encoded; never sent with GET
	Headers map[string]string // optional, merged over the defaults
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// URL returns the full request URL for opts.
func (c *Client) URL(opts RequestOptions) (string, error) {
	u := c.baseURL + "/" + strings.TrimLeft(opts.Path, "/")
	qs, err := opts.Query.Encode()
	if err != nil {
		return "", err
	}
	if qs != "" {
		u += "?" + qs
	}
	return u, nil
}

// Request issues the call and returns the parsed JSON value or the raw text.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (any, error) {
	r, err := c.Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.Value(), nil
}

// Do issues the call and returns the tagged result. Every failure is an *APIError.
func (c *Client) Do(ctx context.Context, opts RequestOptions) (*Result, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !allowedMethods[method] {
		return nil, newEncodingError("building request", fmt.Errorf("unsupported method %q", opts.Method))
	}

	u, err := c.URL(opts)
	if err != nil {
		return nil, newEncodingError("building request URL", err)
	}

	var body io.Reader
	if opts.Body != nil && method != http.MethodGet {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, newEncodingError("encoding request body", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, newEncodingError("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	requestID := logtrace.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logger := log.Ctx(ctx).With().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", u).
		Logger()

	start := time.Now()
	res, err := c.doer.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, newTransportError(err)
	}
	defer res.Body.Close()

	r, err := readResult(res)
	if err != nil {
		logger.Debug().Err(err).Int("status", res.StatusCode).Msg("unreadable response")
		return nil, err
	}

	logger.Debug().
		Int("status", res.StatusCode).
		Str("kind", r.Kind.String()).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if !isSuccess(res.StatusCode) {
		return nil, newStatusError(r)
	}
	return r, nil
}
