package apiclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwmon/fwmon/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// capturedRequest is what the fake backend saw for the last call.
type capturedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
	Route    string
}

// reply is the canned answer of the fake backend.
type reply struct {
	status      int
	contentType string
	body        string
}

// fakeBackend routes the API surface with chi and records each request.
type fakeBackend struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	last   *capturedRequest
	answer reply
}

var backendRoutes = []struct {
	method  string
	pattern string
}{
	{http.MethodGet, "/logs"},
	{http.MethodPost, "/logs"},
	{http.MethodGet, "/logs/stats"},
	{http.MethodGet, "/logs/{id}"},
	{http.MethodPut, "/logs/{id}"},
	{http.MethodDelete, "/logs/{id}"},
	{http.MethodGet, "/users"},
	{http.MethodPost, "/users"},
	{http.MethodGet, "/users/{id}"},
	{http.MethodPut, "/users/{id}"},
	{http.MethodDelete, "/users/{id}"},
	{http.MethodPost, "/auth/login"},
	{http.MethodPost, "/auth/logout"},
	{http.MethodGet, "/auth/me"},
	{http.MethodGet, "/alerts"},
	{http.MethodPost, "/alerts"},
	{http.MethodGet, "/alerts/{id}"},
	{http.MethodPut, "/alerts/{id}"},
	{http.MethodDelete, "/alerts/{id}"},
	{http.MethodGet, "/settings"},
	{http.MethodGet, "/settings/{key}"},
	{http.MethodPut, "/settings/{key}"},
	{http.MethodPatch, "/settings/{key}"},
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		t:      t,
		answer: reply{status: http.StatusOK, contentType: "application/json", body: `{}`},
	}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		for _, rt := range backendRoutes {
			r.MethodFunc(rt.method, rt.pattern, fb.handle)
		}
	})
	fb.srv = httptest.NewServer(r)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(fb.t, err)

	fb.mu.Lock()
	fb.last = &capturedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Body:     string(body),
		Header:   r.Header.Clone(),
		Route:    strings.TrimPrefix(chi.RouteContext(r.Context()).RoutePattern(), "/api/v1"),
	}
	answer := fb.answer
	fb.mu.Unlock()

	if answer.contentType != "" {
		w.Header().Set("Content-Type", answer.contentType)
	}
	w.WriteHeader(answer.status)
	io.WriteString(w, answer.body)
}

func (fb *fakeBackend) respond(status int, contentType, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.answer = reply{status: status, contentType: contentType, body: body}
}

func (fb *fakeBackend) lastRequest() *capturedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotNil(fb.t, fb.last, "backend received no request")
	return fb.last
}

func (fb *fakeBackend) baseURL() string {
	return fb.srv.URL + "/api/v1"
}

func (fb *fakeBackend) client(opts ...Option) *Client {
	cfg, err := config.New(fb.baseURL(), config.WithEnvironment("test"))
	require.NoError(fb.t, err)
	return New(cfg, opts...)
}

// doerFunc adapts a function to the Doer interface.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// stubResponse builds a response the way a fetch mock would.
func stubResponse(status int, contentType, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
