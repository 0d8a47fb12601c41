package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "admin"
	testPassword = "secret1"
)

type seenRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	Authorization string
}

// apiServer is an in-memory stand-in for the monitoring API.
type apiServer struct {
	t     *testing.T
	srv   *httptest.Server
	token string

	mu   sync.Mutex
	seen []seenRequest
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testUser,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	s := &apiServer{t: t, token: token}
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"Logged out"}`)
		}))
		r.Get("/auth/me", s.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"id":1,"username":"admin","email":"admin@example.com","role":"admin","is_active":true}`)
		}))

		r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[
				{"id":1,"timestamp":"2024-01-15T10:30:00","source_ip":"192.168.1.100","destination_ip":"10.0.0.1","source_port":51000,"destination_port":443,"protocol":"TCP","action":"ALLOW","severity":"info"},
				{"id":2,"timestamp":"2024-01-15T10:31:00","source_ip":"203.0.113.7","destination_ip":"10.0.0.1","protocol":"ICMP","action":"DENY","severity":"warning"}
			]`)
		})
		r.Post("/logs", echo(http.StatusCreated, `{"id":42}`))
		r.Get("/logs/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"total_logs":10,"allowed_count":6,"denied_count":3,"dropped_count":1,"critical_count":2,"warning_count":4,
				"top_source_ips":[{"ip":"192.168.1.100","count":5}],"top_destination_ips":[{"ip":"10.0.0.1","count":7}]}`)
		})
		r.Get("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "id") != "1" {
				writeJSON(w, http.StatusNotFound, `{"detail":"Log not found"}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"id":1,"source_ip":"192.168.1.100","action":"ALLOW"}`)
		})
		r.Delete("/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[{"id":1,"username":"admin"}]`)
		})
		r.Put("/users/{id}", echo(http.StatusOK, `{"id":3}`))

		r.Post("/alerts", echo(http.StatusCreated, `{"id":7}`))

		r.Get("/settings", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[{"key":"retention_days","value":30,"value_type":"integer","description":"Days to keep logs"}]`)
		})
		r.Put("/settings/{key}", echo(http.StatusOK, `{}`))
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *apiServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.seen = append(s.seen, seenRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Body:          string(body),
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
			return
		}
		next(w, r)
	}
}

func (s *apiServer) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"invalid body"}`)
		return
	}
	if creds.Username != testUser || creds.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
		return
	}
	writeJSON(w, http.StatusOK, `{"token":"`+s.token+`","user":{"id":1,"username":"admin","role":"admin","is_active":true}}`)
}

// echo answers with the request body merged over extra.
func echo(status int, extra string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body == nil {
			body = map[string]any{}
		}
		var fields map[string]any
		_ = json.Unmarshal([]byte(extra), &fields)
		for k, v := range fields {
			body[k] = v
		}
		out, _ := json.Marshal(body)
		writeJSON(w, status, string(out))
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func (s *apiServer) baseURL() string {
	return s.srv.URL + "/api/v1"
}

func (s *apiServer) requests() []seenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]seenRequest(nil), s.seen...)
}

func (s *apiServer) lastRequest() seenRequest {
	reqs := s.requests()
	require.NotEmpty(s.t, reqs, "server received no request")
	return reqs[len(reqs)-1]
}

// cliEnv runs commands against an apiServer with an isolated config file.
type cliEnv struct {
	t          *testing.T
	api        *apiServer
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	api := newAPIServer(t)
	t.Setenv("FWMON_API_URL", api.baseURL())
	t.Setenv("FWMON_LOG_LEVEL", "error")
	t.Setenv("FWMON_ENVIRONMENT", "test")
	t.Setenv("FWMON_PASSWORD", "")
	return &cliEnv{
		t:          t,
		api:        api,
		configPath: filepath.Join(t.TempDir(), "fwmon", DefaultConfigFile),
	}
}

// run executes the CLI with args and returns what it printed.
func (e *cliEnv) run(args ...string) (string, error) {
	return e.runWithInput("", args...)
}

func (e *cliEnv) runWithInput(stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}
