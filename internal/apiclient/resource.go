package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// resource maps the CRUD-shaped operations of a collection to request calls.
type resource struct {
	c    *Client
	path string
}

func (r resource) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r resource) list(ctx context.Context, q *Query) (any, error) {
	return r.c.Request(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   r.path,
		Query:  q,
	})
}

func (r resource) get(ctx context.Context, id string) (any, error) {
	return r.c.Request(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   r.itemPath(id),
	})
}

func (r resource) create(ctx context.Context, data any) (any, error) {
	return r.c.Request(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   r.path,
		Body:   data,
	})
}

func (r resource) update(ctx context.Context, id string, data any) (any, error) {
	return r.c.Request(ctx, RequestOptions{
		Method: http.MethodPut,
		Path:   r.itemPath(id),
		Body:   data,
	})
}

func (r resource) delete(ctx context.Context, id string) (any, error) {
	return r.c.Request(ctx, RequestOptions{
		Method: http.MethodDelete,
		Path:   r.itemPath(id),
	})
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

// LogsService covers /logs.
type LogsService struct {
	resource
}

// GetAll lists log entries. filters may be nil.
func (s *LogsService) GetAll(ctx context.Context, filters *Query) (any, error) {
	return s.list(ctx, filters)
}

// GetByID fetches one log entry.
func (s *LogsService) GetByID(ctx context.Context, id int) (any, error) {
	return s.get(ctx, itoa(id))
}

// Create stores a new log entry.
func (s *LogsService) Create(ctx context.Context, data any) (any, error) {
	return s.create(ctx, data)
}

// Update replaces a log entry.
func (s *LogsService) Update(ctx context.Context, id int, data any) (any, error) {
	return s.update(ctx, itoa(id), data)
}

// Delete removes a log entry.
func (s *LogsService) Delete(ctx context.Context, id int) (any, error) {
	return s.delete(ctx, itoa(id))
}

// GetStats fetches aggregate counters over all log entries.
func (s *LogsService) GetStats(ctx context.Context) (any, error) {
	return s.get(ctx, "stats")
}

// UsersService covers /users.
type UsersService struct {
	resource
}

func (s *UsersService) GetAll(ctx context.Context) (any, error) {
	return s.list(ctx, nil)
}

func (s *UsersService) GetByID(ctx context.Context, id int) (any, error) {
	return s.get(ctx, itoa(id))
}

func (s *UsersService) Create(ctx context.Context, data any) (any, error) {
	return s.create(ctx, data)
}

func (s *UsersService) Update(ctx context.Context, id int, data any) (any, error) {
	return s.update(ctx, itoa(id), data)
}

func (s *UsersService) Delete(ctx context.Context, id int) (any, error) {
	return s.delete(ctx, itoa(id))
}

// AlertsService covers /alerts.
type AlertsService struct {
	resource
}

func (s *AlertsService) GetAll(ctx context.Context) (any, error) {
	return s.list(ctx, nil)
}

func (s *AlertsService) GetByID(ctx context.Context, id int) (any, error) {
	return s.get(ctx, itoa(id))
}

func (s *AlertsService) Create(ctx context.Context, data any) (any, error) {
	return s.create(ctx, data)
}

func (s *AlertsService) Update(ctx context.Context, id int, data any) (any, error) {
	return s.update(ctx, itoa(id), data)
}

func (s *AlertsService) Delete(ctx context.Context, id int) (any, error) {
	return s.delete(ctx, itoa(id))
}

// SettingsService covers /settings, keyed by setting name.
type SettingsService struct {
	resource
}

func (s *SettingsService) GetAll(ctx context.Context) (any, error) {
	return s.list(ctx, nil)
}

func (s *SettingsService) GetByKey(ctx context.Context, key string) (any, error) {
	return s.get(ctx, key)
}

func (s *SettingsService) Update(ctx context.Context, key string, data any) (any, error) {
	return s.update(ctx, key, data)
}

// AuthService covers /auth.
type AuthService struct {
	c *Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. The server answers with {token, user}.
func (s *AuthService) Login(ctx context.Context, username, password string) (any, error) {
	return s.c.Request(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{Username: username, Password: password},
	})
}

// Logout ends the server side session.
func (s *AuthService) Logout(ctx context.Context) (any, error) {
	return s.c.Request(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   "/auth/logout",
	})
}

// GetCurrentUser returns the user the request is authenticated as.
func (s *AuthService) GetCurrentUser(ctx context.Context) (any, error) {
	return s.c.Request(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   "/auth/me",
	})
}
