package apiclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceRoutes(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()
	ctx := context.Background()
	entry := map[string]any{"source_ip": "10.0.0.1", "action": "DENY"}

	tests := []struct {
		name     string
		call     func() (any, error)
		method   string
		path     string
		route    string
		rawQuery string
		body     string
	}{
		{"logs get all", func() (any, error) { return c.Logs.GetAll(ctx, nil) }, http.MethodGet, "/api/v1/logs", "/logs", "", ""},
		{
			"logs get all filtered",
			func() (any, error) { return c.Logs.GetAll(ctx, NewQuery().Set("page", 1).Set("limit", 10)) },
			http.MethodGet, "/api/v1/logs", "/logs", "page=1&limit=10", "",
		},
		{"logs get by id", func() (any, error) { return c.Logs.GetByID(ctx, 1) }, http.MethodGet, "/api/v1/logs/1", "/logs/{id}", "", ""},
		{"logs create", func() (any, error) { return c.Logs.Create(ctx, entry) }, http.MethodPost, "/api/v1/logs", "/logs", "", `{"source_ip":"10.0.0.1","action":"DENY"}`},
		{"logs update", func() (any, error) { return c.Logs.Update(ctx, 5, entry) }, http.MethodPut, "/api/v1/logs/5", "/logs/{id}", "", `{"source_ip":"10.0.0.1","action":"DENY"}`},
		{"logs delete", func() (any, error) { return c.Logs.Delete(ctx, 5) }, http.MethodDelete, "/api/v1/logs/5", "/logs/{id}", "", ""},
		{"logs stats", func() (any, error) { return c.Logs.GetStats(ctx) }, http.MethodGet, "/api/v1/logs/stats", "/logs/stats", "", ""},

		{"users get all", func() (any, error) { return c.Users.GetAll(ctx) }, http.MethodGet, "/api/v1/users", "/users", "", ""},
		{"users get by id", func() (any, error) { return c.Users.GetByID(ctx, 2) }, http.MethodGet, "/api/v1/users/2", "/users/{id}", "", ""},
		{"users create", func() (any, error) { return c.Users.Create(ctx, map[string]any{"username": "bob"}) }, http.MethodPost, "/api/v1/users", "/users", "", `{"username":"bob"}`},
		{"users update", func() (any, error) { return c.Users.Update(ctx, 2, map[string]any{"role": "admin"}) }, http.MethodPut, "/api/v1/users/2", "/users/{id}", "", `{"role":"admin"}`},
		{"users delete", func() (any, error) { return c.Users.Delete(ctx, 1) }, http.MethodDelete, "/api/v1/users/1", "/users/{id}", "", ""},

		{"auth login", func() (any, error) { return c.Auth.Login(ctx, "test", "password") }, http.MethodPost, "/api/v1/auth/login", "/auth/login", "", `{"username":"test","password":"password"}`},
		{"auth logout", func() (any, error) { return c.Auth.Logout(ctx) }, http.MethodPost, "/api/v1/auth/logout", "/auth/logout", "", ""},
		{"auth me", func() (any, error) { return c.Auth.GetCurrentUser(ctx) }, http.MethodGet, "/api/v1/auth/me", "/auth/me", "", ""},

		{"alerts get all", func() (any, error) { return c.Alerts.GetAll(ctx) }, http.MethodGet, "/api/v1/alerts", "/alerts", "", ""},
		{"alerts get by id", func() (any, error) { return c.Alerts.GetByID(ctx, 9) }, http.MethodGet, "/api/v1/alerts/9", "/alerts/{id}", "", ""},
		{"alerts create", func() (any, error) { return c.Alerts.Create(ctx, map[string]any{"name": "a"}) }, http.MethodPost, "/api/v1/alerts", "/alerts", "", `{"name":"a"}`},
		{"alerts update", func() (any, error) { return c.Alerts.Update(ctx, 9, map[string]any{"name": "b"}) }, http.MethodPut, "/api/v1/alerts/9", "/alerts/{id}", "", `{"name":"b"}`},
		{"alerts delete", func() (any, error) { return c.Alerts.Delete(ctx, 9) }, http.MethodDelete, "/api/v1/alerts/9", "/alerts/{id}", "", ""},

		{"settings get all", func() (any, error) { return c.Settings.GetAll(ctx) }, http.MethodGet, "/api/v1/settings", "/settings", "", ""},
		{"settings get by key", func() (any, error) { return c.Settings.GetByKey(ctx, "retention_days") }, http.MethodGet, "/api/v1/settings/retention_days", "/settings/{key}", "", ""},
		{"settings update", func() (any, error) { return c.Settings.Update(ctx, "retention_days", map[string]any{"value": 30}) }, http.MethodPut, "/api/v1/settings/retention_days", "/settings/{key}", "", `{"value":30}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			require.NoError(t, err)

			got := fb.lastRequest()
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.route, got.Route)
			assert.Equal(t, tt.rawQuery, got.RawQuery)
			if tt.body == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tt.body, got.Body)
			}
		})
	}
}

func TestLoginBodyIsExact(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()
	fb.respond(http.StatusOK, "application/json", `{"token":"abc123","user":{"id":1,"username":"test"}}`)

	v, err := c.Auth.Login(context.Background(), "test", "password")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"test","password":"password"}`, fb.lastRequest().Body)
	assert.Equal(t, map[string]any{
		"token": "abc123",
		"user":  map[string]any{"id": float64(1), "username": "test"},
	}, v)
}

func TestDeleteResolvesOnAny2xx(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        any
	}{
		{"no content", http.StatusNoContent, "", "", ""},
		{"success object", http.StatusOK, "application/json", `{"success":true}`, map[string]any{"success": true}},
		{"message text", http.StatusOK, "text/plain", "deleted", "deleted"},
		{"accepted empty json", http.StatusAccepted, "application/json", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb.respond(tt.status, tt.contentType, tt.body)
			v, err := c.Users.Delete(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)

			got := fb.lastRequest()
			assert.Equal(t, http.MethodDelete, got.Method)
			assert.Equal(t, "/api/v1/users/1", got.Path)
			assert.Empty(t, got.Body)
		})
	}
}

func TestGetByIDNotFound(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()
	fb.respond(http.StatusNotFound, "application/json", `{"detail":"Log not found"}`)

	v, err := c.Logs.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.Nil(t, v)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Log not found", err.Error())
}

func TestSettingKeyIsEscaped(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()

	_, err := c.Settings.GetByKey(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/settings/a b", fb.lastRequest().Path)
	assert.Equal(t, "/settings/{key}", fb.lastRequest().Route)
}
