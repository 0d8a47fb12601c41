// Package models defines the payloads exchanged with the firewall log monitoring API
// and the client side validation rules that mirror the server schemas.
package models

import (
	"time"

	"github.com/fwmon/fwmon/internal/apiclient"
)

var (
	Protocols  = []string{"TCP", "UDP", "ICMP"}
	Actions    = []string{"ALLOW", "DENY", "DROP"}
	Severities = []string{"critical", "warning", "info", "debug"}
	Roles      = []string{"admin", "operator", "viewer"}
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 1000
)

// FirewallLog is one entry recorded by the firewall.
type FirewallLog struct {
	ID              int        `json:"id,omitempty"`
	Timestamp       time.Time  `json:"timestamp" validate:"required"`
	SourceIP        string     `json:"source_ip" validate:"required,ip"`
	DestinationIP   string     `json:"destination_ip" validate:"required,ip"`
	SourcePort      *int       `json:"source_port,omitempty" validate:"omitempty,gte=0,lte=65535"`
	DestinationPort *int       `json:"destination_port,omitempty" validate:"omitempty,gte=0,lte=65535"`
	Protocol        string     `json:"protocol" validate:"required,protocol"`
	Action          string     `json:"action" validate:"required,action"`
	RuleID          string     `json:"rule_id,omitempty" validate:"max=50"`
	Description     string     `json:"description,omitempty"`
	Severity        string     `json:"severity" validate:"required,severity"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// LogFilter selects a page of log entries.
type LogFilter struct {
	Page          int        `json:"page" validate:"gte=1"`
	Limit         int        `json:"limit" validate:"gte=1,lte=1000"`
	SourceIP      string     `json:"source_ip,omitempty" validate:"omitempty,ip"`
	DestinationIP string     `json:"destination_ip,omitempty" validate:"omitempty,ip"`
	Protocol      string     `json:"protocol,omitempty" validate:"omitempty,protocol"`
	Action        string     `json:"action,omitempty" validate:"omitempty,action"`
	Severity      string     `json:"severity,omitempty" validate:"omitempty,severity"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// NewLogFilter returns the server default filter: first page of 50.
func NewLogFilter() LogFilter {
	return LogFilter{Page: DefaultPage, Limit: DefaultLimit}
}

// Query renders the filter with page and limit first, followed by the set
// filters in field order.
func (f LogFilter) Query() *apiclient.Query {
	q := apiclient.NewQuery().
		Set("page", f.Page).
		Set("limit", f.Limit)
	for _, p := range []struct {
		key   string
		value string
	}{
		{"source_ip", f.SourceIP},
		{"destination_ip", f.DestinationIP},
		{"protocol", f.Protocol},
		{"action", f.Action},
		{"severity", f.Severity},
	} {
		if p.value != "" {
			q.Set(p.key, p.value)
		}
	}
	if f.DateFrom != nil {
		q.Set("date_from", *f.DateFrom)
	}
	if f.DateTo != nil {
		q.Set("date_to", *f.DateTo)
	}
	return q
}

// IPCount is one row of a top-N address table.
type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

// LogStats aggregates the stored log entries.
type LogStats struct {
	TotalLogs         int       `json:"total_logs"`
	AllowedCount      int       `json:"allowed_count"`
	DeniedCount       int       `json:"denied_count"`
	DroppedCount      int       `json:"dropped_count"`
	CriticalCount     int       `json:"critical_count"`
	WarningCount      int       `json:"warning_count"`
	TopSourceIPs      []IPCount `json:"top_source_ips"`
	TopDestinationIPs []IPCount `json:"top_destination_ips"`
}

// User is an account of the monitoring system.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	IsActive  bool       `json:"is_active"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UserCreate is the body of a user creation.
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name,omitempty" validate:"max=100"`
	Role     string `json:"role,omitempty" validate:"omitempty,role"`
}

// UserUpdate is a partial user update; nil fields are left unchanged.
type UserUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	IsActive *bool   `json:"is_active,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,role"`
}

// UserLogin holds credentials.
type UserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Alert is a notification rule evaluated against incoming logs.
type Alert struct {
	ID          int        `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required,max=100"`
	Condition   string     `json:"condition" validate:"required"`
	Threshold   *int       `json:"threshold,omitempty" validate:"omitempty,gte=0"`
	Severity    string     `json:"severity,omitempty" validate:"omitempty,severity"`
	IsEnabled   *bool      `json:"is_enabled,omitempty"`
	NotifyEmail string     `json:"notify_email,omitempty" validate:"omitempty,email"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Setting is one system-wide key/value setting.
type Setting struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
	ValueType   string `json:"value_type,omitempty" validate:"omitempty,oneof=string integer boolean json"`
}
