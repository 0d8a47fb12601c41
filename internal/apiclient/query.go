package apiclient

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Query holds query parameters in insertion order. A nil *Query is an empty query.
type Query struct {
	params *orderedmap.OrderedMap[string, any]
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{params: orderedmap.New[string, any]()}
}

// Set adds or replaces a parameter. Replacing keeps the original position.
// Nil values are skipped when the query is encoded.
func (q *Query) Set(key string, value any) *Query {
	q.params.Set(key, value)
	return q
}

// Get returns the value stored under key.
func (q *Query) Get(key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	return q.params.Get(key)
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return q.params.Len()
}

// Keys returns the parameter names in insertion order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	keys := make([]string, 0, q.params.Len())
	for pair := q.params.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Encode renders the query as key=value pairs joined by '&', URL-encoded and in
// insertion order. It returns an empty string for an empty query.
func (q *Query) Encode() (string, error) {
	if q.Len() == 0 {
		return "", nil
	}
	var b strings.Builder
	for pair := q.params.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			continue
		}
		v, err := formatScalar(pair.Value)
		if err != nil {
			return "", fmt.Errorf("query parameter %q: %w", pair.Key, err)
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String(), nil
}

func formatScalar(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format(time.RFC3339), nil
	}
	return cast.ToStringE(v)
}
