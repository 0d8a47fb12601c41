package apiclient

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// timeLayouts are tried in order when decoding timestamps. The backend emits
// naive ISO 8601 timestamps without a zone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime parses a timestamp in any of the layouts the API produces.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}

// As decodes a plain result into T using the json field names of T. It takes the
// (value, error) pair returned by client calls and passes a non-nil error through.
//
//	logs, err := apiclient.As[[]models.FirewallLog](c.Logs.GetAll(ctx, q))
func As[T any](v any, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if s, ok := v.(string); ok {
		if _, isString := any(out).(string); !isString {
			return out, fmt.Errorf("expected a JSON value, got text response %q", truncate(s, 64))
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &out,
		TagName:    "json",
		DecodeHook: stringToTimeHook,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
