package cli

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// applyOverrides sets path=value pairs on a document. Paths use the dotted
// syntax of sjson (e.g. user.role, tags.-1). A value that is valid JSON is
// stored as that JSON, so 80 is a number and "80" a string; anything else is
// stored as a string.
func applyOverrides(doc map[string]any, overrides []string) (map[string]any, error) {
	if len(overrides) == 0 {
		return doc, nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	for _, o := range overrides {
		path, value, ok := strings.Cut(o, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid override %q, expected path=value", o)
		}
		body, err = setJSONValue(body, path, value)
		if err != nil {
			return nil, fmt.Errorf("applying override %q: %w", o, err)
		}
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return out, nil
}

// setJSONValue sets value at path in the JSON document body.
func setJSONValue(body []byte, path, value string) ([]byte, error) {
	if gjson.Valid(value) {
		return sjson.SetRawBytes(body, path, []byte(value))
	}
	return sjson.SetBytes(body, path, value)
}
