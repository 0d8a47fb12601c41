package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResultKind tells how a response body was interpreted.
type ResultKind int

const (
	// ResultJSON means the body was declared as JSON and parsed.
	ResultJSON ResultKind = iota + 1
	// ResultText means the body was returned as plain text.
	ResultText
)

func (k ResultKind) String() string {
	switch k {
	case ResultJSON:
		return "json"
	case ResultText:
		return "text"
	default:
		return "unknown"
	}
}

// Result is a response body resolved once from the declared content type.
// Exactly one of JSON or Text is meaningful, as selected by Kind.
type Result struct {
	Kind       ResultKind
	JSON       any
	Text       string
	StatusCode int
	Header     http.Header
	raw        []byte
}

// Value unwraps the result to the parsed JSON value or the raw text.
func (r *Result) Value() any {
	if r.Kind == ResultJSON {
		return r.JSON
	}
	return r.Text
}

// Raw returns the body bytes as received.
func (r *Result) Raw() []byte {
	return r.raw
}

// Decode unmarshals a JSON body into v.
func (r *Result) Decode(v any) error {
	if r.Kind != ResultJSON {
		return fmt.Errorf("cannot decode %s response as JSON", r.Kind)
	}
	return json.Unmarshal(r.raw, v)
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// readResult reads and interprets the response body. A JSON body that fails to
// parse is an encoding error on success statuses; on failure statuses the body
// falls back to text so the status error still reaches the caller.
func readResult(res *http.Response) (*Result, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("reading response body: %w", err))
	}

	r := &Result{
		Kind:       ResultText,
		Text:       string(body),
		StatusCode: res.StatusCode,
		Header:     res.Header,
		raw:        body,
	}

	if !isJSONContentType(res.Header.Get("Content-Type")) {
		return r, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		r.Kind = ResultJSON
		r.Text = ""
		return r, nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		if isSuccess(res.StatusCode) {
			return nil, newEncodingError("parsing JSON response", err)
		}
		return r, nil
	}
	r.Kind = ResultJSON
	r.JSON = v
	r.Text = ""
	return r, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
