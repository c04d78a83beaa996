package tutor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBody bounds how much of a response is read; the chat replies we care about are small.
const maxBody = 4 << 20

// HTTPError is a non-2xx outcome. Message is already the best human-readable detail.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// Outcome is a fully read response. Fields is nil when the body is not a JSON object.
type Outcome struct {
	Status int
	Raw    string
	Fields map[string]any
	Err    error
}

// String returns a top-level string field, or "" when absent or not a string.
func (o Outcome) String(key string) string {
	if o.Fields == nil {
		return ""
	}
	s, _ := o.Fields[key].(string)
	return s
}

// ReadAndClassify reads resp.Body exactly once and attempts a single JSON parse of it.
// For non-2xx responses Err carries the first non-empty of: "detail", "error", the raw body,
// "request failed (HTTP n)".
func ReadAndClassify(resp *http.Response) Outcome {
	out := Outcome{Status: resp.StatusCode}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	_ = resp.Body.Close()
	if err != nil {
		out.Err = fmt.Errorf("read response: %w", err)
		return out
	}
	out.Raw = string(b)

	var fields map[string]any
	if json.Unmarshal(b, &fields) == nil {
		out.Fields = fields
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := firstNonEmpty(
			detailText(out.Fields["detail"]),
			detailText(out.Fields["error"]),
			strings.TrimSpace(out.Raw),
		)
		if msg == "" {
			msg = fmt.Sprintf("request failed (HTTP %d)", resp.StatusCode)
		}
		out.Err = &HTTPError{Status: resp.StatusCode, Message: msg}
	}
	return out
}

// detailText accepts a plain string detail or any other JSON value (FastAPI validation
// errors send a list), which is re-encoded compactly.
func detailText(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(d)
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
