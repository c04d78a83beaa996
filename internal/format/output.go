// Package format renders command results for scripts: JSON by default, or EDN.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
)

func Formats() []string { return []string{JSON, EDN} }

// Envelope wraps every command payload so scripts can rely on a top-level "data" key.
// Meta carries hints such as a login URL.
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s (expected json or edn)", format)
	}
}

// WriteJSON writes one JSON document followed by a newline. HTML escaping is off so names
// like "Anatomy & Physiology" print as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	b, err := marshalJSON(v, pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
