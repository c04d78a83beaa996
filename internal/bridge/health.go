package bridge

import (
	"context"
	"net/http"
	"strings"
	"time"

	"botnology/internal/tutor"
)

// Health is the result of one probe of the API. It is always a value, never an error.
type Health struct {
	Online    bool
	Detail    string
	CheckedAt time.Time
}

func (h Health) Label() string {
	if h.Online {
		return "Online"
	}
	return "Offline"
}

// Service is the status shown next to the tutor: Operational or Degraded.
func (h Health) Service() string {
	if h.Online {
		return "Operational"
	}
	return "Degraded"
}

// CheckHealth probes GET /api/health. Only {"status":"ok"} counts as online; other fields in
// the body are ignored.
func CheckHealth(ctx context.Context, c *tutor.Client) Health {
	h := Health{CheckedAt: time.Now()}
	out, err := c.Do(ctx, http.MethodGet, "/api/health", nil, false)
	switch {
	case err != nil:
		h.Detail = err.Error()
	case out.Err != nil:
		h.Detail = out.Err.Error()
	case strings.TrimSpace(out.String("status")) == "ok":
		h.Online = true
	default:
		h.Detail = "unexpected health response"
	}
	return h
}
