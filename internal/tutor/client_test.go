package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"botnology/internal/model"

	"github.com/rs/zerolog"
)

func TestReadAndClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		reply   string
	}{
		{name: "reply", status: 200, body: `{"reply":"42"}`, reply: "42"},
		{name: "detail wins", status: 400, body: `{"detail":"bad plan","error":"other"}`, wantErr: "bad plan"},
		{name: "error field", status: 502, body: `{"error":"upstream down"}`, wantErr: "upstream down"},
		{name: "raw body", status: 500, body: "not json", wantErr: "not json"},
		{name: "empty body", status: 503, body: "", wantErr: "request failed (HTTP 503)"},
		{name: "structured detail", status: 422, body: `{"detail":[{"loc":["body"]}]}`, wantErr: `[{"loc":["body"]}]`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			resp := &http.Response{StatusCode: tc.status, Body: io.NopCloser(strings.NewReader(tc.body))}
			out := ReadAndClassify(resp)
			if tc.wantErr == "" {
				if out.Err != nil {
					t.Fatalf("unexpected error: %v", out.Err)
				}
				if got := out.String("reply"); got != tc.reply {
					t.Fatalf("reply=%q; want %q", got, tc.reply)
				}
				return
			}
			if out.Err == nil {
				t.Fatalf("expected error %q", tc.wantErr)
			}
			if out.Err.Error() != tc.wantErr {
				t.Fatalf("error=%q; want %q", out.Err.Error(), tc.wantErr)
			}
			var he *HTTPError
			if !errors.As(out.Err, &he) || he.Status != tc.status {
				t.Fatalf("expected HTTPError with status %d; got %#v", tc.status, out.Err)
			}
		})
	}
}

func TestChat_SendsTranscriptAndContext(t *testing.T) {
	t.Parallel()

	var got ChatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"reply":"  Mitochondria.  "}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, zerolog.Nop())
	c.Tokens = staticToken("tok-123")
	history := []model.ChatTurn{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleAssistant, Text: "hello"},
	}
	snap := model.ContextSnapshot{Project: "Anatomy & Physiology", Folder: "Lecture Notes", Plan: "FREE"}

	reply, err := c.Chat(context.Background(), history, "powerhouse of the cell?", snap)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Mitochondria." {
		t.Fatalf("reply=%q", reply)
	}
	if auth != "Bearer tok-123" {
		t.Fatalf("authorization=%q", auth)
	}
	if len(got.Messages) != 4 || got.Messages[0].Role != "system" || got.Messages[3].Content != "powerhouse of the cell?" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Context.Project != snap.Project || got.Context.Folder != snap.Folder || got.Context.Plan != snap.Plan {
		t.Fatalf("unexpected context: %+v", got.Context)
	}
}

func TestChat_EmptyReply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Chat(context.Background(), nil, "q", model.ContextSnapshot{})
	if err == nil || err.Error() != "No reply returned." {
		t.Fatalf("expected %q; got %v", NoReply, err)
	}
}

func TestChat_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, zerolog.Nop()).Chat(context.Background(), nil, "q", model.ContextSnapshot{})
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError; got %T %v", err, err)
	}
	if !strings.HasPrefix(err.Error(), "network error: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestChat_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond, zerolog.Nop()).Chat(context.Background(), nil, "q", model.ContextSnapshot{})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError; got %T %v", err, err)
	}
	if te.After != 50*time.Millisecond {
		t.Fatalf("unexpected timeout %s", te.After)
	}
}

func TestDo_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", 0, zerolog.Nop()).Do(context.Background(), http.MethodGet, "/api/health", nil, false); err == nil {
		t.Fatalf("expected error without base url")
	}
}

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) { return string(s), nil }
