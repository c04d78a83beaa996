// Package tutor is the client for the remote tutoring API: chat, and the shared request path
// used by the health and checkout bridges.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"botnology/internal/model"

	"github.com/rs/zerolog"
)

const DefaultTimeout = 60 * time.Second

// SystemPrompt opens every conversation sent to the chat endpoint.
const SystemPrompt = "You are Dr. Botonic, a helpful tutor. Keep answers clear and structured."

// NoReply is surfaced when a successful response carries no usable reply.
const NoReply = "No reply returned."

var ErrNoReply = errors.New(NoReply)

// TokenSource supplies the bearer token forwarded with chat requests. An empty token sends
// the request unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Client struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
	Tokens  TokenSource
	// Header is added to every request.
	Header http.Header
	Log    zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Timeout: timeout,
		HTTP:    &http.Client{},
		Log:     log.With().Str("component", "tutor").Logger(),
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Context struct {
	Project string `json:"project"`
	Folder  string `json:"folder"`
	Plan    string `json:"plan"`
}

type ChatRequest struct {
	Messages []Message `json:"messages"`
	Context  Context   `json:"context"`
}

// NewChatRequest builds the request body: the system prompt, the prior transcript and the new
// user message, plus the context snapshot.
func NewChatRequest(history []model.ChatTurn, text string, snap model.ContextSnapshot) ChatRequest {
	msgs := make([]Message, 0, len(history)+2)
	msgs = append(msgs, Message{Role: "system", Content: SystemPrompt})
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		msgs = append(msgs, Message{Role: string(t.Role), Content: t.Text})
	}
	msgs = append(msgs, Message{Role: string(model.RoleUser), Content: text})
	return ChatRequest{
		Messages: msgs,
		Context:  Context{Project: snap.Project, Folder: snap.Folder, Plan: snap.Plan},
	}
}

// Chat sends one message and returns the trimmed reply.
func (c *Client) Chat(ctx context.Context, history []model.ChatTurn, text string, snap model.ContextSnapshot) (string, error) {
	out, err := c.Do(ctx, http.MethodPost, "/api/chat", NewChatRequest(history, text, snap), true)
	if err != nil {
		return "", err
	}
	if out.Err != nil {
		return "", out.Err
	}
	reply := strings.TrimSpace(out.String("reply"))
	if reply == "" {
		return "", ErrNoReply
	}
	return reply, nil
}

// Do issues one request under the client timeout and classifies the response. The returned
// error covers transport failures only; HTTP-level failures are in Outcome.Err.
func (c *Client) Do(ctx context.Context, method, path string, body any, withAuth bool) (Outcome, error) {
	if c.BaseURL == "" {
		return Outcome{}, errors.New("api base url is not configured")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Outcome{}, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	var req *http.Request
	var err error
	if rdr != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth && c.Tokens != nil {
		tok, err := c.Tokens.AccessToken(ctx)
		if err != nil {
			c.Log.Debug().Err(err).Msg("no access token; sending unauthenticated")
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.Log.Warn().Str("path", path).Dur("timeout", timeout).Msg("request timed out")
			return Outcome{}, &TimeoutError{After: timeout}
		}
		c.Log.Warn().Err(err).Str("path", path).Msg("network error")
		return Outcome{}, &NetworkError{Err: err}
	}
	out := ReadAndClassify(resp)
	c.Log.Debug().Str("method", method).Str("path", path).Int("status", out.Status).Dur("took", time.Since(start)).Msg("request")
	return out, nil
}

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("request timed out after %s", e.After) }
