package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"botnology/internal/tutor"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func testClient(url string) *tutor.Client {
	return tutor.NewClient(url, time.Second, zerolog.Nop())
}

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		online bool
	}{
		{name: "ok", status: 200, body: `{"status":"ok","service":"tutor"}`, online: true},
		{name: "other status", status: 200, body: `{"status":"degraded"}`},
		{name: "not json", status: 200, body: `ok`},
		{name: "server error", status: 500, body: `{"status":"ok"}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			h := CheckHealth(context.Background(), testClient(srv.URL))
			if h.Online != tc.online {
				t.Fatalf("online=%v; want %v (detail %q)", h.Online, tc.online, h.Detail)
			}
			wantLabel, wantService := "Offline", "Degraded"
			if tc.online {
				wantLabel, wantService = "Online", "Operational"
			}
			if h.Label() != wantLabel || h.Service() != wantService {
				t.Fatalf("labels=%s/%s; want %s/%s", h.Label(), h.Service(), wantLabel, wantService)
			}
		})
	}
}

func TestCheckHealth_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := CheckHealth(context.Background(), testClient(url))
	if h.Online || !strings.HasPrefix(h.Detail, "network error") {
		t.Fatalf("expected offline with network error; got %+v", h)
	}
}

func TestCheckout_OpensReturnedURL(t *testing.T) {
	t.Parallel()

	var gotPlan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Plan string `json:"plan"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPlan = body.Plan
		_, _ = io.WriteString(w, `{"url":"https://checkout.example/session/1"}`)
	}))
	defer srv.Close()

	var opened []string
	open := OpenerFunc(func(u string) error { opened = append(opened, u); return nil })

	url, err := Checkout(context.Background(), testClient(srv.URL), "SEMI_PRO", open)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if gotPlan != "semi_pro" {
		t.Fatalf("plan sent=%q; want semi_pro", gotPlan)
	}
	if url != "https://checkout.example/session/1" || len(opened) != 1 || opened[0] != url {
		t.Fatalf("unexpected open: url=%q opened=%v", url, opened)
	}
}

func TestCheckout_FailuresNeverNavigate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		plan    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http detail", plan: "pro", status: 400, body: `{"detail":"Stripe is not configured"}`, wantErr: "Stripe is not configured"},
		{name: "missing url", plan: "pro", status: 200, body: `{}`, wantErr: "no checkout url"},
		{name: "unknown plan", plan: "gold", wantErr: "unknown plan"},
		{name: "free plan", plan: "free", wantErr: "no checkout"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			opened := false
			_, err := Checkout(context.Background(), testClient(srv.URL), tc.plan, OpenerFunc(func(string) error {
				opened = true
				return nil
			}))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q; got %v", tc.wantErr, err)
			}
			if opened {
				t.Fatalf("expected no navigation on failure")
			}
		})
	}
}

func signedToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestGate_NoSessionRequiresLogin(t *testing.T) {
	t.Parallel()

	a := &Auth{AppURL: "https://app.example/", Sessions: SessionFileIn(t.TempDir()), Log: zerolog.Nop()}
	_, err := a.Gate(context.Background())
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired; got %v", err)
	}
	var lre *LoginRequiredError
	if !errors.As(err, &lre) || lre.URL != "https://app.example/login" {
		t.Fatalf("expected login url; got %#v", err)
	}
}

func TestGetSession_ReadsIdentityAndExpiry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sf := SessionFileIn(dir)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &Auth{Sessions: sf, Log: zerolog.Nop(), now: func() time.Time { return now }}

	if err := sf.Save(Session{AccessToken: signedToken(t, "ada@example.com", now.Add(time.Hour))}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s, err := a.Gate(context.Background())
	if err != nil {
		t.Fatalf("Gate: %v", err)
	}
	if s.User.Email != "ada@example.com" || s.User.ID != "user-1" {
		t.Fatalf("unexpected user %+v", s.User)
	}
	if tok, _ := a.AccessToken(context.Background()); tok != s.AccessToken {
		t.Fatalf("AccessToken mismatch")
	}

	if err := sf.Save(Session{AccessToken: signedToken(t, "ada@example.com", now.Add(-time.Minute))}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s, _ := a.GetSession(context.Background()); s != nil {
		t.Fatalf("expected expired token to read as no session")
	}

	if err := sf.Save(Session{AccessToken: "opaque", ExpiresAt: now.Add(-time.Second).Unix()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s, _ := a.GetSession(context.Background()); s != nil {
		t.Fatalf("expected expires_at in the past to read as no session")
	}
}

type rejectAll struct{}

func (rejectAll) Verify(string) (*Claims, error) { return nil, errors.New("bad signature") }

func TestGetSession_VerifierRejection(t *testing.T) {
	t.Parallel()

	sf := SessionFileIn(t.TempDir())
	if err := sf.Save(Session{AccessToken: signedToken(t, "x@example.com", time.Now().Add(time.Hour))}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	a := &Auth{Sessions: sf, Verifier: rejectAll{}, Log: zerolog.Nop()}
	if s, err := a.GetSession(context.Background()); err != nil || s != nil {
		t.Fatalf("expected rejected token to read as no session; got %+v %v", s, err)
	}
}

func TestSessionFile_CorruptReadsAsSignedOut(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SessionFileName), []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := SessionFileIn(dir).Load()
	if err != nil || s != nil {
		t.Fatalf("expected nil session; got %+v %v", s, err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	t.Parallel()

	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		gotQuery = r.URL.RawQuery
		var creds credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "hunter22" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok","refresh_token":"ref","expires_in":3600,"user":{"id":"u1","email":"ada@example.com"}}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := &Auth{SupabaseURL: srv.URL, AnonKey: "anon", Sessions: SessionFileIn(dir), Log: zerolog.Nop()}

	if _, err := a.Login(context.Background(), "ada@example.com", "wrong"); err == nil || err.Error() != "Invalid login credentials" {
		t.Fatalf("expected provider error description; got %v", err)
	}
	if _, err := a.Login(context.Background(), "not-an-email", "hunter22"); err == nil {
		t.Fatalf("expected validation error for malformed email")
	}

	s, err := a.Login(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotKey != "anon" || gotQuery != "grant_type=password" {
		t.Fatalf("unexpected request: apikey=%q query=%q", gotKey, gotQuery)
	}
	if s.User.Email != "ada@example.com" || s.ExpiresAt == 0 {
		t.Fatalf("unexpected session %+v", s)
	}
	if stored, _ := a.GetSession(context.Background()); stored == nil || stored.AccessToken != "tok" {
		t.Fatalf("expected stored session; got %+v", stored)
	}

	if err := a.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := a.Gate(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected login required after logout; got %v", err)
	}
	if err := a.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
