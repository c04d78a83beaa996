package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"botnology/internal/tutor"

	"github.com/MicahParks/keyfunc/v3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var ErrLoginRequired = errors.New("login required")

// LoginRequiredError carries where the user should go to sign in.
type LoginRequiredError struct {
	URL string
}

func (e *LoginRequiredError) Error() string {
	if e.URL == "" {
		return "login required: run `botnology login`"
	}
	return "login required: run `botnology login` or visit " + e.URL
}

func (e *LoginRequiredError) Unwrap() error { return ErrLoginRequired }

// Claims are the access-token claims we read: identity and expiry.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(token string) (*Claims, error)
}

// JWKSVerifier checks signatures against the provider's published keys.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
}

func NewJWKSVerifier(ctx context.Context, jwksURL string) (*JWKSVerifier, error) {
	if strings.TrimSpace(jwksURL) == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}
	return &JWKSVerifier{jwks: jwks}, nil
}

func (v *JWKSVerifier) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	if claims.Role != "authenticated" {
		return nil, fmt.Errorf("token role %q is not authenticated", claims.Role)
	}
	return claims, nil
}

// UnverifiedClaims decodes claims without checking the signature. Used for identity and
// expiry display when no JWKS endpoint is configured.
func UnverifiedClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

type Auth struct {
	SupabaseURL string
	AnonKey     string
	AppURL      string
	Sessions    SessionFile
	Verifier    Verifier
	HTTP        *http.Client
	Log         zerolog.Logger

	now func() time.Time
}

func (a *Auth) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// LoginURL is where the web app signs users in.
func (a *Auth) LoginURL() string {
	base := strings.TrimRight(strings.TrimSpace(a.AppURL), "/")
	if base == "" {
		return ""
	}
	return base + "/login"
}

// GetSession returns the stored session, or nil when there is none or it is no longer usable.
func (a *Auth) GetSession(ctx context.Context) (*Session, error) {
	s, err := a.Sessions.Load()
	if err != nil || s == nil {
		return nil, err
	}
	now := a.clock()
	if s.Expired(now) {
		a.Log.Debug().Msg("session expired")
		return nil, nil
	}
	if a.Verifier != nil {
		claims, err := a.Verifier.Verify(s.AccessToken)
		if err != nil {
			a.Log.Warn().Err(err).Msg("session token rejected")
			return nil, nil
		}
		fillUser(s, claims)
		return s, nil
	}
	if claims, err := UnverifiedClaims(s.AccessToken); err == nil {
		if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
			return nil, nil
		}
		fillUser(s, claims)
	}
	return s, nil
}

func fillUser(s *Session, c *Claims) {
	if s.User.ID == "" {
		s.User.ID = c.Subject
	}
	if s.User.Email == "" {
		s.User.Email = c.Email
	}
}

// Gate returns the session or a *LoginRequiredError.
func (a *Auth) Gate(ctx context.Context) (*Session, error) {
	s, err := a.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &LoginRequiredError{URL: a.LoginURL()}
	}
	return s, nil
}

// AccessToken satisfies tutor.TokenSource.
func (a *Auth) AccessToken(ctx context.Context) (string, error) {
	s, err := a.GetSession(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.AccessToken, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Password, validation.Required),
	)
}

// Login exchanges email/password for a session with the password grant and stores it.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	creds := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.SupabaseURL) == "" || strings.TrimSpace(a.AnonKey) == "" {
		return nil, errors.New("auth is not configured (auth.supabase_url, auth.anon_key)")
	}

	c := &tutor.Client{
		BaseURL: strings.TrimRight(a.SupabaseURL, "/"),
		Timeout: 30 * time.Second,
		HTTP:    a.httpClient(),
		Log:     a.Log,
		Tokens:  anonKey(a.AnonKey),
		Header:  http.Header{},
	}
	c.Header.Set("apikey", a.AnonKey)
	out, err := c.Do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", creds, true)
	if err != nil {
		return nil, err
	}
	if out.Err != nil {
		if d := strings.TrimSpace(out.String("error_description")); d != "" {
			return nil, errors.New(d)
		}
		return nil, out.Err
	}

	s := Session{
		AccessToken:  out.String("access_token"),
		RefreshToken: out.String("refresh_token"),
	}
	if v, ok := out.Fields["expires_at"].(float64); ok {
		s.ExpiresAt = int64(v)
	} else if v, ok := out.Fields["expires_in"].(float64); ok {
		s.ExpiresAt = a.clock().Add(time.Duration(v) * time.Second).Unix()
	}
	if u, ok := out.Fields["user"].(map[string]any); ok {
		s.User.ID, _ = u["id"].(string)
		s.User.Email, _ = u["email"].(string)
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return nil, errors.New("auth provider returned no access token")
	}
	if err := a.Sessions.Save(s); err != nil {
		return nil, err
	}
	a.Log.Info().Str("user", s.User.Email).Msg("signed in")
	return &s, nil
}

func (a *Auth) Logout() error {
	if err := a.Sessions.Remove(); err != nil {
		return err
	}
	a.Log.Info().Msg("signed out")
	return nil
}

func (a *Auth) httpClient() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return &http.Client{}
}

type anonKey string

func (k anonKey) AccessToken(context.Context) (string, error) { return string(k), nil }
