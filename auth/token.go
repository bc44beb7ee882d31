package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCookieName = "portfolio_session"
	tokenIssuer       = "portfolio-admin"
)

// TokenProvider signs in the single operator configured at startup and keeps
// the session in an HS256 JWT. Signed-out tokens are revoked until they expire.
type TokenProvider struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	cookieName   string
	secureCookie bool
	now          func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

type TokenOption func(*TokenProvider)

func WithTTL(ttl time.Duration) TokenOption {
	return func(p *TokenProvider) { p.ttl = ttl }
}

func WithCookieName(name string) TokenOption {
	return func(p *TokenProvider) { p.cookieName = name }
}

func WithSecureCookie(secure bool) TokenOption {
	return func(p *TokenProvider) { p.secureCookie = secure }
}

func withClock(now func() time.Time) TokenOption {
	return func(p *TokenProvider) { p.now = now }
}

// NewTokenProvider expects passwordHash to be a bcrypt hash.
func NewTokenProvider(email, passwordHash, secret string, opts ...TokenOption) (*TokenProvider, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errs.NewEnvironmentVariableError("OPERATOR_EMAIL")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, errs.NewConfigError("OPERATOR_PASSWORD_HASH", err)
	}
	if len(secret) < 32 {
		return nil, errs.NewConfigError("SESSION_SECRET", errors.New("must be at least 32 bytes"))
	}

	p := &TokenProvider{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          12 * time.Hour,
		cookieName:   DefaultCookieName,
		secureCookie: true,
		now:          time.Now,
		revoked:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *TokenProvider) SignIn(_ context.Context, w http.ResponseWriter, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	// always run bcrypt so a wrong email costs the same as a wrong password
	hashErr := bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password))
	if email != p.email || hashErr != nil {
		return nil, errs.NewInvalidCredentialsError(hashErr)
	}

	now := p.now()
	expires := now.Add(p.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   p.email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return &Identity{Subject: p.email, Email: p.email, ExpiresAt: expires, Token: signed}, nil
}

func (p *TokenProvider) Resolve(r *http.Request, _ http.ResponseWriter) (*Identity, error) {
	claims, err := p.parse(r)
	if err != nil {
		return nil, err
	}
	return &Identity{Subject: claims.Subject, Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (p *TokenProvider) SignOut(r *http.Request, w http.ResponseWriter) error {
	claims, err := p.parse(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.revoked[claims.ID] = claims.ExpiresAt.Time
	p.pruneLocked()
	p.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (p *TokenProvider) parse(r *http.Request) (*jwt.RegisteredClaims, error) {
	raw := tokenFromRequest(r, p.cookieName)
	if raw == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", errs.ErrTokenExpired, err)
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	if claims.Subject != p.email {
		return nil, errs.NewInvalidTokenError(fmt.Errorf("unexpected subject %q", claims.Subject))
	}

	p.mu.Lock()
	_, revoked := p.revoked[claims.ID]
	p.mu.Unlock()
	if revoked {
		return nil, errs.NewInvalidTokenError(errors.New("token revoked"))
	}
	return claims, nil
}

func (p *TokenProvider) pruneLocked() {
	now := p.now()
	for id, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, id)
		}
	}
}

// tokenFromRequest prefers the Authorization header over the cookie.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
