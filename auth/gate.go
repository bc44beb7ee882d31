package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultLoginPath      = "/admin/login"
	DefaultResolveTimeout = 3 * time.Second
)

// Gate admits only authenticated requests to the wrapped handler.
type Gate struct {
	provider   Provider
	loginPath  string
	timeout    time.Duration
	retryAfter time.Duration
	logger     zerolog.Logger
}

type GateOption func(*Gate)

func WithLoginPath(path string) GateOption {
	return func(g *Gate) { g.loginPath = path }
}

// WithResolveTimeout bounds how long the provider may take before the
// session is reported as unknown.
func WithResolveTimeout(d time.Duration) GateOption {
	return func(g *Gate) { g.timeout = d }
}

func NewGate(provider Provider, opts ...GateOption) *Gate {
	g := &Gate{
		provider:   provider,
		loginPath:  DefaultLoginPath,
		timeout:    DefaultResolveTimeout,
		retryAfter: time.Second,
		logger:     log.With().Str("component", "authGate").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) LoginPath() string {
	return g.loginPath
}

// Resolve asks the provider for the request's session. It never fails:
// anything the provider cannot answer in time is Unknown, anything it rejects
// is Unauthenticated.
func (g *Gate) Resolve(r *http.Request, w http.ResponseWriter) *Session {
	ctx, cancel := context.WithTimeout(r.Context(), g.timeout)
	defer cancel()

	identity, err := g.provider.Resolve(r.WithContext(ctx), w)
	switch {
	case err == nil && identity != nil:
		return &Session{State: Authenticated, Identity: identity}
	case err == nil, errs.IsMissingTokenError(err):
		return &Session{State: Unauthenticated}
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, errs.ErrSessionUnresolved),
		errs.IsServiceUnreachableError(err):
		g.logger.Warn().Err(err).Msg("session could not be resolved")
		return &Session{State: Unknown}
	case errs.IsInvalidTokenError(err), errs.IsTokenExpiredError(err), errs.IsUnauthorized(err):
		g.logger.Debug().Err(err).Msg("session rejected")
		return &Session{State: Unauthenticated}
	default:
		g.logger.Warn().Err(err).Msg("unexpected provider error, treating session as signed out")
		return &Session{State: Unauthenticated}
	}
}

// Middleware injects the resolved session and lets only authenticated
// requests through.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := g.Resolve(r, w)

		switch session.State {
		case Authenticated:
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		case Unknown:
			w.Header().Set("Retry-After", strconv.Itoa(int(g.retryAfter.Seconds())))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"state": Unknown.String()})
		default:
			if wantsHTML(r) {
				// 303 makes the browser replace the request with a GET of the login page
				http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":    "unauthorized",
				"state":    Unauthenticated.String(),
				"redirect": g.loginPath,
			})
		}
	})
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
