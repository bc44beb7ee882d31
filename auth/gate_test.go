package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	identity *Identity
	err      error
	block    bool
}

func (s stubProvider) SignIn(context.Context, http.ResponseWriter, string, string) (*Identity, error) {
	return s.identity, s.err
}

func (s stubProvider) Resolve(r *http.Request, _ http.ResponseWriter) (*Identity, error) {
	if s.block {
		<-r.Context().Done()
		return nil, r.Context().Err()
	}
	return s.identity, s.err
}

func (s stubProvider) SignOut(*http.Request, http.ResponseWriter) error {
	return s.err
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, Authenticated, s.State)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestGateAuthenticated(t *testing.T) {
	gate := NewGate(stubProvider{identity: &Identity{Subject: "op"}})
	rec := httptest.NewRecorder()

	gate.Middleware(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/contacts", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGateUnauthenticatedAPI(t *testing.T) {
	for name, err := range map[string]error{
		"no session":    ErrNoSession,
		"missing token": errs.NewMissingTokenError(),
		"invalid token": errs.NewInvalidTokenError(errors.New("bad signature")),
		"expired token": fmt.Errorf("%w: exp", errs.ErrTokenExpired),
		"unauthorized":  errs.Unauthorized,
		"unexpected":    errors.New("provider bug"),
	} {
		t.Run(name, func(t *testing.T) {
			gate := NewGate(stubProvider{err: err})
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/admin/contacts", nil)
			r.Header.Set("Accept", "application/json")

			gate.Middleware(okHandler(t)).ServeHTTP(rec, r)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "/admin/login", body["redirect"])
			assert.Equal(t, "unauthenticated", body["state"])
		})
	}
}

func TestGateUnauthenticatedBrowserRedirects(t *testing.T) {
	gate := NewGate(stubProvider{err: ErrNoSession}, WithLoginPath("/login"))
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")

	gate.Middleware(okHandler(t)).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateUnknownWhenProviderTimesOut(t *testing.T) {
	gate := NewGate(stubProvider{block: true}, WithResolveTimeout(20*time.Millisecond))
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.Header.Set("Accept", "text/html")

	gate.Middleware(okHandler(t)).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"state":"unknown"}`, rec.Body.String())
}

func TestGateUnknownWhenProviderUnreachable(t *testing.T) {
	gate := NewGate(stubProvider{err: errs.NewServiceUnreachableError("descope", errors.New("dial tcp"))})
	assert.Equal(t, Unknown, gate.Resolve(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()).State)
}

func TestSessionFromEmptyContext(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)
}

func TestStateMarshalsAsText(t *testing.T) {
	b, err := json.Marshal(Session{State: Authenticated})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"authenticated"}`, string(b))
}
