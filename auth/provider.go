package auth

import (
	"context"
	"net/http"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
)

// ErrNoSession is matched by Resolve errors when the request carries no
// session at all.
var ErrNoSession = errs.ErrMissingToken

// Provider is the external collaborator owning sign-in, session persistence
// and refresh. Resolve and SignOut may write cookies to w.
type Provider interface {
	SignIn(ctx context.Context, w http.ResponseWriter, email, password string) (*Identity, error)
	Resolve(r *http.Request, w http.ResponseWriter) (*Identity, error)
	SignOut(r *http.Request, w http.ResponseWriter) error
}
