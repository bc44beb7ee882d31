package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/descope/go-sdk/descope/sdk"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
)

// DescopeProvider delegates sign-in and session refresh to Descope.
type DescopeProvider struct {
	auth sdk.Authentication
}

func NewDescopeProvider(projectID string) (*DescopeProvider, error) {
	if projectID == "" {
		return nil, errs.NewEnvironmentVariableError("DESCOPE_PROJECT_ID")
	}
	descopeClient, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, errs.NewConfigError("descope", err)
	}
	return &DescopeProvider{auth: descopeClient.Auth}, nil
}

func (p *DescopeProvider) SignIn(ctx context.Context, w http.ResponseWriter, email, password string) (*Identity, error) {
	info, err := p.auth.Password().SignIn(ctx, email, password, w)
	if err != nil {
		var derr *descope.Error
		if errors.As(err, &derr) {
			return nil, errs.NewInvalidCredentialsError(err)
		}
		return nil, errs.NewServiceUnreachableError("descope", err)
	}
	if info == nil || info.SessionToken == nil {
		return nil, errs.NewInvalidCredentialsError(errors.New("descope returned no session"))
	}
	id := identityFromToken(info.SessionToken, email)
	id.Token = info.SessionToken.JWT
	return id, nil
}

func (p *DescopeProvider) Resolve(r *http.Request, w http.ResponseWriter) (*Identity, error) {
	ok, token, err := p.auth.ValidateAndRefreshSessionWithRequest(r, w)
	if err != nil {
		if r.Context().Err() != nil {
			return nil, r.Context().Err()
		}
		var derr *descope.Error
		if errors.As(err, &derr) {
			return nil, errs.NewInvalidTokenError(err)
		}
		return nil, errs.NewServiceUnreachableError("descope", err)
	}
	if !ok || token == nil {
		return nil, errs.NewMissingTokenError()
	}
	return identityFromToken(token, ""), nil
}

func (p *DescopeProvider) SignOut(r *http.Request, w http.ResponseWriter) error {
	if err := p.auth.Logout(r, w); err != nil {
		return errs.NewServiceUnreachableError("descope", err)
	}
	return nil
}

func identityFromToken(token *descope.Token, email string) *Identity {
	id := &Identity{Subject: token.ID, Email: email}
	if token.Expiration > 0 {
		id.ExpiresAt = time.Unix(token.Expiration, 0).UTC()
	}
	if id.Email == "" {
		if e, ok := token.Claims["email"].(string); ok {
			id.Email = e
		}
	}
	return id
}
