package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/auth"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	provider  auth.Provider
}

func newAuthHandler(provider auth.Provider) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		provider:  provider,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login signs the operator in
// @Summary Operator sign-in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} SessionResponse "Authenticated session with success notice"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing fields"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid email or password"
// @Router /admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.Email) == "" {
			fields["email"] = "Email is required."
		}
		if req.Password == "" {
			fields["password"] = "Password is required."
		}
		if len(fields) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fields))
			return
		}

		identity, err := h.provider.SignIn(r.Context(), w, strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			h.logger.Warn().Err(err).Msg("sign-in failed")
			if errs.IsInvalidCredentialsError(err) {
				err = errs.NewUnauthorizedError(msgLoginFailed)
			}
			h.responder.WriteErrorNotice(w, err, msgLoginFailed)
			return
		}

		notice := successNotice(msgLoggedIn)
		h.responder.WriteJSON(w, SessionResponse{
			Session: &auth.Session{State: auth.Authenticated, Identity: identity},
			Notice:  &notice,
		})
	}
}

// logout ends the operator session
// @Summary Operator sign-out
// @Tags Auth
// @Produce json
// @Success 200 {object} NoticeResponse "Success notice"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Provider unreachable"
// @Router /admin/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.provider.SignOut(r, w); err != nil {
			h.logger.Error().Err(err).Msg("sign-out failed")
			h.responder.WriteErrorNotice(w, err, msgLogoutFailed)
			return
		}
		h.responder.WriteNotice(w, http.StatusOK, successNotice(msgLoggedOut))
	}
}

// getSession returns the operator resolved by the gate
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse "Authenticated session"
// @Router /admin/session [get]
func (h authHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFrom(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		h.responder.WriteJSON(w, SessionResponse{Session: session})
	}
}
