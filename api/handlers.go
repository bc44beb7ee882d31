package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/config"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(stores stores, rt *router) *routeHandlers {
	return &routeHandlers{
		healthHandler:      newHealthHandler(stores.db, rt.startupTime),
		contactHandler:     newContactHandler(stores.contacts, rt.notifier, rt.proposals),
		testimonialHandler: newTestimonialHandler(stores.testimonials, rt.notifier, config.GetDuration(rt.config, "SSE_HEARTBEAT", defaultHeartbeat)),
		projectHandler:     newProjectHandler(stores.projects),
		authHandler:        newAuthHandler(rt.provider),
		dashboardHandler:   newDashboardHandler(stores, config.GetDuration(rt.config, "DASHBOARD_TIMEOUT", defaultDashboardTimeout)),
	}
}

// parseID reads a UUID path parameter
func parseID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + param)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestErrorWithField("invalid "+param, param, "must be a UUID")
	}
	return id, nil
}

// backgroundTimeout bounds work a handler leaves running after it responds.
const backgroundTimeout = 15 * time.Second

// detach runs fn after the handler returns, with a context that keeps the
// request's values but not its cancellation.
func detach(r *http.Request, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), backgroundTimeout)
	go func() {
		defer cancel()
		fn(ctx)
	}()
}

// confirmed reports whether a destructive request carries an explicit confirmation
func confirmed(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("confirm"), "true") ||
		strings.EqualFold(r.Header.Get("X-Confirm"), "true")
}
