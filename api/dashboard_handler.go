package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultDashboardTimeout = 10 * time.Second

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	stores    stores
	timeout   time.Duration
}

func newDashboardHandler(stores stores, timeout time.Duration) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		stores:    stores,
		timeout:   timeout,
	}
}

// getDashboard returns the moderation counters
// @Summary Admin dashboard counts
// @Tags Admin
// @Produce json
// @Success 200 {object} DashboardStats "Collection counts"
// @Failure 408 {object} map[string]any "Request Timeout - Counts took too long"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error loading dashboard"
// @Router /admin/dashboard [get]
func (h dashboardHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deadline, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		var stats DashboardStats
		g, ctx := errgroup.WithContext(deadline)

		g.Go(func() (err error) {
			stats.Testimonials, err = h.stores.testimonials.Count(ctx, models.FilterAll)
			return err
		})
		g.Go(func() (err error) {
			stats.PendingTestimonials, err = h.stores.testimonials.Count(ctx, models.FilterPending)
			return err
		})
		g.Go(func() (err error) {
			stats.Contacts, err = h.stores.contacts.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			stats.Projects, err = h.stores.projects.Count(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				h.logger.Warn().Dur("timeout", h.timeout).Msg("dashboard counts timed out")
				h.responder.WriteTimeoutError(w, h.timeout, r.URL.Path)
				return
			}
			h.responder.WriteErrorNotice(w, wrapDatabaseError("count", "dashboard", err), msgDashboardFailed)
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}
