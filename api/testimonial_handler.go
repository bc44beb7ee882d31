package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/forms"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultHeartbeat = 25 * time.Second

type testimonialHandler struct {
	responder    Responder
	logger       zerolog.Logger
	testimonials testimonialStore
	notifier     Notifier
	heartbeat    time.Duration
}

func newTestimonialHandler(testimonials testimonialStore, notifier Notifier, heartbeat time.Duration) testimonialHandler {
	logger := log.With().Str("handlerName", "testimonialHandler").Logger()
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return testimonialHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		testimonials: testimonials,
		notifier:     notifier,
		heartbeat:    heartbeat,
	}
}

func testimonialCollection(testimonials []*models.Testimonial, empty string) TestimonialCollection {
	response := TestimonialCollection{Testimonials: testimonials, Total: len(testimonials)}
	if len(testimonials) == 0 {
		response.Testimonials = []*models.Testimonial{}
		response.Notice = infoNotice(empty)
	}
	return response
}

// createTestimonial stores a new testimonial pending review
// @Summary Submit testimonial
// @Description Validates and stores a testimonial. New testimonials are never public until approved.
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param testimonial body forms.TestimonialForm true "Testimonial form"
// @Success 201 {object} CreatedResponse "Stored testimonial with success notice"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation errors by field"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error storing testimonial"
// @Router /testimonials [post]
func (h testimonialHandler) createTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.TestimonialForm
		if err := decodeJSON(w, r, &form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		testimonial, err := form.Validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.testimonials.Add(r.Context(), &testimonial); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("create", "testimonial", err), msgSubmitFailed)
			return
		}

		if h.notifier != nil {
			submitted := testimonial
			detach(r, func(ctx context.Context) { h.notifier.TestimonialSubmitted(ctx, submitted) })
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, CreatedResponse{
			ID:     testimonial.ID,
			Notice: successNotice(msgTestimonialThanks),
		})
	}
}

// countWords reports the feedback word count while the visitor types
// @Summary Count feedback words
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param body body object true "{\"text\": \"...\"}"
// @Success 200 {object} WordCountResponse "Word count and limit"
// @Router /testimonials/word-count [post]
func (h testimonialHandler) countWords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		n := forms.WordCount(body.Text)
		h.responder.WriteJSON(w, WordCountResponse{
			Count:    n,
			Limit:    forms.MaxFeedbackWords,
			Exceeded: n > forms.MaxFeedbackWords,
		})
	}
}

// getApprovedTestimonials returns the public testimonials once
// @Summary List approved testimonials
// @Tags Testimonials
// @Produce json
// @Success 200 {object} TestimonialCollection "Approved testimonials, newest first"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error loading testimonials"
// @Router /testimonials [get]
func (h testimonialHandler) getApprovedTestimonials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonials, err := h.testimonials.FindApproved(r.Context())
		if err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("find", "testimonials", err), msgLoadTestimonials)
			return
		}
		h.responder.WriteJSON(w, testimonialCollection(testimonials, msgNoTestimonials))
	}
}

// streamApprovedTestimonials pushes the approved set as server-sent events
// @Summary Stream approved testimonials
// @Description Sends a "testimonials" event with the full approved set now and after every change, until the client disconnects.
// @Tags Testimonials
// @Produce text/event-stream
// @Success 200 {object} TestimonialCollection "One event per change"
// @Router /testimonials/stream [get]
func (h testimonialHandler) streamApprovedTestimonials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// the server write timeout would cut the stream
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			h.logger.Debug().Err(err).Msg("cannot lift write deadline")
		}

		query := h.testimonials.WatchApproved(r.Context())
		defer query.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		_ = rc.Flush()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case testimonials, ok := <-query.Updates():
				if !ok {
					if err := query.Err(); err != nil {
						h.logger.Error().Err(err).Msg("live testimonial query stopped")
						h.writeEvent(w, "error", errorNotice(msgLoadTestimonials))
						_ = rc.Flush()
					}
					return
				}
				if err := h.writeEvent(w, "testimonials", testimonialCollection(testimonials, msgNoTestimonials)); err != nil {
					return
				}
				_ = rc.Flush()
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				_ = rc.Flush()
			}
		}
	}
}

func (h testimonialHandler) writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Msg("error marshaling event")
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

// getTestimonials lists testimonials for moderation
// @Summary List testimonials for moderation
// @Tags Testimonials
// @Produce json
// @Param filter query string false "all, approved or pending" Enums(all, approved, pending)
// @Success 200 {object} TestimonialCollection "Testimonials, newest first"
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown filter"
// @Router /admin/testimonials [get]
func (h testimonialHandler) getTestimonials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, ok := models.ParseTestimonialFilter(r.URL.Query().Get("filter"))
		if !ok {
			h.responder.WriteError(w, errs.NewInvalidFieldError("filter", "must be all, approved or pending"))
			return
		}

		testimonials, err := h.testimonials.Find(r.Context(), filter)
		if err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("find", "testimonials", err), msgLoadTestimonials)
			return
		}
		h.responder.WriteJSON(w, testimonialCollection(testimonials, msgNoTestimonials))
	}
}

// approveTestimonial makes a testimonial public
// @Summary Approve testimonial
// @Tags Testimonials
// @Produce json
// @Param testimonialID path string true "Testimonial ID" format(uuid)
// @Success 200 {object} NoticeResponse "Success notice"
// @Failure 404 {object} ErrorResponse "Not Found - Testimonial not found"
// @Router /admin/testimonial/{testimonialID}/approve [patch]
func (h testimonialHandler) approveTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonialID, err := parseID(r, "testimonialID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.testimonials.Approve(r.Context(), testimonialID); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("approve", "testimonial", err), msgApproveFailed)
			return
		}

		h.responder.WriteNotice(w, http.StatusOK, successNotice(msgTestimonialApproved))
	}
}

// deleteTestimonial permanently removes a testimonial in either state
// @Summary Delete testimonial
// @Description Requires confirm=true (query) or X-Confirm: true (header)
// @Tags Testimonials
// @Produce json
// @Param testimonialID path string true "Testimonial ID" format(uuid)
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} NoticeResponse "Success notice"
// @Failure 404 {object} ErrorResponse "Not Found - Testimonial not found"
// @Failure 428 {object} ErrorResponse "Precondition Required - Confirmation missing"
// @Router /admin/testimonial/{testimonialID} [delete]
func (h testimonialHandler) deleteTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonialID, err := parseID(r, "testimonialID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !confirmed(r) {
			h.responder.WriteError(w, errs.NewConfirmationRequiredError(msgConfirmTestimonial))
			return
		}

		if err := h.testimonials.Delete(r.Context(), testimonialID); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("delete", "testimonial", err), msgDeleteTestimonial)
			return
		}

		h.responder.WriteNotice(w, http.StatusOK, successNotice(msgTestimonialDeleted))
	}
}
