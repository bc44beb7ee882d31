package api

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/forms"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rpupo63/portfolio-moderation-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  contactStore
	notifier  Notifier
	proposals ProposalStore
}

func newContactHandler(contacts contactStore, notifier Notifier, proposals ProposalStore) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
		notifier:  notifier,
		proposals: proposals,
	}
}

// createContact stores a contact form submission
// @Summary Submit contact form
// @Description Validates and stores a contact submission. Accepts JSON, or multipart/form-data with an optional projectProposal file.
// @Tags Contacts
// @Accept json,mpfd
// @Produce json
// @Param contact body forms.ContactForm true "Contact form"
// @Success 201 {object} CreatedResponse "Stored submission with success notice"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation errors by field"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error storing submission"
// @Router /contacts [post]
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, file, err := h.readForm(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// validate before touching storage so an invalid form uploads nothing
		if _, err := form.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if file != nil && strings.TrimSpace(form.Purpose) == string(models.PurposeFreelance) {
			if form.ProjectProposal == "" {
				form.ProjectProposal = file.Filename
			}
			if h.proposals != nil {
				key, err := h.storeProposal(r, file)
				if err != nil {
					h.responder.WriteErrorNotice(w, errs.NewInternalErrorWithCause("failed to store proposal", err), msgSubmitFailed)
					return
				}
				form.ProjectProposalKey = key
			}
		}

		contact, err := form.Validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contacts.Add(r.Context(), &contact); err != nil {
			if form.ProjectProposalKey != "" {
				h.discardProposal(r, form.ProjectProposalKey)
			}
			h.responder.WriteErrorNotice(w, wrapDatabaseError("create", "contact", err), msgSubmitFailed)
			return
		}

		if h.notifier != nil {
			submitted := contact
			detach(r, func(ctx context.Context) { h.notifier.ContactSubmitted(ctx, submitted) })
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, CreatedResponse{
			ID:     contact.ID,
			Notice: successNotice(msgContactThanks),
		})
	}
}

func (h contactHandler) readForm(w http.ResponseWriter, r *http.Request) (forms.ContactForm, *multipart.FileHeader, error) {
	var form forms.ContactForm

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "", "application/json":
		return form, nil, decodeJSON(w, r, &form)
	case "multipart/form-data":
	default:
		return form, nil, errs.NewUnsupportedMediaTypeError(mediaType, []string{"application/json", "multipart/form-data"})
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxProposalSize+maxBodySize)
	if err := r.ParseMultipartForm(services.MaxProposalSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return form, nil, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return form, nil, errs.NewMalformedPayloadError("multipart", err)
	}

	form = forms.ContactForm{
		Name:                 r.FormValue("name"),
		Email:                r.FormValue("email"),
		Purpose:              r.FormValue("purpose"),
		Message:              r.FormValue("message"),
		ProjectTitle:         r.FormValue("projectTitle"),
		Tech:                 r.FormValue("tech"),
		ProjectDetail:        r.FormValue("projectDetail"),
		MeetingPurpose:       r.FormValue("meetingPurpose"),
		MeetingDate:          r.FormValue("meetingDate"),
		TechnicalRequirement: r.FormValue("technicalRequirement"),
		ProjectProposal:      r.FormValue("projectProposalName"),
	}

	headers := r.MultipartForm.File["projectProposal"]
	if len(headers) == 0 {
		return form, nil, nil
	}
	return form, headers[0], nil
}

func (h contactHandler) storeProposal(r *http.Request, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key, err := h.proposals.Put(r.Context(), file.Filename, file.Header.Get("Content-Type"), f)
	if err != nil {
		return "", err
	}
	h.logger.Info().Str("key", key).Msg("stored project proposal")
	return key, nil
}

// discardProposal removes a proposal whose submission was never stored.
func (h contactHandler) discardProposal(r *http.Request, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), backgroundTimeout)
	defer cancel()
	if err := h.proposals.Delete(ctx, key); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("orphaned project proposal")
		return
	}
	h.logger.Info().Str("key", key).Msg("discarded project proposal")
}

// getAllContacts lists every contact submission
// @Summary List contact submissions
// @Description Retrieves all contact submissions, newest first
// @Tags Contacts
// @Produce json
// @Success 200 {object} ContactCollection "Contact submissions"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching contacts"
// @Router /admin/contacts [get]
func (h contactHandler) getAllContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication handled by middleware

		contacts, err := h.contacts.FindAll(r.Context())
		if err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("find", "contacts", err), msgLoadContacts)
			return
		}

		response := ContactCollection{Contacts: contacts, Total: len(contacts)}
		if len(contacts) == 0 {
			response.Contacts = []*models.ContactSubmission{}
			response.Notice = infoNotice(msgNoContacts)
		}
		h.responder.WriteJSON(w, response)
	}
}

// getContact retrieves a contact submission by ID
// @Summary Get contact submission
// @Tags Contacts
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 200 {object} models.ContactSubmission "Contact submission"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid contactID"
// @Failure 404 {object} ErrorResponse "Not Found - Contact not found"
// @Router /admin/contact/{contactID} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := parseID(r, "contactID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contacts.FindByID(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact", err))
			return
		}

		h.responder.WriteJSON(w, contact)
	}
}

// deleteContact permanently removes a contact submission
// @Summary Delete contact submission
// @Description Requires confirm=true (query) or X-Confirm: true (header)
// @Tags Contacts
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} NoticeResponse "Success notice"
// @Failure 404 {object} ErrorResponse "Not Found - Contact not found"
// @Failure 428 {object} ErrorResponse "Precondition Required - Confirmation missing"
// @Router /admin/contact/{contactID} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := parseID(r, "contactID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !confirmed(r) {
			h.responder.WriteError(w, errs.NewConfirmationRequiredError(msgConfirmContact))
			return
		}

		if err := h.contacts.Delete(r.Context(), contactID); err != nil {
			h.responder.WriteErrorNotice(w, wrapDatabaseError("delete", "contact", err), msgDeleteContact)
			return
		}

		h.responder.WriteNotice(w, http.StatusOK, successNotice(msgContactDeleted))
	}
}
