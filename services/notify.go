package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Mailer interface {
	Send(ctx context.Context, msg Email) (string, error)
}

type Texter interface {
	Send(ctx context.Context, to, body string) error
}

// Notifier tells the operator about new submissions. Delivery is best
// effort: failures are logged and never returned to the submitter.
type Notifier struct {
	mailer        Mailer
	texter        Texter
	operatorEmail string
	operatorPhone string
	logger        zerolog.Logger
}

// NewNotifier accepts nil mailer or texter to disable that channel.
func NewNotifier(mailer Mailer, texter Texter, operatorEmail, operatorPhone string) *Notifier {
	return &Notifier{
		mailer:        mailer,
		texter:        texter,
		operatorEmail: operatorEmail,
		operatorPhone: operatorPhone,
		logger:        log.With().Str("component", "notifier").Logger(),
	}
}

// ContactSubmitted e-mails the operator and, for meeting requests, sends a text.
func (n *Notifier) ContactSubmitted(ctx context.Context, c models.ContactSubmission) {
	if n == nil {
		return
	}
	subject, body, err := ContactEmail(c)
	if err != nil {
		n.logger.Error().Err(err).Str("contactId", c.ID.String()).Msg("cannot format contact notification")
		return
	}
	n.email(ctx, subject, body, c.Email)

	if c.Purpose == models.PurposeMeeting {
		n.text(ctx, ContactSMS(c))
	}
}

func (n *Notifier) TestimonialSubmitted(ctx context.Context, t models.Testimonial) {
	if n == nil {
		return
	}
	subject, body := TestimonialEmail(t)
	n.email(ctx, subject, body, "")
}

func (n *Notifier) email(ctx context.Context, subject, body, replyTo string) {
	if n.mailer == nil || n.operatorEmail == "" {
		return
	}
	if _, err := n.mailer.Send(ctx, Email{
		To:      []string{n.operatorEmail},
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("failed to e-mail operator")
	}
}

func (n *Notifier) text(ctx context.Context, body string) {
	if n.texter == nil || n.operatorPhone == "" {
		return
	}
	if err := n.texter.Send(ctx, n.operatorPhone, body); err != nil {
		n.logger.Error().Err(err).Msg("failed to text operator")
	}
}

// ContactEmail renders the operator e-mail for a contact submission.
func ContactEmail(c models.ContactSubmission) (subject, body string, err error) {
	details, err := c.Details()
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>\n", label, html.EscapeString(value))
	}

	row("Name", c.Name)
	row("Email", c.Email)
	row("Purpose", string(c.Purpose))

	switch d := details.(type) {
	case models.InquiryDetails:
		row("Message", d.Message)
	case models.ConsultationDetails:
		row("Project title", d.ProjectTitle)
		row("Tech", d.Tech)
		row("Project detail", d.ProjectDetail)
	case models.MeetingDetails:
		row("Meeting purpose", d.MeetingPurpose)
		row("Meeting date", d.MeetingDate)
	case models.FreelanceDetails:
		row("Technical requirement", d.TechnicalRequirement)
		row("Project proposal", d.ProjectProposal)
		row("Stored as", d.ProjectProposalKey)
	default:
		return "", "", fmt.Errorf("unhandled contact details %T", details)
	}

	subject = fmt.Sprintf("New contact: %s from %s", c.Purpose, c.Name)
	return subject, b.String(), nil
}

// ContactSMS is the short text sent for meeting requests.
func ContactSMS(c models.ContactSubmission) string {
	msg := fmt.Sprintf("Meeting request from %s (%s)", c.Name, c.Email)
	if details, err := c.Details(); err == nil {
		if d, ok := details.(models.MeetingDetails); ok {
			if d.MeetingDate != "" {
				msg += " for " + d.MeetingDate
			}
			if d.MeetingPurpose != "" {
				msg += ": " + d.MeetingPurpose
			}
		}
	}
	return msg
}

func TestimonialEmail(t models.Testimonial) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(t.Name))
	if t.Role != nil {
		fmt.Fprintf(&b, "<p><strong>Role:</strong> %s</p>\n", html.EscapeString(*t.Role))
	}
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", html.EscapeString(t.Feedback))
	if t.LinkedIn != nil {
		fmt.Fprintf(&b, "<p><strong>LinkedIn:</strong> %s</p>\n", html.EscapeString(*t.LinkedIn))
	}
	if t.Email != nil {
		fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(*t.Email))
	}
	b.WriteString("<p>It is pending until approved in the admin dashboard.</p>\n")
	return fmt.Sprintf("New testimonial from %s awaiting review", t.Name), b.String()
}
