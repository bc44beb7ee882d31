package api

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/auth"
	"github.com/rpupo63/portfolio-moderation-backend/database"
	"github.com/rpupo63/portfolio-moderation-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	contactHandler     contactHandler
	testimonialHandler testimonialHandler
	projectHandler     projectHandler
	authHandler        authHandler
	dashboardHandler   dashboardHandler
}

type contactStore interface {
	FindAll(ctx context.Context) ([]*models.ContactSubmission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error)
	Add(ctx context.Context, contact *models.ContactSubmission) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type testimonialStore interface {
	Find(ctx context.Context, filter models.TestimonialFilter) ([]*models.Testimonial, error)
	FindApproved(ctx context.Context) ([]*models.Testimonial, error)
	Add(ctx context.Context, testimonial *models.Testimonial) error
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter models.TestimonialFilter) (int64, error)
	WatchApproved(ctx context.Context) *database.LiveQuery[*models.Testimonial]
}

type projectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByCategory(ctx context.Context, category string) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uuid.UUID, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// stores groups the data access the handlers need.
type stores struct {
	contacts     contactStore
	testimonials testimonialStore
	projects     projectStore
	db           pinger
}

func storesFrom(db database.Database) stores {
	return stores{
		contacts:     db.ContactRepo(),
		testimonials: db.TestimonialRepo(),
		projects:     db.ProjectRepo(),
		db:           db,
	}
}

// Notifier is told about every stored submission.
type Notifier interface {
	ContactSubmitted(ctx context.Context, c models.ContactSubmission)
	TestimonialSubmitted(ctx context.Context, t models.Testimonial)
}

// ProposalStore keeps uploaded freelance proposals and returns their key.
type ProposalStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
	Fields  map[string]string `json:"fields,omitempty"`
	Notice  *Notice           `json:"notice,omitempty"`
}

// NoticeResponse carries only a user-visible notice
type NoticeResponse struct {
	Notice Notice `json:"notice"`
}

// CreatedResponse is returned after a public submission is stored
type CreatedResponse struct {
	ID     uuid.UUID `json:"id"`
	Notice Notice    `json:"notice"`
}

type ContactCollection struct {
	Contacts []*models.ContactSubmission `json:"contacts"`
	Total    int                         `json:"total"`
	Notice   *Notice                     `json:"notice,omitempty"`
}

type TestimonialCollection struct {
	Testimonials []*models.Testimonial `json:"testimonials"`
	Total        int                   `json:"total"`
	Notice       *Notice               `json:"notice,omitempty"`
}

type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
	Notice   *Notice           `json:"notice,omitempty"`
}

// ProjectResponse wraps a single project with an optional notice
type ProjectResponse struct {
	Project *models.Project `json:"project"`
	Notice  *Notice         `json:"notice,omitempty"`
}

type WordCountResponse struct {
	Count    int  `json:"count"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}

type DashboardStats struct {
	Testimonials        int64 `json:"testimonials"`
	PendingTestimonials int64 `json:"pendingTestimonials"`
	Contacts            int64 `json:"contacts"`
	Projects            int64 `json:"projects"`
}

type SessionResponse struct {
	Session *auth.Session `json:"session"`
	Notice  *Notice       `json:"notice,omitempty"`
}
