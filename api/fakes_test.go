package api

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/auth"
	"github.com/rpupo63/portfolio-moderation-backend/database"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/gorm"
)

type memContacts struct {
	mu    sync.Mutex
	items []*models.ContactSubmission
	err   error
	delay time.Duration
}

func (m *memContacts) FindAll(context.Context) ([]*models.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]*models.ContactSubmission(nil), m.items...)
	database.SortNewestFirst(out, func(c *models.ContactSubmission) time.Time { return c.CreatedAt })
	return out, nil
}

func (m *memContacts) FindByID(_ context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memContacts) Add(_ context.Context, c *models.ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c.ID, c.CreatedAt = uuid.New(), time.Now().UTC()
	m.items = append(m.items, c)
	return nil
}

func (m *memContacts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.items {
		if c.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memContacts) Count(ctx context.Context) (int64, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), m.err
}

type memTestimonials struct {
	mu    sync.Mutex
	feed  *database.ChangeFeed
	items []*models.Testimonial
}

func newMemTestimonials() *memTestimonials {
	return &memTestimonials{feed: database.NewChangeFeed()}
}

func (m *memTestimonials) Find(_ context.Context, filter models.TestimonialFilter) ([]*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Testimonial
	for _, t := range m.items {
		if filter == models.FilterAll ||
			(filter == models.FilterApproved && t.Approved) ||
			(filter == models.FilterPending && !t.Approved) {
			copied := *t
			out = append(out, &copied)
		}
	}
	database.SortNewestFirst(out, func(t *models.Testimonial) time.Time { return t.CreatedAt })
	return out, nil
}

func (m *memTestimonials) FindApproved(ctx context.Context) ([]*models.Testimonial, error) {
	return m.Find(ctx, models.FilterApproved)
}

func (m *memTestimonials) Add(ctx context.Context, t *models.Testimonial) error {
	m.mu.Lock()
	t.ID, t.CreatedAt, t.Approved = uuid.New(), time.Now().UTC(), false
	copied := *t
	m.items = append(m.items, &copied)
	m.mu.Unlock()
	m.feed.Publish(ctx, database.Testimonials)
	return nil
}

func (m *memTestimonials) Approve(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	found := false
	for _, t := range m.items {
		if t.ID == id {
			t.Approved, found = true, true
		}
	}
	m.mu.Unlock()
	if !found {
		return gorm.ErrRecordNotFound
	}
	m.feed.Publish(ctx, database.Testimonials)
	return nil
}

func (m *memTestimonials) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	found := false
	for i, t := range m.items {
		if t.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return gorm.ErrRecordNotFound
	}
	m.feed.Publish(ctx, database.Testimonials)
	return nil
}

func (m *memTestimonials) Count(ctx context.Context, filter models.TestimonialFilter) (int64, error) {
	items, err := m.Find(ctx, filter)
	return int64(len(items)), err
}

func (m *memTestimonials) WatchApproved(ctx context.Context) *database.LiveQuery[*models.Testimonial] {
	return database.NewLiveQuery(ctx, m.feed, database.Testimonials, m.FindApproved)
}

type memProjects struct {
	mu    sync.Mutex
	items []*models.Project
}

func (m *memProjects) FindAll(ctx context.Context) ([]*models.Project, error) {
	return m.FindByCategory(ctx, "")
}

func (m *memProjects) FindByCategory(_ context.Context, category string) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Project
	for _, p := range m.items {
		if category == "" || p.Category == category {
			copied := *p
			out = append(out, &copied)
		}
	}
	database.SortNewestFirst(out, func(p *models.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (m *memProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memProjects) Add(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID, p.CreatedAt = uuid.New(), time.Now().UTC()
	copied := *p
	m.items = append(m.items, &copied)
	return nil
}

func (m *memProjects) Update(_ context.Context, id uuid.UUID, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ID == id {
			createdAt := existing.CreatedAt
			*existing = *p
			existing.ID, existing.CreatedAt = id, createdAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memProjects) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memProjects) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

const operatorToken = "operator-token"

// bearerProvider admits requests carrying operatorToken.
type bearerProvider struct {
	signOutErr error
}

func (bearerProvider) SignIn(_ context.Context, _ http.ResponseWriter, email, password string) (*auth.Identity, error) {
	if email != "op@example.com" || password != "secret" {
		return nil, errs.NewInvalidCredentialsError(nil)
	}
	return &auth.Identity{Subject: "op", Email: email, Token: operatorToken}, nil
}

func (bearerProvider) Resolve(r *http.Request, _ http.ResponseWriter) (*auth.Identity, error) {
	if r.Header.Get("Authorization") != "Bearer "+operatorToken {
		return nil, auth.ErrNoSession
	}
	return &auth.Identity{Subject: "op", Email: "op@example.com"}, nil
}

func (p bearerProvider) SignOut(*http.Request, http.ResponseWriter) error {
	return p.signOutErr
}

type recordingNotifier struct {
	mu           sync.Mutex
	contacts     []models.ContactSubmission
	testimonials []models.Testimonial
}

func (n *recordingNotifier) ContactSubmitted(_ context.Context, c models.ContactSubmission) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, c)
}

func (n *recordingNotifier) TestimonialSubmitted(_ context.Context, t models.Testimonial) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.testimonials = append(n.testimonials, t)
}

func (n *recordingNotifier) counts() (contacts, testimonials int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.contacts), len(n.testimonials)
}

// blockingNotifier holds every notification until release is closed.
type blockingNotifier struct {
	release chan struct{}
	sent    chan context.Context
}

func (n blockingNotifier) ContactSubmitted(ctx context.Context, _ models.ContactSubmission) {
	<-n.release
	n.sent <- ctx
}

func (n blockingNotifier) TestimonialSubmitted(ctx context.Context, _ models.Testimonial) {
	<-n.release
	n.sent <- ctx
}

type memProposals struct {
	mu      sync.Mutex
	puts    map[string][]byte
	deleted []string
	err     error
}

func (p *memProposals) Put(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.puts == nil {
		p.puts = make(map[string][]byte)
	}
	key := "proposals/test/" + filename
	p.puts[key] = data
	return key, nil
}

func (p *memProposals) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.puts, key)
	p.deleted = append(p.deleted, key)
	return nil
}
