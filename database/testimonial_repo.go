package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/gorm"
)

type TestimonialRepo struct {
	db   *gorm.DB
	feed *ChangeFeed
}

func NewTestimonialRepo(db *gorm.DB, feed *ChangeFeed) *TestimonialRepo {
	return &TestimonialRepo{db: db, feed: feed}
}

func scope(q *gorm.DB, filter models.TestimonialFilter) (*gorm.DB, error) {
	switch filter {
	case models.FilterAll, "":
		return q, nil
	case models.FilterApproved:
		return q.Where("approved = ?", true), nil
	case models.FilterPending:
		return q.Where("approved = ?", false), nil
	default:
		return nil, fmt.Errorf("unknown testimonial filter %q", filter)
	}
}

// Find returns the testimonials matching filter, newest first, read from the
// primary for moderation.
func (r *TestimonialRepo) Find(ctx context.Context, filter models.TestimonialFilter) ([]*models.Testimonial, error) {
	return find(primary(ctx, r.db), filter)
}

func find(base *gorm.DB, filter models.TestimonialFilter) ([]*models.Testimonial, error) {
	q, err := scope(base, filter)
	if err != nil {
		return nil, err
	}
	var testimonials []*models.Testimonial
	if err := q.Find(&testimonials).Error; err != nil {
		return nil, err
	}
	SortNewestFirst(testimonials, testimonialCreatedAt)
	return testimonials, nil
}

func (r *TestimonialRepo) FindAll(ctx context.Context) ([]*models.Testimonial, error) {
	return r.Find(ctx, models.FilterAll)
}

// FindApproved returns the publicly visible testimonials. It may be served
// by a read replica.
func (r *TestimonialRepo) FindApproved(ctx context.Context) ([]*models.Testimonial, error) {
	return find(r.db.WithContext(ctx), models.FilterApproved)
}

func (r *TestimonialRepo) FindPending(ctx context.Context) ([]*models.Testimonial, error) {
	return r.Find(ctx, models.FilterPending)
}

// FindByID returns a testimonial by its ID
func (r *TestimonialRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := primary(ctx, r.db).First(&testimonial, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

// Add inserts a new testimonial. New testimonials are always pending.
func (r *TestimonialRepo) Add(ctx context.Context, testimonial *models.Testimonial) error {
	testimonial.ID, testimonial.CreatedAt = stamp()
	testimonial.Approved = false
	if err := r.db.WithContext(ctx).Create(testimonial).Error; err != nil {
		return err
	}
	r.feed.Publish(ctx, Testimonials)
	return nil
}

// Patch merges fields into an existing testimonial
func (r *TestimonialRepo) Patch(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if err := patch(ctx, r.db, &models.Testimonial{}, id, fields); err != nil {
		return err
	}
	r.feed.Publish(ctx, Testimonials)
	return nil
}

// Approve makes a testimonial publicly visible
func (r *TestimonialRepo) Approve(ctx context.Context, id uuid.UUID) error {
	return r.Patch(ctx, id, map[string]any{"approved": true})
}

// Delete permanently removes a testimonial in either state
func (r *TestimonialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := remove(ctx, r.db, &models.Testimonial{}, id); err != nil {
		return err
	}
	r.feed.Publish(ctx, Testimonials)
	return nil
}

func (r *TestimonialRepo) Count(ctx context.Context, filter models.TestimonialFilter) (int64, error) {
	q, err := scope(r.db.WithContext(ctx), filter)
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.Model(&models.Testimonial{}).Count(&n).Error
	return n, err
}

// WatchApproved delivers the approved set now and again after every change
// to the testimonials collection. Refetches follow a signal for a committed
// write, so they read from the primary. The caller must Close the returned query.
func (r *TestimonialRepo) WatchApproved(ctx context.Context) *LiveQuery[*models.Testimonial] {
	return NewLiveQuery(ctx, r.feed, Testimonials, func(ctx context.Context) ([]*models.Testimonial, error) {
		return find(primary(ctx, r.db), models.FilterApproved)
	})
}
