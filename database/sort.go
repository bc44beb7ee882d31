package database

import (
	"slices"
	"time"

	"github.com/rpupo63/portfolio-moderation-backend/models"
)

// Queries carry no ORDER BY; recency order is applied here after the fetch.
// Revisit if filtered ordered queries become cheap to serve from the store.

// SortNewestFirst orders items by creation time, newest first. Ties keep
// their fetched order.
func SortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	})
}

func contactCreatedAt(c *models.ContactSubmission) time.Time { return c.CreatedAt }
func testimonialCreatedAt(t *models.Testimonial) time.Time   { return t.CreatedAt }
func projectCreatedAt(p *models.Project) time.Time           { return p.CreatedAt }
