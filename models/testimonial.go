package models

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is visitor feedback. It is public only once Approved is true.
type Testimonial struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Role      *string   `json:"role,omitempty" db:"role" gorm:"type:text"`
	Feedback  string    `json:"feedback" db:"feedback" gorm:"type:text;not null"`
	LinkedIn  *string   `json:"linkedin,omitempty" db:"linkedin" gorm:"type:text"`
	Email     *string   `json:"email,omitempty" db:"email" gorm:"type:text"`
	Approved  bool      `json:"approved" db:"approved" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null"`
}

func (Testimonial) TableName() string { return "testimonials" }

// TestimonialFilter selects testimonials on the moderation screen.
type TestimonialFilter string

const (
	FilterAll      TestimonialFilter = "all"
	FilterApproved TestimonialFilter = "approved"
	FilterPending  TestimonialFilter = "pending"
)

// ParseTestimonialFilter maps the query value to a filter, defaulting to all.
func ParseTestimonialFilter(s string) (TestimonialFilter, bool) {
	switch TestimonialFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterApproved:
		return FilterApproved, true
	case FilterPending:
		return FilterPending, true
	}
	return "", false
}
