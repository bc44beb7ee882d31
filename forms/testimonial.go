package forms

import (
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/models"
)

// MaxFeedbackWords bounds the testimonial feedback.
const MaxFeedbackWords = 50

// TestimonialForm carries the raw values of the public testimonial form.
// There is no approved field: new testimonials always start pending.
type TestimonialForm struct {
	Name     string `json:"name" validate:"required,max=50"`
	Role     string `json:"role" validate:"omitempty,max=50"`
	Feedback string `json:"feedback" validate:"required,maxwords=50"`
	LinkedIn string `json:"linkedin" validate:"omitempty,linkedin"`
	Email    string `json:"email" validate:"omitempty,basicemail"`
}

func (f *TestimonialForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Role = strings.TrimSpace(f.Role)
	f.Feedback = strings.TrimSpace(f.Feedback)
	f.LinkedIn = strings.TrimSpace(f.LinkedIn)
	f.Email = strings.TrimSpace(f.Email)
}

func (f TestimonialForm) Validate() (models.Testimonial, error) {
	f.trim()
	if err := check(f); err != nil {
		return models.Testimonial{}, err
	}
	return models.Testimonial{
		Name:     f.Name,
		Role:     optional(f.Role),
		Feedback: f.Feedback,
		LinkedIn: optional(f.LinkedIn),
		Email:    optional(f.Email),
		Approved: false,
	}, nil
}
