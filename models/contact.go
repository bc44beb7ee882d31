package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactPurpose is the discriminant of a contact submission's details.
type ContactPurpose string

const (
	PurposeMeeting        ContactPurpose = "Book a Meeting"
	PurposeFreelance      ContactPurpose = "Freelance"
	PurposeGeneralInquiry ContactPurpose = "General Inquiry"
	PurposeConsultation   ContactPurpose = "Project Consultation"
)

// ContactPurposes lists every accepted purpose in form order.
var ContactPurposes = []ContactPurpose{
	PurposeMeeting,
	PurposeFreelance,
	PurposeGeneralInquiry,
	PurposeConsultation,
}

// ParseContactPurpose returns the purpose matching s exactly.
func ParseContactPurpose(s string) (ContactPurpose, bool) {
	for _, p := range ContactPurposes {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// ContactSubmission is a message left through the public contact form.
// Only the columns belonging to Purpose are ever populated.
type ContactSubmission struct {
	ID      uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name    string         `json:"name" db:"name" gorm:"type:text;not null"`
	Email   string         `json:"email" db:"email" gorm:"type:text;not null"`
	Purpose ContactPurpose `json:"purpose" db:"purpose" gorm:"type:text;not null"`

	Message *string `json:"message,omitempty" db:"message" gorm:"type:text"`

	ProjectTitle  *string `json:"projectTitle,omitempty" db:"project_title" gorm:"type:text"`
	Tech          *string `json:"tech,omitempty" db:"tech" gorm:"type:text"`
	ProjectDetail *string `json:"projectDetail,omitempty" db:"project_detail" gorm:"type:text"`

	MeetingPurpose *string `json:"meetingPurpose,omitempty" db:"meeting_purpose" gorm:"type:text"`
	MeetingDate    *string `json:"meetingDate,omitempty" db:"meeting_date" gorm:"type:text"`

	TechnicalRequirement *string `json:"technicalRequirement,omitempty" db:"technical_requirement" gorm:"type:text"`
	ProjectProposal      *string `json:"projectProposal,omitempty" db:"project_proposal" gorm:"type:text"`
	ProjectProposalKey   *string `json:"projectProposalKey,omitempty" db:"project_proposal_key" gorm:"type:text"`

	CreatedAt time.Time `json:"timestamp" db:"created_at" gorm:"type:timestamptz;not null;index"`
}

func (ContactSubmission) TableName() string { return "contacts" }

// ContactDetails is the purpose-specific payload of a contact submission.
// The set of implementations is closed.
type ContactDetails interface {
	Purpose() ContactPurpose
	applyTo(c *ContactSubmission)
}

// InquiryDetails belongs to "General Inquiry".
type InquiryDetails struct {
	Message string `json:"message,omitempty"`
}

// ConsultationDetails belongs to "Project Consultation".
type ConsultationDetails struct {
	ProjectTitle  string `json:"projectTitle,omitempty"`
	Tech          string `json:"tech,omitempty"`
	ProjectDetail string `json:"projectDetail,omitempty"`
}

// MeetingDetails belongs to "Book a Meeting". MeetingDate is YYYY-MM-DD.
type MeetingDetails struct {
	MeetingPurpose string `json:"meetingPurpose,omitempty"`
	MeetingDate    string `json:"meetingDate,omitempty"`
}

// FreelanceDetails belongs to "Freelance". ProjectProposal is the uploaded
// file name; ProjectProposalKey is set once the file has been stored.
type FreelanceDetails struct {
	TechnicalRequirement string `json:"technicalRequirement,omitempty"`
	ProjectProposal      string `json:"projectProposal,omitempty"`
	ProjectProposalKey   string `json:"projectProposalKey,omitempty"`
}

func (InquiryDetails) Purpose() ContactPurpose      { return PurposeGeneralInquiry }
func (ConsultationDetails) Purpose() ContactPurpose { return PurposeConsultation }
func (MeetingDetails) Purpose() ContactPurpose      { return PurposeMeeting }
func (FreelanceDetails) Purpose() ContactPurpose    { return PurposeFreelance }

func (d InquiryDetails) applyTo(c *ContactSubmission) {
	c.Message = optional(d.Message)
}

func (d ConsultationDetails) applyTo(c *ContactSubmission) {
	c.ProjectTitle = optional(d.ProjectTitle)
	c.Tech = optional(d.Tech)
	c.ProjectDetail = optional(d.ProjectDetail)
}

func (d MeetingDetails) applyTo(c *ContactSubmission) {
	c.MeetingPurpose = optional(d.MeetingPurpose)
	c.MeetingDate = optional(d.MeetingDate)
}

func (d FreelanceDetails) applyTo(c *ContactSubmission) {
	c.TechnicalRequirement = optional(d.TechnicalRequirement)
	c.ProjectProposal = optional(d.ProjectProposal)
	c.ProjectProposalKey = optional(d.ProjectProposalKey)
}

// NewContactSubmission flattens details into a record. ID and CreatedAt are
// left for the data access layer.
func NewContactSubmission(name, email string, details ContactDetails) ContactSubmission {
	c := ContactSubmission{
		Name:    name,
		Email:   email,
		Purpose: details.Purpose(),
	}
	details.applyTo(&c)
	return c
}

// Details rebuilds the tagged payload from the stored columns.
func (c ContactSubmission) Details() (ContactDetails, error) {
	switch c.Purpose {
	case PurposeGeneralInquiry:
		return InquiryDetails{Message: deref(c.Message)}, nil
	case PurposeConsultation:
		return ConsultationDetails{
			ProjectTitle:  deref(c.ProjectTitle),
			Tech:          deref(c.Tech),
			ProjectDetail: deref(c.ProjectDetail),
		}, nil
	case PurposeMeeting:
		return MeetingDetails{
			MeetingPurpose: deref(c.MeetingPurpose),
			MeetingDate:    deref(c.MeetingDate),
		}, nil
	case PurposeFreelance:
		return FreelanceDetails{
			TechnicalRequirement: deref(c.TechnicalRequirement),
			ProjectProposal:      deref(c.ProjectProposal),
			ProjectProposalKey:   deref(c.ProjectProposalKey),
		}, nil
	default:
		return nil, fmt.Errorf("unknown contact purpose %q", c.Purpose)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
