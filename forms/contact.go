package forms

import (
	"strings"

	"github.com/rpupo63/portfolio-moderation-backend/models"
)

// ContactForm carries the raw values of the public contact form. Only the
// fields belonging to Purpose are read when building the record.
type ContactForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,basicemail"`
	Purpose string `json:"purpose" validate:"required,purpose"`

	Message string `json:"message"`

	ProjectTitle  string `json:"projectTitle"`
	Tech          string `json:"tech" validate:"omitempty,tech"`
	ProjectDetail string `json:"projectDetail"`

	MeetingPurpose string `json:"meetingPurpose"`
	MeetingDate    string `json:"meetingDate" label:"Meeting date" validate:"omitempty,datetime=2006-01-02"`

	TechnicalRequirement string `json:"technicalRequirement"`
	ProjectProposal      string `json:"projectProposal"`

	// ProjectProposalKey is set by the server after storing an uploaded file.
	ProjectProposalKey string `json:"-"`
}

func (f *ContactForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Purpose = strings.TrimSpace(f.Purpose)
	f.Message = strings.TrimSpace(f.Message)
	f.ProjectTitle = strings.TrimSpace(f.ProjectTitle)
	f.Tech = strings.TrimSpace(f.Tech)
	f.ProjectDetail = strings.TrimSpace(f.ProjectDetail)
	f.MeetingPurpose = strings.TrimSpace(f.MeetingPurpose)
	f.MeetingDate = strings.TrimSpace(f.MeetingDate)
	f.TechnicalRequirement = strings.TrimSpace(f.TechnicalRequirement)
	f.ProjectProposal = strings.TrimSpace(f.ProjectProposal)
}

// keepSelected clears the values of every purpose other than the selected
// one, so stale fields left by a client that switched purpose are neither
// checked nor stored.
func (f *ContactForm) keepSelected() {
	purpose, _ := models.ParseContactPurpose(f.Purpose)
	kept := ContactForm{
		Name:               f.Name,
		Email:              f.Email,
		Purpose:            f.Purpose,
		ProjectProposalKey: f.ProjectProposalKey,
	}
	switch purpose {
	case models.PurposeGeneralInquiry:
		kept.Message = f.Message
	case models.PurposeConsultation:
		kept.ProjectTitle, kept.Tech, kept.ProjectDetail = f.ProjectTitle, f.Tech, f.ProjectDetail
	case models.PurposeMeeting:
		kept.MeetingPurpose, kept.MeetingDate = f.MeetingPurpose, f.MeetingDate
	case models.PurposeFreelance:
		kept.TechnicalRequirement, kept.ProjectProposal = f.TechnicalRequirement, f.ProjectProposal
	}
	*f = kept
}

// Details returns the payload selected by Purpose. Callers must validate first.
func (f ContactForm) Details() models.ContactDetails {
	purpose, _ := models.ParseContactPurpose(f.Purpose)
	switch purpose {
	case models.PurposeConsultation:
		return models.ConsultationDetails{
			ProjectTitle:  f.ProjectTitle,
			Tech:          f.Tech,
			ProjectDetail: f.ProjectDetail,
		}
	case models.PurposeMeeting:
		return models.MeetingDetails{
			MeetingPurpose: f.MeetingPurpose,
			MeetingDate:    f.MeetingDate,
		}
	case models.PurposeFreelance:
		return models.FreelanceDetails{
			TechnicalRequirement: f.TechnicalRequirement,
			ProjectProposal:      f.ProjectProposal,
			ProjectProposalKey:   f.ProjectProposalKey,
		}
	default:
		return models.InquiryDetails{Message: f.Message}
	}
}

// Validate trims every value and returns the submission to store, or an
// *errs.ValidationErr listing every failing field.
func (f ContactForm) Validate() (models.ContactSubmission, error) {
	f.trim()
	f.keepSelected()
	if err := check(f); err != nil {
		return models.ContactSubmission{}, err
	}
	return models.NewContactSubmission(f.Name, f.Email, f.Details()), nil
}
