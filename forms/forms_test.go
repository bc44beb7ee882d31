package forms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verr *errs.ValidationErr
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("  great   work\n\tthanks "))
	assert.Equal(t, 50, WordCount(strings.Repeat("word ", 50)))
}

func TestContactInquiryStoresOnlyMessage(t *testing.T) {
	form := ContactForm{
		Name:          "A",
		Email:         "a@b.com",
		Purpose:       "General Inquiry",
		Message:       "hi",
		ProjectTitle:  "ignored",
		MeetingDate:   "2026-01-01",
		ProjectDetail: "ignored too",
	}

	c, err := form.Validate()
	require.NoError(t, err)

	assert.Equal(t, models.PurposeGeneralInquiry, c.Purpose)
	require.NotNil(t, c.Message)
	assert.Equal(t, "hi", *c.Message)
	assert.Nil(t, c.ProjectTitle)
	assert.Nil(t, c.ProjectDetail)
	assert.Nil(t, c.MeetingDate)
}

func TestContactMissingNameAndBadEmailReportsBoth(t *testing.T) {
	form := ContactForm{Name: "  ", Email: "a@b", Purpose: "Freelance"}

	fields := fieldErrors(t, func() error { _, err := form.Validate(); return err }())
	assert.Equal(t, map[string]string{
		"name":  "Name is required.",
		"email": "Invalid email address.",
	}, fields)
}

func TestContactRequiredSkipsFormatCheck(t *testing.T) {
	_, err := ContactForm{Name: "A", Purpose: "Freelance"}.Validate()
	fields := fieldErrors(t, err)
	assert.Equal(t, "Email is required.", fields["email"])
}

func TestContactRejectsUnknownPurposeTechAndDate(t *testing.T) {
	_, err := ContactForm{Name: "A", Email: "a@b.com", Purpose: "Hire"}.Validate()
	assert.Equal(t, "Invalid purpose.", fieldErrors(t, err)["purpose"])

	_, err = ContactForm{Name: "A", Email: "a@b.com", Purpose: "Project Consultation", Tech: "Rust"}.Validate()
	assert.Equal(t, "Invalid tech.", fieldErrors(t, err)["tech"])

	_, err = ContactForm{Name: "A", Email: "a@b.com", Purpose: "Book a Meeting", MeetingDate: "next friday"}.Validate()
	assert.Equal(t, "Invalid meeting date.", fieldErrors(t, err)["meetingDate"])
}

func TestContactIgnoresFieldsOfOtherPurposes(t *testing.T) {
	c, err := ContactForm{
		Name:        "A",
		Email:       "a@b.com",
		Purpose:     "General Inquiry",
		Message:     "hi",
		Tech:        "Cobol",
		MeetingDate: "next friday",
	}.Validate()
	require.NoError(t, err)
	assert.Nil(t, c.Tech)
	assert.Nil(t, c.MeetingDate)

	_, err = ContactForm{Name: "A", Email: "a@b.com", Purpose: "Book a Meeting", Tech: "Cobol", MeetingDate: "2026-05-04"}.Validate()
	assert.NoError(t, err)

	_, err = ContactForm{Name: "A", Email: "a@b.com", Purpose: "Hire", Tech: "Cobol"}.Validate()
	assert.Equal(t, map[string]string{"purpose": "Invalid purpose."}, fieldErrors(t, err))
}

func TestContactFreelanceKeepsProposalKey(t *testing.T) {
	form := ContactForm{
		Name:                 "A",
		Email:                "a@b.com",
		Purpose:              "Freelance",
		TechnicalRequirement: " Go backend ",
		ProjectProposal:      "brief.pdf",
		ProjectProposalKey:   "proposals/1/brief.pdf",
	}

	c, err := form.Validate()
	require.NoError(t, err)
	details, err := c.Details()
	require.NoError(t, err)
	assert.Equal(t, models.FreelanceDetails{
		TechnicalRequirement: "Go backend",
		ProjectProposal:      "brief.pdf",
		ProjectProposalKey:   "proposals/1/brief.pdf",
	}, details)
}

func TestTestimonialIsAlwaysPending(t *testing.T) {
	var form TestimonialForm
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada","feedback":"Great collaborator","approved":true}`), &form))

	tm, err := form.Validate()
	require.NoError(t, err)
	assert.False(t, tm.Approved)
	assert.Nil(t, tm.Email)
	assert.Nil(t, tm.Role)
	assert.Nil(t, tm.LinkedIn)
}

func TestTestimonialFeedbackWordLimit(t *testing.T) {
	_, err := TestimonialForm{Name: "Ada", Feedback: strings.Repeat("word ", 50)}.Validate()
	require.NoError(t, err)

	_, err = TestimonialForm{Name: "Ada", Feedback: strings.Repeat("word ", 51)}.Validate()
	assert.Equal(t, "Feedback must be 50 words or less.", fieldErrors(t, err)["feedback"])
}

func TestTestimonialFieldFormats(t *testing.T) {
	form := TestimonialForm{
		Name:     strings.Repeat("é", 51),
		Role:     strings.Repeat("r", 51),
		Feedback: "ok",
		LinkedIn: "https://example.com/in/ada",
		Email:    "ada@",
	}

	_, err := form.Validate()
	assert.Equal(t, map[string]string{
		"name":     "Name must be 50 characters or less.",
		"role":     "Role must be 50 characters or less.",
		"linkedin": "Invalid LinkedIn profile URL.",
		"email":    "Invalid email address.",
	}, fieldErrors(t, err))
}

func TestTestimonialAcceptsLinkedInVariants(t *testing.T) {
	for _, url := range []string{
		"linkedin.com/in/ada-lovelace",
		"https://www.linkedin.com/in/ada/",
		"http://linkedin.com/in/A-1",
	} {
		_, err := TestimonialForm{Name: "Ada", Feedback: "ok", LinkedIn: url}.Validate()
		assert.NoError(t, err, url)
	}
}

func TestProjectSplitsFreeText(t *testing.T) {
	var form ProjectForm
	body := `{
		"title": " Ledger ",
		"description": "Accounting on chain",
		"technologies": "Go, Postgres , ,React",
		"features": "Double entry\n\n  Audit trail  \n",
		"githubUrl": "https://github.com/x/ledger"
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &form))

	p, err := form.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Ledger", p.Title)
	assert.Equal(t, []string{"Go", "Postgres", "React"}, []string(p.Technologies))
	assert.Equal(t, []string{"Double entry", "Audit trail"}, []string(p.Features))
	require.NotNil(t, p.GithubURL)
	assert.Nil(t, p.LiveURL)
}

func TestProjectAcceptsLists(t *testing.T) {
	var form ProjectForm
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","description":"d","technologies":["Go"," "],"features":["a","b"]}`), &form))

	p, err := form.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, []string(p.Technologies))
	assert.Equal(t, []string{"a", "b"}, []string(p.Features))
}

func TestProjectValidation(t *testing.T) {
	_, err := ProjectForm{LiveURL: "not a url"}.Validate()
	assert.Equal(t, map[string]string{
		"title":       "Title is required.",
		"description": "Description is required.",
		"liveUrl":     "Invalid live URL.",
	}, fieldErrors(t, err))
}

func TestFlexListRejectsNumbers(t *testing.T) {
	var l FlexList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}
