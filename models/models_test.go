package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestNewContactSubmissionKeepsOnlyPurposeFields(t *testing.T) {
	c := NewContactSubmission("A", "a@b.com", InquiryDetails{Message: "hi"})

	assert.Equal(t, PurposeGeneralInquiry, c.Purpose)
	require.NotNil(t, c.Message)
	assert.Equal(t, "hi", *c.Message)
	assert.Nil(t, c.ProjectTitle)
	assert.Nil(t, c.MeetingPurpose)
	assert.Nil(t, c.TechnicalRequirement)
}

func TestNewContactSubmissionOmitsEmptyOptionals(t *testing.T) {
	c := NewContactSubmission("A", "a@b.com", MeetingDetails{MeetingPurpose: "sync"})

	require.NotNil(t, c.MeetingPurpose)
	assert.Nil(t, c.MeetingDate)
}

func TestDetailsRoundTripEveryPurpose(t *testing.T) {
	cases := []ContactDetails{
		InquiryDetails{Message: "hello"},
		ConsultationDetails{ProjectTitle: "Solar", Tech: "Blockchain", ProjectDetail: "p2p energy"},
		MeetingDetails{MeetingPurpose: "intro", MeetingDate: "2026-11-02"},
		FreelanceDetails{TechnicalRequirement: "Go", ProjectProposal: "brief.pdf", ProjectProposalKey: "proposals/x/brief.pdf"},
	}
	for _, want := range cases {
		t.Run(string(want.Purpose()), func(t *testing.T) {
			c := NewContactSubmission("A", "a@b.com", want)
			got, err := c.Details()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDetailsUnknownPurpose(t *testing.T) {
	_, err := ContactSubmission{Purpose: "Hire"}.Details()
	assert.Error(t, err)
}

func TestParseContactPurpose(t *testing.T) {
	p, ok := ParseContactPurpose("Freelance")
	assert.True(t, ok)
	assert.Equal(t, PurposeFreelance, p)

	_, ok = ParseContactPurpose("freelance")
	assert.False(t, ok)
}

func TestParseTestimonialFilter(t *testing.T) {
	f, ok := ParseTestimonialFilter("")
	assert.True(t, ok)
	assert.Equal(t, FilterAll, f)

	f, ok = ParseTestimonialFilter("pending")
	assert.True(t, ok)
	assert.Equal(t, FilterPending, f)

	_, ok = ParseTestimonialFilter("archived")
	assert.False(t, ok)
}

func TestModelColumnsUsesGormNaming(t *testing.T) {
	table, columns, err := modelColumns(&ContactSubmission{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "contacts", table)
	assert.Contains(t, columns, "project_proposal_key")
	assert.Contains(t, columns, "created_at")
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "name", "legacy", "display_order"}, []string{"id", "name"})
	assert.Equal(t, []string{"display_order", "legacy"}, got)
}
