package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func newTestSender(t *testing.T, handler http.HandlerFunc) *EmailSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewEmailSender(map[string]string{
		"RESEND_API_KEY":    "re_test",
		"RESEND_FROM_EMAIL": "Portfolio <site@example.com>",
		"RESEND_BASE_URL":   srv.URL,
	})
	require.NoError(t, err)
	return s
}

func TestEmailSenderPostsToResend(t *testing.T) {
	var got ResendEmailRequest
	s := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	})

	id, err := s.Send(context.Background(), Email{To: []string{"op@example.com"}, Subject: "hi", Html: "<p>x</p>", ReplyTo: "v@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "msg_1", id)
	assert.Equal(t, "Portfolio <site@example.com>", got.From)
	assert.Equal(t, []string{"op@example.com"}, got.To)
	assert.Equal(t, "v@example.com", got.ReplyTo)
}

func TestEmailSenderReportsUpstreamError(t *testing.T) {
	s := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	})

	_, err := s.Send(context.Background(), Email{To: []string{"op@example.com"}, Subject: "hi"})
	assert.True(t, errs.IsUpstreamError(err))
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestNewEmailSenderRequiresKey(t *testing.T) {
	_, err := NewEmailSender(map[string]string{})
	assert.True(t, errs.IsEnvironmentVariableError(err))
}

type fakeCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	sid := "SM1"
	return &openapi.ApiV2010Message{Sid: &sid}, f.err
}

func TestSMSSenderBuildsMessage(t *testing.T) {
	fc := &fakeCreator{}
	s := &SMSSender{api: fc, from: "+15550000000"}

	require.NoError(t, s.Send(context.Background(), "+15551111111", "hello"))
	assert.Equal(t, "+15551111111", *fc.params.To)
	assert.Equal(t, "+15550000000", *fc.params.From)
	assert.Equal(t, "hello", *fc.params.Body)

	fc.err = errors.New("401")
	assert.True(t, errs.IsServiceUnreachableError(s.Send(context.Background(), "+1", "x")))
}

type fakeBucket struct {
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeBucket) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = params
	return &s3.DeleteObjectOutput{}, f.err
}

func TestProposalStoreDelete(t *testing.T) {
	fb := &fakeBucket{}
	store := &ProposalStore{client: fb, bucket: "proposals-bucket"}

	require.NoError(t, store.Delete(context.Background(), "proposals/1/brief.pdf"))
	assert.Equal(t, "proposals-bucket", aws.ToString(fb.deleted.Bucket))
	assert.Equal(t, "proposals/1/brief.pdf", aws.ToString(fb.deleted.Key))

	fb.err = errors.New("access denied")
	assert.ErrorContains(t, store.Delete(context.Background(), "proposals/1/brief.pdf"), "proposals/1/brief.pdf")
}

func TestProposalStorePut(t *testing.T) {
	fp := &fakeBucket{}
	store := &ProposalStore{client: fp, bucket: "proposals-bucket"}

	key, err := store.Put(context.Background(), `C:\Users\v\brief.pdf`, "", strings.NewReader("pdf"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "proposals/"))
	assert.True(t, strings.HasSuffix(key, "/brief.pdf"))
	assert.Equal(t, "proposals-bucket", aws.ToString(fp.input.Bucket))
	assert.Equal(t, key, aws.ToString(fp.input.Key))
	assert.Equal(t, "application/octet-stream", aws.ToString(fp.input.ContentType))
}

func TestProposalKeyStripsDirectories(t *testing.T) {
	id := uuid.MustParse("7f2c1a6e-2b1d-4a8e-9a55-0c7c8b1f2d3e")
	assert.Equal(t, "proposals/"+id.String()+"/x.pdf", ProposalKey(id, "../../x.pdf"))
	assert.Equal(t, "proposals/"+id.String()+"/proposal", ProposalKey(id, ""))
}

type recordingMailer struct{ sent []Email }

func (m *recordingMailer) Send(_ context.Context, msg Email) (string, error) {
	m.sent = append(m.sent, msg)
	return "id", nil
}

type recordingTexter struct{ bodies []string }

func (t *recordingTexter) Send(_ context.Context, _, body string) error {
	t.bodies = append(t.bodies, body)
	return nil
}

func TestNotifierMeetingSendsEmailAndText(t *testing.T) {
	mailer, texter := &recordingMailer{}, &recordingTexter{}
	n := NewNotifier(mailer, texter, "op@example.com", "+15551111111")

	c := models.NewContactSubmission("Ada", "ada@example.com", models.MeetingDetails{MeetingPurpose: "intro", MeetingDate: "2026-11-02"})
	n.ContactSubmitted(context.Background(), c)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].ReplyTo)
	assert.Contains(t, mailer.sent[0].Html, "2026-11-02")
	assert.Equal(t, []string{"Meeting request from Ada (ada@example.com) for 2026-11-02: intro"}, texter.bodies)
}

func TestNotifierInquiryOnlyEmails(t *testing.T) {
	mailer, texter := &recordingMailer{}, &recordingTexter{}
	n := NewNotifier(mailer, texter, "op@example.com", "+15551111111")

	n.ContactSubmitted(context.Background(), models.NewContactSubmission("A", "a@b.com", models.InquiryDetails{Message: "<b>hi</b>"}))

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Html, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Empty(t, texter.bodies)
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.ContactSubmitted(context.Background(), models.ContactSubmission{Purpose: models.PurposeMeeting})
		n.TestimonialSubmitted(context.Background(), models.Testimonial{})
	})
}
