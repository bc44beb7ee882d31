package services

import (
	"context"

	"github.com/rpupo63/portfolio-moderation-backend/config"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSSender sends text messages through Twilio.
type SMSSender struct {
	api  messageCreator
	from string
}

// NewSMSSender reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER.
func NewSMSSender(cfg map[string]string) (*SMSSender, error) {
	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	if sid == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_ACCOUNT_SID")
	}
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	if token == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_AUTH_TOKEN")
	}
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	if from == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_FROM_NUMBER")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return &SMSSender{api: client.Api, from: from}, nil
}

// Send texts body to the E.164 number to. The Twilio client does not take a
// context, so cancellation only applies before the call is made.
func (s *SMSSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return errs.NewServiceUnreachableError("twilio", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}
