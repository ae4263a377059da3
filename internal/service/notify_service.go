package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkinglot/internal/logging"
)

// ErrChannelDisabled is returned by a sender whose credentials are not configured.
var ErrChannelDisabled = errors.New("notification channel not configured")

type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, toNumber, body string) error
}

type SendGridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (m *SendGridMailer) Enabled() bool {
	return m.apiKey != "" && m.fromEmail != ""
}

func (m *SendGridMailer) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	if !m.Enabled() {
		return ErrChannelDisabled
	}
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := sendgrid.NewSendClient(m.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	logging.Debug(ctx).Str("to", toEmail).Int("status", response.StatusCode).Msg("email sent")
	return nil
}

type TwilioTexter struct {
	accountSID string
	authToken  string
	fromNumber string
}

func NewTwilioTexter(accountSID, authToken, fromNumber string) *TwilioTexter {
	return &TwilioTexter{accountSID: accountSID, authToken: authToken, fromNumber: fromNumber}
}

func (t *TwilioTexter) Enabled() bool {
	return t.accountSID != "" && t.authToken != "" && t.fromNumber != ""
}

func (t *TwilioTexter) SendSMS(ctx context.Context, toNumber, body string) error {
	if !t.Enabled() {
		return ErrChannelDisabled
	}
	if !strings.HasPrefix(toNumber, "+") {
		logging.Warn(ctx).Str("to", toNumber).Msg("destination is not E.164, SMS may fail")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   t.accountSID,
		Password:   t.authToken,
		AccountSid: t.accountSID,
	})
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		logging.Debug(ctx).Str("to", toNumber).Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}
