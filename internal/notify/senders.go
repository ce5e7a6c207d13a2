package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of a gateway. Development only.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.log.Info("sms", zap.String("phone", phone), zap.String("message", message))
	return nil
}

// TwilioSender delivers SMS through the Twilio REST API.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSender constructs a TwilioSender.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, fromNumber: fromNumber}
}

func (s *TwilioSender) Send(_ context.Context, phone, message string) error {
	if s.fromNumber == "" {
		return fmt.Errorf("twilio sender number not configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("+" + phone)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}
