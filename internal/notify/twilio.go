package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioNotifier sends WhatsApp messages and places escalation calls through
// the Twilio REST API.
type TwilioNotifier struct {
	client         *twilio.RestClient
	whatsappNumber string
	voiceNumber    string
	logger         *zap.Logger
}

func NewTwilioNotifier(accountSID, authToken, whatsappNumber, voiceNumber string, logger *zap.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		whatsappNumber: whatsappNumber,
		voiceNumber:    voiceNumber,
		logger:         logger,
	}
}

// Send delivers a WhatsApp message to the customer's phone number.
func (n *TwilioNotifier) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddr(to))
	params.SetFrom(whatsappAddr(n.whatsappNumber))
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.Sid != nil {
		n.logger.Debug("WhatsApp message sent",
			zap.String("to", to),
			zap.String("sid", *resp.Sid),
		)
	}

	return nil
}

// Call dials the customer and points the call at the TwiML served at
// callbackURL.
func (n *TwilioNotifier) Call(_ context.Context, to, callbackURL string) error {
	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(n.voiceNumber)
	params.SetUrl(callbackURL)
	params.SetMethod("POST")

	resp, err := n.client.Api.CreateCall(params)
	if err != nil {
		return fmt.Errorf("initiate call: %w", err)
	}

	if resp.Sid != nil {
		n.logger.Info("Escalation call initiated",
			zap.String("to", to),
			zap.String("sid", *resp.Sid),
		)
	}

	return nil
}

func whatsappAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
