package alert

import (
	"context"
	"fmt"
	"log"

	"backend-safeher/internal/config"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender sends alert texts through the Twilio messaging API.
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMSSender(cfg config.Config) *TwilioSMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		return nil
	}
	return &TwilioSMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFromNumber,
	}
}

// SendBulk texts every number; the batch fails only when no message
// could be handed to the gateway at all.
func (t *TwilioSMSSender) SendBulk(_ context.Context, to []string, body string) error {
	sent := 0
	for _, number := range to {
		params := &openapi.CreateMessageParams{}
		params.SetTo(number)
		params.SetFrom(t.from)
		params.SetBody(body)

		if _, err := t.client.Api.CreateMessage(params); err != nil {
			log.Printf("twilio send to %s failed: %v", number, err)
			continue
		}
		sent++
	}
	if sent == 0 {
		return fmt.Errorf("no sms delivered to %d recipients", len(to))
	}
	return nil
}
