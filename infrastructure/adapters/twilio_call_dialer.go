package adapters

import (
	"context"
	"fmt"
	"net/url"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
)

type twilioCallDialer struct {
	logger       outbound.LoggerPort
	client       *twilio.RestClient
	twilioConfig *config.TwilioConfig
	answerUrl    string
	statusUrl    string
}

// NewTwilioCallDialer places outbound calls through the Twilio REST API,
// pointing the call at this service's answer and status webhooks.
func NewTwilioCallDialer(logger outbound.LoggerPort, twilioConfig *config.TwilioConfig,
	answerUrl string, statusUrl string) outbound.CallDialerPort {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: twilioConfig.AccountSid,
		Password: twilioConfig.AuthToken,
	})
	return &twilioCallDialer{
		logger:       logger,
		client:       client,
		twilioConfig: twilioConfig,
		answerUrl:    answerUrl,
		statusUrl:    statusUrl,
	}
}

func (d *twilioCallDialer) Dial(ctx context.Context, req outbound.DialRequest) (string, error) {
	query := "?call_id=" + url.QueryEscape(req.CallID)

	params := &twilioApi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(d.twilioConfig.FromNumber)
	params.SetUrl(d.answerUrl + query)
	params.SetMethod("POST")
	params.SetStatusCallback(d.statusUrl + query)
	params.SetStatusCallbackMethod("POST")
	params.SetStatusCallbackEvent([]string{"completed", "busy", "no-answer", "failed"})

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		d.logger.ErrorWithFields(err, "Twilio create call failed", map[string]interface{}{
			"to": req.To,
		})
		return "", err
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio returned call without sid")
	}

	d.logger.InfoWithFields("Twilio call created", map[string]interface{}{
		"call_id":      req.CallID,
		"provider_sid": *resp.Sid,
	})

	return *resp.Sid, nil
}
