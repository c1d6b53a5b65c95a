package controllers

import (
	"errors"
	"strconv"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/inbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/gin-gonic/gin"
)

const hangupMarkup = `<?xml version="1.0" encoding="UTF-8"?><Response><Hangup/></Response>`

// ProviderCallResolver maps the provider's call handle back to our call
// id, for callbacks that arrive without the call_id query parameter.
type ProviderCallResolver interface {
	LookupByProviderID(providerCallID string) (string, bool)
}

type VoiceWebhookController interface {
	Answer(c *gin.Context)
	Turn(c *gin.Context)
	Status(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type voiceWebhookController struct {
	logger       outbound.LoggerPort
	orchestrator inbound.CallOrchestratorPort
	completer    inbound.CallCompleterPort
	recognizer   outbound.SpeechRecognizerPort
	markup       outbound.MarkupBuilderPort
	resolver     ProviderCallResolver
}

func NewVoiceWebhookController(
	logger outbound.LoggerPort,
	orchestrator inbound.CallOrchestratorPort,
	completer inbound.CallCompleterPort,
	recognizer outbound.SpeechRecognizerPort,
	markup outbound.MarkupBuilderPort,
	resolver ProviderCallResolver,
) VoiceWebhookController {
	return &voiceWebhookController{
		logger:       logger,
		orchestrator: orchestrator,
		completer:    completer,
		recognizer:   recognizer,
		markup:       markup,
		resolver:     resolver,
	}
}

func (v *voiceWebhookController) Answer(c *gin.Context) {
	callID := c.Query("call_id")
	if callID == "" {
		v.logger.Warn("answer webhook without call_id")
		c.Data(200, "text/xml", []byte(hangupMarkup))
		return
	}

	body := v.orchestrator.Intro(c.Request.Context(), callID)
	c.Data(200, "text/xml", []byte(body))
}

func (v *voiceWebhookController) Turn(c *gin.Context) {
	callID := c.Query("call_id")
	if callID == "" {
		v.logger.Warn("turn webhook without call_id")
		c.Data(200, "text/xml", []byte(hangupMarkup))
		return
	}

	utterance, err := v.recognizer.Recognize(outbound.RecognitionInput{
		SpeechResult: c.PostForm("SpeechResult"),
		Confidence:   c.PostForm("Confidence"),
		Language:     c.PostForm("Language"),
	})
	if err != nil {
		if errors.Is(err, outbound.ErrNoSpeech) {
			body, repromptErr := v.markup.Reprompt(callID, c.PostForm("Language"))
			if repromptErr != nil {
				v.logger.Error(repromptErr, "failed to build reprompt markup")
				c.Data(200, "text/xml", []byte(hangupMarkup))
				return
			}
			c.Data(200, "text/xml", []byte(body))
			return
		}
		v.logger.Error(err, "failed to read speech result")
		c.Data(200, "text/xml", []byte(hangupMarkup))
		return
	}

	body := v.orchestrator.ProcessTurn(c.Request.Context(), callID, utterance)
	c.Data(200, "text/xml", []byte(body))
}

func (v *voiceWebhookController) Status(c *gin.Context) {
	callID := c.Query("call_id")
	if callID == "" {
		// Status callbacks configured provider-side carry only the
		// provider's own handle.
		providerCallID := c.PostForm("CallSid")
		mapped, ok := v.resolver.LookupByProviderID(providerCallID)
		if !ok {
			v.logger.WarnWithFields("status webhook for unknown call", map[string]interface{}{
				"provider_call_id": providerCallID,
			})
			c.Status(200)
			return
		}
		callID = mapped
	}

	callStatus := c.PostForm("CallStatus")
	switch callStatus {
	case "completed":
		duration, _ := strconv.Atoi(c.PostForm("CallDuration"))
		v.completer.Complete(c.Request.Context(), callID, duration)
	case "busy", "no-answer", "failed", "canceled":
		v.completer.MarkFailed(c.Request.Context(), callID, callStatus)
	default:
		v.logger.DebugWithFields("ignoring call status update", map[string]interface{}{
			"call_id": callID,
			"status":  callStatus,
		})
	}

	c.Status(200)
}

func (v *voiceWebhookController) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/twilio/voice/answer", v.Answer)
	g.POST("/twilio/voice/turn", v.Turn)
	g.POST("/twilio/voice/status", v.Status)
}
