package adapters

import (
	"fmt"
	"net/url"

	"github.com/twilio/twilio-go/twiml"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

const defaultMarkupLanguage = "en-US"

// twimlMarkupBuilder renders control directives as TwiML. It holds only
// static configuration (callback address, ambient track) and performs no
// I/O, so its output is deterministic for a given directive.
type twimlMarkupBuilder struct {
	// actionUrl is the speech-collection callback the provider posts
	// recognition results to; the call id is appended per directive.
	actionUrl string
	// ambientAudioUrl, when set, loops quietly inside the listening
	// window so the caller never hears dead air.
	ambientAudioUrl string
}

func NewTwimlMarkupBuilder(actionUrl string, ambientAudioUrl string) outbound.MarkupBuilderPort {
	return &twimlMarkupBuilder{
		actionUrl:       actionUrl,
		ambientAudioUrl: ambientAudioUrl,
	}
}

func (b *twimlMarkupBuilder) Build(directive domain.ControlDirective) (string, error) {
	reply := b.replyVerb(directive)

	switch directive.Intent {
	case domain.KeepListening:
		gather := b.gather([]twiml.Element{reply}, directive.CallID, directive.Language)
		return twiml.Voice([]twiml.Element{gather})
	case domain.EndCall:
		return twiml.Voice([]twiml.Element{reply, &twiml.VoiceHangup{}})
	default:
		return "", fmt.Errorf("unknown directive intent %q", directive.Intent)
	}
}

func (b *twimlMarkupBuilder) Reprompt(callID string, language string) (string, error) {
	return twiml.Voice([]twiml.Element{b.gather(nil, callID, language)})
}

// replyVerb prefers the synthesized audio asset; the provider's built-in
// voice is only used for fixed closing lines that never had one.
func (b *twimlMarkupBuilder) replyVerb(directive domain.ControlDirective) twiml.Element {
	if directive.AudioURL != "" {
		return &twiml.VoicePlay{Url: directive.AudioURL}
	}
	return &twiml.VoiceSay{
		Message:  directive.Text,
		Language: languageOrDefault(directive.Language),
	}
}

func (b *twimlMarkupBuilder) gather(inner []twiml.Element, callID string, language string) *twiml.VoiceGather {
	if b.ambientAudioUrl != "" {
		inner = append(inner, &twiml.VoicePlay{Url: b.ambientAudioUrl, Loop: "0"})
	}
	return &twiml.VoiceGather{
		Input:               "speech",
		Action:              b.actionUrl + "?call_id=" + url.QueryEscape(callID),
		Method:              "POST",
		Language:            languageOrDefault(language),
		SpeechTimeout:       "auto",
		ActionOnEmptyResult: "true",
		InnerElements:       inner,
	}
}

func languageOrDefault(language string) string {
	if language == "" {
		return defaultMarkupLanguage
	}
	return language
}
