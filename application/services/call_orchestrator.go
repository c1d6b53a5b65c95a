package services

import (
	"context"
	"time"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/inbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/clock"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

const (
	// HistoryWindow bounds how many past turns are sent to the response
	// generator, to cap latency and token cost.
	HistoryWindow = 4

	// CompletionDelay leaves room for the final audio to finish playing
	// before the durable record is closed out.
	CompletionDelay = 10 * time.Second

	closingLine = "Sorry, I am unable to continue this call right now. Thank you and goodbye."
	apologyLine = "I am sorry, we are having technical difficulties on our end. We will follow up with you shortly. Goodbye."

	// fallbackMarkup is returned if the markup builder itself fails; the
	// provider must always receive a parseable document.
	fallbackMarkup = `<?xml version="1.0" encoding="UTF-8"?><Response><Hangup/></Response>`

	defaultLanguage = "en-US"
)

type callOrchestrator struct {
	logger      outbound.LoggerPort
	registry    *SessionRegistry
	store       outbound.CallStorePort
	generator   outbound.ResponseGeneratorPort
	synthesizer outbound.SpeechSynthesizerPort
	audioStore  outbound.AudioStorePort
	markup      outbound.MarkupBuilderPort
	publisher   outbound.CallEventPublisherPort
	dispatcher  outbound.TaskDispatcher
	completer   inbound.CallCompleterPort
	clk         clock.Clock
}

func NewCallOrchestrator(logger outbound.LoggerPort, registry *SessionRegistry, store outbound.CallStorePort,
	generator outbound.ResponseGeneratorPort, synthesizer outbound.SpeechSynthesizerPort,
	audioStore outbound.AudioStorePort, markup outbound.MarkupBuilderPort,
	publisher outbound.CallEventPublisherPort, dispatcher outbound.TaskDispatcher,
	completer inbound.CallCompleterPort, clk clock.Clock) inbound.CallOrchestratorPort {
	return &callOrchestrator{
		logger:      logger,
		registry:    registry,
		store:       store,
		generator:   generator,
		synthesizer: synthesizer,
		audioStore:  audioStore,
		markup:      markup,
		publisher:   publisher,
		dispatcher:  dispatcher,
		completer:   completer,
		clk:         clk,
	}
}

// Intro produces the opening markup once the callee answers. Greeting audio
// uses the campaign voice; if that voice cannot be synthesized the call is
// ended immediately rather than opening with a different voice the rest of
// the conversation cannot keep.
func (o *callOrchestrator) Intro(ctx context.Context, callID string) string {
	session, err := o.registry.Resolve(ctx, callID)
	if err != nil {
		o.logger.WarnWithFields("intro for unresumable call", map[string]interface{}{
			"call_id": callID,
		})
		return o.render(domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     closingLine,
			Language: defaultLanguage,
		})
	}

	session.BeginTurn()
	defer session.EndTurn()

	campaign, err := o.store.GetCampaign(ctx, session.CampaignID)
	if err != nil {
		o.logger.ErrorWithFields(err, "campaign lookup failed on intro", map[string]interface{}{
			"call_id":     callID,
			"campaign_id": session.CampaignID,
		})
		return o.render(domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     closingLine,
			Language: defaultLanguage,
		})
	}

	greeting := campaign.Greeting
	if greeting == "" {
		greeting = "Hello! Thanks for taking our call. " + campaign.GoalScript
	}

	session.AppendTurn(domain.AgentRole, greeting)
	o.persistTurn(ctx, callID, domain.AgentRole, greeting)
	o.broadcast(session)

	audioURL, err := o.synthesizeAndStore(ctx, session, campaign, greeting)
	if err != nil {
		directive := domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     apologyLine,
			Language: campaign.Language,
		}
		o.scheduleCompletion(callID)
		return o.render(directive)
	}

	return o.render(domain.ControlDirective{
		Intent:   domain.KeepListening,
		CallID:   callID,
		AudioURL: audioURL,
		Language: campaign.Language,
	})
}

// ProcessTurn runs one full turn of the conversation pipeline. Every
// failure path degrades to valid markup; the caller never hears silence or
// a raw error.
func (o *callOrchestrator) ProcessTurn(ctx context.Context, callID string, utterance string) string {
	session, err := o.registry.Resolve(ctx, callID)
	if err != nil {
		o.logger.WarnWithFields("turn for unresumable call", map[string]interface{}{
			"call_id": callID,
		})
		return o.render(domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     closingLine,
			Language: defaultLanguage,
		})
	}

	session.BeginTurn()
	defer session.EndTurn()

	campaign, err := o.store.GetCampaign(ctx, session.CampaignID)
	if err != nil {
		o.logger.ErrorWithFields(err, "campaign lookup failed", map[string]interface{}{
			"call_id":     callID,
			"campaign_id": session.CampaignID,
		})
		return o.render(domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     closingLine,
			Language: defaultLanguage,
		})
	}

	history := session.RecentTurns(HistoryWindow)
	session.AppendTurn(domain.CallerRole, utterance)

	fields, changed := session.MergeFields(ExtractContactFields(utterance))
	if changed {
		o.persistFields(ctx, callID, fields)
	}

	reply, err := o.generator.GenerateReply(ctx, outbound.GenerateReplyRequest{
		Utterance:     utterance,
		GoalScript:    campaign.GoalScript,
		Language:      campaign.Language,
		ModelID:       campaign.GenerationModel,
		RecentHistory: history,
		KnownFields:   fields,
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "response generation failed, ending call", map[string]interface{}{
			"call_id": callID,
		})
		o.persistTurn(ctx, callID, domain.CallerRole, utterance)
		o.scheduleCompletion(callID)
		return o.render(domain.ControlDirective{
			Intent:   domain.EndCall,
			CallID:   callID,
			Text:     apologyLine,
			Language: campaign.Language,
		})
	}

	session.AppendTurn(domain.AgentRole, reply)

	o.persistTurn(ctx, callID, domain.CallerRole, utterance)
	o.persistTurn(ctx, callID, domain.AgentRole, reply)

	intent := domain.KeepListening
	if ShouldEndCall(fields, session.TurnCount(), reply, utterance) {
		intent = domain.EndCall
	}

	directive := domain.ControlDirective{
		Intent:   intent,
		CallID:   callID,
		Language: campaign.Language,
	}

	audioURL, err := o.synthesizeAndStore(ctx, session, campaign, reply)
	if err != nil {
		// No alternate voice on synthesis failure: swapping to the
		// provider's built-in voice mid-conversation would change the
		// agent's voice identity, so the call ends with the apology.
		directive.Intent = domain.EndCall
		directive.Text = apologyLine
	} else {
		directive.AudioURL = audioURL
	}

	o.broadcast(session)

	if directive.Intent == domain.EndCall {
		o.scheduleCompletion(callID)
	}

	return o.render(directive)
}

func (o *callOrchestrator) synthesizeAndStore(ctx context.Context, session *domain.CallSession,
	campaign *domain.Campaign, text string) (string, error) {
	audio, err := o.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
		Text:          text,
		VoiceID:       campaign.VoiceID,
		ModelID:       campaign.SynthesisModel,
		VoiceSettings: campaign.VoiceSettings,
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "speech synthesis failed", map[string]interface{}{
			"call_id": session.ID,
		})
		return "", err
	}

	url, err := o.audioStore.Save(ctx, session.ID, session.TurnCount(), audio)
	if err != nil {
		o.logger.ErrorWithFields(err, "audio upload failed", map[string]interface{}{
			"call_id": session.ID,
		})
		return "", err
	}
	return url, nil
}

// persistTurn writes one turn to the durable store. Failures are logged and
// swallowed; the durable record is reconciled at completion and a write
// failure must never abort a live conversation.
func (o *callOrchestrator) persistTurn(ctx context.Context, callID string, role domain.TurnRole, text string) {
	if err := o.store.AppendConversationMessage(ctx, callID, role, text); err != nil {
		o.logger.ErrorWithFields(err, "failed to persist conversation turn", map[string]interface{}{
			"call_id": callID,
			"role":    role,
		})
	}
}

func (o *callOrchestrator) persistFields(ctx context.Context, callID string, fields domain.ContactFields) {
	update := outbound.CallRecordUpdate{}
	if fields.Phone != "" {
		update.Phone = &fields.Phone
	}
	if fields.Email != "" {
		update.Email = &fields.Email
	}
	if err := o.store.UpdateCallRecord(ctx, callID, update); err != nil {
		o.logger.ErrorWithFields(err, "failed to persist extracted fields", map[string]interface{}{
			"call_id": callID,
		})
	}
}

func (o *callOrchestrator) broadcast(session *domain.CallSession) {
	event := session.ToEvent(o.clk.Now())
	if err := o.dispatcher.Submit(func() {
		o.publisher.Publish(event)
	}); err != nil {
		o.logger.Error(err, "failed to dispatch call event broadcast")
	}
}

// scheduleCompletion arms a one-shot timer so completion runs after the
// final audio has had time to play. Completion is idempotent, so a status
// webhook racing this timer is harmless.
func (o *callOrchestrator) scheduleCompletion(callID string) {
	o.clk.AfterFunc(CompletionDelay, func() {
		o.completer.Complete(context.Background(), callID, 0)
	})
}

func (o *callOrchestrator) render(directive domain.ControlDirective) string {
	doc, err := o.markup.Build(directive)
	if err != nil {
		o.logger.Error(err, "markup build failed, returning bare hangup")
		return fallbackMarkup
	}
	return doc
}
