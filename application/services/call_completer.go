package services

import (
	"context"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/inbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/clock"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

const (
	summaryFallback  = "Summary unavailable: the conversation could not be summarized automatically."
	followUpTemplate = "Thanks for taking our call today! We'll be in touch with the details we discussed. Reply here any time."
)

type callCompleter struct {
	logger     outbound.LoggerPort
	registry   *SessionRegistry
	store      outbound.CallStorePort
	generator  outbound.ResponseGeneratorPort
	messenger  outbound.FollowUpMessengerPort
	publisher  outbound.CallEventPublisherPort
	dispatcher outbound.TaskDispatcher
	clk        clock.Clock
}

func NewCallCompleter(logger outbound.LoggerPort, registry *SessionRegistry, store outbound.CallStorePort,
	generator outbound.ResponseGeneratorPort, messenger outbound.FollowUpMessengerPort,
	publisher outbound.CallEventPublisherPort, dispatcher outbound.TaskDispatcher,
	clk clock.Clock) inbound.CallCompleterPort {
	return &callCompleter{
		logger:     logger,
		registry:   registry,
		store:      store,
		generator:  generator,
		messenger:  messenger,
		publisher:  publisher,
		dispatcher: dispatcher,
		clk:        clk,
	}
}

// Complete finalizes a call: closes the durable record, evicts the session,
// generates a best-effort summary and triggers the follow-up message. It is
// idempotent; the scheduled timer and the provider's status webhook may
// both invoke it.
func (c *callCompleter) Complete(ctx context.Context, callID string, durationSeconds int) {
	session, ok := c.registry.Get(callID)
	if !ok {
		c.logger.DebugWithFields("completion for untracked call, ignoring", map[string]interface{}{
			"call_id": callID,
		})
		return
	}

	session.BeginTurn()
	if session.Status() != domain.CallStatusActive {
		session.EndTurn()
		return
	}
	session.SetStatus(domain.CallStatusCompleted)
	session.EndTurn()

	c.registry.Remove(callID)

	if durationSeconds <= 0 {
		durationSeconds = session.Elapsed(c.clk.Now())
	}

	turns := session.Turns()

	summary, err := c.generator.Summarize(ctx, turns)
	if err != nil {
		c.logger.ErrorWithFields(err, "summary generation failed, using fallback", map[string]interface{}{
			"call_id": callID,
		})
		summary = summaryFallback
	}

	// Post-call extraction sweeps the whole transcript, catching anything
	// the per-turn pass missed.
	fields := session.Fields().Merge(ExtractFromTurns(turns))

	status := domain.CallStatusCompleted
	update := outbound.CallRecordUpdate{
		Status:          &status,
		Summary:         &summary,
		DurationSeconds: &durationSeconds,
	}
	if fields.Phone != "" {
		update.Phone = &fields.Phone
	}
	if fields.Email != "" {
		update.Email = &fields.Email
	}
	if err := c.store.UpdateCallRecord(ctx, callID, update); err != nil {
		c.logger.ErrorWithFields(err, "failed to close out call record", map[string]interface{}{
			"call_id": callID,
		})
	}

	c.logger.InfoWithFields("call completed", map[string]interface{}{
		"call_id":          callID,
		"duration_seconds": durationSeconds,
		"turns":            len(turns),
		"phone_captured":   fields.Phone != "",
		"email_captured":   fields.Email != "",
	})

	if fields.Phone != "" {
		c.sendFollowUp(callID, fields.Phone)
	}

	event := session.ToEvent(c.clk.Now())
	if err := c.dispatcher.Submit(func() {
		c.publisher.Publish(event)
	}); err != nil {
		c.logger.Error(err, "failed to dispatch final call event")
	}
}

// MarkFailed records a call that never reached a normal completion. Unlike
// Complete it also updates the durable record when the session is not in
// the registry, so status webhooks landing after a restart still settle
// the record.
func (c *callCompleter) MarkFailed(ctx context.Context, callID string, reason string) {
	if session, ok := c.registry.Get(callID); ok {
		session.SetStatus(domain.CallStatusFailed)
		c.registry.Remove(callID)
	}

	status := domain.CallStatusFailed
	if err := c.store.UpdateCallRecord(ctx, callID, outbound.CallRecordUpdate{Status: &status}); err != nil {
		c.logger.ErrorWithFields(err, "failed to mark call failed", map[string]interface{}{
			"call_id": callID,
		})
	}

	c.logger.WarnWithFields("call failed", map[string]interface{}{
		"call_id": callID,
		"reason":  reason,
	})
}

// sendFollowUp fires the WhatsApp follow-up on the worker pool. Send
// failure is logged, not retried, and never reopens the call.
func (c *callCompleter) sendFollowUp(callID string, phone string) {
	err := c.dispatcher.Submit(func() {
		if err := c.messenger.SendMessage(context.Background(), phone, followUpTemplate); err != nil {
			c.logger.ErrorWithFields(err, "follow-up message send failed", map[string]interface{}{
				"call_id":     callID,
				"destination": phone,
			})
		}
	})
	if err != nil {
		c.logger.Error(err, "failed to dispatch follow-up message")
	}
}
