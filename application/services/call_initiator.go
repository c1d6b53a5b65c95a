package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/inbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/clock"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type callInitiator struct {
	logger   outbound.LoggerPort
	registry *SessionRegistry
	store    outbound.CallStorePort
	dialer   outbound.CallDialerPort
	clk      clock.Clock
}

func NewCallInitiator(logger outbound.LoggerPort, registry *SessionRegistry, store outbound.CallStorePort,
	dialer outbound.CallDialerPort, clk clock.Clock) inbound.CallInitiatorPort {
	return &callInitiator{
		logger:   logger,
		registry: registry,
		store:    store,
		dialer:   dialer,
		clk:      clk,
	}
}

// Initiate creates the durable record first, then the in-memory session,
// then places the call. The record must exist before the provider's first
// webhook arrives, otherwise the answer callback resolves NotResumable.
func (i *callInitiator) Initiate(ctx context.Context, params inbound.InitiateCallParams) (*inbound.InitiateCallResult, error) {
	if _, err := i.store.GetCampaign(ctx, params.CampaignID); err != nil {
		return nil, fmt.Errorf("campaign %s: %w", params.CampaignID, err)
	}

	callID := uuid.NewString()
	now := i.clk.Now()

	record := domain.CallRecord{
		ID:          callID,
		ContactID:   params.ContactID,
		CampaignID:  params.CampaignID,
		PhoneNumber: params.PhoneNumber,
		Status:      domain.CallStatusActive,
		StartedAt:   now,
	}
	if err := i.store.CreateCallRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("create call record: %w", err)
	}

	providerCallID, err := i.dialer.Dial(ctx, outbound.DialRequest{
		To:     params.PhoneNumber,
		CallID: callID,
	})
	if err != nil {
		i.logger.ErrorWithFields(err, "dial failed", map[string]interface{}{
			"call_id": callID,
			"to":      params.PhoneNumber,
		})
		status := domain.CallStatusFailed
		if updateErr := i.store.UpdateCallRecord(ctx, callID, outbound.CallRecordUpdate{Status: &status}); updateErr != nil {
			i.logger.Error(updateErr, "failed to mark undialed call failed")
		}
		return nil, fmt.Errorf("dial: %w", err)
	}

	if err := i.store.UpdateCallRecord(ctx, callID, outbound.CallRecordUpdate{ProviderCallID: &providerCallID}); err != nil {
		i.logger.ErrorWithFields(err, "failed to persist provider call id", map[string]interface{}{
			"call_id": callID,
		})
	}

	session := domain.NewCallSession(callID, params.ContactID, params.CampaignID,
		params.PhoneNumber, providerCallID, now)
	i.registry.Register(session)

	i.logger.InfoWithFields("outbound call initiated", map[string]interface{}{
		"call_id":          callID,
		"provider_call_id": providerCallID,
		"campaign_id":      params.CampaignID,
	})

	return &inbound.InitiateCallResult{
		CallID:         callID,
		ProviderCallID: providerCallID,
	}, nil
}
