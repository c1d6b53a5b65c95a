package inbound

import "context"

// CallCompleterPort finalizes calls. Complete is idempotent: it may be
// invoked by a termination directive and again by the provider's
// call-status webhook without duplicating side effects.
type CallCompleterPort interface {
	// Complete marks the call completed. durationSeconds <= 0 means
	// "compute from wall-clock elapsed time".
	Complete(ctx context.Context, callID string, durationSeconds int)
	// MarkFailed records a call that never finished (busy, no-answer,
	// provider failure).
	MarkFailed(ctx context.Context, callID string, reason string)
}
