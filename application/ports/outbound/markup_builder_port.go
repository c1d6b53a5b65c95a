package outbound

import "github.com/Sameer-Bagul/ai-lead-generation-house/domain"

// MarkupBuilderPort maps a control directive to provider call-control
// markup. Implementations are pure: no I/O, deterministic for a given
// directive, so the provider always receives a valid document.
type MarkupBuilderPort interface {
	// Build renders the directive: play the reply audio (or speak its
	// text), then either re-arm speech collection or hang up.
	Build(directive domain.ControlDirective) (string, error)
	// Reprompt renders markup that re-arms speech collection without
	// playing anything new, used when no speech was detected.
	Reprompt(callID string, language string) (string, error)
}
