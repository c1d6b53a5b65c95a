package domain

import (
	"sync"
	"time"
)

type TurnRole string

const (
	CallerRole TurnRole = "caller"
	AgentRole  TurnRole = "agent"
)

type CallStatus string

const (
	CallStatusActive    CallStatus = "active"
	CallStatusCompleted CallStatus = "completed"
	CallStatusFailed    CallStatus = "failed"
)

// ConversationTurn is immutable once appended to a session.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactFields holds the two values the agent is trying to collect.
// An empty string means the field has not been captured yet.
type ContactFields struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Merge returns f with any empty field filled from other. A field already
// set is never overwritten.
func (f ContactFields) Merge(other ContactFields) ContactFields {
	if f.Phone == "" {
		f.Phone = other.Phone
	}
	if f.Email == "" {
		f.Email = other.Email
	}
	return f
}

func (f ContactFields) Complete() bool {
	return f.Phone != "" && f.Email != ""
}

// CallSession is the in-memory, rebuildable state of one live call. The
// durable call record is the source of truth; a session only tracks what
// the current process has seen since it materialized the call.
type CallSession struct {
	ID             string
	ContactID      string
	CampaignID     string
	PhoneNumber    string
	ProviderCallID string
	StartedAt      time.Time

	mu     sync.Mutex
	gate   sync.Mutex
	status CallStatus
	turns  []ConversationTurn
	fields ContactFields
}

func NewCallSession(id, contactID, campaignID, phoneNumber, providerCallID string, startedAt time.Time) *CallSession {
	return &CallSession{
		ID:             id,
		ContactID:      contactID,
		CampaignID:     campaignID,
		PhoneNumber:    phoneNumber,
		ProviderCallID: providerCallID,
		StartedAt:      startedAt,
		status:         CallStatusActive,
	}
}

// BeginTurn serializes turn processing for this call. Provider retries can
// deliver two webhooks for the same call concurrently; holding the gate for
// the whole turn keeps the history a single chronological sequence.
func (s *CallSession) BeginTurn() {
	s.gate.Lock()
}

func (s *CallSession) EndTurn() {
	s.gate.Unlock()
}

func (s *CallSession) AppendTurn(role TurnRole, text string) ConversationTurn {
	turn := ConversationTurn{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
	return turn
}

// Turns returns a copy of the full turn history in append order.
func (s *CallSession) Turns() []ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// RecentTurns returns at most n of the latest turns, oldest first.
func (s *CallSession) RecentTurns(n int) []ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]ConversationTurn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

func (s *CallSession) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *CallSession) Status() CallStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *CallSession) SetStatus(status CallStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *CallSession) Fields() ContactFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// MergeFields merges found into the session's fields first-found-wins and
// reports whether anything new was captured.
func (s *CallSession) MergeFields(found ContactFields) (ContactFields, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.fields.Merge(found)
	changed := merged != s.fields
	s.fields = merged
	return merged, changed
}

// SetFields seeds the session's fields from the durable record, used when a
// session is rebuilt after a cache miss.
func (s *CallSession) SetFields(fields ContactFields) {
	s.mu.Lock()
	s.fields = fields
	s.mu.Unlock()
}

func (s *CallSession) Elapsed(now time.Time) int {
	return int(now.Sub(s.StartedAt).Seconds())
}

func (s *CallSession) ToEvent(now time.Time) CallEvent {
	return CallEvent{
		CallID:          s.ID,
		Status:          string(s.Status()),
		Turns:           s.Turns(),
		DurationSeconds: s.Elapsed(now),
	}
}

// CallRecord is the durable representation of a call.
type CallRecord struct {
	ID              string
	ContactID       string
	CampaignID      string
	PhoneNumber     string
	ProviderCallID  string
	Status          CallStatus
	Fields          ContactFields
	Summary         string
	DurationSeconds int
	StartedAt       time.Time
	EndedAt         time.Time
	Messages        []ConversationTurn
}

// Campaign is an immutable configuration snapshot for the calls it drives.
type Campaign struct {
	ID              string
	Name            string
	GoalScript      string
	Greeting        string
	Language        string
	GenerationModel string
	VoiceID         string
	SynthesisModel  string
	VoiceSettings   VoiceSettings
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

type DirectiveIntent string

const (
	// KeepListening plays the reply then re-arms speech collection.
	KeepListening DirectiveIntent = "keep_listening"
	// EndCall plays the reply then hangs up.
	EndCall DirectiveIntent = "end_call"
)

// ControlDirective is the orchestrator's decision for one turn, handed to
// the markup builder. AudioURL is preferred; Text is the spoken fallback
// when no audio asset exists. CallID routes the provider's next callback
// to the right call.
type ControlDirective struct {
	Intent   DirectiveIntent
	CallID   string
	AudioURL string
	Text     string
	Language string
}

// CallEvent is broadcast to live dashboard subscribers after each turn.
type CallEvent struct {
	CallID          string             `json:"call_id"`
	Status          string             `json:"status"`
	Turns           []ConversationTurn `json:"turns"`
	DurationSeconds int                `json:"duration_seconds"`
}
