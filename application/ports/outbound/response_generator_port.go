package outbound

import (
	"context"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type GenerateReplyRequest struct {
	Utterance     string
	GoalScript    string
	Language      string
	ModelID       string
	RecentHistory []domain.ConversationTurn
	KnownFields   domain.ContactFields
}

// ResponseGeneratorPort produces the agent's next reply from conversation
// context, and post-call summaries from the full transcript.
type ResponseGeneratorPort interface {
	GenerateReply(ctx context.Context, req GenerateReplyRequest) (string, error)
	Summarize(ctx context.Context, turns []domain.ConversationTurn) (string, error)
}
