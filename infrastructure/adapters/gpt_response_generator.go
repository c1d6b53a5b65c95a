package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/donovanhide/eventsource"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

const DoneSignal = "[DONE]"

// generationTimeout bounds one completion; on expiry the orchestrator's
// failure fallback applies exactly as on a hard error.
const generationTimeout = 20 * time.Second

type chatGptRequest struct {
	Stream   bool             `json:"stream"`
	Model    string           `json:"model"`
	Messages []chatGptMessage `json:"messages"`
}

type chatGptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatGptChunkBody struct {
	Choices []chatGptResponseChoice `json:"choices"`
}

type chatGptResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type gptResponseGenerator struct {
	logger    outbound.LoggerPort
	gptConfig *config.GptConfig
}

func NewGptResponseGenerator(gptConfig *config.GptConfig, logger outbound.LoggerPort) outbound.ResponseGeneratorPort {
	return &gptResponseGenerator{
		logger:    logger,
		gptConfig: gptConfig,
	}
}

func (g *gptResponseGenerator) GenerateReply(ctx context.Context, req outbound.GenerateReplyRequest) (string, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = g.gptConfig.Model
	}

	messages := []chatGptMessage{{Role: "system", Content: buildAgentPrompt(req)}}
	for _, turn := range req.RecentHistory {
		messages = append(messages, chatGptMessage{Role: roleFor(turn.Role), Content: turn.Text})
	}
	messages = append(messages, chatGptMessage{Role: "user", Content: req.Utterance})

	return g.complete(ctx, modelID, messages)
}

func (g *gptResponseGenerator) Summarize(ctx context.Context, turns []domain.ConversationTurn) (string, error) {
	var transcript strings.Builder
	for _, turn := range turns {
		transcript.WriteString(string(turn.Role))
		transcript.WriteString(": ")
		transcript.WriteString(turn.Text)
		transcript.WriteString("\n")
	}

	messages := []chatGptMessage{
		{Role: "system", Content: "Summarize this outbound sales call transcript in two or three sentences. Note whether the caller shared contact details and how receptive they were."},
		{Role: "user", Content: transcript.String()},
	}

	return g.complete(ctx, g.gptConfig.Model, messages)
}

// complete streams one chat completion over SSE and assembles the chunks
// into the full reply text.
func (g *gptResponseGenerator) complete(ctx context.Context, modelID string, messages []chatGptMessage) (string, error) {
	newCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	req, err := g.createRequest(newCtx, modelID, messages)
	if err != nil {
		g.logger.Error(err, "failed to create completion request")
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		g.logger.Error(err, "failed to subscribe to completion stream")
		return "", err
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		select {
		case <-newCtx.Done():
			return "", newCtx.Err()
		case ev := <-stream.Events:
			if ev.Data() == DoneSignal {
				return strings.TrimSpace(reply.String()), nil
			}
			payload, err := g.extractPayload(ev)
			if err != nil {
				return "", err
			}
			reply.WriteString(payload)
		case err := <-stream.Errors:
			if err == io.EOF {
				return strings.TrimSpace(reply.String()), nil
			}
			g.logger.Error(err, "completion stream error")
			return "", err
		}
	}
}

func (g *gptResponseGenerator) createRequest(ctx context.Context, modelID string, messages []chatGptMessage) (*http.Request, error) {
	reqBody := chatGptRequest{
		Stream:   true,
		Model:    modelID,
		Messages: messages,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.gptConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.gptConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (g *gptResponseGenerator) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatGptChunkBody
	err := json.Unmarshal([]byte(event.Data()), &chunkBody)
	if err != nil {
		g.logger.Error(err, "failed to unmarshal completion chunk")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}
	return chunkBody.Choices[0].Delta.Content, nil
}

func buildAgentPrompt(req outbound.GenerateReplyRequest) string {
	var prompt strings.Builder
	prompt.WriteString("You are a polite outbound calling agent on a live phone call. ")
	prompt.WriteString("Your goal: ")
	prompt.WriteString(req.GoalScript)
	prompt.WriteString("\nCollect the person's phone number and email address, one at a time, without being pushy. ")
	prompt.WriteString("Keep every reply short and conversational, suitable for speech.")
	if req.Language != "" {
		prompt.WriteString(fmt.Sprintf("\nRespond in language: %s.", req.Language))
	}
	if req.KnownFields.Phone != "" {
		prompt.WriteString("\nAlready collected phone number: " + req.KnownFields.Phone + ". Do not ask for it again.")
	}
	if req.KnownFields.Email != "" {
		prompt.WriteString("\nAlready collected email: " + req.KnownFields.Email + ". Do not ask for it again.")
	}
	if req.KnownFields.Complete() {
		prompt.WriteString("\nYou have everything you need. Thank them for their time and say goodbye.")
	}
	return prompt.String()
}

func roleFor(role domain.TurnRole) string {
	if role == domain.AgentRole {
		return "assistant"
	}
	return "user"
}
