package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type stubOrchestrator struct{}

func (stubOrchestrator) Intro(context.Context, string) string { return "<Response/>" }
func (stubOrchestrator) ProcessTurn(context.Context, string, string) string {
	return "<Response/>"
}

type spyCompleter struct {
	completed []string
	durations []int
	failed    []string
}

func (s *spyCompleter) Complete(_ context.Context, callID string, durationSeconds int) {
	s.completed = append(s.completed, callID)
	s.durations = append(s.durations, durationSeconds)
}

func (s *spyCompleter) MarkFailed(_ context.Context, callID string, _ string) {
	s.failed = append(s.failed, callID)
}

type stubRecognizer struct{}

func (stubRecognizer) Recognize(input outbound.RecognitionInput) (string, error) {
	if strings.TrimSpace(input.SpeechResult) == "" {
		return "", outbound.ErrNoSpeech
	}
	return input.SpeechResult, nil
}

type sidResolver struct {
	byProviderID map[string]string
}

func (r sidResolver) LookupByProviderID(providerCallID string) (string, bool) {
	callID, ok := r.byProviderID[providerCallID]
	return callID, ok
}

func newStatusTestRouter(completer *spyCompleter, resolver sidResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewVoiceWebhookController(nopLogger{}, stubOrchestrator{}, completer,
		stubRecognizer{}, nil, resolver)
	router := gin.New()
	controller.RegisterRoutes(router.Group("/"))
	return router
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVoiceWebhookController_StatusWithCallID(t *testing.T) {
	completer := &spyCompleter{}
	router := newStatusTestRouter(completer, sidResolver{})

	rec := postForm(router, "/twilio/voice/status?call_id=call-1", url.Values{
		"CallStatus":   {"completed"},
		"CallDuration": {"42"},
	})

	if rec.Code != 200 {
		t.Fatal("expected 200, got:", rec.Code)
	}
	if len(completer.completed) != 1 || completer.completed[0] != "call-1" {
		t.Fatalf("expected completion for call-1, got %v", completer.completed)
	}
	if completer.durations[0] != 42 {
		t.Fatal("expected the provider duration, got:", completer.durations[0])
	}
}

func TestVoiceWebhookController_StatusFallsBackToProviderSid(t *testing.T) {
	completer := &spyCompleter{}
	router := newStatusTestRouter(completer, sidResolver{
		byProviderID: map[string]string{"CA123": "call-1"},
	})

	rec := postForm(router, "/twilio/voice/status", url.Values{
		"CallSid":    {"CA123"},
		"CallStatus": {"no-answer"},
	})

	if rec.Code != 200 {
		t.Fatal("expected 200, got:", rec.Code)
	}
	if len(completer.failed) != 1 || completer.failed[0] != "call-1" {
		t.Fatalf("expected the provider sid mapped to call-1, got %v", completer.failed)
	}
}

func TestVoiceWebhookController_StatusUnknownProviderSid(t *testing.T) {
	completer := &spyCompleter{}
	router := newStatusTestRouter(completer, sidResolver{})

	rec := postForm(router, "/twilio/voice/status", url.Values{
		"CallSid":    {"CA999"},
		"CallStatus": {"completed"},
	})

	if rec.Code != 200 {
		t.Fatal("an unknown callback must still be acknowledged, got:", rec.Code)
	}
	if len(completer.completed) != 0 || len(completer.failed) != 0 {
		t.Fatal("no completion side effects expected for an unknown call")
	}
}
