package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/nathoo/bossfight/types"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini answers prompts with a Gemini model. Each request replays the
// participant's full history, so one client serves all three participants.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

// NewGemini creates a client for modelName. A nil logger means
// slog.Default().
func NewGemini(ctx context.Context, apiKey, modelName string, log *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if log == nil {
		log = slog.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	return &Gemini{client: client, model: model, log: log}, nil
}

// Close releases the client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Respond sends the newest prompt with the earlier exchange as chat history.
func (g *Gemini) Respond(ctx context.Context, req types.Request) (string, error) {
	if len(req.History) == 0 {
		return "", errors.New("empty history")
	}
	cs := g.model.StartChat()
	last := len(req.History) - 1
	for _, m := range req.History[:last] {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.History[last].Content))
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response type")
	}
	g.log.Debug("model reply", "participant", req.Participant, "round", req.Round,
		"turns", len(cs.History))
	return Clean(string(text)), nil
}

// Clean strips a Markdown code fence and surrounding whitespace from a
// model reply.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence.
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.Contains(s[:i], ":") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
