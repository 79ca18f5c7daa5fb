package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiClient talks to Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	modelID string
	timeout time.Duration
}

// NewGeminiClient dials Gemini with an API key. A zero timeout leaves the
// deadline to the caller.
func NewGeminiClient(ctx context.Context, apiKey, modelID string, timeout time.Duration) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("generation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("generation: gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID, timeout: timeout}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	if len(req.Messages) == 0 {
		return Response{}, errors.New("generation: gemini requires at least one message")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(c.model(req))
	tuneGeminiModel(model, req)

	chat := model.StartChat()
	chat.History = geminiHistory(req.Messages[:len(req.Messages)-1])
	prompt := req.Messages[len(req.Messages)-1].Content

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return Response{}, fmt.Errorf("generation: gemini completion failed: %w", err)
	}
	return geminiResponse(resp)
}

func (c *GeminiClient) model(req Request) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	return c.modelID
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func tuneGeminiModel(model *genai.GenerativeModel, req Request) {
	if req.Temperature >= 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if system := strings.TrimSpace(strings.Join(req.System, "\n\n")); system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
}

// geminiHistory converts earlier turns. Gemini calls the assistant "model"
// and takes system text separately, so system turns are dropped here.
func geminiHistory(msgs []ChatMessage) []*genai.Content {
	var history []*genai.Content
	for _, msg := range msgs {
		text := strings.TrimSpace(msg.Content)
		if text == "" || msg.Role == RoleSystem {
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(text)}})
	}
	return history
}

func geminiResponse(resp *genai.GenerateContentResponse) (Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return Response{}, errors.New("generation: gemini returned no candidates")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return Response{}, errors.New("generation: gemini returned empty content")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := Response{Text: strings.TrimSpace(b.String()), StopReason: cand.FinishReason.String()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{InputTokens: u.PromptTokenCount, OutputTokens: u.CandidatesTokenCount, TotalTokens: u.TotalTokenCount}
	}
	return out, nil
}
