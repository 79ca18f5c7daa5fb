package generation

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a provider-neutral message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request describes one completion. A negative Temperature leaves the
// provider default in place.
type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the external generative-text service.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// PromptRequest wraps a single user prompt.
func PromptRequest(prompt string) Request {
	return Request{
		Messages:    []ChatMessage{{Role: RoleUser, Content: prompt}},
		Temperature: -1,
	}
}
