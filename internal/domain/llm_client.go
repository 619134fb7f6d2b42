package domain

import "context"

// Message is one chat turn sent to the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient defines the capability to send a prompt to an LLM
// completion API and receive the raw text payload. Implementations
// request a JSON-object response format.
type LLMClient interface {
	Generate(ctx context.Context, messages []Message) (*LLMResponse, error)
	Model() string
}

// LLMResponse carries the completion text.
type LLMResponse struct {
	Text string
}
