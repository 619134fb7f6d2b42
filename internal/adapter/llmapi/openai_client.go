package llmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"blog-publisher/internal/domain"
)

const (
	defaultTemperature = 0.8
	defaultMaxTokens   = 4000
)

type chatRequest struct {
	Model          string           `json:"model"`
	Messages       []domain.Message `json:"messages"`
	ResponseFormat responseFormat   `json:"response_format"`
	Temperature    float64          `json:"temperature"`
	MaxTokens      int              `json:"max_tokens"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint and
// requests a JSON-object response. The API credential is resolved
// through the secret store on first use and cached for the process
// lifetime.
type OpenAIClient struct {
	baseURL     string
	model       string
	secretRef   string
	secrets     domain.SecretStore
	client      *http.Client
	logger      *slog.Logger
	temperature float64
	maxTokens   int

	mu     sync.Mutex
	apiKey string
}

// NewOpenAIClient constructs a client for the given endpoint and model.
func NewOpenAIClient(baseURL, model, secretRef string, secrets domain.SecretStore, client *http.Client, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		secretRef:   secretRef,
		secrets:     secrets,
		client:      client,
		logger:      logger,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
}

// Generate submits the messages and returns the completion text. An
// empty completion is an error; the caller decides what "parses" means.
func (c *OpenAIClient) Generate(ctx context.Context, messages []domain.Message) (*domain.LLMResponse, error) {
	apiKey, err := c.credential(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve llm credential: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("completion API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, domain.ErrEmptyCompletion
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return nil, domain.ErrEmptyCompletion
	}

	c.logger.Debug("completion received",
		slog.String("model", c.model),
		slog.String("finish_reason", chatResp.Choices[0].FinishReason),
		slog.Int("length", len(content)))

	return &domain.LLMResponse{Text: content}, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) credential(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	key, err := c.secrets.GetSecret(ctx, c.secretRef)
	if err != nil {
		return "", err
	}
	c.apiKey = key
	return key, nil
}

var _ domain.LLMClient = (*OpenAIClient)(nil)
