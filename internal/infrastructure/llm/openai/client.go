// Package openai implements outbound.LLMService against the OpenAI (or
// an OpenAI-compatible) chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/ports/outbound"
)

// Client implements outbound.LLMService using the OpenAI chat-completions API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new OpenAI client. apiKey/baseURL/model override
// OPENAI_API_KEY when non-empty; when no key is available at all, the
// client falls back to a local Ollama instance speaking the
// OpenAI-compatible /v1 surface, matching how this service runs in
// development without a paid key.
func NewClient(apiKey, baseURL, model string, logger *zap.Logger) *Client {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		logger.Info("openai api key not set, falling back to local ollama OpenAI-compatible endpoint")
		baseURL = "http://localhost:11434/v1"
		apiKey = "ollama"
	} else if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.Named("openai-client"),
	}
}

var _ outbound.LLMService = (*Client)(nil)

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content interface{}   `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []rawChoice `json:"choices"`
}

type rawChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// HealthCheck issues a minimal completion to verify connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ChatCompletion(ctx, "You are a health check.", "ping", 0, 5)
	return err
}

// ChatCompletion issues a single text-only chat-completion call.
func (c *Client) ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	return c.complete(ctx, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, temperature, maxTokens)
}

// ChatCompletionWithImage issues a vision-capable chat-completion call
// with a base64-encoded image attached to the user turn.
func (c *Client) ChatCompletionWithImage(ctx context.Context, system, user, imageBase64 string, temperature float64, maxTokens int) (string, error) {
	return c.complete(ctx, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: user},
			{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imageBase64}},
		}},
	}, temperature, maxTokens)
}

func (c *Client) complete(ctx context.Context, messages []message, temperature float64, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
