// Package ollama implements outbound.LLMService against a local Ollama
// server's chat API.
package ollama

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

// Client implements outbound.LLMService using Ollama's /api/chat endpoint.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Ollama client. host/model override the
// MEALPREP_OLLAMA_HOST / MEALPREP_OLLAMA_MODEL environment variables
// when non-empty.
func NewClient(host, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if host == "" {
		host = os.Getenv("MEALPREP_OLLAMA_HOST")
	}
	if host == "" {
		host = "http://localhost:11434"
	}

	if model == "" {
		model = os.Getenv("MEALPREP_OLLAMA_MODEL")
	}
	if model == "" {
		model = "llama3"
	}

	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger.Info("ollama client initialized", zap.String("base_url", host), zap.String("model", model))

	return &Client{
		baseURL: host,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("ollama-client"),
	}
}

var _ outbound.LLMService = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Images   []string               `json:"images,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// HealthCheck reports whether the Ollama server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to build health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// ChatCompletion issues a single chat-completion call.
func (c *Client) ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	return c.chat(ctx, system, user, nil, temperature, maxTokens)
}

// ChatCompletionWithImage issues a chat-completion call with an attached
// base64-encoded image, for POST /recipe-from-image (spec.md §6).
func (c *Client) ChatCompletionWithImage(ctx context.Context, system, user, imageBase64 string, temperature float64, maxTokens int) (string, error) {
	return c.chat(ctx, system, user, []string{imageBase64}, temperature, maxTokens)
}

func (c *Client) chat(ctx context.Context, system, user string, images []string, temperature float64, maxTokens int) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: map[string]interface{}{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}
	if len(images) > 0 {
		reqBody.Images = images
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !parsed.Done {
		return "", fmt.Errorf("incomplete response from ollama")
	}

	return parsed.Message.Content, nil
}
