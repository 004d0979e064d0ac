package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	providerDefaultTimeout = 15 * time.Second
	maxCompletionTokens    = 1000
	completionTemperature  = 0.7
)

// OpenAICompatOptions configures an OpenAI-compatible chat-completion client.
// DeepSeek, DashScope, BigModel and the Hugging Face router all speak this
// dialect, so one client covers them.
type OpenAICompatOptions struct {
	Name       string
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// OpenAICompat calls a /chat/completions endpoint with bearer auth.
type OpenAICompat struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAICompat constructs the client. The API key is required; registration
// is skipped upstream when it is absent.
func NewOpenAICompat(opts OpenAICompatOptions) (*OpenAICompat, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%s api key is required", opts.Name)
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("%s model is required", opts.Name)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: providerDefaultTimeout}
	}
	return &OpenAICompat{
		name:    opts.Name,
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		model:   opts.Model,
		client:  client,
	}, nil
}

// Model returns the provider-side model identifier.
func (c *OpenAICompat) Model() string {
	return c.model
}

// Send posts the full history and extracts the first choice's content.
func (c *OpenAICompat) Send(ctx context.Context, history []Message) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.model,
		Messages:    history,
		MaxTokens:   maxCompletionTokens,
		Temperature: completionTemperature,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%s: encode request: %w", c.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: status %d", c.name, resp.StatusCode)
	}
	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New(c.name + ": no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New(c.name + ": empty content")
	}
	return content, nil
}

var _ Provider = (*OpenAICompat)(nil)
