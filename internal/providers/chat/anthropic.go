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

const anthropicVersion = "2023-06-01"

// AnthropicOptions configures the Anthropic messages client.
type AnthropicOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Anthropic calls the Anthropic messages endpoint. Unlike the
// OpenAI-compatible providers it must not carry system-role entries inside
// the messages array: system content travels in the top-level system field.
type Anthropic struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// NewAnthropic constructs the client.
func NewAnthropic(opts AnthropicOptions) (*Anthropic, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	model := opts.Model
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Anthropic{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
		model:   model,
		client:  client,
	}, nil
}

// Model returns the provider-side model identifier.
func (a *Anthropic) Model() string {
	return a.model
}

// Send splits system content out of the history and posts the remainder.
func (a *Anthropic) Send(ctx context.Context, history []Message) (string, error) {
	messages, system := splitSystem(history)
	payload := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxCompletionTokens,
		Temperature: completionTemperature,
		Messages:    messages,
		System:      system,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("anthropic: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", &buf)
	if err != nil {
		return "", fmt.Errorf("anthropic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic: status %d", resp.StatusCode)
	}
	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if len(out.Content) == 0 || strings.TrimSpace(out.Content[0].Text) == "" {
		return "", errors.New("anthropic: empty content")
	}
	return out.Content[0].Text, nil
}

// splitSystem filters system entries out of the history and returns the first
// system content separately.
func splitSystem(history []Message) ([]Message, string) {
	messages := make([]Message, 0, len(history))
	system := ""
	for _, msg := range history {
		if msg.Role == RoleSystem {
			if system == "" {
				system = msg.Content
			}
			continue
		}
		messages = append(messages, msg)
	}
	return messages, system
}

var _ Provider = (*Anthropic)(nil)
