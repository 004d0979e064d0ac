package chat

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"chathub/internal/domain"
	"chathub/internal/infra"
)

// Dispatcher routes a chat turn to the integration registered for the model
// identifier, falling back to the local responder when no integration exists
// or the call fails. It is a stateless service value injected into handlers.
type Dispatcher struct {
	providers map[string]Provider
	fallback  *MockResponder
	logger    zerolog.Logger
}

// NewDispatcher creates an empty dispatcher around the given fallback.
func NewDispatcher(logger zerolog.Logger, fallback *MockResponder) *Dispatcher {
	if fallback == nil {
		fallback = NewMockResponder()
	}
	return &Dispatcher{
		providers: make(map[string]Provider),
		fallback:  fallback,
		logger:    logger,
	}
}

// Register binds a provider to a model identifier. Adding an integration is a
// registration, not a code edit.
func (d *Dispatcher) Register(modelName string, p Provider) {
	d.providers[modelName] = p
}

// Dispatch performs one chat turn. It never returns an error: every
// provider-level failure is absorbed and converted into a fallback reply.
func (d *Dispatcher) Dispatch(ctx context.Context, model domain.ChatModel, history []Message) Response {
	provider, ok := d.providers[model.Name]
	if !ok {
		d.logger.Debug().Str("model", model.Name).Msg("no provider registered, using fallback")
		return d.fallback.Respond(ctx, model, history)
	}

	content, err := provider.Send(ctx, history)
	if err != nil {
		d.logger.Warn().Err(err).Str("model", model.Name).Msg("provider call failed, using fallback")
		return d.fallback.Respond(ctx, model, history)
	}

	return Response{Content: content, Model: provider.Model()}
}

// NewDispatcherFromConfig wires every integration whose credential is
// configured. Models without a credential stay unregistered and therefore
// route to the fallback.
func NewDispatcherFromConfig(cfg *infra.Config, logger zerolog.Logger) *Dispatcher {
	d := NewDispatcher(logger, NewMockResponder())
	client := &http.Client{Timeout: cfg.ProviderTimeout}

	compat := []struct {
		key     string
		name    string
		apiKey  string
		baseURL string
		model   string
	}{
		{"deepseek-chat", "deepseek", cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, "deepseek-chat"},
		{"gpt-4o-mini", "openai", cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, "gpt-4o-mini"},
		{"qwen2.5-72b", "qwen", cfg.QwenAPIKey, cfg.QwenBaseURL, "qwen2.5-72b-instruct"},
		{"glm-4-9b", "glm", cfg.GLMAPIKey, cfg.GLMBaseURL, "glm-4-9b"},
		{"llama3.1-8b", "huggingface", cfg.HuggingFaceAPIKey, cfg.HuggingFaceBaseURL, "meta-llama/Llama-3.1-8B-Instruct"},
	}
	for _, c := range compat {
		if strings.TrimSpace(c.apiKey) == "" {
			continue
		}
		p, err := NewOpenAICompat(OpenAICompatOptions{
			Name:       c.name,
			APIKey:     c.apiKey,
			BaseURL:    c.baseURL,
			Model:      c.model,
			HTTPClient: client,
		})
		if err != nil {
			logger.Warn().Err(err).Str("provider", c.name).Msg("skipping provider")
			continue
		}
		d.Register(c.key, p)
	}

	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		p, err := NewAnthropic(AnthropicOptions{
			APIKey:     cfg.AnthropicAPIKey,
			BaseURL:    cfg.AnthropicBaseURL,
			HTTPClient: client,
		})
		if err != nil {
			logger.Warn().Err(err).Str("provider", "anthropic").Msg("skipping provider")
		} else {
			d.Register("claude-3-haiku", p)
		}
	}

	return d
}

var _ Service = (*Dispatcher)(nil)
