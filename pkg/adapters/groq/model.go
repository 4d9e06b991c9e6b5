// Package groq implements ports.ChatModel against Groq's OpenAI-compatible API.
package groq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the chat model used for itineraries and fun facts.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultTemperature keeps answers varied without drifting.
	DefaultTemperature = 0.7
)

// Model sends chat completions to Groq.
type Model struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// Option configures the Model.
type Option func(*config)

type config struct {
	baseURL     string
	model       string
	temperature float32
	logger      *slog.Logger
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *config) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithModel selects another model name.
func WithModel(name string) Option {
	return func(c *config) {
		if name != "" {
			c.model = name
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *config) {
		c.temperature = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates a Groq chat model authenticated with apiKey.
func New(apiKey string, opts ...Option) *Model {
	cfg := config{
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.baseURL

	return &Model{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.model,
		temperature: cfg.temperature,
		logger:      cfg.logger,
	}
}

// Invoke sends the conversation and returns the first choice's content.
func (m *Model) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    toChatMessages(messages),
		Temperature: m.temperature,
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("groq chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyCompletion
	}

	m.logger.Debug("groq completion",
		"model", m.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case domain.RoleAI:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}
