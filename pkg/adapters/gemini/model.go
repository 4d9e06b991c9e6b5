// Package gemini implements ports.ChatModel with Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when WithModel is not given.
	DefaultModel = "gemini-2.0-flash"
	// DefaultTemperature applies unless WithTemperature overrides it.
	DefaultTemperature = 0.7
)

// Model sends conversations to Gemini.
type Model struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

type config struct {
	baseURL     string
	model       string
	temperature float32
	logger      *slog.Logger
}

// Option configures the Model.
type Option func(*config)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
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

// New creates a Gemini client authenticated with apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Model, error) {
	cfg := config{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Model{
		client:      client,
		model:       cfg.model,
		temperature: cfg.temperature,
		logger:      cfg.logger,
	}, nil
}

// Invoke sends the conversation and returns the concatenated text of the reply.
func (m *Model) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	system, contents := toContents(messages)

	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(m.temperature),
		SystemInstruction: system,
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", domain.ErrEmptyCompletion
	}

	m.logger.Debug("gemini completion", "model", m.model)
	return resp.Text(), nil
}

// toContents splits system messages into one instruction and maps the rest to turns.
func toContents(messages []domain.Message) (*genai.Content, []*genai.Content) {
	var systemParts []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case domain.RoleAI:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(systemParts) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser), contents
}
