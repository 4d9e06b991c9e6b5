// Package mcp exposes the trip planner as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tripplanner"
	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/planner"
	"github.com/aretw0/tripplanner/pkg/sanitize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PromptsURI is the resource exposing the active prompt templates.
const PromptsURI = "tripplanner://prompts"

// PlanResult is the structured output of the plan_trip tool.
type PlanResult struct {
	City      string   `json:"city" jsonschema_description:"The city the plan is for"`
	Interests []string `json:"interests" jsonschema_description:"Parsed interests"`
	Itinerary string   `json:"itinerary" jsonschema_description:"Itinerary in Markdown"`
	Weather   string   `json:"weather" jsonschema_description:"Current weather line"`
	FunFact   string   `json:"fun_fact" jsonschema_description:"A little-known fact about the city"`
}

// Planner is what the MCP server needs from the planner.
type Planner interface {
	Plan(ctx context.Context, req domain.PlanRequest) (*domain.Plan, error)
	Weather(ctx context.Context, city string) string
	FunFact(ctx context.Context, city string) (string, error)
}

// Server wraps the planner and exposes it as an MCP Server.
type Server struct {
	planner      Planner
	prompts      planner.Prompts
	maxInputSize int
	logger       *slog.Logger
	mcpServer    *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPrompts sets the templates published as a resource.
func WithPrompts(p planner.Prompts) Option {
	return func(s *Server) {
		s.prompts = p
	}
}

// WithMaxInputSize caps each tool argument.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInputSize = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(p Planner, opts ...Option) *Server {
	s := &Server{
		planner:      p,
		prompts:      planner.DefaultPrompts(),
		maxInputSize: sanitize.DefaultMaxInputSize,
		logger:       logging.NewNop(),
		mcpServer:    server.NewMCPServer("tripplanner-mcp", strings.TrimSpace(tripplanner.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	planTool := mcp.NewTool("plan_trip",
		mcp.WithDescription("Draft a day-trip itinerary for a city, with current weather and a fun fact."),
		mcp.WithString("city", mcp.Required(), mcp.Description("City to visit, e.g. Ahmedabad")),
		mcp.WithString("interests", mcp.Description("Comma-separated interests, e.g. Food, Culture, Adventure")),
		mcp.WithString("username", mcp.Description("Recorded in the interaction log (optional)")),
		mcp.WithOutputSchema[PlanResult](),
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handlePlanTrip))

	s.mcpServer.AddTool(mcp.NewTool("get_weather",
		mcp.WithDescription("Current weather line for a city. Never fails; returns a fallback message instead."),
		mcp.WithString("city", mcp.Required(), mcp.Description("City name")),
	), s.handleWeather)

	s.mcpServer.AddTool(mcp.NewTool("fun_fact",
		mcp.WithDescription("A little-known fact about a city."),
		mcp.WithString("city", mcp.Required(), mcp.Description("City name")),
	), s.handleFunFact)
}

func (s *Server) handlePlanTrip(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PlanResult, error) {
	city, _ := args["city"].(string)
	interests, _ := args["interests"].(string)
	username, _ := args["username"].(string)

	if err := sanitize.Fields(s.maxInputSize, &city, &interests, &username); err != nil {
		s.logger.Warn("MCP plan_trip: Input rejected", "err", err)
		return PlanResult{}, fmt.Errorf("input rejected: %w", err)
	}

	plan, err := s.planner.Plan(ctx, domain.PlanRequest{Username: username, City: city, Interests: interests})
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan failed: %w", err)
	}
	return PlanResult{
		City:      plan.City,
		Interests: plan.Interests,
		Itinerary: plan.ItineraryMarkdown,
		Weather:   plan.Weather,
		FunFact:   plan.FunFact,
	}, nil
}

func (s *Server) cityArg(request mcp.CallToolRequest) (string, error) {
	city, err := request.RequireString("city")
	if err != nil {
		return "", err
	}
	city, err = sanitize.Input(city, s.maxInputSize)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(city) == "" {
		return "", domain.ErrEmptyCity
	}
	return city, nil
}

func (s *Server) handleWeather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := s.cityArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.planner.Weather(ctx, city)), nil
}

func (s *Server) handleFunFact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := s.cityArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fact, err := s.planner.FunFact(ctx, city)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fun fact failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fact), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PromptsURI, "Prompt templates",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.prompts)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PromptsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
