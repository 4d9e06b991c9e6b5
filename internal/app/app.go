// Package app assembles the trip planner from configuration.
// Every command of the CLI builds the same graph through New.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/tripplanner/internal/config"
	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/internal/scheduler"
	"github.com/aretw0/tripplanner/pkg/accounts"
	"github.com/aretw0/tripplanner/pkg/adapters/file"
	"github.com/aretw0/tripplanner/pkg/adapters/gemini"
	"github.com/aretw0/tripplanner/pkg/adapters/groq"
	httpadapter "github.com/aretw0/tripplanner/pkg/adapters/http"
	"github.com/aretw0/tripplanner/pkg/adapters/mcp"
	"github.com/aretw0/tripplanner/pkg/adapters/memory"
	"github.com/aretw0/tripplanner/pkg/adapters/redis"
	"github.com/aretw0/tripplanner/pkg/adapters/sqlite"
	"github.com/aretw0/tripplanner/pkg/adapters/weatherapi"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/observability"
	"github.com/aretw0/tripplanner/pkg/persistence/middleware"
	"github.com/aretw0/tripplanner/pkg/planner"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/aretw0/tripplanner/pkg/session"
)

// App is the wired object graph.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Accounts *accounts.Service
	Sessions *session.Manager
	Planner  *planner.Planner
	Prompts  planner.Prompts
	Metrics  *observability.Metrics
	Streams  *httpadapter.StreamManager
	Pruner   *scheduler.SessionPruner

	closers []io.Closer
}

// New builds the App. Close must be called to release files and connections.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *App, err error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	a = &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Streams: httpadapter.NewStreamManager(logger),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	hooks := a.Metrics.Hooks().
		Merge(observability.LogHooks(logger)).
		Merge(a.Streams.Hooks())

	users, err := a.userStore()
	if err != nil {
		return nil, err
	}
	a.Accounts = accounts.NewService(users,
		accounts.WithLogger(logger),
		accounts.WithHooks(hooks),
	)

	sessions, err := a.sessionManager(hooks)
	if err != nil {
		return nil, err
	}
	a.Sessions = sessions

	a.Prompts, err = planner.LoadPrompts(cfg.Prompts.Path)
	if err != nil {
		return nil, err
	}

	model, err := a.chatModel(ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := a.recorder()
	if err != nil {
		return nil, err
	}

	weather := weatherapi.New(cfg.Weather.APIKey,
		weatherapi.WithBaseURL(cfg.Weather.BaseURL),
		weatherapi.WithTimeout(cfg.Weather.Timeout),
		weatherapi.WithLogger(logger),
	)
	if cfg.Weather.APIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set; weather lookups will fall back")
	}

	a.Planner = planner.New(model, weather,
		planner.WithRecorder(recorder),
		planner.WithPrompts(a.Prompts),
		planner.WithLogger(logger),
		planner.WithHooks(hooks),
	)

	a.Pruner = scheduler.New(a.Sessions, cfg.Sessions.TTL,
		scheduler.WithSchedule(cfg.Sessions.PruneSchedule),
		scheduler.WithLogger(logger),
	)
	return a, nil
}

func (a *App) userStore() (ports.UserStore, error) {
	switch a.Config.Users.Backend {
	case "sqlite":
		store, err := sqlite.Open(a.Config.Users.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return file.NewUserStore(a.Config.Users.Path), nil
	}
}

func (a *App) sessionManager(hooks domain.LifecycleHooks) (*session.Manager, error) {
	cfg := a.Config.Sessions
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithHooks(hooks),
	}

	var store ports.SessionStore
	switch cfg.Backend {
	case "redis":
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		a.closers = append(a.closers, rs)
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix)))
	case "file":
		store = file.NewSessionStore(cfg.Dir)
	default:
		store = memory.NewSessionStore()
	}

	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		store = encrypt(store)
	}
	return session.NewManager(store, opts...), nil
}

// chatModel returns nil (no error) when the selected provider has no key;
// plans then fail with domain.ErrModelUnavailable while weather keeps working.
func (a *App) chatModel(ctx context.Context) (ports.ChatModel, error) {
	cfg := a.Config.LLM
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiKey == "" {
			a.Logger.Warn("GEMINI_API_KEY is not set; itineraries are unavailable")
			return nil, nil
		}
		opts := []gemini.Option{gemini.WithTemperature(cfg.Temperature), gemini.WithLogger(a.Logger)}
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.BaseURL))
		}
		return gemini.New(ctx, cfg.GeminiKey, opts...)
	default:
		if cfg.APIKey == "" {
			a.Logger.Warn("GROQ_API_KEY is not set; itineraries are unavailable")
			return nil, nil
		}
		opts := []groq.Option{groq.WithTemperature(cfg.Temperature), groq.WithLogger(a.Logger)}
		if cfg.Model != "" {
			opts = append(opts, groq.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, groq.WithBaseURL(cfg.BaseURL))
		}
		return groq.New(cfg.APIKey, opts...), nil
	}
}

func (a *App) recorder() (ports.InteractionRecorder, error) {
	log, err := logging.NewInteractionLog(a.Config.Log.InteractionLog)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, log)
	if !a.Config.Log.RedactPII {
		return log, nil
	}
	redact, err := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid redaction pattern: %w", err)
	}
	return redact(log), nil
}

// Handler returns the HTTP surface: web UI, JSON API, health and metrics.
func (a *App) Handler() http.Handler {
	return httpadapter.NewHandler(a.Accounts, a.Sessions, a.Planner,
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithMetrics(a.Metrics.Handler()),
		httpadapter.WithCORS(a.Config.Server.CORSOrigins...),
		httpadapter.WithMaxInputSize(a.Config.MaxInputSize),
		httpadapter.WithStreams(a.Streams),
	)
}

// MCPServer exposes the planner as MCP tools.
func (a *App) MCPServer() *mcp.Server {
	return mcp.NewServer(a.Planner,
		mcp.WithLogger(a.Logger),
		mcp.WithPrompts(a.Prompts),
		mcp.WithMaxInputSize(a.Config.MaxInputSize),
	)
}

// Close releases stores and the interaction log in reverse order of creation.
func (a *App) Close() error {
	if a.Pruner != nil {
		a.Pruner.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
