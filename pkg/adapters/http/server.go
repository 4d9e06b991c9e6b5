package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tripplanner"
	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/accounts"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/sanitize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// APIVersion is the version of the JSON API under /api.
const APIVersion = "1.0.0"

// SessionCookie carries the opaque session ID.
const SessionCookie = "tripplanner_session"

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Accounts registers and authenticates users.
type Accounts interface {
	Register(ctx context.Context, user domain.User) (accounts.Result, error)
	Login(ctx context.Context, user domain.User) (accounts.Result, error)
}

// Sessions tracks the logged-in flag per visitor.
type Sessions interface {
	LoadOrStart(ctx context.Context, sessionID string) (*domain.Session, error)
	Login(ctx context.Context, sessionID, username string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) (*domain.Session, error)
	Touch(ctx context.Context, sessionID string) (*domain.Session, error)
	RequireLogin(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Planner produces plans and weather lines.
type Planner interface {
	Plan(ctx context.Context, req domain.PlanRequest) (*domain.Plan, error)
	Weather(ctx context.Context, city string) string
}

// Server serves the web UI and the JSON API.
type Server struct {
	Accounts Accounts
	Sessions Sessions
	Planner  Planner
	Streams  *StreamManager

	metrics      http.Handler
	corsOrigins  []string
	maxInputSize int
	secureCookie bool
	logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithCORS allows cross-origin API calls from origins.
func WithCORS(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithMaxInputSize caps each form or JSON field.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInputSize = n
	}
}

// WithSecureCookie marks the session cookie Secure (HTTPS deployments).
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// WithStreams shares a StreamManager whose hooks are wired into the planner.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(acc Accounts, sess Sessions, pl Planner, opts ...Option) http.Handler {
	s := &Server{
		Accounts:     acc,
		Sessions:     sess,
		Planner:      pl,
		maxInputSize: sanitize.DefaultMaxInputSize,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/", s.GetIndex)
	r.Post("/login", s.PostLogin)
	r.Post("/register", s.PostRegister)
	r.Post("/logout", s.PostLogout)
	r.Post("/plan", s.PostPlan)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.APIRegister)
		r.Post("/login", s.APILogin)
		r.Post("/logout", s.APILogout)
		r.Get("/session", s.APISession)
		r.Post("/plan", s.APIPlan)
		r.Get("/weather", s.APIWeather)
		r.Get("/events", s.SubscribeEvents)
	})

	if len(s.corsOrigins) == 0 {
		return r
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tripplanner-http",
		"version":     strings.TrimSpace(tripplanner.Version),
		"api_version": APIVersion,
	})
}

// session resolves the cookie to a session, starting one (and setting the
// cookie) when the visitor has none or it is unknown. Logged-in sessions are
// touched on every request so idle pruning counts from the last activity.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, err := s.Sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.LoggedIn {
		if sess, err = s.Sessions.Touch(r.Context(), sess.ID); err != nil {
			return nil, err
		}
	}
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
