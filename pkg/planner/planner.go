package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/aretw0/tripplanner/pkg/render"
)

// FunFactPrefix is prepended to every fun fact.
const FunFactPrefix = "🎉 **Fun Fact:** "

// Model call purposes reported through hooks.
const (
	PurposeItinerary = "itinerary"
	PurposeFunFact   = "fun_fact"
)

var errNoWeatherProvider = errors.New("no weather provider configured")

// Planner drafts itineraries, fun facts and weather lines.
type Planner struct {
	model    ports.ChatModel
	weather  ports.WeatherProvider
	recorder ports.InteractionRecorder
	prompts  Prompts
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time
}

// Option configures the Planner.
type Option func(*Planner)

// WithRecorder sets where finished plans are logged.
func WithRecorder(r ports.InteractionRecorder) Option {
	return func(p *Planner) {
		p.recorder = r
	}
}

// WithPrompts replaces the built-in templates.
func WithPrompts(prompts Prompts) Option {
	return func(p *Planner) {
		p.prompts = prompts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// New creates a Planner. A nil model makes every model call fail with
// domain.ErrModelUnavailable; a nil weather provider yields the error fallback.
func New(model ports.ChatModel, weather ports.WeatherProvider, opts ...Option) *Planner {
	p := &Planner{
		model:   model,
		weather: weather,
		prompts: DefaultPrompts(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateItinerary asks the model for an itinerary and returns it as Markdown and HTML.
func (p *Planner) CreateItinerary(ctx context.Context, state *domain.PlannerState) (markdown, html string, err error) {
	messages := p.prompts.Itinerary.Messages(state.City, state.Interests)
	markdown, err = p.invoke(ctx, PurposeItinerary, messages)
	if err != nil {
		return "", "", fmt.Errorf("failed to create itinerary: %w", err)
	}

	html, err = render.MarkdownToHTML(markdown)
	if err != nil {
		return "", "", err
	}
	return markdown, html, nil
}

// FunFact asks the model for a little-known fact about city.
func (p *Planner) FunFact(ctx context.Context, city string) (string, error) {
	messages := p.prompts.FunFact.Messages(city, nil)
	content, err := p.invoke(ctx, PurposeFunFact, messages)
	if err != nil {
		return "", fmt.Errorf("failed to get fun fact: %w", err)
	}
	return FunFactPrefix + content, nil
}

// Weather returns the one-line weather report for city. It never fails:
// lookup problems become the unavailable or error fallback text.
func (p *Planner) Weather(ctx context.Context, city string) string {
	start := p.now()

	var (
		w   *domain.Weather
		err = errNoWeatherProvider
	)
	if p.weather != nil {
		w, err = p.weather.Current(ctx, city)
	}

	outcome := domain.WeatherOK
	switch {
	case errors.Is(err, domain.ErrWeatherUnavailable):
		outcome = domain.WeatherUnavailable
		p.logger.Warn("weather data unavailable", "city", city)
	case err != nil:
		outcome = domain.WeatherError
		p.logger.Warn("weather lookup failed", "city", city, "err", err)
	}

	if p.hooks.OnWeather != nil {
		p.hooks.OnWeather(ctx, &domain.WeatherEvent{
			EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventWeather},
			City:      city,
			Outcome:   outcome,
			Duration:  p.now().Sub(start),
		})
	}
	return domain.WeatherReport(city, w, err)
}

// Plan runs a full submission: itinerary, then weather, then fun fact, then the
// interaction record. Model failures abort the plan; recorder failures are only logged.
func (p *Planner) Plan(ctx context.Context, req domain.PlanRequest) (plan *domain.Plan, err error) {
	if strings.TrimSpace(req.City) == "" {
		return nil, domain.ErrEmptyCity
	}

	state := InputCity(req.City, domain.NewPlannerState())
	state = InputInterests(req.Interests, state)

	start := p.now()
	if p.hooks.OnPlanStart != nil {
		p.hooks.OnPlanStart(ctx, &domain.PlanEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventPlanStart},
			Username:  req.Username,
			City:      state.City,
			Interests: state.Interests,
		})
	}
	defer func() {
		if p.hooks.OnPlanFinish != nil {
			p.hooks.OnPlanFinish(ctx, &domain.PlanEvent{
				EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventPlanFinish},
				Username:  req.Username,
				City:      state.City,
				Interests: state.Interests,
				Duration:  p.now().Sub(start),
				Err:       err,
			})
		}
	}()

	p.logger.Info("planning trip", "city", state.City, "interests", state.Interests, "username", req.Username)

	markdown, html, err := p.CreateItinerary(ctx, state)
	if err != nil {
		return nil, err
	}
	state.Itinerary = markdown

	weather := p.Weather(ctx, req.City)

	fact, err := p.FunFact(ctx, req.City)
	if err != nil {
		return nil, err
	}

	plan = &domain.Plan{
		City:              state.City,
		Interests:         state.Interests,
		ItineraryMarkdown: markdown,
		ItineraryHTML:     html,
		Weather:           weather,
		FunFact:           fact,
		GeneratedAt:       p.now(),
	}
	p.record(ctx, req, plan)
	return plan, nil
}

func (p *Planner) record(ctx context.Context, req domain.PlanRequest, plan *domain.Plan) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.Record(ctx, domain.Interaction{
		Timestamp: plan.GeneratedAt,
		Username:  req.Username,
		City:      req.City,
		Interests: req.Interests,
		Itinerary: plan.ItineraryHTML,
		Weather:   plan.Weather,
		FunFact:   plan.FunFact,
	})
	if err != nil {
		p.logger.Error("failed to record interaction", "city", req.City, "err", err)
	}
}

func (p *Planner) invoke(ctx context.Context, purpose string, messages []domain.Message) (string, error) {
	if p.model == nil {
		return "", domain.ErrModelUnavailable
	}

	start := p.now()
	content, err := p.model.Invoke(ctx, messages)

	if p.hooks.OnModelCall != nil {
		p.hooks.OnModelCall(ctx, &domain.ModelEvent{
			EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventModelCall},
			Purpose:   purpose,
			Duration:  p.now().Sub(start),
			IsError:   err != nil,
		})
	}
	if err != nil {
		p.logger.Error("model call failed", "purpose", purpose, "err", err)
		return "", err
	}
	return content, nil
}
