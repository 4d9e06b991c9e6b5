package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by LifecycleHooks.
type Metrics struct {
	Registry *prometheus.Registry

	Plans          *prometheus.CounterVec
	PlanDuration   prometheus.Histogram
	ModelLatency   *prometheus.HistogramVec
	WeatherLookups *prometheus.CounterVec
	AuthAttempts   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors plus Go runtime metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripplanner_plans_total",
				Help: "Total number of finished plan submissions",
			},
			[]string{"status"},
		),
		PlanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tripplanner_plan_duration_seconds",
				Help:    "End-to-end duration of plan submissions",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
			},
		),
		ModelLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripplanner_model_call_duration_seconds",
				Help:    "Duration of language model calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"purpose", "status"},
		),
		WeatherLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripplanner_weather_lookups_total",
				Help: "Weather lookups by outcome",
			},
			[]string{"outcome"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripplanner_auth_attempts_total",
				Help: "Registration, login and logout attempts",
			},
			[]string{"type", "result"},
		),
	}
	m.Registry.MustRegister(
		m.Plans, m.PlanDuration, m.ModelLatency, m.WeatherLookups, m.AuthAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Hooks records every event into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlanFinish: func(_ context.Context, e *domain.PlanEvent) {
			m.Plans.WithLabelValues(status(e.Err != nil)).Inc()
			m.PlanDuration.Observe(e.Duration.Seconds())
		},
		OnModelCall: func(_ context.Context, e *domain.ModelEvent) {
			m.ModelLatency.WithLabelValues(e.Purpose, status(e.IsError)).Observe(e.Duration.Seconds())
		},
		OnWeather: func(_ context.Context, e *domain.WeatherEvent) {
			m.WeatherLookups.WithLabelValues(e.Outcome).Inc()
		},
		OnAuth: func(_ context.Context, e *domain.AuthEvent) {
			result := "success"
			if !e.Success {
				result = "rejected"
			}
			m.AuthAttempts.WithLabelValues(string(e.Type), result).Inc()
		},
	}
}

// LogHooks logs every event at debug level (plan finish at info).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlanStart: func(ctx context.Context, e *domain.PlanEvent) {
			logger.DebugContext(ctx, "plan_start", "city", e.City, "username", e.Username)
		},
		OnPlanFinish: func(ctx context.Context, e *domain.PlanEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "plan_finish", "city", e.City, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "plan_finish", "city", e.City, "duration", e.Duration)
		},
		OnModelCall: func(ctx context.Context, e *domain.ModelEvent) {
			logger.DebugContext(ctx, "model_call", "purpose", e.Purpose, "duration", e.Duration, "is_error", e.IsError)
		},
		OnWeather: func(ctx context.Context, e *domain.WeatherEvent) {
			logger.DebugContext(ctx, "weather_lookup", "city", e.City, "outcome", e.Outcome)
		},
		OnAuth: func(ctx context.Context, e *domain.AuthEvent) {
			logger.DebugContext(ctx, string(e.Type), "username", e.Username, "success", e.Success)
		},
	}
}

func status(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}
