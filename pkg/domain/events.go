package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPlanStart    EventType = "plan_start"
	EventPlanFinish   EventType = "plan_finish"
	EventModelCall    EventType = "model_call"
	EventWeather      EventType = "weather_lookup"
	EventRegistration EventType = "registration"
	EventLogin        EventType = "login"
	EventLogout       EventType = "logout"
)

// Weather lookup outcomes.
const (
	WeatherOK          = "ok"
	WeatherUnavailable = "unavailable"
	WeatherError       = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PlanEvent marks the start or end of a submission.
type PlanEvent struct {
	EventBase
	Username  string        `json:"username,omitempty"`
	City      string        `json:"city"`
	Interests []string      `json:"interests,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// ModelEvent reports one language model invocation.
type ModelEvent struct {
	EventBase
	Purpose  string        `json:"purpose"`
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
}

// WeatherEvent reports one weather lookup.
type WeatherEvent struct {
	EventBase
	City     string        `json:"city"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// AuthEvent reports a registration, login or logout attempt.
type AuthEvent struct {
	EventBase
	Username string `json:"username"`
	Success  bool   `json:"success"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnPlanStart  func(context.Context, *PlanEvent)
	OnPlanFinish func(context.Context, *PlanEvent)
	OnModelCall  func(context.Context, *ModelEvent)
	OnWeather    func(context.Context, *WeatherEvent)
	OnAuth       func(context.Context, *AuthEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPlanStart:  chain(h.OnPlanStart, other.OnPlanStart),
		OnPlanFinish: chain(h.OnPlanFinish, other.OnPlanFinish),
		OnModelCall:  chain(h.OnModelCall, other.OnModelCall),
		OnWeather:    chain(h.OnWeather, other.OnWeather),
		OnAuth:       chain(h.OnAuth, other.OnAuth),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
