package planner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel answers by matching the human message and records every call.
type fakeModel struct {
	mu      sync.Mutex
	calls   [][]domain.Message
	answers map[string]string
	err     error
}

func (m *fakeModel) Invoke(_ context.Context, messages []domain.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	for _, msg := range messages {
		if msg.Role != domain.RoleHuman {
			continue
		}
		for prefix, answer := range m.answers {
			if strings.HasPrefix(msg.Content, prefix) {
				return answer, nil
			}
		}
	}
	return "", nil
}

type fakeWeather struct {
	w   *domain.Weather
	err error
	log *[]string
}

func (f fakeWeather) Current(_ context.Context, city string) (*domain.Weather, error) {
	if f.log != nil {
		*f.log = append(*f.log, "weather")
	}
	return f.w, f.err
}

type recorder struct {
	got []domain.Interaction
	err error
}

func (r *recorder) Record(_ context.Context, i domain.Interaction) error {
	r.got = append(r.got, i)
	return r.err
}

func newModel() *fakeModel {
	return &fakeModel{answers: map[string]string{
		"Plan my perfect day trip!": "## Morning\n- 09:00 Sabarmati Ashram",
		"Tell me a fun fact about":  "Ahmedabad was India's first UNESCO World Heritage City.",
	}}
}

func TestParseInterests(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Food, Culture,Adventure", []string{"Food", "Culture", "Adventure"}},
		{"  Food  ", []string{"Food"}},
		{"", []string{""}},
		{"a,,b", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, planner.ParseInterests(tt.raw))
		})
	}
}

func TestInputCityAndInterests(t *testing.T) {
	initial := domain.NewPlannerState()
	state := planner.InputCity("Ahmedabad", initial)
	state = planner.InputInterests("Food, Culture", state)

	assert.Equal(t, "Ahmedabad", state.City)
	assert.Equal(t, []string{"Food", "Culture"}, state.Interests)
	assert.Equal(t, []domain.Message{
		domain.HumanMessage("City: Ahmedabad"),
		domain.HumanMessage("Interests: Food, Culture"),
	}, state.Messages)

	assert.Empty(t, initial.Messages, "inputs must not mutate the previous state")
	assert.Empty(t, initial.City)
}

func TestCreateItinerary_Prompt(t *testing.T) {
	model := newModel()
	p := planner.New(model, nil)

	state := planner.InputInterests("Food, Culture", planner.InputCity("Ahmedabad", domain.NewPlannerState()))
	md, html, err := p.CreateItinerary(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "## Morning\n- 09:00 Sabarmati Ashram", md)
	assert.Contains(t, html, "<h2>Morning</h2>")

	require.Len(t, model.calls, 1)
	require.Len(t, model.calls[0], 2)
	assert.Equal(t, domain.SystemMessage(
		"You are a smart travel agent who creates engaging, fun, and optimized day trip itineraries for Ahmedabad. "+
			"Tailor recommendations based on the user's interests: Food, Culture. "+
			"Include hidden gems, famous spots, and local cuisine. Keep it structured, with timestamps."),
		model.calls[0][0])
	assert.Equal(t, domain.HumanMessage("Plan my perfect day trip!"), model.calls[0][1])
}

func TestFunFact(t *testing.T) {
	model := newModel()
	p := planner.New(model, nil)

	fact, err := p.FunFact(context.Background(), "Ahmedabad")
	require.NoError(t, err)
	assert.Equal(t, "🎉 **Fun Fact:** Ahmedabad was India's first UNESCO World Heritage City.", fact)

	require.Len(t, model.calls, 1)
	assert.Equal(t, "You are a knowledgeable travel guide. Share an interesting and unique fun fact about Ahmedabad that most travelers don’t know.",
		model.calls[0][0].Content)
	assert.Equal(t, "Tell me a fun fact about Ahmedabad!", model.calls[0][1].Content)
}

func TestWeather_Fallbacks(t *testing.T) {
	ctx := context.Background()

	ok := planner.New(nil, fakeWeather{w: &domain.Weather{Condition: "Sunny", TempC: 31}})
	assert.Equal(t, "🌤 **Current weather in Pune:** Sunny, 31.0°C", ok.Weather(ctx, "Pune"))

	unavailable := planner.New(nil, fakeWeather{err: domain.ErrWeatherUnavailable})
	assert.Equal(t, "⚠️ Weather data unavailable.", unavailable.Weather(ctx, "Pune"))

	broken := planner.New(nil, fakeWeather{err: errors.New("dial tcp: refused")})
	assert.Equal(t, "❌ Error fetching weather.", broken.Weather(ctx, "Pune"))

	missing := planner.New(nil, nil)
	assert.Equal(t, "❌ Error fetching weather.", missing.Weather(ctx, "Pune"))
}

func TestPlan_FullSubmission(t *testing.T) {
	var order []string
	model := newModel()
	rec := &recorder{}
	fixed := time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC)

	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnPlanStart:  func(_ context.Context, e *domain.PlanEvent) { events = append(events, e.Type) },
		OnPlanFinish: func(_ context.Context, e *domain.PlanEvent) { events = append(events, e.Type) },
		OnModelCall: func(_ context.Context, e *domain.ModelEvent) {
			order = append(order, e.Purpose)
			events = append(events, e.Type)
		},
		OnWeather: func(_ context.Context, e *domain.WeatherEvent) { events = append(events, e.Type) },
	}

	p := planner.New(model,
		fakeWeather{w: &domain.Weather{Condition: "Clear", TempC: 28.4}, log: &order},
		planner.WithRecorder(rec),
		planner.WithHooks(hooks),
		planner.WithClock(func() time.Time { return fixed }),
	)

	plan, err := p.Plan(context.Background(), domain.PlanRequest{
		Username:  "alice",
		City:      "Ahmedabad",
		Interests: "Food, Culture,Adventure",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{planner.PurposeItinerary, "weather", planner.PurposeFunFact}, order)
	assert.Equal(t, []domain.EventType{
		domain.EventPlanStart, domain.EventModelCall, domain.EventWeather, domain.EventModelCall, domain.EventPlanFinish,
	}, events)

	assert.Equal(t, []string{"Food", "Culture", "Adventure"}, plan.Interests)
	assert.Contains(t, plan.ItineraryHTML, "<h2>Morning</h2>")
	assert.Equal(t, "🌤 **Current weather in Ahmedabad:** Clear, 28.4°C", plan.Weather)
	assert.True(t, strings.HasPrefix(plan.FunFact, planner.FunFactPrefix))
	assert.Equal(t, fixed, plan.GeneratedAt)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "Food, Culture,Adventure", rec.got[0].Interests, "raw interests are logged")
	assert.Equal(t, plan.ItineraryHTML, rec.got[0].Itinerary)
	assert.Equal(t, "alice", rec.got[0].Username)
}

func TestPlan_EmptyCity(t *testing.T) {
	model := newModel()
	p := planner.New(model, nil)

	_, err := p.Plan(context.Background(), domain.PlanRequest{City: "   ", Interests: "Food"})
	assert.ErrorIs(t, err, domain.ErrEmptyCity)
	assert.Empty(t, model.calls)
}

func TestPlan_ModelErrorPropagates(t *testing.T) {
	boom := errors.New("rate limited")
	rec := &recorder{}
	var finish *domain.PlanEvent
	p := planner.New(&fakeModel{err: boom}, fakeWeather{}, planner.WithRecorder(rec),
		planner.WithHooks(domain.LifecycleHooks{
			OnPlanFinish: func(_ context.Context, e *domain.PlanEvent) { finish = e },
		}))

	_, err := p.Plan(context.Background(), domain.PlanRequest{City: "Paris"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.got)
	require.NotNil(t, finish)
	assert.ErrorIs(t, finish.Err, boom)
}

func TestPlan_NoModel(t *testing.T) {
	p := planner.New(nil, nil)
	_, err := p.Plan(context.Background(), domain.PlanRequest{City: "Paris"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestPlan_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	p := planner.New(newModel(), fakeWeather{err: domain.ErrWeatherUnavailable}, planner.WithRecorder(rec))

	plan, err := p.Plan(context.Background(), domain.PlanRequest{City: "Ahmedabad", Interests: "Food"})
	require.NoError(t, err)
	assert.Equal(t, domain.WeatherUnavailableText, plan.Weather)
}

func TestLoadPrompts(t *testing.T) {
	dir := t.TempDir()

	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		p, err := planner.LoadPrompts(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, planner.DefaultPrompts(), p)
	})

	t.Run("YAMLPartialOverride", func(t *testing.T) {
		path := filepath.Join(dir, "prompts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fun_fact:\n  human: \"Surprise me about {city}\"\n"), 0644))

		p, err := planner.LoadPrompts(path)
		require.NoError(t, err)
		assert.Equal(t, "Surprise me about {city}", p.FunFact.Human)
		assert.Equal(t, planner.DefaultPrompts().FunFact.System, p.FunFact.System)
		assert.Equal(t, planner.DefaultPrompts().Itinerary, p.Itinerary)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "prompts.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"itinerary":{"human":"Go!"}}`), 0644))

		p, err := planner.LoadPrompts(path)
		require.NoError(t, err)
		assert.Equal(t, "Go!", p.Itinerary.Human)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("itinerary: [unclosed"), 0644))

		_, err := planner.LoadPrompts(path)
		assert.Error(t, err)
	})
}

func TestPrompt_Messages(t *testing.T) {
	msgs := planner.Prompt{System: "{city}|{interests}", Human: "{city}!"}.Messages("Goa", []string{"Beach", "Food"})
	assert.Equal(t, "Goa|Beach, Food", msgs[0].Content)
	assert.Equal(t, "Goa!", msgs[1].Content)
}
