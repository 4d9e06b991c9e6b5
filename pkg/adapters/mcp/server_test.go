package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	lastReq domain.PlanRequest
	err     error
}

func (p *stubPlanner) Plan(ctx context.Context, req domain.PlanRequest) (*domain.Plan, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &domain.Plan{
		City:              req.City,
		Interests:         []string{"Food", "Culture"},
		ItineraryMarkdown: "## Morning",
		Weather:           domain.WeatherUnavailableText,
		FunFact:           "🎉 **Fun Fact:** kites",
	}, nil
}

func (p *stubPlanner) Weather(ctx context.Context, city string) string {
	return "🌤 **Current weather in " + city + ":** Sunny, 30.0°C"
}

func (p *stubPlanner) FunFact(ctx context.Context, city string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "🎉 **Fun Fact:** " + city + " rocks", nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestPlanTrip(t *testing.T) {
	p := &stubPlanner{}
	s := NewServer(p)

	args := map[string]any{"city": "Ahmedabad", "interests": "Food, Culture", "username": "agent"}
	res, err := s.handlePlanTrip(context.Background(), callRequest(args), args)
	require.NoError(t, err)

	assert.Equal(t, "Ahmedabad", res.City)
	assert.Equal(t, "## Morning", res.Itinerary)
	assert.Equal(t, domain.PlanRequest{Username: "agent", City: "Ahmedabad", Interests: "Food, Culture"}, p.lastReq)
}

func TestPlanTrip_Errors(t *testing.T) {
	p := &stubPlanner{err: domain.ErrModelUnavailable}
	s := NewServer(p, WithMaxInputSize(8))

	args := map[string]any{"city": "Paris"}
	_, err := s.handlePlanTrip(context.Background(), callRequest(args), args)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	args = map[string]any{"city": "Llanfairpwllgwyngyll"}
	_, err = s.handlePlanTrip(context.Background(), callRequest(args), args)
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)
}

func TestGetWeather(t *testing.T) {
	s := NewServer(&stubPlanner{})

	res, err := s.handleWeather(context.Background(), callRequest(map[string]any{"city": "Pune"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "🌤 **Current weather in Pune:** Sunny, 30.0°C", resultText(t, res))

	res, err = s.handleWeather(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleWeather(context.Background(), callRequest(map[string]any{"city": "  "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFunFact(t *testing.T) {
	s := NewServer(&stubPlanner{})
	res, err := s.handleFunFact(context.Background(), callRequest(map[string]any{"city": "Goa"}))
	require.NoError(t, err)
	assert.Equal(t, "🎉 **Fun Fact:** Goa rocks", resultText(t, res))

	failing := NewServer(&stubPlanner{err: errors.New("quota")})
	res, err = failing.handleFunFact(context.Background(), callRequest(map[string]any{"city": "Goa"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "quota")
}
