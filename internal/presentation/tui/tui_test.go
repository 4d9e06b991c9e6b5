package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))

	out, err := NewRenderer(&buf)("**bold**")
	require.NoError(t, err)
	assert.Equal(t, "**bold**", out)
}

func TestPrintPlan(t *testing.T) {
	plan := &domain.Plan{
		City:              "Ahmedabad",
		Interests:         []string{"Food", "Culture"},
		ItineraryMarkdown: "## Morning\n- Chai\n",
		Weather:           "🌤 **Current weather in Ahmedabad:** Sunny, 31.0°C",
		FunFact:           "🎉 **Fun Fact:** kites",
	}

	var buf bytes.Buffer
	require.NoError(t, PrintPlan(&buf, plan, Plain))

	out := buf.String()
	assert.Contains(t, out, "# ✈️ Trip to Ahmedabad")
	assert.Contains(t, out, "_Interests: Food, Culture_")
	assert.Contains(t, out, "## Morning\n- Chai\n\n---")
	assert.Contains(t, out, "Sunny, 31.0°C")
	assert.Contains(t, out, "🎉 **Fun Fact:** kites")
}

func TestPlanMarkdown_NoInterests(t *testing.T) {
	out := PlanMarkdown(&domain.Plan{City: "Goa", Interests: []string{""}})
	assert.NotContains(t, out, "Interests")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|   |_|")
}
