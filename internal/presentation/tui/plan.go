package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// PlanMarkdown lays out a plan as one Markdown document.
func PlanMarkdown(plan *domain.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ✈️ Trip to %s\n\n", plan.City)
	if len(plan.Interests) > 0 && strings.Join(plan.Interests, "") != "" {
		fmt.Fprintf(&b, "_Interests: %s_\n\n", strings.Join(plan.Interests, ", "))
	}
	b.WriteString(strings.TrimSpace(plan.ItineraryMarkdown))
	b.WriteString("\n\n---\n\n")
	b.WriteString(plan.Weather)
	b.WriteString("\n\n")
	b.WriteString(plan.FunFact)
	b.WriteString("\n")
	return b.String()
}

// PrintPlan renders plan to w.
func PrintPlan(w io.Writer, plan *domain.Plan, render Renderer) error {
	out, err := render(PlanMarkdown(plan))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
