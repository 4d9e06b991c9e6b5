package planner

import (
	"strings"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// ParseInterests splits raw on commas and trims each element.
// Empty elements are kept, so "" yields [""].
func ParseInterests(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// InputCity returns a copy of state with city set and recorded in the transcript.
func InputCity(city string, state *domain.PlannerState) *domain.PlannerState {
	next := state.Snapshot()
	next.City = city
	next.Messages = append(next.Messages, domain.HumanMessage("City: "+city))
	return next
}

// InputInterests returns a copy of state with the parsed interests set and recorded.
func InputInterests(raw string, state *domain.PlannerState) *domain.PlannerState {
	next := state.Snapshot()
	next.Interests = ParseInterests(raw)
	next.Messages = append(next.Messages, domain.HumanMessage("Interests: "+strings.Join(next.Interests, ", ")))
	return next
}
