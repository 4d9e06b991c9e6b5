package domain

import "time"

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

// Message is one entry in a model conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system instruction.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// HumanMessage builds a user turn.
func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// AIMessage builds a model turn.
func AIMessage(content string) Message {
	return Message{Role: RoleAI, Content: content}
}

// PlannerState is the transient record passed into prompt construction.
type PlannerState struct {
	Messages  []Message `json:"messages"`
	City      string    `json:"city"`
	Interests []string  `json:"interests"`
	Itinerary string    `json:"itinerary"`
}

// NewPlannerState returns an empty state.
func NewPlannerState() *PlannerState {
	return &PlannerState{
		Messages:  []Message{},
		Interests: []string{},
	}
}

// Snapshot returns a deep copy of the state.
func (s *PlannerState) Snapshot() *PlannerState {
	cp := *s
	cp.Messages = append([]Message(nil), s.Messages...)
	cp.Interests = append([]string(nil), s.Interests...)
	return &cp
}

// PlanRequest is a single form submission.
// Interests is the raw comma-separated text as typed.
type PlanRequest struct {
	Username  string `json:"username,omitempty"`
	City      string `json:"city"`
	Interests string `json:"interests"`
}

// Plan is the combined result rendered back to the traveller.
type Plan struct {
	City              string    `json:"city"`
	Interests         []string  `json:"interests"`
	ItineraryMarkdown string    `json:"itinerary_markdown"`
	ItineraryHTML     string    `json:"itinerary_html"`
	Weather           string    `json:"weather"`
	FunFact           string    `json:"fun_fact"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Interaction is the audit record written after each plan.
type Interaction struct {
	Timestamp time.Time
	Username  string
	City      string
	Interests string
	Itinerary string
	Weather   string
	FunFact   string
}
