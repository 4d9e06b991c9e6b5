package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tripplanner/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Prompt is a two-message template. {city} and {interests} are substituted.
type Prompt struct {
	System string `yaml:"system" json:"system"`
	Human  string `yaml:"human" json:"human"`
}

// Prompts holds every template the planner sends to the model.
type Prompts struct {
	Itinerary Prompt `yaml:"itinerary" json:"itinerary"`
	FunFact   Prompt `yaml:"fun_fact" json:"fun_fact"`
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Itinerary: Prompt{
			System: "You are a smart travel agent who creates engaging, fun, and optimized day trip itineraries for {city}. " +
				"Tailor recommendations based on the user's interests: {interests}. " +
				"Include hidden gems, famous spots, and local cuisine. Keep it structured, with timestamps.",
			Human: "Plan my perfect day trip!",
		},
		FunFact: Prompt{
			System: "You are a knowledgeable travel guide. Share an interesting and unique fun fact about {city} that most travelers don’t know.",
			Human:  "Tell me a fun fact about {city}!",
		},
	}
}

// LoadPrompts reads templates from a YAML file (or JSON when the extension is .json).
// Keys absent from the file keep their defaults. A missing file yields DefaultPrompts.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prompts, nil
		}
		return prompts, fmt.Errorf("failed to read prompts file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &prompts)
	} else {
		err = yaml.Unmarshal(data, &prompts)
	}
	if err != nil {
		return DefaultPrompts(), fmt.Errorf("failed to parse prompts file %s: %w", path, err)
	}
	return prompts, nil
}

// Messages fills the template and returns the system + human pair.
func (p Prompt) Messages(city string, interests []string) []domain.Message {
	r := strings.NewReplacer(
		"{city}", city,
		"{interests}", strings.Join(interests, ", "),
	)
	return []domain.Message{
		domain.SystemMessage(r.Replace(p.System)),
		domain.HumanMessage(r.Replace(p.Human)),
	}
}
