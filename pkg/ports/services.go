package ports

import (
	"context"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// ChatModel sends a conversation to a language model and returns the reply text.
type ChatModel interface {
	Invoke(ctx context.Context, messages []domain.Message) (string, error)
}

// WeatherProvider looks up current conditions for a city.
// Implementations return domain.ErrWeatherUnavailable when the upstream answered
// without a current-conditions block.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*domain.Weather, error)
}

// InteractionRecorder appends an audit record for a finished plan.
type InteractionRecorder interface {
	Record(ctx context.Context, interaction domain.Interaction) error
}
