package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// DefaultInteractionLogPath is the audit log written next to the user table.
const DefaultInteractionLogPath = "system_interaction.log"

// InteractionLog appends one INFO record per finished plan to a file.
// It implements ports.InteractionRecorder.
type InteractionLog struct {
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
}

// NewInteractionLog opens (or creates) path in append mode.
func NewInteractionLog(path string) (*InteractionLog, error) {
	if path == "" {
		path = DefaultInteractionLogPath
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open interaction log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: replaceAttr,
	}))
	return &InteractionLog{file: f, logger: logger}, nil
}

// InteractionMessage renders the legacy one-line summary of an interaction.
func InteractionMessage(i domain.Interaction) string {
	input := fmt.Sprintf("City: %s, Interests: %s", i.City, i.Interests)
	response := fmt.Sprintf("Itinerary: %s, Weather: %s, Fun Fact: %s", i.Itinerary, i.Weather, i.FunFact)
	return fmt.Sprintf("User Input: %s | Response: %s", input, response)
}

// Record writes the interaction.
func (l *InteractionLog) Record(ctx context.Context, i domain.Interaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return os.ErrClosed
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, InteractionMessage(i),
		slog.String("username", i.Username),
		slog.String("city", i.City),
	)
	return nil
}

// Close flushes and closes the file.
func (l *InteractionLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
