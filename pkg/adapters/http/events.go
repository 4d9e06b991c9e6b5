package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
)

type sessionKey struct{}

func withSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the session ID attached by the HTTP layer.
func SessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

// ProgressEvent is one SSE message describing a step of a running plan.
type ProgressEvent struct {
	Type      domain.EventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	City      string           `json:"city,omitempty"`
	Purpose   string           `json:"purpose,omitempty"`
	Outcome   string           `json:"outcome,omitempty"`
	Error     bool             `json:"error,omitempty"`
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for sessionID. Call the returned
// function to unsubscribe; it closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

func (sm *StreamManager) publish(ctx context.Context, e ProgressEvent) {
	sessionID, ok := SessionFromContext(ctx)
	if !ok {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	sm.Broadcast(sessionID, string(data))
}

// Hooks forwards planner lifecycle events to the session that triggered the plan.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlanStart: func(ctx context.Context, e *domain.PlanEvent) {
			sm.publish(ctx, ProgressEvent{Type: e.Type, Timestamp: e.Timestamp, City: e.City})
		},
		OnModelCall: func(ctx context.Context, e *domain.ModelEvent) {
			sm.publish(ctx, ProgressEvent{Type: e.Type, Timestamp: e.Timestamp, Purpose: e.Purpose, Error: e.IsError})
		},
		OnWeather: func(ctx context.Context, e *domain.WeatherEvent) {
			sm.publish(ctx, ProgressEvent{Type: e.Type, Timestamp: e.Timestamp, City: e.City, Outcome: e.Outcome})
		},
		OnPlanFinish: func(ctx context.Context, e *domain.PlanEvent) {
			sm.publish(ctx, ProgressEvent{Type: e.Type, Timestamp: e.Timestamp, City: e.City, Error: e.Err != nil})
		},
	}
}

// SubscribeEvents handles GET /api/events (SSE) for the caller's session.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sess.ID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
