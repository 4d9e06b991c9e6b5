// Package middleware wraps the persistence ports with cross-cutting behaviour:
// at-rest encryption of sessions and redaction of the interaction log.
package middleware

import "github.com/aretw0/tripplanner/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// RecorderMiddleware allows wrapping an InteractionRecorder.
type RecorderMiddleware func(ports.InteractionRecorder) ports.InteractionRecorder
