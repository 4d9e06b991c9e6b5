package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// statusFor maps domain errors to HTTP status codes.
// Anything unrecognised coming out of the planner is an upstream (model) failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidUTF8), errors.Is(err, domain.ErrEmptyCity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// errorMessage is the text shown to the user for err.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCity):
		return "⚠️ Please enter a city."
	case errors.Is(err, domain.ErrInputTooLarge), errors.Is(err, domain.ErrInvalidUTF8):
		return "⚠️ " + err.Error()
	case errors.Is(err, domain.ErrModelUnavailable):
		return "❌ The travel planner is not configured (missing language model API key)."
	default:
		return "❌ Failed to generate your trip plan. Please try again."
	}
}
