package domain

import "errors"

// ErrUserNotFound is returned when a username is not present in the user table.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when registering a username that already exists.
var ErrUsernameTaken = errors.New("username already exists")

// ErrInvalidCredentials is returned when no stored record matches all login fields.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotLoggedIn is returned when a planner operation is attempted without a login.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrEmptyCity is returned when a plan is requested without a city.
var ErrEmptyCity = errors.New("city is required")

// ErrModelUnavailable is returned when no language model has been configured.
var ErrModelUnavailable = errors.New("language model unavailable")

// ErrEmptyCompletion is returned when the model answers without any content.
var ErrEmptyCompletion = errors.New("model returned no choices")

// ErrWeatherUnavailable is returned when the weather response has no current conditions.
var ErrWeatherUnavailable = errors.New("weather data unavailable")

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)
