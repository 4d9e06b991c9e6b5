// Package weatherapi looks up current conditions on weatherapi.com.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// DefaultBaseURL is the public API root. Only /current.json is used.
const DefaultBaseURL = "http://api.weatherapi.com/v1"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

var errIncompleteCurrent = errors.New("current conditions missing condition text or temperature")

// Client implements ports.WeatherProvider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type currentConditions struct {
	TempC     *float64 `json:"temp_c"`
	Condition *struct {
		Text *string `json:"text"`
	} `json:"condition"`
}

// Current issues GET /current.json?key=..&q=<city>&aqi=no.
// The status code is not inspected: error bodies carry no "current" block and
// therefore surface as domain.ErrWeatherUnavailable. Bodies that are valid
// JSON but cannot be searched for a "current" key (null, numbers, booleans)
// are errors.
func (c *Client) Current(ctx context.Context, city string) (*domain.Weather, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("aqi", "no")
	endpoint := c.baseURL + "/current.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	var body any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	raw, err := currentBlock(body)
	if err != nil {
		if errors.Is(err, domain.ErrWeatherUnavailable) {
			c.logger.Debug("weather response without current block", "city", city, "status", resp.StatusCode)
		}
		return nil, err
	}

	var cur currentConditions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &cur,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode current conditions: %w", err)
	}
	if cur.TempC == nil || cur.Condition == nil || cur.Condition.Text == nil {
		return nil, errIncompleteCurrent
	}

	return &domain.Weather{
		City:         city,
		Condition:    *cur.Condition.Text,
		TempC:        *cur.TempC,
		WholeDegrees: integerLiteral(raw),
	}, nil
}

// currentBlock finds the "current" member of a decoded body. Only objects can
// carry it; arrays and strings merely lack it, other values are malformed.
func currentBlock(body any) (any, error) {
	switch v := body.(type) {
	case map[string]any:
		if raw, ok := v["current"]; ok {
			return raw, nil
		}
		return nil, domain.ErrWeatherUnavailable
	case []any:
		for _, item := range v {
			if item == "current" {
				return nil, errors.New("weather response is an array, not an object")
			}
		}
		return nil, domain.ErrWeatherUnavailable
	case string:
		if strings.Contains(v, "current") {
			return nil, errors.New("weather response is a string, not an object")
		}
		return nil, domain.ErrWeatherUnavailable
	default:
		return nil, fmt.Errorf("weather response is %T, not an object", body)
	}
}

// integerLiteral reports whether current.temp_c was written without a
// fraction or exponent.
func integerLiteral(current any) bool {
	m, ok := current.(map[string]any)
	if !ok {
		return false
	}
	n, ok := m["temp_c"].(json.Number)
	return ok && !strings.ContainsAny(n.String(), ".eE")
}
