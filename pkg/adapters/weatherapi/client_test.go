package weatherapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/tripplanner/pkg/adapters/weatherapi"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.WeatherProvider = (*weatherapi.Client)(nil)

func serve(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrent_Success(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`{"location":{"name":"Ahmedabad"},"current":{"temp_c":31,"condition":{"text":"Sunny"}}}`,
		func(r *http.Request) {
			assert.Equal(t, "/current.json", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			assert.Equal(t, "Ahmedabad", r.URL.Query().Get("q"))
			assert.Equal(t, "no", r.URL.Query().Get("aqi"))
		})

	c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
	w, err := c.Current(context.Background(), "Ahmedabad")
	require.NoError(t, err)
	assert.Equal(t, "Sunny", w.Condition)
	assert.Equal(t, 31.0, w.TempC)
	assert.True(t, w.WholeDegrees)

	assert.Equal(t, "🌤 **Current weather in Ahmedabad:** Sunny, 31°C", domain.WeatherReport("Ahmedabad", w, err))
}

func TestCurrent_TemperatureFormatting(t *testing.T) {
	tests := []struct {
		temp string
		want string
	}{
		{temp: "31", want: "31°C"},
		{temp: "31.0", want: "31.0°C"},
		{temp: "18.4", want: "18.4°C"},
		{temp: "-2", want: "-2°C"},
	}
	for _, tt := range tests {
		t.Run(tt.temp, func(t *testing.T) {
			srv := serve(t, http.StatusOK, `{"current":{"temp_c":`+tt.temp+`,"condition":{"text":"Clear"}}}`, nil)
			c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
			w, err := c.Current(context.Background(), "Oslo")
			require.NoError(t, err)
			assert.Equal(t, "🌤 **Current weather in Oslo:** Clear, "+tt.want, domain.WeatherReport("Oslo", w, err))
		})
	}
}

func TestCurrent_NonObjectBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "null", body: `null`, want: domain.WeatherErrorText},
		{name: "number", body: `42`, want: domain.WeatherErrorText},
		{name: "boolean", body: `true`, want: domain.WeatherErrorText},
		{name: "empty array", body: `[]`, want: domain.WeatherUnavailableText},
		{name: "array naming current", body: `["current"]`, want: domain.WeatherErrorText},
		{name: "string", body: `"maintenance"`, want: domain.WeatherUnavailableText},
		{name: "string mentioning current", body: `"no current data"`, want: domain.WeatherErrorText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, tt.body, nil)
			c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
			w, err := c.Current(context.Background(), "Paris")
			require.Error(t, err)
			assert.Nil(t, w)
			assert.Equal(t, tt.want, domain.WeatherReport("Paris", w, err))
		})
	}
}

func TestCurrent_MissingCurrentIsUnavailable(t *testing.T) {
	srv := serve(t, http.StatusBadRequest,
		`{"error":{"code":1006,"message":"No matching location found."}}`, nil)

	c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
	w, err := c.Current(context.Background(), "Atlantis")
	assert.Nil(t, w)
	assert.ErrorIs(t, err, domain.ErrWeatherUnavailable)
	assert.Equal(t, domain.WeatherUnavailableText, domain.WeatherReport("Atlantis", w, err))
}

func TestCurrent_MalformedBodyIsError(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html>oops</html>`, nil)

	c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
	w, err := c.Current(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrWeatherUnavailable)
	assert.Equal(t, domain.WeatherErrorText, domain.WeatherReport("Paris", w, err))
}

func TestCurrent_IncompleteCurrentIsError(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"current":{"temp_c":12.5}}`, nil)

	c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
	_, err := c.Current(context.Background(), "Oslo")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrWeatherUnavailable)
}

func TestCurrent_TransportErrorIsError(t *testing.T) {
	srv := serve(t, http.StatusOK, `{}`, nil)
	srv.Close()

	c := weatherapi.New("secret", weatherapi.WithBaseURL(srv.URL))
	w, err := c.Current(context.Background(), "Paris")
	require.Error(t, err)
	assert.Equal(t, domain.WeatherErrorText, domain.WeatherReport("Paris", w, err))
}
