package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/tripplanner/pkg/adapters/groq"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ChatModel = (*groq.Model)(nil)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestModel_Invoke(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "## Morning\n- Chai"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	model := groq.New("gsk-test", groq.WithBaseURL(srv.URL+"/v1"))
	out, err := model.Invoke(context.Background(), []domain.Message{
		domain.SystemMessage("You are a guide."),
		domain.HumanMessage("Plan my perfect day trip!"),
		domain.AIMessage("Sure."),
	})
	require.NoError(t, err)
	assert.Equal(t, "## Morning\n- Chai", out)

	assert.Equal(t, groq.DefaultModel, got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "Plan my perfect day trip!", got.Messages[1].Content)
}

func TestModel_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	model := groq.New("k", groq.WithBaseURL(srv.URL+"/v1"))
	_, err := model.Invoke(context.Background(), []domain.Message{domain.HumanMessage("hi")})
	assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestModel_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	model := groq.New("bad", groq.WithBaseURL(srv.URL+"/v1"), groq.WithModel("other"))
	_, err := model.Invoke(context.Background(), []domain.Message{domain.HumanMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq chat completion failed")
}
