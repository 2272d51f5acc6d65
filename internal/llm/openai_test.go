package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockChatResponse(content string) openAIResponse {
	var resp openAIResponse
	resp.Choices = make([]struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}, 1)
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = content
	resp.Choices[0].FinishReason = "stop"
	return resp
}

func TestOpenAIProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be thorough", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "test prompt", req.Messages[1].Content)

		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(mockChatResponse("test response")))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-model", "test-key")
	result, err := provider.Generate("test prompt", "be thorough")
	require.NoError(t, err)
	assert.Equal(t, "test response", result)
}

func TestOpenAIProvider_Generate_NoSystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(mockChatResponse("ok")))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-model", "")
	_, err := provider.Generate("test prompt", "")
	require.NoError(t, err)
}

func TestOpenAIProvider_Generate_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-model", "test-key")
	_, err := provider.Generate("test prompt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIProvider_Generate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(openAIResponse{}))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-model", "")
	_, err := provider.Generate("test prompt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIProvider_GetModel_Default(t *testing.T) {
	provider := NewOpenAIProvider("http://localhost:8080", "", "")
	assert.Equal(t, "llama.cpp", provider.GetModel())
}
