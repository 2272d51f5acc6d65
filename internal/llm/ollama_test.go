package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaProvider(t *testing.T) {
	baseURL := "http://localhost:11434"
	model := "test-model"

	provider := NewOllamaProvider(baseURL, model)

	if provider.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, provider.baseURL)
	}
	if provider.model != model {
		t.Errorf("Expected model %s, got %s", model, provider.model)
	}
	if provider.client == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestOllamaProvider_GetModel(t *testing.T) {
	model := "test-model"
	provider := NewOllamaProvider("http://localhost:11434", model)

	if provider.GetModel() != model {
		t.Errorf("Expected model %s, got %s", model, provider.GetModel())
	}
}

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %s", req.Model)
		}
		if req.Prompt != "test prompt" {
			t.Errorf("Expected prompt 'test prompt', got %s", req.Prompt)
		}
		if req.System != "test system" {
			t.Errorf("Expected system 'test system', got %s", req.System)
		}
		if req.Stream != false {
			t.Errorf("Expected stream false, got %t", req.Stream)
		}

		response := ollamaResponse{
			Response: "test response",
			Done:     true,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Internal server error during response encoding", http.StatusInternalServerError)
			return
		}
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test-model")
	result, err := provider.Generate("test prompt", "test system")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result != "test response" {
		t.Errorf("Expected 'test response', got %s", result)
	}
}

func TestOllamaProvider_Generate_OmitsEmptySystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if _, present := raw["system"]; present {
			t.Error("Expected system field to be omitted when empty")
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ollamaResponse{Response: "ok", Done: true}); err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test-model")
	if _, err := provider.Generate("test prompt", ""); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestOllamaProvider_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "missing-model")
	if _, err := provider.Generate("test prompt", ""); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	tests := []struct {
		name        string
		config      ProviderConfig
		expectError bool
	}{
		{
			name:   "ollama provider",
			config: ProviderConfig{Type: ProviderOllama, Model: "m", BaseURL: "http://localhost:11434"},
		},
		{
			name:   "openai provider",
			config: ProviderConfig{Type: ProviderOpenAI, Model: "m", BaseURL: "http://localhost:8080"},
		},
		{
			name:        "unsupported provider",
			config:      ProviderConfig{Type: "anthropic"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if provider == nil {
				t.Error("Expected provider, got nil")
			}
		})
	}
}
