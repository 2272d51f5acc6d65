package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		configJSON  string
		expectError bool
		expected    *Config
	}{
		{
			name: "minimal config",
			configJSON: `{
				"llm": {
					"provider": "ollama",
					"model": "qwen2.5-coder",
					"base_url": "http://localhost:11434"
				}
			}`,
			expectError: false,
			expected: &Config{
				LLM: LLMConfig{
					Provider: "ollama",
					Model:    "qwen2.5-coder",
					BaseURL:  "http://localhost:11434",
				},
			},
		},
		{
			name: "lsp overrides",
			configJSON: `{
				"llm": {"provider": "ollama", "model": "m", "base_url": "u"},
				"lsp": {
					"command": "clangd-19",
					"project_root": "/src/linux",
					"max_gap": 3,
					"index_max_total_wait": 120
				}
			}`,
			expectError: false,
			expected: &Config{
				LLM: LLMConfig{Provider: "ollama", Model: "m", BaseURL: "u"},
				LSP: LSPConfig{
					Command:           "clangd-19",
					ProjectRoot:       "/src/linux",
					MaxGap:            3,
					IndexMaxTotalWait: 120,
				},
			},
		},
		{
			name:        "invalid json",
			configJSON:  `{"invalid": json}`,
			expectError: true,
		},
		{
			name:        "empty config",
			configJSON:  `{}`,
			expectError: false,
			expected: &Config{
				LLM: LLMConfig{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", "config_test_*.json")
			if err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())

			if _, err := tmpFile.WriteString(tt.configJSON); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			tmpFile.Close()

			config, err := LoadConfig(tmpFile.Name())

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if tt.expected != nil {
				if config.LLM.Provider != tt.expected.LLM.Provider {
					t.Errorf("Expected provider %s, got %s", tt.expected.LLM.Provider, config.LLM.Provider)
				}
				if config.LLM.Model != tt.expected.LLM.Model {
					t.Errorf("Expected model %s, got %s", tt.expected.LLM.Model, config.LLM.Model)
				}
				if config.LLM.BaseURL != tt.expected.LLM.BaseURL {
					t.Errorf("Expected base_url %s, got %s", tt.expected.LLM.BaseURL, config.LLM.BaseURL)
				}
				if tt.expected.LSP.Command != "" && config.LSP.Command != tt.expected.LSP.Command {
					t.Errorf("Expected lsp command %s, got %s", tt.expected.LSP.Command, config.LSP.Command)
				}
				if tt.expected.LSP.MaxGap != 0 && config.LSP.MaxGap != tt.expected.LSP.MaxGap {
					t.Errorf("Expected max_gap %d, got %d", tt.expected.LSP.MaxGap, config.LSP.MaxGap)
				}
			}
		})
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfig("nonexistent.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config_defaults_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(`{"llm": {"provider": "ollama"}}`); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	config, err := LoadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if config.LSP.Command != "clangd" {
		t.Errorf("Expected default command clangd, got %s", config.LSP.Command)
	}
	if config.LSP.MaxGap != 5 {
		t.Errorf("Expected default max_gap 5, got %d", config.LSP.MaxGap)
	}
	if config.LSP.IndexMaxTotalWait != 600 {
		t.Errorf("Expected default index_max_total_wait 600, got %d", config.LSP.IndexMaxTotalWait)
	}
	if config.LSP.IndexPollInterval != 1 {
		t.Errorf("Expected default index_poll_interval 1, got %d", config.LSP.IndexPollInterval)
	}
}
