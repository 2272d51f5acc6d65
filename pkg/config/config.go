package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	LLM LLMConfig `json:"llm"`
	LSP LSPConfig `json:"lsp"`
}

type LLMConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}

// LSPConfig controls the clangd child process and the indexing wait loop.
// Durations are in seconds.
type LSPConfig struct {
	Command            string   `json:"command"`
	Args               []string `json:"args"`
	ProjectRoot        string   `json:"project_root"`
	CompileCommandsDir string   `json:"compile_commands_dir"`
	SandboxDir         string   `json:"sandbox_dir"`
	MaxGap             int      `json:"max_gap"`
	IndexMaxTotalWait  int      `json:"index_max_total_wait"`
	IndexMaxStaleWait  int      `json:"index_max_stale_wait"`
	IndexPollInterval  int      `json:"index_poll_interval"`
	IndexMaxInterval   int      `json:"index_max_interval"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LSP.Command == "" {
		c.LSP.Command = "clangd"
	}
	if c.LSP.ProjectRoot == "" {
		c.LSP.ProjectRoot = "."
	}
	if c.LSP.SandboxDir == "" {
		c.LSP.SandboxDir = ".patchwise"
	}
	if c.LSP.MaxGap == 0 {
		c.LSP.MaxGap = 5
	}
	if c.LSP.IndexMaxTotalWait == 0 {
		c.LSP.IndexMaxTotalWait = 600
	}
	if c.LSP.IndexMaxStaleWait == 0 {
		c.LSP.IndexMaxStaleWait = 60
	}
	if c.LSP.IndexPollInterval == 0 {
		c.LSP.IndexPollInterval = 1
	}
	if c.LSP.IndexMaxInterval == 0 {
		c.LSP.IndexMaxInterval = 10
	}
}
