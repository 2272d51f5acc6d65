package agent

import (
	"fmt"
	"path/filepath"

	"github.com/unnathi84/PatchWise/internal/tools"
)

// ReportGenerator writes the run's artifacts into the sandbox directory:
// the exact prompts sent to the provider and the formatted review.
type ReportGenerator struct {
	writeTool  tools.Tool
	sandboxDir string
}

func NewReportGenerator(writeTool tools.Tool, sandboxDir string) *ReportGenerator {
	return &ReportGenerator{
		writeTool:  writeTool,
		sandboxDir: sandboxDir,
	}
}

func (r *ReportGenerator) WritePrompts(prompt, systemPrompt string) error {
	promptPath := filepath.Join(r.sandboxDir, "prompt.md")
	if _, err := r.writeTool.Execute(map[string]any{"filename": promptPath, "content": prompt}); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	systemPath := filepath.Join(r.sandboxDir, "system_prompt.md")
	if _, err := r.writeTool.Execute(map[string]any{"filename": systemPath, "content": systemPrompt}); err != nil {
		return fmt.Errorf("failed to write system prompt: %w", err)
	}

	return nil
}

func (r *ReportGenerator) WriteReview(review string) (string, error) {
	reviewPath := filepath.Join(r.sandboxDir, "review.md")
	if _, err := r.writeTool.Execute(map[string]any{"filename": reviewPath, "content": review}); err != nil {
		return "", fmt.Errorf("failed to write review: %w", err)
	}
	return reviewPath, nil
}
