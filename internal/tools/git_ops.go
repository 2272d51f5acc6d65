package tools

import (
	"fmt"
	"os/exec"
	"strings"
)

type GitStagedDiffTool struct {
	Dir string
}

func (t *GitStagedDiffTool) Name() string {
	return string(ToolNameGitStagedDiff)
}

func (t *GitStagedDiffTool) Description() string {
	return "Get the diff for staged changes (git diff --staged)"
}

func (t *GitStagedDiffTool) Execute(args map[string]any) (any, error) {
	cmd := exec.Command("git", "diff", "--staged")
	cmd.Dir = t.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff: %w", err)
	}

	return string(output), nil
}

type GitCommitDiffTool struct {
	Dir string
}

func (t *GitCommitDiffTool) Name() string {
	return string(ToolNameGitCommitDiff)
}

func (t *GitCommitDiffTool) Description() string {
	return "Get the diff introduced by a commit (git show --format= <commit>)"
}

func (t *GitCommitDiffTool) Execute(args map[string]any) (any, error) {
	commit, ok := args["commit"].(string)
	if !ok || commit == "" {
		return "", fmt.Errorf("commit parameter required")
	}

	cmd := exec.Command("git", "show", "--format=", commit)
	cmd.Dir = t.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get diff for %s: %w", commit, err)
	}

	return string(output), nil
}

type GitCommitMessageTool struct {
	Dir string
}

func (t *GitCommitMessageTool) Name() string {
	return string(ToolNameGitCommitMsg)
}

func (t *GitCommitMessageTool) Description() string {
	return "Get the full commit message of a commit (git log -1 --format=%B)"
}

func (t *GitCommitMessageTool) Execute(args map[string]any) (any, error) {
	commit, ok := args["commit"].(string)
	if !ok || commit == "" {
		return "", fmt.Errorf("commit parameter required")
	}

	cmd := exec.Command("git", "log", "-1", "--format=%B", commit)
	cmd.Dir = t.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get commit message for %s: %w", commit, err)
	}

	return strings.TrimRight(string(output), "\n"), nil
}
