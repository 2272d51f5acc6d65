package tools

import "fmt"

type Tool interface {
	Name() string
	Description() string
	Execute(args map[string]any) (any, error)
}

type ToolName string

const (
	ToolNameGitStagedDiff ToolName = "git_staged_diff"
	ToolNameGitCommitDiff ToolName = "git_commit_diff"
	ToolNameGitCommitMsg  ToolName = "git_commit_message"
	ToolNameReadFile      ToolName = "read_file"
	ToolNameWriteFile     ToolName = "write_file"
)

// Registry is built once at process start; review strategies look tools up
// by name instead of relying on package-level side effects.
type Registry struct {
	tools map[ToolName]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[ToolName]Tool),
	}
}

func (r *Registry) Register(name ToolName, tool Tool) {
	r.tools[name] = tool
}

func (r *Registry) Get(name ToolName) Tool {
	tool, exists := r.tools[name]
	if !exists {
		panic(fmt.Sprintf("BUG: Requested tool '%s' not found in Registry", name))
	}
	return tool
}
