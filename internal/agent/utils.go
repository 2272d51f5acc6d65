package agent

import (
	"sort"

	"github.com/unnathi84/PatchWise/internal/utils"
	"github.com/unnathi84/PatchWise/pkg/config"
)

// clangdArgs builds the server command line. User-configured args come after
// the baseline so they can add flags; the baseline pins the behavior the
// review pipeline depends on (no header insertion, background indexing,
// quiet logs).
func clangdArgs(cfg config.LSPConfig) []string {
	args := []string{
		"--header-insertion=never",
		"--pretty",
		"--background-index",
		"--log=error",
	}
	if cfg.CompileCommandsDir != "" {
		args = append(args, "--compile-commands-dir="+cfg.CompileCommandsDir)
	}
	return append(args, cfg.Args...)
}

// sortedFiles returns the diff's file paths in deterministic order.
func sortedFiles(diffAdditions map[string]utils.LineSet) []string {
	files := make([]string, 0, len(diffAdditions))
	for file := range diffAdditions {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
