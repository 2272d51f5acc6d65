package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unnathi84/PatchWise/internal/types"
	"github.com/unnathi84/PatchWise/internal/utils"
	"github.com/unnathi84/PatchWise/pkg/logging"
)

// ContextBuilder renders the collected definitions and diff-touched lines of
// each file into bounded source excerpts with explicit gap markers.
type ContextBuilder struct {
	projectRoot string
	maxGap      int
	logger      *logging.Logger
}

func NewContextBuilder(projectRoot string, maxGap int, logger *logging.Logger) *ContextBuilder {
	return &ContextBuilder{
		projectRoot: projectRoot,
		maxGap:      maxGap,
		logger:      logger,
	}
}

// Build assembles the final context string. Files appear in path order; each
// excerpt is prefixed with the file's path relative to the analysis root.
func (b *ContextBuilder) Build(collected types.CollectedDefinitions, diffAdditions map[string]utils.LineSet) string {
	defFiles := make([]string, 0, len(collected))
	for defFile := range collected {
		defFiles = append(defFiles, defFile)
	}
	sort.Strings(defFiles)

	var parts []string
	for _, defFile := range defFiles {
		essential := b.essentialLines(collected, diffAdditions, defFile)
		if len(essential) == 0 {
			continue
		}

		printLines := fillContextGaps(essential, b.maxGap)
		excerpt := b.formatFileContext(defFile, printLines)
		if excerpt == "" {
			continue
		}

		relPath := b.relativePath(defFile)
		parts = append(parts, fmt.Sprintf("%s (definition/diff context):\n\n```c\n%s```\n", relPath, excerpt))
	}

	return strings.Join(parts, "\n\n")
}

// essentialLines unions the diff-added lines of defFile with every recorded
// definition span.
func (b *ContextBuilder) essentialLines(collected types.CollectedDefinitions, diffAdditions map[string]utils.LineSet, defFile string) utils.LineSet {
	essential := make(utils.LineSet)

	for line := range diffAdditions[b.relativePath(defFile)] {
		essential[line] = struct{}{}
	}

	for _, def := range collected[defFile] {
		for line := def.StartLine; line <= def.EndLine; line++ {
			essential[line] = struct{}{}
		}
	}

	return essential
}

// fillContextGaps adds every line inside a gap of 1..maxGap between adjacent
// essential lines. A 1-5 line gap is noisier to annotate than to print.
// Idempotent: running it on its own output changes nothing.
func fillContextGaps(essential utils.LineSet, maxGap int) utils.LineSet {
	if len(essential) == 0 {
		return essential
	}

	sorted := make([]int, 0, len(essential))
	for line := range essential {
		sorted = append(sorted, line)
	}
	sort.Ints(sorted)

	printLines := make(utils.LineSet, len(essential))
	for line := range essential {
		printLines[line] = struct{}{}
	}

	for i := 0; i < len(sorted)-1; i++ {
		gap := sorted[i+1] - sorted[i] - 1
		if gap > 0 && gap <= maxGap {
			for line := sorted[i] + 1; line < sorted[i+1]; line++ {
				printLines[line] = struct{}{}
			}
		}
	}

	return printLines
}

// formatFileContext walks the file top to bottom: contiguous printable runs
// are emitted verbatim, longer gaps collapse to one marker line with 1-based
// bounds. Returns "" when the file cannot be read.
func (b *ContextBuilder) formatFileContext(defFile string, printLines utils.LineSet) string {
	content, err := os.ReadFile(defFile)
	if err != nil {
		b.logger.Error("failed to read file for context", "path", defFile, "error", err)
		return ""
	}

	lines := strings.Split(string(content), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var out strings.Builder
	i := 0
	for i < len(lines) {
		if _, ok := printLines[i]; ok {
			for i < len(lines) {
				if _, ok := printLines[i]; !ok {
					break
				}
				out.WriteString(lines[i])
				out.WriteString("\n")
				i++
			}
			continue
		}

		gapStart := i
		for i < len(lines) {
			if _, ok := printLines[i]; ok {
				break
			}
			i++
		}
		if gapLen := i - gapStart; gapLen > b.maxGap {
			fmt.Fprintf(&out, "// skipping lines %d-%d\n", gapStart+1, gapStart+gapLen)
		}
	}

	return out.String()
}

func (b *ContextBuilder) relativePath(defFile string) string {
	relPath, err := filepath.Rel(b.projectRoot, defFile)
	if err != nil {
		return defFile
	}
	return strings.TrimLeft(relPath, "/\\")
}
