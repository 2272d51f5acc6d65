package utils

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// LineSet is a set of 0-based line numbers.
type LineSet map[int]struct{}

// ParseDiffAdditions maps each file touched by a unified diff to the set of
// 0-based new-side line numbers that are additions. A file whose header
// appears in the diff always gets an entry, even when no lines were added.
func ParseDiffAdditions(diffText string) (map[string]LineSet, error) {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	additions := make(map[string]LineSet)
	for _, fd := range fileDiffs {
		path := normalizeDiffPath(fd.NewName)
		if path == "" {
			continue
		}
		if _, exists := additions[path]; !exists {
			additions[path] = make(LineSet)
		}
		for _, hunk := range fd.Hunks {
			collectHunkAdditions(hunk, additions[path])
		}
	}

	return additions, nil
}

// collectHunkAdditions walks one hunk body with a new-side line cursor. The
// cursor starts one before the hunk's first new line so the first body line
// advances it to the correct value; added and context lines advance it,
// removed lines do not.
func collectHunkAdditions(hunk *diff.Hunk, added LineSet) {
	newLine := int(hunk.NewStartLine) - 1

	lines := strings.Split(string(hunk.Body), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for _, line := range lines {
		if line == "" {
			// Context line emitted without its leading space.
			newLine++
			continue
		}
		switch line[0] {
		case '+':
			added[newLine] = struct{}{}
			newLine++
		case '-':
			// Old side only, the new-side cursor does not move.
		case '\\':
			// "\ No newline at end of file"
		default:
			newLine++
		}
	}
}

// normalizeDiffPath strips the diff's "b/" prefix. Deleted files carry
// /dev/null on the new side and are skipped.
func normalizeDiffPath(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(name, "b/")
}
