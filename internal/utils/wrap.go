package utils

import (
	"regexp"
	"strings"
)

const wrapWidth = 75

var bulletPattern = regexp.MustCompile(`^\s*([*+\->]|\d+[.)-]|\d+(\.\d+)+)\s*`)

var commitTags = []string{
	"Acked-by:",
	"Cc:",
	"Closes:",
	"Co-developed-by:",
	"Fixes:",
	"From:",
	"Link:",
	"Reported-by:",
	"Reviewed-by:",
	"Signed-off-by:",
	"Suggested-by:",
	"Tested-by:",
	"(cherry picked from commit",
	"Change-Id",
	"Git-Commit:",
	"Git-repo",
	"Git-Repo:",
}

// FormatChatResponse line-wraps a model response at 75 columns for mailing
// list style output. Commit tags, quoted diff lines and bullet lines keep
// their original layout; long words (links) are never broken.
func FormatChatResponse(text string) string {
	paragraphs := splitIntoParagraphs(text)

	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if isCommitTag(trimmed) || strings.HasPrefix(trimmed, ">") {
			wrapped = append(wrapped, p)
			continue
		}
		wrapped = append(wrapped, fillParagraph(p, wrapWidth))
	}

	return strings.Join(wrapped, "\n")
}

// splitIntoParagraphs groups consecutive prose lines; blank lines, code
// fences and bullet lines each form their own paragraph.
func splitIntoParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || stripped == "```" || stripped == "'''" || stripped == `"""` ||
			bulletPattern.MatchString(stripped) {
			flush()
			paragraphs = append(paragraphs, line)
		} else {
			current = append(current, line)
		}
	}
	flush()

	return paragraphs
}

func isCommitTag(line string) bool {
	for _, tag := range commitTags {
		if strings.HasPrefix(line, tag) {
			return true
		}
	}
	return false
}

// fillParagraph rewraps a paragraph to the given width. Words longer than
// the width are emitted on their own line intact.
func fillParagraph(p string, width int) string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return p
	}

	var out strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			out.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			out.WriteString("\n")
			out.WriteString(word)
			lineLen = len(word)
		} else {
			out.WriteString(" ")
			out.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return out.String()
}
