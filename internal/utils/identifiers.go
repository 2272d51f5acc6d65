package utils

import (
	"regexp"

	"github.com/unnathi84/PatchWise/internal/types"
)

// identifierPattern matches conventional C identifiers. No language-aware
// tokenization happens here: keywords and the contents of strings and
// comments all match, and the resolver silently drops whatever has no
// resolvable definition.
var identifierPattern = regexp.MustCompile(`\b[_a-zA-Z][_a-zA-Z0-9]*\b`)

// ExtractIdentifiers returns every identifier token on line with its 0-based
// column offset, non-overlapping, left to right.
func ExtractIdentifiers(line string) []types.Identifier {
	var identifiers []types.Identifier
	for _, match := range identifierPattern.FindAllStringIndex(line, -1) {
		identifiers = append(identifiers, types.Identifier{
			Name:   line[match[0]:match[1]],
			Column: match[0],
		})
	}
	return identifiers
}
