package types

// DefinitionRange represents a definition with its file location and line range.
// StartLine and EndLine are 0-based. Label is the identifier name, or a
// synthetic "parent_of_<identifier>" marker when the enclosing symbol's range
// was recorded instead of the symbol's own.
type DefinitionRange struct {
	File      string
	StartLine int
	EndLine   int
	Label     string
}

// CollectedDefinitions maps a defining file path to the definition ranges
// recorded for it during one review pass. Append-only while the pass runs.
type CollectedDefinitions map[string][]DefinitionRange

// Identifier is one lexical identifier occurrence on a source line.
// Column is the 0-based character offset of its first character.
type Identifier struct {
	Name   string
	Column int
}

// Symbol represents a code symbol found by the fallback tree-sitter parser.
// Lines are 1-based, matching editor conventions.
type Symbol struct {
	Name      string
	Package   string
	FilePath  string
	StartLine int
	EndLine   int
}

// ReviewContext contains all the context gathered for one review pass
type ReviewContext struct {
	Diff              string
	CommitMessage     string
	DefinitionContext string
}
