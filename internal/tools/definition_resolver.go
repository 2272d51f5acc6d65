package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unnathi84/PatchWise/internal/lsp"
	"github.com/unnathi84/PatchWise/internal/types"
	"github.com/unnathi84/PatchWise/internal/utils"
	"github.com/unnathi84/PatchWise/pkg/logging"
)

// LSPClient is the slice of the protocol session the resolver consumes.
type LSPClient interface {
	DidOpen(uri, languageID, text string) error
	Definition(uri string, line, character int) ([]lsp.Location, error)
	DocumentSymbols(uri string) ([]lsp.DocumentSymbol, error)
}

// DefinitionResolver maps identifier occurrences on added diff lines to the
// ranges of their definitions. Identifier names are resolved at most once per
// pass; two occurrences of the same name share the first result even when
// their definitions differ, a known imprecision kept for request economy.
type DefinitionResolver struct {
	client      LSPClient
	projectRoot string
	fallback    *CParser
	logger      *logging.Logger

	resolvedNames     map[string]struct{}
	recordedLocations map[locationKey]struct{}
	collected         types.CollectedDefinitions
}

type locationKey struct {
	file  string
	start int
	end   int
}

// NewDefinitionResolver creates a resolver for one review pass. fallback may
// be nil to disable the local parse when the server returns no symbol tree.
func NewDefinitionResolver(client LSPClient, projectRoot string, fallback *CParser, logger *logging.Logger) *DefinitionResolver {
	return &DefinitionResolver{
		client:            client,
		projectRoot:       projectRoot,
		fallback:          fallback,
		logger:            logger,
		resolvedNames:     make(map[string]struct{}),
		recordedLocations: make(map[locationKey]struct{}),
		collected:         make(types.CollectedDefinitions),
	}
}

// Collected returns the definitions recorded so far, keyed by defining file.
func (r *DefinitionResolver) Collected() types.CollectedDefinitions {
	return r.collected
}

// ProcessFile resolves every identifier on the added lines of one diff file.
// An unreadable file is logged and skipped; individual identifiers that fail
// to resolve never fail the pass.
func (r *DefinitionResolver) ProcessFile(relPath string, addedLines utils.LineSet) error {
	absPath := filepath.Join(r.projectRoot, relPath)
	content, err := os.ReadFile(absPath)
	if err != nil {
		r.logger.Error("failed to read diff file", "path", absPath, "error", err)
		return nil
	}

	uri := "file://" + absPath
	if err := r.client.DidOpen(uri, "c", string(content)); err != nil {
		return err
	}

	fileLines := strings.Split(string(content), "\n")

	lineNumbers := make([]int, 0, len(addedLines))
	for line := range addedLines {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	for _, lineNumber := range lineNumbers {
		if lineNumber >= len(fileLines) {
			continue
		}
		for _, ident := range utils.ExtractIdentifiers(fileLines[lineNumber]) {
			if err := r.resolveIdentifier(uri, ident, lineNumber); err != nil {
				return err
			}
		}
	}

	return nil
}

// resolveIdentifier records the definition range (or the enclosing symbol's
// range) for one identifier occurrence. Returned errors are transport-level
// only; a missing definition is not an error.
func (r *DefinitionResolver) resolveIdentifier(uri string, ident types.Identifier, line int) error {
	if _, seen := r.resolvedNames[ident.Name]; seen {
		return nil
	}

	r.logger.Debug("resolving identifier", "name", ident.Name, "uri", uri,
		"line", line+1, "column", ident.Column+1)

	locations, err := r.client.Definition(uri, line, ident.Column)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		r.logger.Debug("no definition found", "name", ident.Name)
		return nil
	}

	loc := locations[0]
	defFile := strings.TrimPrefix(loc.URI, "file://")
	defContent, err := os.ReadFile(defFile)
	if err != nil {
		r.logger.Error("failed to read defining file", "path", defFile, "error", err)
		return nil
	}

	if err := r.client.DidOpen(loc.URI, "c", string(defContent)); err != nil {
		return err
	}
	symbols, err := r.client.DocumentSymbols(loc.URI)
	if err != nil {
		return err
	}

	defLine := loc.Range.Start.Line
	start, end, label := r.pickRange(symbols, defFile, defContent, ident.Name, defLine, loc)

	key := locationKey{file: defFile, start: start, end: end}
	if _, recorded := r.recordedLocations[key]; recorded {
		return nil
	}

	r.collected[defFile] = append(r.collected[defFile], types.DefinitionRange{
		File:      defFile,
		StartLine: start,
		EndLine:   end,
		Label:     label,
	})
	r.resolvedNames[ident.Name] = struct{}{}
	r.recordedLocations[key] = struct{}{}
	return nil
}

// pickRange chooses what to show for a definition: the enclosing symbol when
// the matched node has a parent, the node itself otherwise, a local parse
// when the server returned no symbol tree, and the raw definition range as
// the last resort.
func (r *DefinitionResolver) pickRange(symbols []lsp.DocumentSymbol, defFile string, defContent []byte,
	name string, defLine int, loc lsp.Location) (start, end int, label string) {

	node, parent := findSymbolAndParent(symbols, name, defLine)
	if node != nil {
		if parent != nil {
			return parent.Range.Start.Line, parent.Range.End.Line, "parent_of_" + name
		}
		return node.Range.Start.Line, node.Range.End.Line, name
	}

	if len(symbols) == 0 && r.fallback != nil {
		if sym, ok := r.localSymbolSpan(defFile, defContent, name, defLine); ok {
			return sym.StartLine - 1, sym.EndLine - 1, name
		}
	}

	r.logger.Debug("no symbol node matched definition, using raw range",
		"name", name, "file", defFile, "line", defLine+1)
	return loc.Range.Start.Line, loc.Range.End.Line, name
}

// localSymbolSpan parses the defining file with tree-sitter and finds the
// named symbol containing defLine (0-based).
func (r *DefinitionResolver) localSymbolSpan(defFile string, content []byte, name string, defLine int) (types.Symbol, bool) {
	symbols, err := r.fallback.ParseFile(defFile, content)
	if err != nil {
		r.logger.Debug("fallback parse failed", "file", defFile, "error", err)
		return types.Symbol{}, false
	}
	for _, sym := range symbols {
		if sym.Name == name && sym.StartLine-1 <= defLine && defLine <= sym.EndLine-1 {
			return sym, true
		}
	}
	return types.Symbol{}, false
}

// findSymbolAndParent walks the symbol tree with an explicit stack and
// returns the deepest node whose name matches and whose range contains the
// 0-based target line, together with its parent. Pathological trees must not
// grow the call stack.
func findSymbolAndParent(symbols []lsp.DocumentSymbol, name string, line int) (node, parent *lsp.DocumentSymbol) {
	type frame struct {
		node   *lsp.DocumentSymbol
		parent *lsp.DocumentSymbol
		depth  int
	}

	stack := make([]frame, 0, len(symbols))
	for i := range symbols {
		stack = append(stack, frame{node: &symbols[i]})
	}

	bestDepth := -1
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rng := f.node.Range
		if f.node.Name == name && rng.Start.Line <= line && line <= rng.End.Line && f.depth > bestDepth {
			node, parent, bestDepth = f.node, f.parent, f.depth
		}

		for i := range f.node.Children {
			stack = append(stack, frame{node: &f.node.Children[i], parent: f.node, depth: f.depth + 1})
		}
	}

	return node, parent
}
