package tools

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/unnathi84/PatchWise/internal/types"
)

// CParser extracts symbol spans from C sources with tree-sitter. It backs
// the definition resolver when the analysis server returns no symbol tree
// for a defining file.
type CParser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

func NewCParser() (*CParser, error) {
	lang := sitter.NewLanguage(tree_sitter_c.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for parser: %w", err)
	}
	return &CParser{
		parser:   parser,
		language: lang,
	}, nil
}

func (cp *CParser) Language() string {
	return "C"
}

func (cp *CParser) SupportedExtensions() []string {
	return []string{".c", ".h"}
}

// ParseFile returns the named top-level symbols of a C file with 1-based
// line spans, ordered by start line.
func (cp *CParser) ParseFile(filePath string, content []byte) ([]types.Symbol, error) {
	tree := cp.parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse C file: tree-sitter returned nil")
	}
	defer tree.Close()

	queryText := `
	(function_definition) @decl
	(struct_specifier) @decl
	(union_specifier) @decl
	(enum_specifier) @decl
	(type_definition) @decl
	(preproc_def) @decl
	(preproc_function_def) @decl
	`

	q, err := sitter.NewQuery(cp.language, queryText)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	matches := qc.Matches(q, tree.RootNode(), content)

	// Deduplicate by name and start line; a struct_specifier can be
	// captured both standalone and inside a typedef.
	symbolMap := make(map[string]types.Symbol)

	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			declNode := c.Node
			nameNode := cp.findNameNode(&declNode)
			if nameNode == nil {
				continue
			}

			name := strings.TrimSpace(nameNode.Utf8Text(content))
			if name == "" {
				continue
			}

			startLine := int(declNode.StartPosition().Row) + 1
			endLine := int(declNode.EndPosition().Row) + 1
			if kind := declNode.Kind(); kind == "preproc_def" || kind == "preproc_function_def" {
				// The directive node swallows the trailing newline.
				endLine = startLine
			}

			key := fmt.Sprintf("%s:%d", name, startLine)
			if _, exists := symbolMap[key]; !exists {
				symbolMap[key] = types.Symbol{
					Name:      name,
					Package:   moduleName(filePath),
					FilePath:  filePath,
					StartLine: startLine,
					EndLine:   endLine,
				}
			}
		}
	}

	symbols := make([]types.Symbol, 0, len(symbolMap))
	for _, symbol := range symbolMap {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].StartLine != symbols[j].StartLine {
			return symbols[i].StartLine < symbols[j].StartLine
		}
		return symbols[i].Name < symbols[j].Name
	})

	return symbols, nil
}

func (cp *CParser) findNameNode(node *sitter.Node) *sitter.Node {
	switch node.Kind() {
	case "function_definition":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			// Pointer-returning functions nest the function_declarator
			// inside one or more pointer_declarators.
			if child.Kind() == "function_declarator" || child.Kind() == "pointer_declarator" {
				if nameNode := cp.nameFromDeclarator(child); nameNode != nil {
					return nameNode
				}
			}
		}

	case "struct_specifier", "union_specifier", "enum_specifier":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == "type_identifier" {
				return child
			}
		}

	case "type_definition":
		// The last type_identifier is the typedef name.
		var nameNode *sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == "type_identifier" {
				nameNode = child
			}
		}
		return nameNode

	case "preproc_def", "preproc_function_def":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == "identifier" {
				return child
			}
		}
	}

	return nil
}

func (cp *CParser) nameFromDeclarator(declarator *sitter.Node) *sitter.Node {
	for i := uint(0); i < declarator.ChildCount(); i++ {
		child := declarator.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			return child
		case "pointer_declarator", "function_declarator":
			if nameNode := cp.nameFromDeclarator(child); nameNode != nil {
				return nameNode
			}
		}
	}
	return nil
}

// moduleName turns "drivers/foo/bar.c" into "drivers.foo.bar".
func moduleName(filePath string) string {
	modulePath := strings.TrimSuffix(filePath, ".c")
	modulePath = strings.TrimSuffix(modulePath, ".h")
	return strings.ReplaceAll(modulePath, "/", ".")
}
