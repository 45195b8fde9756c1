// Package extractor walks normalized ASTs and emits the symbol and
// relation artifacts of the semantic layer. One analyzer set exists per
// language; the Manager is the registry the driver talks to.
package extractor

import (
	"errors"
	"fmt"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// ErrUnsupportedLanguage signals that no semantic analyzers are registered
// for a language. Languages the parser accepts without extractor pipelines
// (c, cpp) land here; the driver treats it as a skip.
var ErrUnsupportedLanguage = errors.New("unsupported language for semantic analysis")

// SymbolAnalyzer emits symbol records from one traversal of a normalized
// AST.
type SymbolAnalyzer interface {
	Symbols(root *ast.Node, filePath string) []artifact.Symbol
}

// RelationAnalyzer emits relation records from one traversal of a
// normalized AST.
type RelationAnalyzer interface {
	Relations(root *ast.Node, filePath string) []artifact.Relation
}

// Result bundles the artifacts of one file's semantic pass.
type Result struct {
	Symbols   []artifact.Symbol
	Relations []artifact.Relation
}

// Manager routes a normalized AST to the analyzers registered for its
// language.
type Manager struct {
	symbols   map[string][]SymbolAnalyzer
	relations map[string][]RelationAnalyzer
}

// NewManager creates a manager with the full default analyzer set.
func NewManager() *Manager {
	return &Manager{
		symbols: map[string][]SymbolAnalyzer{
			parser.LangPython: {&PythonSymbolAnalyzer{}},
			parser.LangJava:   {&JavaSymbolAnalyzer{}},
		},
		relations: map[string][]RelationAnalyzer{
			parser.LangPython: {&PythonImportAnalyzer{}, &PythonCallAnalyzer{}},
			parser.LangJava:   {&JavaImportAnalyzer{}, &JavaCallAnalyzer{}},
		},
	}
}

// Analyze runs every registered analyzer for the language over the tree.
func (m *Manager) Analyze(root *ast.Node, filePath, language string) (Result, error) {
	symbolAnalyzers, ok := m.symbols[language]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	relationAnalyzers := m.relations[language]

	var result Result
	for _, analyzer := range symbolAnalyzers {
		result.Symbols = append(result.Symbols, analyzer.Symbols(root, filePath)...)
	}
	for _, analyzer := range relationAnalyzers {
		result.Relations = append(result.Relations, analyzer.Relations(root, filePath)...)
	}
	return result, nil
}

// scopeEntry is one enclosing class/function frame on the traversal's
// context stack. Contexts are passed by value so sibling subtrees never
// observe each other's frames.
type scopeEntry struct {
	name     string
	nodeType string
}

type scopeStack []scopeEntry

func (s scopeStack) push(name, nodeType string) scopeStack {
	next := make(scopeStack, len(s), len(s)+1)
	copy(next, s)
	return append(next, scopeEntry{name: name, nodeType: nodeType})
}

// qualified joins the context names and an optional own name into the
// canonical dotted identity.
func (s scopeStack) qualified(name string) string {
	parts := make([]string, 0, len(s)+1)
	for _, entry := range s {
		parts = append(parts, entry.name)
	}
	parts = append(parts, name)
	return ast.JoinDotted(parts...)
}

// extractIdentifier resolves a node to an identifier string: the node's
// own name, then the first non-empty metadata value among keys in the
// order given, then a dotted join of child identifiers. The fixed order
// keeps results deterministic when several keys are present.
func extractIdentifier(node *ast.Node, keys ...string) string {
	if node == nil {
		return ""
	}
	if node.Name != "" {
		return node.Name
	}
	for _, key := range keys {
		if value := node.Metadata.String(key); value != "" {
			return value
		}
	}
	if len(node.Children) > 0 {
		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			if value := extractIdentifier(child, keys...); value != "" {
				parts = append(parts, value)
			}
		}
		if len(parts) > 0 {
			return ast.JoinDotted(parts...)
		}
	}
	return ""
}
