// Package apidetect walks normalized ASTs and emits API endpoint records
// for the supported web frameworks. Every detector of a file's language
// runs unconditionally against every file; misses are silent.
package apidetect

import (
	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// Detector recognizes one framework's routing idiom in a normalized AST.
type Detector interface {
	Framework() string
	Detect(root *ast.Node, filePath string) []artifact.ApiEndpoint
}

// Manager routes a normalized AST to every detector registered for its
// language.
type Manager struct {
	detectors map[string][]Detector
}

// NewManager creates a manager with the full default detector set.
func NewManager() *Manager {
	return &Manager{
		detectors: map[string][]Detector{
			parser.LangPython: {&FlaskDetector{}, &FastAPIDetector{}, &DjangoDetector{}},
			parser.LangJava:   {&SpringDetector{}},
		},
	}
}

// Detect runs every detector for the language and concatenates their
// endpoints. Languages without detectors yield an empty list.
func (m *Manager) Detect(root *ast.Node, filePath, language string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	for _, detector := range m.detectors[language] {
		endpoints = append(endpoints, detector.Detect(root, filePath)...)
	}
	return endpoints
}

// literalString unwraps an annotation argument to a string literal, or ""
// when the value is not a resolvable string.
func literalString(value any) string {
	s, _ := value.(string)
	return s
}

// literalStrings unwraps an annotation argument to a list of string
// literals: a bare string yields one entry, a list yields its string
// members.
func literalStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// walkFunctions visits every function definition with the dotted name of
// its enclosing class stack, the shared traversal of the Python decorator
// detectors.
func walkFunctions(node *ast.Node, classStack []string, visit func(fn *ast.Node, className string)) {
	nextStack := classStack
	if node.Type == ast.TypeClassDef && node.Name != "" {
		nextStack = append(append([]string{}, classStack...), node.Name)
	}
	if node.Type == ast.TypeFunctionDef || node.Type == ast.TypeAsyncFunctionDef {
		visit(node, ast.JoinDotted(nextStack...))
	}
	for _, child := range node.Children {
		walkFunctions(child, nextStack, visit)
	}
}
