package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/livingdoc/analysis-core/ast"
)

// ErrNoParser signals that no parser is registered for a file's language.
// The driver treats it as a skip, not a failure.
var ErrNoParser = errors.New("no parser for language")

// ErrParseFailed signals that a file could not be parsed into a usable
// tree. Partial ASTs are never emitted; the driver logs and skips the
// file.
var ErrParseFailed = errors.New("parse failed")

// Parser produces a raw tree-sitter parse tree for one language and lowers
// it into the shared node schema. The normalizer is the single point of
// contract between grammar and analyzers.
type Parser interface {
	Language() string
	Parse(ctx context.Context, source []byte) (*sitter.Tree, error)
	Normalize(root *sitter.Node, source []byte) *ast.Node
}

type treeSitterParser struct {
	language  string
	grammar   *sitter.Language
	normalize func(node *sitter.Node, source []byte) *ast.Node
}

func (p *treeSitterParser) Language() string { return p.language }

func (p *treeSitterParser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.grammar)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return tree, nil
}

func (p *treeSitterParser) Normalize(root *sitter.Node, source []byte) *ast.Node {
	return p.normalize(root, source)
}

// Manager owns one parser per supported language and runs the
// parse-then-normalize step of the per-file pipeline.
type Manager struct {
	parsers map[string]Parser
}

// NewManager creates a manager with the full parser set: python and java
// with lowering normalizers, c and cpp with the opaque pass-through
// normalizer (accepted, but producing no semantic output downstream).
func NewManager() *Manager {
	m := &Manager{parsers: make(map[string]Parser)}
	m.Register(&treeSitterParser{language: LangPython, grammar: python.GetLanguage(), normalize: normalizePython})
	m.Register(&treeSitterParser{language: LangJava, grammar: java.GetLanguage(), normalize: normalizeJava})
	m.Register(&treeSitterParser{language: LangC, grammar: c.GetLanguage(), normalize: opaqueNormalizer(LangC)})
	m.Register(&treeSitterParser{language: LangCPP, grammar: cpp.GetLanguage(), normalize: opaqueNormalizer(LangCPP)})
	return m
}

// Register adds a parser, replacing any previous parser for its language.
func (m *Manager) Register(p Parser) {
	m.parsers[p.Language()] = p
}

// ParseSource detects the file's language, parses the source and returns
// the normalized AST. Returns ErrNoParser for unsupported languages and
// ErrParseFailed when the grammar cannot produce an error-free tree.
func (m *Manager) ParseSource(ctx context.Context, filePath string, source []byte) (*ast.Node, error) {
	language, ok := DetectLanguage(filePath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, filePath)
	}
	return m.ParseAs(ctx, language, source)
}

// ParseAs parses source as the given language, bypassing extension
// detection.
func (m *Manager) ParseAs(ctx context.Context, language string, source []byte) (*ast.Node, error) {
	p, ok := m.parsers[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, language)
	}
	tree, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w: %s source has syntax errors", ErrParseFailed, language)
	}
	return p.Normalize(root, source), nil
}

// opaqueNormalizer lowers a parse tree into opaque containers: raw grammar
// node types, named children, no metadata. Languages without extractor
// pipelines pass through here.
func opaqueNormalizer(language string) func(node *sitter.Node, source []byte) *ast.Node {
	var walk func(node *sitter.Node) *ast.Node
	walk = func(node *sitter.Node) *ast.Node {
		out := ast.NewNode(node.Type(), language)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			out.AddChild(walk(node.NamedChild(i)))
		}
		return out
	}
	return func(node *sitter.Node, _ []byte) *ast.Node {
		return walk(node)
	}
}
