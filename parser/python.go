package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/livingdoc/analysis-core/ast"
)

// normalizePython lowers a tree-sitter Python parse tree into the shared
// schema. Node types follow CPython's ast module naming (ClassDef, Call,
// ImportFrom, ...) so the extractors and detectors see one shape
// regardless of grammar.
//
// Decorators are serialized into metadata instead of being emitted as
// children, and parameter lists are dropped; calls inside decorators and
// default arguments therefore never reach the call extractor.
func normalizePython(node *sitter.Node, source []byte) *ast.Node {
	p := pythonNormalizer{source: source}
	return p.walk(node)
}

type pythonNormalizer struct {
	source []byte
}

func (p pythonNormalizer) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(p.source)
}

func (p pythonNormalizer) walk(node *sitter.Node) *ast.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "module":
		out := ast.NewNode(ast.TypeModule, LangPython)
		p.walkChildren(node, out)
		return out

	case "decorated_definition":
		inner := p.walk(node.ChildByFieldName("definition"))
		if inner == nil {
			return nil
		}
		decorators := p.collectDecorators(node)
		if len(decorators) > 0 {
			inner.Set(ast.KeyDecorators, decorators)
		}
		return inner

	case "class_definition":
		out := ast.NewNode(ast.TypeClassDef, LangPython)
		out.Name = p.text(node.ChildByFieldName("name"))
		if bases := p.classBases(node.ChildByFieldName("superclasses")); len(bases) > 0 {
			out.Set(ast.KeyBases, bases)
		}
		p.walkChildren(node.ChildByFieldName("body"), out)
		return out

	case "function_definition":
		nodeType := ast.TypeFunctionDef
		if child := node.Child(0); child != nil && child.Type() == "async" {
			nodeType = ast.TypeAsyncFunctionDef
		}
		out := ast.NewNode(nodeType, LangPython)
		out.Name = p.text(node.ChildByFieldName("name"))
		p.walkChildren(node.ChildByFieldName("body"), out)
		return out

	case "call":
		out := ast.NewNode(ast.TypeCall, LangPython)
		function := node.ChildByFieldName("function")
		if target := p.dottedName(function); target != "" {
			out.Set(ast.KeyFunc, target)
		}
		out.AddChild(p.walk(function))
		arguments := node.ChildByFieldName("arguments")
		if arguments != nil {
			for i := 0; i < int(arguments.NamedChildCount()); i++ {
				out.AddChild(p.walk(arguments.NamedChild(i)))
			}
		}
		return out

	case "keyword_argument":
		out := ast.NewNode(ast.TypeKeyword, LangPython)
		name := p.text(node.ChildByFieldName("name"))
		out.Name = name
		out.Set(ast.KeyArg, name)
		out.AddChild(p.walk(node.ChildByFieldName("value")))
		return out

	case "identifier":
		out := ast.NewNode(ast.TypeName, LangPython)
		out.Name = p.text(node)
		out.Set(ast.KeyID, out.Name)
		out.Set(ast.KeyCtx, ast.CtxLoad)
		return out

	case "attribute":
		out := ast.NewNode(ast.TypeAttribute, LangPython)
		attr := p.text(node.ChildByFieldName("attribute"))
		out.Name = attr
		out.Set(ast.KeyAttr, attr)
		if dotted := p.dottedName(node); dotted != "" {
			out.Set(ast.KeyValue, dotted)
		}
		out.AddChild(p.walk(node.ChildByFieldName("object")))
		return out

	case "string", "concatenated_string":
		out := ast.NewNode(ast.TypeConstant, LangPython)
		out.Set(ast.KeyValue, stripPythonString(p.text(node)))
		return out

	case "integer":
		out := ast.NewNode(ast.TypeConstant, LangPython)
		if value, err := strconv.Atoi(p.text(node)); err == nil {
			out.Set(ast.KeyValue, value)
		} else {
			out.Set(ast.KeyValue, p.text(node))
		}
		return out

	case "float":
		out := ast.NewNode(ast.TypeConstant, LangPython)
		if value, err := strconv.ParseFloat(p.text(node), 64); err == nil {
			out.Set(ast.KeyValue, value)
		} else {
			out.Set(ast.KeyValue, p.text(node))
		}
		return out

	case "true", "false":
		out := ast.NewNode(ast.TypeConstant, LangPython)
		out.Set(ast.KeyValue, node.Type() == "true")
		return out

	case "none":
		return ast.NewNode(ast.TypeConstant, LangPython)

	case "import_statement":
		out := ast.NewNode(ast.TypeImport, LangPython)
		modules := make([]string, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if module := p.importedName(node.NamedChild(i)); module != "" {
				modules = append(modules, module)
				alias := ast.NewNode(ast.TypeAlias, LangPython)
				alias.Name = module
				out.AddChild(alias)
			}
		}
		if len(modules) > 0 {
			out.Set(ast.KeyModules, modules)
		}
		return out

	case "import_from_statement":
		out := ast.NewNode(ast.TypeImportFrom, LangPython)
		moduleNode := node.ChildByFieldName("module_name")
		module := p.text(moduleNode)
		if module != "" {
			out.Set(ast.KeyModule, module)
		}
		var names []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
				continue
			}
			if child.Type() == "wildcard_import" {
				names = append(names, "*")
				continue
			}
			if name := p.importedName(child); name != "" {
				names = append(names, name)
			}
		}
		for _, name := range names {
			alias := ast.NewNode(ast.TypeAlias, LangPython)
			alias.Name = name
			out.AddChild(alias)
		}
		if len(names) > 0 {
			out.Set(ast.KeyModules, names)
		}
		return out

	case "expression_statement":
		if node.NamedChildCount() == 1 {
			child := node.NamedChild(0)
			switch child.Type() {
			case "assignment", "augmented_assignment":
				return p.walk(child)
			}
		}
		out := ast.NewNode(ast.TypeExpr, LangPython)
		p.walkChildren(node, out)
		return out

	case "assignment":
		nodeType := ast.TypeAssign
		if node.ChildByFieldName("type") != nil {
			nodeType = ast.TypeAnnAssign
		}
		return p.assignment(node, nodeType)

	case "augmented_assignment":
		return p.assignment(node, ast.TypeAugAssign)

	case "list":
		out := ast.NewNode(ast.TypeList, LangPython)
		p.walkChildren(node, out)
		return out

	case "tuple":
		out := ast.NewNode(ast.TypeTuple, LangPython)
		p.walkChildren(node, out)
		return out

	case "set":
		out := ast.NewNode(ast.TypeSet, LangPython)
		p.walkChildren(node, out)
		return out

	case "dictionary":
		out := ast.NewNode(ast.TypeDict, LangPython)
		p.walkChildren(node, out)
		return out

	default:
		// Unrecognized grammar nodes pass through as opaque containers.
		out := ast.NewNode(node.Type(), LangPython)
		p.walkChildren(node, out)
		return out
	}
}

func (p pythonNormalizer) walkChildren(node *sitter.Node, out *ast.Node) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out.AddChild(p.walk(child))
	}
}

func (p pythonNormalizer) assignment(node *sitter.Node, nodeType string) *ast.Node {
	out := ast.NewNode(nodeType, LangPython)
	left := p.walk(node.ChildByFieldName("left"))
	markStore(left)
	out.AddChild(left)
	out.AddChild(p.walk(node.ChildByFieldName("right")))
	return out
}

// markStore flips the context role of every identifier in an assignment
// target subtree.
func markStore(node *ast.Node) {
	if node == nil {
		return
	}
	if node.Type == ast.TypeName {
		node.Set(ast.KeyCtx, ast.CtxStore)
	}
	for _, child := range node.Children {
		markStore(child)
	}
}

// importedName resolves the module path of a dotted_name or aliased_import
// entry inside an import statement.
func (p pythonNormalizer) importedName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "dotted_name", "relative_import":
		return p.text(node)
	case "aliased_import":
		return p.text(node.ChildByFieldName("name"))
	}
	return ""
}

func (p pythonNormalizer) classBases(superclasses *sitter.Node) []string {
	if superclasses == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(superclasses.NamedChildCount()); i++ {
		child := superclasses.NamedChild(i)
		if child.Type() == "keyword_argument" {
			continue
		}
		if base := p.dottedName(child); base != "" {
			bases = append(bases, base)
		}
	}
	return bases
}

// dottedName resolves an identifier or attribute chain to a dotted string
// whenever statically derivable ("foo", "app.get", "self.helper"). For an
// attribute whose base is not a plain identifier (e.g. a call), the
// resolvable suffix is returned.
func (p pythonNormalizer) dottedName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	var parts []string
	current := node
	for current != nil && current.Type() == "attribute" {
		parts = append([]string{p.text(current.ChildByFieldName("attribute"))}, parts...)
		current = current.ChildByFieldName("object")
	}
	if current != nil && current.Type() == "identifier" {
		parts = append([]string{p.text(current)}, parts...)
	}
	return strings.Join(parts, ".")
}

func (p pythonNormalizer) collectDecorators(node *sitter.Node) []ast.Annotation {
	var decorators []ast.Annotation
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		expr := child.NamedChild(0)
		if expr == nil {
			continue
		}
		if decorator, ok := p.serializeDecorator(expr); ok {
			decorators = append(decorators, decorator)
		}
	}
	return decorators
}

// serializeDecorator lowers a decorator expression into the Annotation
// payload: dotted name, positional literal args and keyword literal map.
// Decorators whose name cannot be resolved are dropped.
func (p pythonNormalizer) serializeDecorator(expr *sitter.Node) (ast.Annotation, bool) {
	if expr.Type() == "call" {
		name := p.dottedName(expr.ChildByFieldName("function"))
		if name == "" {
			return ast.Annotation{}, false
		}
		decorator := ast.Annotation{Name: name}
		arguments := expr.ChildByFieldName("arguments")
		if arguments != nil {
			for i := 0; i < int(arguments.NamedChildCount()); i++ {
				arg := arguments.NamedChild(i)
				if arg.Type() == "keyword_argument" {
					key := p.text(arg.ChildByFieldName("name"))
					if key == "" {
						continue
					}
					if decorator.Keywords == nil {
						decorator.Keywords = make(map[string]any)
					}
					decorator.Keywords[key] = p.literalValue(arg.ChildByFieldName("value"))
					continue
				}
				decorator.Args = append(decorator.Args, p.literalValue(arg))
			}
		}
		return decorator, true
	}
	name := p.dottedName(expr)
	if name == "" {
		return ast.Annotation{}, false
	}
	return ast.Annotation{Name: name}, true
}

// literalValue resolves a literal expression to its value: strings with
// quotes stripped, numbers, booleans, lists/tuples/sets as []any, dicts as
// string-keyed maps, identifiers and attribute chains as dotted strings.
// Non-literal expressions resolve to nil and are treated as absent.
func (p pythonNormalizer) literalValue(node *sitter.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "string", "concatenated_string":
		return stripPythonString(p.text(node))
	case "integer":
		if value, err := strconv.Atoi(p.text(node)); err == nil {
			return value
		}
		return p.text(node)
	case "float":
		if value, err := strconv.ParseFloat(p.text(node), 64); err == nil {
			return value
		}
		return p.text(node)
	case "true":
		return true
	case "false":
		return false
	case "list", "tuple", "set":
		values := make([]any, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			values = append(values, p.literalValue(node.NamedChild(i)))
		}
		return values
	case "dictionary":
		values := make(map[string]any)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			pair := node.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			key, ok := p.literalValue(pair.ChildByFieldName("key")).(string)
			if !ok {
				continue
			}
			values[key] = p.literalValue(pair.ChildByFieldName("value"))
		}
		return values
	case "identifier":
		return p.text(node)
	case "attribute":
		if dotted := p.dottedName(node); dotted != "" {
			return dotted
		}
		return nil
	}
	return nil
}

// stripPythonString removes string prefixes (r, b, f, u in any case) and
// the surrounding single, double or triple quotes from a string literal.
func stripPythonString(literal string) string {
	trimmed := strings.TrimLeft(literal, "rRbBfFuU")
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(trimmed, quote) && strings.HasSuffix(trimmed, quote) && len(trimmed) >= 2*len(quote) {
			return trimmed[len(quote) : len(trimmed)-len(quote)]
		}
	}
	return trimmed
}
