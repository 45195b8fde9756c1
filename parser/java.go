package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/livingdoc/analysis-core/ast"
)

// normalizeJava lowers a tree-sitter Java parse tree into the shared
// schema. Node types follow javac-style naming (ClassDeclaration,
// MethodInvocation, PackageDeclaration, ...) so Java and Python trees are
// walked by the same analyzer machinery.
//
// Annotations are serialized into metadata rather than emitted as
// children, and parameter lists are dropped, mirroring the Python
// normalizer's treatment of decorators and defaults.
func normalizeJava(node *sitter.Node, source []byte) *ast.Node {
	j := javaNormalizer{source: source}
	return j.walk(node)
}

type javaNormalizer struct {
	source []byte
}

func (j javaNormalizer) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(j.source)
}

func (j javaNormalizer) walk(node *sitter.Node) *ast.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "program":
		out := ast.NewNode(ast.TypeCompilationUnit, LangJava)
		j.walkChildren(node, out)
		return out

	case "package_declaration":
		out := ast.NewNode(ast.TypePackageDeclaration, LangJava)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
				out.Name = j.text(child)
				out.Set(ast.KeyName, out.Name)
				break
			}
		}
		return out

	case "import_declaration":
		out := ast.NewNode(ast.TypeImportDeclaration, LangJava)
		path := ""
		wildcard := false
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "scoped_identifier", "identifier":
				path = j.text(child)
			case "asterisk":
				wildcard = true
			}
		}
		if wildcard && path != "" {
			path += ".*"
		}
		if path != "" {
			out.Name = path
			out.Set(ast.KeyPath, path)
		}
		return out

	case "class_declaration":
		return j.typeDeclaration(node, ast.TypeClassDeclaration)
	case "interface_declaration":
		return j.typeDeclaration(node, ast.TypeInterfaceDeclaration)
	case "enum_declaration":
		return j.typeDeclaration(node, ast.TypeEnumDeclaration)
	case "annotation_type_declaration":
		return j.typeDeclaration(node, ast.TypeAnnotationDeclaration)

	case "method_declaration":
		return j.callableDeclaration(node, ast.TypeMethodDeclaration)
	case "constructor_declaration":
		return j.callableDeclaration(node, ast.TypeConstructorDeclaration)

	case "method_invocation":
		out := ast.NewNode(ast.TypeMethodInvocation, LangJava)
		out.Name = j.text(node.ChildByFieldName("name"))
		out.Set(ast.KeyName, out.Name)
		if qualifier := j.dottedName(node.ChildByFieldName("object")); qualifier != "" {
			out.Set(ast.KeyQualifier, qualifier)
		}
		out.AddChild(j.walk(node.ChildByFieldName("object")))
		j.walkChildren(node.ChildByFieldName("arguments"), out)
		return out

	case "explicit_constructor_invocation":
		out := ast.NewNode(ast.TypeExplicitConstructorCall, LangJava)
		out.Name = j.text(node.ChildByFieldName("constructor"))
		out.Set(ast.KeyName, out.Name)
		j.walkChildren(node.ChildByFieldName("arguments"), out)
		return out

	case "object_creation_expression":
		out := ast.NewNode(ast.TypeClassCreator, LangJava)
		out.Name = j.text(node.ChildByFieldName("type"))
		j.walkChildren(node.ChildByFieldName("arguments"), out)
		return out

	case "string_literal":
		out := ast.NewNode(ast.TypeConstant, LangJava)
		out.Set(ast.KeyValue, strings.Trim(j.text(node), `"`))
		return out

	case "decimal_integer_literal":
		out := ast.NewNode(ast.TypeConstant, LangJava)
		if value, err := strconv.Atoi(j.text(node)); err == nil {
			out.Set(ast.KeyValue, value)
		} else {
			out.Set(ast.KeyValue, j.text(node))
		}
		return out

	case "true", "false":
		out := ast.NewNode(ast.TypeConstant, LangJava)
		out.Set(ast.KeyValue, node.Type() == "true")
		return out

	case "identifier":
		out := ast.NewNode(ast.TypeIdentifier, LangJava)
		out.Name = j.text(node)
		out.Set(ast.KeyName, out.Name)
		return out

	case "field_access":
		out := ast.NewNode(ast.TypeFieldAccess, LangJava)
		field := j.text(node.ChildByFieldName("field"))
		out.Name = field
		if dotted := j.dottedName(node); dotted != "" {
			out.Set(ast.KeyValue, dotted)
		}
		return out

	default:
		// Unrecognized grammar nodes pass through as opaque containers.
		out := ast.NewNode(node.Type(), LangJava)
		j.walkChildren(node, out)
		return out
	}
}

func (j javaNormalizer) walkChildren(node *sitter.Node, out *ast.Node) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment", "line_comment", "block_comment":
			continue
		}
		out.AddChild(j.walk(child))
	}
}

// typeDeclaration lowers class-like declarations: name, annotations from
// the modifiers child, bases from superclass/interfaces, children from the
// body only.
func (j javaNormalizer) typeDeclaration(node *sitter.Node, nodeType string) *ast.Node {
	out := ast.NewNode(nodeType, LangJava)
	out.Name = j.text(node.ChildByFieldName("name"))
	if annotations := j.collectAnnotations(node); len(annotations) > 0 {
		out.Set(ast.KeyAnnotations, annotations)
	}
	if bases := j.classBases(node); len(bases) > 0 {
		out.Set(ast.KeyBases, bases)
	}
	j.walkChildren(node.ChildByFieldName("body"), out)
	return out
}

func (j javaNormalizer) callableDeclaration(node *sitter.Node, nodeType string) *ast.Node {
	out := ast.NewNode(nodeType, LangJava)
	out.Name = j.text(node.ChildByFieldName("name"))
	if annotations := j.collectAnnotations(node); len(annotations) > 0 {
		out.Set(ast.KeyAnnotations, annotations)
	}
	j.walkChildren(node.ChildByFieldName("body"), out)
	return out
}

func (j javaNormalizer) classBases(node *sitter.Node) []string {
	var bases []string
	if superclass := node.ChildByFieldName("superclass"); superclass != nil {
		for i := 0; i < int(superclass.NamedChildCount()); i++ {
			bases = append(bases, j.text(superclass.NamedChild(i)))
		}
	}
	if interfaces := node.ChildByFieldName("interfaces"); interfaces != nil {
		for i := 0; i < int(interfaces.NamedChildCount()); i++ {
			list := interfaces.NamedChild(i)
			for k := 0; k < int(list.NamedChildCount()); k++ {
				bases = append(bases, j.text(list.NamedChild(k)))
			}
		}
	}
	return bases
}

// collectAnnotations serializes the annotations found on a declaration's
// modifiers child. Arrays under the default "value" element are flattened
// into the positional args, matching how mapping annotations list paths.
func (j javaNormalizer) collectAnnotations(node *sitter.Node) []ast.Annotation {
	var annotations []ast.Annotation
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		for k := 0; k < int(child.NamedChildCount()); k++ {
			modifier := child.NamedChild(k)
			switch modifier.Type() {
			case "marker_annotation", "annotation":
				if annotation, ok := j.serializeAnnotation(modifier); ok {
					annotations = append(annotations, annotation)
				}
			}
		}
	}
	return annotations
}

func (j javaNormalizer) serializeAnnotation(node *sitter.Node) (ast.Annotation, bool) {
	name := j.text(node.ChildByFieldName("name"))
	if name == "" {
		return ast.Annotation{}, false
	}
	annotation := ast.Annotation{Name: name}
	arguments := node.ChildByFieldName("arguments")
	if arguments == nil {
		return annotation, true
	}
	for i := 0; i < int(arguments.NamedChildCount()); i++ {
		entry := arguments.NamedChild(i)
		if entry.Type() == "element_value_pair" {
			key := j.text(entry.ChildByFieldName("key"))
			value := j.literalValue(entry.ChildByFieldName("value"))
			if key == "value" {
				annotation.Args = appendFlattened(annotation.Args, value)
				continue
			}
			if key != "" && value != nil {
				if annotation.Keywords == nil {
					annotation.Keywords = make(map[string]any)
				}
				annotation.Keywords[key] = value
			}
			continue
		}
		annotation.Args = appendFlattened(annotation.Args, j.literalValue(entry))
	}
	return annotation, true
}

// appendFlattened appends a literal to the positional args, splicing list
// values so {"a", "b"} contributes two entries.
func appendFlattened(args []any, value any) []any {
	switch v := value.(type) {
	case nil:
		return args
	case []any:
		return append(args, v...)
	default:
		return append(args, v)
	}
}

// literalValue resolves an annotation element value. Member references on
// RequestMethod resolve to the uppercase method name so mapping
// annotations yield HTTP verbs directly; other references resolve to their
// dotted form. Non-literal expressions resolve to nil.
func (j javaNormalizer) literalValue(node *sitter.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "string_literal":
		return strings.Trim(j.text(node), `"`)
	case "decimal_integer_literal":
		if value, err := strconv.Atoi(j.text(node)); err == nil {
			return value
		}
		return j.text(node)
	case "true":
		return true
	case "false":
		return false
	case "identifier":
		return j.text(node)
	case "field_access":
		qualifier := j.dottedName(node.ChildByFieldName("object"))
		field := j.text(node.ChildByFieldName("field"))
		if strings.EqualFold(qualifier, "RequestMethod") && field != "" {
			return strings.ToUpper(field)
		}
		if qualifier != "" && field != "" {
			return qualifier + "." + field
		}
		if qualifier != "" {
			return qualifier
		}
		if field != "" {
			return field
		}
		return nil
	case "element_value_array_initializer":
		values := make([]any, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if value := j.literalValue(node.NamedChild(i)); value != nil {
				values = append(values, value)
			}
		}
		return values
	case "annotation", "marker_annotation":
		if nested, ok := j.serializeAnnotation(node); ok {
			return nested
		}
		return nil
	}
	return nil
}

// dottedName resolves an identifier or field-access chain to a dotted
// string. this/super resolve to their keyword text; expressions that are
// not a static chain resolve to "".
func (j javaNormalizer) dottedName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "identifier", "this", "super":
		return j.text(node)
	case "field_access":
		object := j.dottedName(node.ChildByFieldName("object"))
		field := j.text(node.ChildByFieldName("field"))
		if object != "" && field != "" {
			return object + "." + field
		}
		if field != "" {
			return field
		}
		return object
	case "scoped_identifier":
		return j.text(node)
	}
	return ""
}
