package extractor

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

func isJavaClassNode(nodeType string) bool {
	switch nodeType {
	case ast.TypeClassDeclaration, ast.TypeInterfaceDeclaration, ast.TypeEnumDeclaration, ast.TypeAnnotationDeclaration:
		return true
	}
	return false
}

func isJavaCallableNode(nodeType string) bool {
	return nodeType == ast.TypeMethodDeclaration || nodeType == ast.TypeConstructorDeclaration
}

func isJavaCallNode(nodeType string) bool {
	switch nodeType {
	case ast.TypeMethodInvocation, "SuperMethodInvocation", ast.TypeExplicitConstructorCall:
		return true
	}
	return false
}

// javaQualify joins package, context names and an optional own name into
// the canonical dotted identity.
func javaQualify(pkg string, context scopeStack, name string) string {
	parts := make([]string, 0, len(context)+2)
	parts = append(parts, pkg)
	for _, entry := range context {
		parts = append(parts, entry.name)
	}
	parts = append(parts, name)
	return ast.JoinDotted(parts...)
}

// javaIdentifier resolves a Java node to an identifier using the Java
// metadata key order, preferring an explicit qualifier prefix on
// invocations.
func javaIdentifier(node *ast.Node) string {
	if node == nil {
		return ""
	}
	if node.Name != "" {
		if qualifier := node.Metadata.String(ast.KeyQualifier); qualifier != "" {
			return qualifier + "." + node.Name
		}
		return node.Name
	}
	if node.Metadata != nil {
		base := ""
		for _, key := range []string{ast.KeyName, ast.KeyPath, ast.KeyValue} {
			if value := node.Metadata.String(key); value != "" {
				base = value
				break
			}
		}
		qualifier := node.Metadata.String(ast.KeyQualifier)
		if base != "" {
			if qualifier != "" {
				return qualifier + "." + base
			}
			return base
		}
		if qualifier != "" {
			return qualifier
		}
	}
	if len(node.Children) > 0 {
		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			if value := javaIdentifier(child); value != "" {
				parts = append(parts, value)
			}
		}
		if len(parts) > 0 {
			return ast.JoinDotted(parts...)
		}
	}
	return ""
}

// JavaSymbolAnalyzer emits class and method symbols. The context stack
// starts with the package harvested from the file's PackageDeclaration;
// constructors are modeled as methods. A package discovered mid-tree is
// propagated to later siblings through the traversal's return value.
type JavaSymbolAnalyzer struct{}

func (a *JavaSymbolAnalyzer) Symbols(root *ast.Node, filePath string) []artifact.Symbol {
	var symbols []artifact.Symbol
	a.walk(root, filePath, nil, "", &symbols)
	return symbols
}

func (a *JavaSymbolAnalyzer) walk(node *ast.Node, filePath string, context scopeStack, pkg string, acc *[]artifact.Symbol) string {
	currentPkg := pkg
	next := context

	switch {
	case node.Type == ast.TypePackageDeclaration:
		if name := javaIdentifier(node); name != "" {
			currentPkg = name
		}
	case isJavaClassNode(node.Type) && node.Name != "":
		parent := javaQualify(currentPkg, context, "")
		if parent == "" {
			parent = currentPkg
		}
		*acc = append(*acc, artifact.Symbol{
			Name:       javaQualify(currentPkg, context, node.Name),
			SymbolType: artifact.SymbolClass,
			Language:   parser.LangJava,
			FilePath:   filePath,
			Parent:     parent,
		})
		next = context.push(node.Name, node.Type)
	case isJavaCallableNode(node.Type) && node.Name != "":
		*acc = append(*acc, artifact.Symbol{
			Name:       javaQualify(currentPkg, context, node.Name),
			SymbolType: artifact.SymbolMethod,
			Language:   parser.LangJava,
			FilePath:   filePath,
			Parent:     javaQualify(currentPkg, context, ""),
		})
	}

	for _, child := range node.Children {
		if childPkg := a.walk(child, filePath, next, currentPkg, acc); childPkg != "" && childPkg != currentPkg {
			currentPkg = childPkg
		}
	}
	return currentPkg
}

// JavaImportAnalyzer emits one IMPORTS relation per import declaration,
// sourced from the file path, and a single DEFINES relation from the file
// to its declared package.
type JavaImportAnalyzer struct{}

func (a *JavaImportAnalyzer) Relations(root *ast.Node, filePath string) []artifact.Relation {
	var relations []artifact.Relation
	a.walk(root, filePath, "", &relations)
	return relations
}

func (a *JavaImportAnalyzer) walk(node *ast.Node, filePath, pkg string, acc *[]artifact.Relation) string {
	currentPkg := pkg

	switch node.Type {
	case ast.TypePackageDeclaration:
		if name := javaIdentifier(node); name != "" && name != pkg {
			currentPkg = name
			*acc = append(*acc, artifact.Relation{
				Source:       filePath,
				Target:       name,
				RelationType: artifact.RelationDefines,
				Language:     parser.LangJava,
				FilePath:     filePath,
			})
		}
	case ast.TypeImportDeclaration, "Import":
		if target := javaIdentifier(node); target != "" {
			*acc = append(*acc, artifact.Relation{
				Source:       filePath,
				Target:       target,
				RelationType: artifact.RelationImports,
				Language:     parser.LangJava,
				FilePath:     filePath,
			})
		}
	}

	for _, child := range node.Children {
		if childPkg := a.walk(child, filePath, currentPkg, acc); childPkg != "" && childPkg != currentPkg {
			currentPkg = childPkg
		}
	}
	return currentPkg
}

// JavaCallAnalyzer emits CALLS relations from method invocations. The
// caller is the nearest enclosing method's qualified name; callees without
// an existing package or dotted qualifier are prefixed with the current
// package.
type JavaCallAnalyzer struct{}

func (a *JavaCallAnalyzer) Relations(root *ast.Node, filePath string) []artifact.Relation {
	var relations []artifact.Relation
	a.walk(root, filePath, nil, "", "", &relations)
	return relations
}

func (a *JavaCallAnalyzer) walk(node *ast.Node, filePath string, context scopeStack, pkg, currentCallable string, acc *[]artifact.Relation) string {
	currentPkg := pkg
	next := context
	nextCallable := currentCallable

	switch {
	case node.Type == ast.TypePackageDeclaration:
		if name := javaIdentifier(node); name != "" {
			currentPkg = name
		}
	case isJavaClassNode(node.Type) && node.Name != "":
		next = context.push(node.Name, node.Type)
	case isJavaCallableNode(node.Type) && node.Name != "":
		nextCallable = javaQualify(currentPkg, context, node.Name)
	}

	if isJavaCallNode(node.Type) {
		caller := nextCallable
		if caller == "" {
			caller = javaQualify(currentPkg, context, "")
		}
		if caller == "" {
			caller = filePath
		}
		if callee := javaIdentifier(node); callee != "" {
			*acc = append(*acc, artifact.Relation{
				Source:       caller,
				Target:       qualifyCallTarget(currentPkg, callee),
				RelationType: artifact.RelationCalls,
				Language:     parser.LangJava,
				FilePath:     filePath,
			})
		}
	}

	for _, child := range node.Children {
		if childPkg := a.walk(child, filePath, next, currentPkg, nextCallable, acc); childPkg != "" && childPkg != currentPkg {
			currentPkg = childPkg
		}
	}
	return currentPkg
}

// qualifyCallTarget prepends the current package to callees that are
// neither already package-qualified nor dotted.
func qualifyCallTarget(pkg, callee string) string {
	if pkg == "" {
		return callee
	}
	if strings.HasPrefix(callee, pkg+".") {
		return callee
	}
	if strings.Contains(callee, ".") {
		return callee
	}
	return pkg + "." + callee
}
