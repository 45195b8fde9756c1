package extractor

import (
	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

func isPythonScope(nodeType string) bool {
	switch nodeType {
	case ast.TypeClassDef, ast.TypeFunctionDef, ast.TypeAsyncFunctionDef:
		return true
	}
	return false
}

func isPythonCallable(nodeType string) bool {
	return nodeType == ast.TypeFunctionDef || nodeType == ast.TypeAsyncFunctionDef
}

// PythonSymbolAnalyzer emits class, function and method symbols from a
// single pre-order traversal. Async functions are treated identically to
// regular functions; a function with any class ancestor on the context
// stack is a method.
type PythonSymbolAnalyzer struct{}

func (a *PythonSymbolAnalyzer) Symbols(root *ast.Node, filePath string) []artifact.Symbol {
	var symbols []artifact.Symbol
	a.walk(root, filePath, nil, &symbols)
	return symbols
}

func (a *PythonSymbolAnalyzer) walk(node *ast.Node, filePath string, context scopeStack, acc *[]artifact.Symbol) {
	next := context
	switch {
	case node.Type == ast.TypeClassDef:
		*acc = append(*acc, artifact.Symbol{
			Name:       context.qualified(node.Name),
			SymbolType: artifact.SymbolClass,
			Language:   parser.LangPython,
			FilePath:   filePath,
			Parent:     context.qualified(""),
		})
		if node.Name != "" {
			next = context.push(node.Name, node.Type)
		}
	case isPythonCallable(node.Type):
		symbolType := artifact.SymbolFunction
		for _, entry := range context {
			if entry.nodeType == ast.TypeClassDef {
				symbolType = artifact.SymbolMethod
				break
			}
		}
		*acc = append(*acc, artifact.Symbol{
			Name:       context.qualified(node.Name),
			SymbolType: symbolType,
			Language:   parser.LangPython,
			FilePath:   filePath,
			Parent:     context.qualified(""),
		})
		if node.Name != "" {
			next = context.push(node.Name, node.Type)
		}
	}
	for _, child := range node.Children {
		a.walk(child, filePath, next, acc)
	}
}

// PythonImportAnalyzer emits one IMPORTS relation per imported target.
// "from M import a, b" yields targets M.a and M.b; the relation source is
// the enclosing scope's qualified name, or the file path at module scope.
type PythonImportAnalyzer struct{}

func (a *PythonImportAnalyzer) Relations(root *ast.Node, filePath string) []artifact.Relation {
	var relations []artifact.Relation
	a.walk(root, filePath, nil, &relations)
	return relations
}

func (a *PythonImportAnalyzer) walk(node *ast.Node, filePath string, context scopeStack, acc *[]artifact.Relation) {
	next := context
	switch node.Type {
	case ast.TypeImport, ast.TypeImportFrom:
		source := context.qualified("")
		if source == "" {
			source = filePath
		}
		for _, target := range a.targets(node) {
			*acc = append(*acc, artifact.Relation{
				Source:       source,
				Target:       target,
				RelationType: artifact.RelationImports,
				Language:     parser.LangPython,
				FilePath:     filePath,
			})
		}
	default:
		if isPythonScope(node.Type) && node.Name != "" {
			next = context.push(node.Name, node.Type)
		}
	}
	for _, child := range node.Children {
		a.walk(child, filePath, next, acc)
	}
}

func (a *PythonImportAnalyzer) targets(node *ast.Node) []string {
	module := node.Metadata.String(ast.KeyModule)
	var targets []string
	seen := make(map[string]bool)
	add := func(target string) {
		if target != "" && !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}
	for _, name := range node.Metadata.Strings(ast.KeyModules) {
		if module != "" && name != module {
			add(ast.JoinDotted(module, name))
		} else {
			add(name)
		}
	}
	for _, child := range node.Children {
		if child.Type != ast.TypeAlias || child.Name == "" {
			continue
		}
		if module != "" && child.Name != module {
			add(ast.JoinDotted(module, child.Name))
		} else {
			add(child.Name)
		}
	}
	return targets
}

// PythonCallAnalyzer emits CALLS relations. The caller is the nearest
// enclosing callable's qualified name, or the file path at module scope.
// Self-references are allowed at extraction time; graph loaders filter
// them downstream so raw relations stay faithful to the source.
type PythonCallAnalyzer struct{}

func (a *PythonCallAnalyzer) Relations(root *ast.Node, filePath string) []artifact.Relation {
	var relations []artifact.Relation
	a.walk(root, filePath, nil, "", &relations)
	return relations
}

func (a *PythonCallAnalyzer) walk(node *ast.Node, filePath string, context scopeStack, currentCallable string, acc *[]artifact.Relation) {
	next := context
	nextCallable := currentCallable

	if isPythonScope(node.Type) && node.Name != "" {
		if isPythonCallable(node.Type) {
			nextCallable = context.qualified(node.Name)
		}
		next = context.push(node.Name, node.Type)
	}

	if node.Type == ast.TypeCall {
		caller := nextCallable
		if caller == "" {
			caller = filePath
		}
		if callee := a.callTarget(node); callee != "" {
			*acc = append(*acc, artifact.Relation{
				Source:       caller,
				Target:       callee,
				RelationType: artifact.RelationCalls,
				Language:     parser.LangPython,
				FilePath:     filePath,
			})
		}
	}

	for _, child := range node.Children {
		a.walk(child, filePath, next, nextCallable, acc)
	}
}

func (a *PythonCallAnalyzer) callTarget(node *ast.Node) string {
	for _, key := range []string{ast.KeyFunc, "qualified_name", ast.KeyName, ast.KeyID, ast.KeyValue} {
		if value := node.Metadata.String(key); value != "" {
			return value
		}
	}
	for _, child := range node.Children {
		if value := extractIdentifier(child, ast.KeyName, ast.KeyID, ast.KeyValue, ast.KeyAttr); value != "" {
			return value
		}
	}
	return ""
}
