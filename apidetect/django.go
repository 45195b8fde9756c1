package apidetect

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// DjangoDetector crawls assignments to the identifier "urlpatterns"
// (plain, augmented, annotated, and direct single-call assignment) and
// emits one endpoint per path/re_path/url call found in the assigned
// sequence, recursively. Django's method set is not statically knowable
// from the URLconf, so http_method is the sentinel "ANY".
type DjangoDetector struct{}

var djangoResolvers = map[string]bool{
	"path":    true,
	"re_path": true,
	"url":     true,
}

func (d *DjangoDetector) Framework() string { return "django" }

func (d *DjangoDetector) Detect(root *ast.Node, filePath string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	for _, call := range d.collectURLPatternCalls(root) {
		if endpoint, ok := d.callToEndpoint(call, filePath); ok {
			endpoints = append(endpoints, endpoint)
		}
	}
	return endpoints
}

func (d *DjangoDetector) collectURLPatternCalls(root *ast.Node) []*ast.Node {
	var calls []*ast.Node
	var visit func(node *ast.Node)
	visit = func(node *ast.Node) {
		calls = append(calls, d.callsFromAssignment(node)...)
		for _, child := range node.Children {
			visit(child)
		}
	}
	visit(root)
	return calls
}

func (d *DjangoDetector) callsFromAssignment(node *ast.Node) []*ast.Node {
	switch node.Type {
	case ast.TypeAssign, ast.TypeAnnAssign, ast.TypeAugAssign:
	default:
		return nil
	}
	if !d.targetsURLPatterns(node) {
		return nil
	}

	var sequences []*ast.Node
	for _, child := range node.Children {
		if child.Type == ast.TypeList || child.Type == ast.TypeTuple {
			sequences = append(sequences, child)
		}
	}

	// Direct assignment like urlpatterns = path(...).
	if node.Type == ast.TypeAssign && len(sequences) == 0 {
		var calls []*ast.Node
		for _, child := range node.Children {
			if child.Type == ast.TypeCall {
				calls = append(calls, child)
			}
		}
		return calls
	}

	var calls []*ast.Node
	for _, sequence := range sequences {
		calls = append(calls, d.extractCalls(sequence)...)
	}
	return calls
}

func (d *DjangoDetector) targetsURLPatterns(node *ast.Node) bool {
	for _, child := range node.Children {
		if child.Type != ast.TypeName {
			continue
		}
		if child.Metadata.String(ast.KeyID) == "urlpatterns" {
			return true
		}
	}
	return false
}

func (d *DjangoDetector) extractCalls(sequence *ast.Node) []*ast.Node {
	var calls []*ast.Node
	for _, child := range sequence.Children {
		switch child.Type {
		case ast.TypeCall:
			calls = append(calls, child)
		case ast.TypeList, ast.TypeTuple:
			calls = append(calls, d.extractCalls(child)...)
		}
	}
	return calls
}

func (d *DjangoDetector) callToEndpoint(call *ast.Node, filePath string) (artifact.ApiEndpoint, bool) {
	funcName := call.Metadata.String(ast.KeyFunc)
	if funcName == "" {
		return artifact.ApiEndpoint{}, false
	}
	basename := funcName
	if idx := strings.LastIndex(funcName, "."); idx >= 0 {
		basename = funcName[idx+1:]
	}
	if !djangoResolvers[basename] {
		return artifact.ApiEndpoint{}, false
	}

	args, keywords := d.splitCallArguments(call)
	if len(args) == 0 {
		return artifact.ApiEndpoint{}, false
	}

	path, ok := d.literalValue(args[0]).(string)
	if !ok {
		return artifact.ApiEndpoint{}, false
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "^") {
		path = "/" + path
	}

	handler := ""
	if len(args) > 1 {
		if value, ok := d.literalValue(args[1]).(string); ok {
			handler = value
		}
	}
	className := ""
	if strings.HasSuffix(handler, ".as_view") {
		className = strings.TrimSuffix(handler, ".as_view")
	}

	metadata := map[string]any{"resolver": funcName}
	if routeName, ok := d.keywordValues(keywords)["name"]; ok {
		metadata["route_name"] = routeName
	}
	if handler != "" {
		metadata["view"] = handler
	} else {
		handler = "<anonymous>"
	}

	return artifact.ApiEndpoint{
		Path:        path,
		HTTPMethod:  "ANY",
		HandlerName: handler,
		ClassName:   className,
		Language:    parser.LangPython,
		FilePath:    filePath,
		Framework:   d.Framework(),
		Metadata:    metadata,
	}, true
}

// splitCallArguments separates a call node's children into positional
// arguments and keyword nodes. The first Name/Attribute child is the
// callable itself and is skipped.
func (d *DjangoDetector) splitCallArguments(call *ast.Node) (args, keywords []*ast.Node) {
	seenCallable := false
	for _, child := range call.Children {
		if !seenCallable && (child.Type == ast.TypeName || child.Type == ast.TypeAttribute) {
			seenCallable = true
			continue
		}
		if child.Type == ast.TypeKeyword {
			keywords = append(keywords, child)
			continue
		}
		args = append(args, child)
	}
	return args, keywords
}

func (d *DjangoDetector) keywordValues(keywords []*ast.Node) map[string]any {
	values := make(map[string]any)
	for _, node := range keywords {
		arg := node.Metadata.String(ast.KeyArg)
		if arg == "" {
			continue
		}
		for _, child := range node.Children {
			if value := d.literalValue(child); value != nil {
				values[arg] = value
				break
			}
		}
	}
	return values
}

func (d *DjangoDetector) literalValue(node *ast.Node) any {
	if node == nil {
		return nil
	}
	if node.Metadata.Has(ast.KeyValue) {
		return node.Metadata[ast.KeyValue]
	}
	switch node.Type {
	case ast.TypeList, ast.TypeTuple:
		var values []any
		for _, child := range node.Children {
			if value := d.literalValue(child); value != nil {
				values = append(values, value)
			}
		}
		return values
	case ast.TypeName:
		if id := node.Metadata.String(ast.KeyID); id != "" {
			return id
		}
		if node.Name != "" {
			return node.Name
		}
		return nil
	case ast.TypeAttribute:
		for _, child := range node.Children {
			if literal, ok := d.literalValue(child).(string); ok && literal != "" {
				if node.Name != "" {
					return literal + "." + node.Name
				}
				return literal
			}
		}
		return nil
	case ast.TypeCall:
		if funcName := node.Metadata.String(ast.KeyFunc); funcName != "" {
			return funcName
		}
		return nil
	}
	return nil
}
