package apidetect

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// FlaskDetector recognizes Flask route decorators: any decorator whose
// dotted name ends in ".route" or equals "route". Paths come from
// positional literals or the rule/path/url keywords; methods from the
// methods keyword, defaulting to GET. One endpoint is emitted per
// path x method pair.
type FlaskDetector struct{}

func (d *FlaskDetector) Framework() string { return "flask" }

func (d *FlaskDetector) Detect(root *ast.Node, filePath string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	walkFunctions(root, nil, func(fn *ast.Node, className string) {
		for _, decorator := range ast.AnnotationsOf(fn) {
			if !d.isRouteDecorator(decorator) {
				continue
			}
			methods := d.methods(decorator)
			if len(methods) == 0 {
				methods = []string{"GET"}
			}
			for _, path := range d.paths(decorator) {
				for _, method := range methods {
					endpoints = append(endpoints, artifact.ApiEndpoint{
						Path:        path,
						HTTPMethod:  strings.ToUpper(method),
						HandlerName: handlerName(fn),
						ClassName:   className,
						Language:    parser.LangPython,
						FilePath:    filePath,
						Framework:   d.Framework(),
						Metadata:    map[string]any{"decorator": decorator},
					})
				}
			}
		}
	})
	return endpoints
}

func (d *FlaskDetector) isRouteDecorator(decorator ast.Annotation) bool {
	return decorator.Name == "route" || strings.HasSuffix(decorator.Name, ".route")
}

func (d *FlaskDetector) paths(decorator ast.Annotation) []string {
	var paths []string
	for _, arg := range decorator.Args {
		if path := literalString(arg); path != "" {
			paths = append(paths, path)
		}
	}
	for _, key := range []string{"rule", "path", "url"} {
		if path := literalString(decorator.Keyword(key)); path != "" {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return []string{"/"}
	}
	return paths
}

func (d *FlaskDetector) methods(decorator ast.Annotation) []string {
	return literalStrings(decorator.Keyword("methods"))
}

func handlerName(fn *ast.Node) string {
	if fn.Name == "" {
		return "<anonymous>"
	}
	return fn.Name
}
