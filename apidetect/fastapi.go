package apidetect

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// fastAPIMethods maps decorator suffixes to HTTP methods.
var fastAPIMethods = map[string]string{
	"get":     "GET",
	"post":    "POST",
	"put":     "PUT",
	"delete":  "DELETE",
	"patch":   "PATCH",
	"options": "OPTIONS",
	"head":    "HEAD",
}

// FastAPIDetector recognizes FastAPI/router verb decorators such as
// @app.get or @router.patch. The HTTP method is the uppercased decorator
// suffix; the path comes from positional literals or the
// path/url/route/rule keywords, defaulting to "/".
type FastAPIDetector struct{}

func (d *FastAPIDetector) Framework() string { return "fastapi" }

func (d *FastAPIDetector) Detect(root *ast.Node, filePath string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	walkFunctions(root, nil, func(fn *ast.Node, className string) {
		for _, decorator := range ast.AnnotationsOf(fn) {
			method := d.httpMethod(decorator)
			if method == "" {
				continue
			}
			for _, path := range d.paths(decorator) {
				endpoints = append(endpoints, artifact.ApiEndpoint{
					Path:        path,
					HTTPMethod:  method,
					HandlerName: handlerName(fn),
					ClassName:   className,
					Language:    parser.LangPython,
					FilePath:    filePath,
					Framework:   d.Framework(),
					Metadata:    map[string]any{"decorator": decorator},
				})
			}
		}
	})
	return endpoints
}

func (d *FastAPIDetector) httpMethod(decorator ast.Annotation) string {
	for suffix, method := range fastAPIMethods {
		if decorator.Name == suffix || strings.HasSuffix(decorator.Name, "."+suffix) {
			return method
		}
	}
	return ""
}

func (d *FastAPIDetector) paths(decorator ast.Annotation) []string {
	var paths []string
	for _, arg := range decorator.Args {
		if path := literalString(arg); path != "" {
			paths = append(paths, path)
		}
	}
	for _, key := range []string{"path", "url", "route", "rule"} {
		if path := literalString(decorator.Keyword(key)); path != "" {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return []string{"/"}
	}
	return paths
}
