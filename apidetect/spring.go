package apidetect

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

// springMappings maps mapping-annotation short names to HTTP methods; an
// empty value means the method must be resolved from the annotation's
// "method" element (RequestMapping).
var springMappings = map[string]string{
	"GetMapping":     "GET",
	"PostMapping":    "POST",
	"PutMapping":     "PUT",
	"DeleteMapping":  "DELETE",
	"PatchMapping":   "PATCH",
	"RequestMapping": "",
}

var springControllers = map[string]bool{
	"RestController": true,
	"Controller":     true,
}

// SpringDetector walks class declarations annotated @RestController or
// @Controller and emits one endpoint per mapping annotation on their
// methods. Method paths are joined onto the class-level mapping path with
// de-duplicated slashes; RequestMapping without a method element defaults
// to GET.
type SpringDetector struct{}

func (d *SpringDetector) Framework() string { return "spring" }

func (d *SpringDetector) Detect(root *ast.Node, filePath string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	d.walk(root, filePath, "", "", &endpoints)
	return endpoints
}

func (d *SpringDetector) walk(node *ast.Node, filePath, currentClass, classPath string, acc *[]artifact.ApiEndpoint) {
	nextClass := currentClass
	nextClassPath := classPath

	if node.Type == ast.TypeClassDeclaration && node.Name != "" {
		annotations := ast.AnnotationsOf(node)
		if d.hasControllerAnnotation(annotations) {
			nextClass = node.Name
			nextClassPath = d.classLevelPath(annotations)
		}
	}

	if node.Type == ast.TypeMethodDeclaration && node.Name != "" && currentClass != "" {
		*acc = append(*acc, d.methodEndpoints(node, filePath, currentClass, classPath)...)
	}

	for _, child := range node.Children {
		d.walk(child, filePath, nextClass, nextClassPath, acc)
	}
}

func (d *SpringDetector) methodEndpoints(node *ast.Node, filePath, handlerClass, classPath string) []artifact.ApiEndpoint {
	var endpoints []artifact.ApiEndpoint
	for _, annotation := range ast.AnnotationsOf(node) {
		method, mapped := springMappings[annotation.ShortName()]
		if !mapped {
			continue
		}
		if method == "" {
			method = d.requestMappingMethod(annotation)
		}
		if method == "" {
			method = "GET"
		}
		for _, path := range d.paths(annotation) {
			if classPath != "" {
				path = joinRoutePaths(classPath, path)
			}
			endpoints = append(endpoints, artifact.ApiEndpoint{
				Path:        path,
				HTTPMethod:  method,
				HandlerName: node.Name,
				ClassName:   handlerClass,
				Language:    parser.LangJava,
				FilePath:    filePath,
				Framework:   d.Framework(),
				Metadata:    map[string]any{"annotation": annotation},
			})
		}
	}
	return endpoints
}

func (d *SpringDetector) hasControllerAnnotation(annotations []ast.Annotation) bool {
	for _, annotation := range annotations {
		if springControllers[annotation.ShortName()] {
			return true
		}
	}
	return false
}

func (d *SpringDetector) classLevelPath(annotations []ast.Annotation) string {
	for _, annotation := range annotations {
		if _, mapped := springMappings[annotation.ShortName()]; !mapped {
			continue
		}
		if paths := d.paths(annotation); len(paths) > 0 && paths[0] != "/" {
			return paths[0]
		}
	}
	return ""
}

func (d *SpringDetector) paths(annotation ast.Annotation) []string {
	var paths []string
	for _, arg := range annotation.Args {
		paths = append(paths, literalStrings(arg)...)
	}
	for _, key := range []string{"value", "path"} {
		paths = append(paths, literalStrings(annotation.Keyword(key))...)
	}
	if len(paths) == 0 {
		return []string{"/"}
	}
	return paths
}

func (d *SpringDetector) requestMappingMethod(annotation ast.Annotation) string {
	switch value := annotation.Keyword("method").(type) {
	case string:
		return strings.ToUpper(value)
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok {
				return strings.ToUpper(s)
			}
		}
	}
	return ""
}

// joinRoutePaths joins a class-level and a method-level mapping path with
// a single slash.
func joinRoutePaths(parent, child string) string {
	parent = strings.TrimRight(parent, "/")
	if parent == "" {
		parent = "/"
	}
	child = strings.TrimLeft(child, "/")
	if child == "" {
		return parent
	}
	if parent == "/" {
		return "/" + child
	}
	return parent + "/" + child
}
