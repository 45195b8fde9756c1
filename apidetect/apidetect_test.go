package apidetect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/ast"
	"github.com/livingdoc/analysis-core/parser"
)

func parseSource(t *testing.T, language, source string) *ast.Node {
	t.Helper()
	root, err := parser.NewManager().ParseAs(context.Background(), language, []byte(source))
	require.NoError(t, err)
	return root
}

func TestFlaskRouteWithMethodsList(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
from flask import Flask
app = Flask(__name__)

@app.route("/hello", methods=["GET", "POST"])
def hello_route():
    return "hi"
`)
	endpoints := (&FlaskDetector{}).Detect(root, "app.py")
	require.Len(t, endpoints, 2)

	assert.Equal(t, "/hello", endpoints[0].Path)
	assert.Equal(t, "GET", endpoints[0].HTTPMethod)
	assert.Equal(t, "hello_route", endpoints[0].HandlerName)
	assert.Equal(t, "", endpoints[0].ClassName)
	assert.Equal(t, "flask", endpoints[0].Framework)
	assert.Equal(t, parser.LangPython, endpoints[0].Language)

	assert.Equal(t, "/hello", endpoints[1].Path)
	assert.Equal(t, "POST", endpoints[1].HTTPMethod)
}

func TestFlaskRouteDefaultsToGet(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@app.route("/ping")
def ping():
    return "pong"
`)
	endpoints := (&FlaskDetector{}).Detect(root, "app.py")
	require.Len(t, endpoints, 1)
	assert.Equal(t, "GET", endpoints[0].HTTPMethod)
}

func TestFlaskRouteFromRuleKeyword(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@app.route(rule="/kw")
def kw():
    return ""
`)
	endpoints := (&FlaskDetector{}).Detect(root, "app.py")
	require.Len(t, endpoints, 1)
	assert.Equal(t, "/kw", endpoints[0].Path)
}

func TestFastAPIRouterPatch(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@router.patch("/users/{user_id}")
async def update_user(user_id):
    pass
`)
	endpoints := (&FastAPIDetector{}).Detect(root, "api.py")
	require.Len(t, endpoints, 1)
	assert.Equal(t, "/users/{user_id}", endpoints[0].Path)
	assert.Equal(t, "PATCH", endpoints[0].HTTPMethod)
	assert.Equal(t, "update_user", endpoints[0].HandlerName)
	assert.Equal(t, "fastapi", endpoints[0].Framework)
}

func TestFastAPIDefaultPath(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@app.get()
def index():
    pass
`)
	endpoints := (&FastAPIDetector{}).Detect(root, "api.py")
	require.Len(t, endpoints, 1)
	assert.Equal(t, "/", endpoints[0].Path)
	assert.Equal(t, "GET", endpoints[0].HTTPMethod)
}

func TestFastAPIIgnoresRouteDecorator(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@app.route("/hello")
def hello():
    pass
`)
	assert.Empty(t, (&FastAPIDetector{}).Detect(root, "api.py"))
}

func TestDjangoURLPatternsClassBasedView(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
from django.urls import path
from . import views

urlpatterns = [
    path("items/<int:item_id>/", views.ItemDetailView.as_view(), name="item-detail"),
]
`)
	endpoints := (&DjangoDetector{}).Detect(root, "urls.py")
	require.Len(t, endpoints, 1)

	endpoint := endpoints[0]
	assert.Equal(t, "/items/<int:item_id>/", endpoint.Path)
	assert.Equal(t, "ANY", endpoint.HTTPMethod)
	assert.Equal(t, "views.ItemDetailView.as_view", endpoint.HandlerName)
	assert.Equal(t, "views.ItemDetailView", endpoint.ClassName)
	assert.Equal(t, "django", endpoint.Framework)
	assert.Equal(t, "item-detail", endpoint.Metadata["route_name"])
	assert.Equal(t, "path", endpoint.Metadata["resolver"])
}

func TestDjangoAugmentedAndDirectAssignments(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
urlpatterns = [
    path("a/", views.a_view),
]
urlpatterns += [
    re_path("^b/$", views.b_view),
]
`)
	endpoints := (&DjangoDetector{}).Detect(root, "urls.py")
	require.Len(t, endpoints, 2)
	assert.Equal(t, "/a/", endpoints[0].Path)
	assert.Equal(t, "views.a_view", endpoints[0].HandlerName)
	assert.Equal(t, "", endpoints[0].ClassName)
	assert.Equal(t, "^b/$", endpoints[1].Path)
}

func TestDjangoIgnoresOtherAssignments(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
routes = [
    path("a/", views.a_view),
]
`)
	assert.Empty(t, (&DjangoDetector{}).Detect(root, "urls.py"))
}

func TestSpringControllerMappings(t *testing.T) {
	root := parseSource(t, parser.LangJava, `
package com.example.web;

import org.springframework.web.bind.annotation.*;

@RestController
@RequestMapping("/api")
public class SampleSpringController {

    @GetMapping("/status")
    public String status() {
        return "ok";
    }

    @RequestMapping(value = "/legacy", method = RequestMethod.PUT)
    public String legacy() {
        return "legacy";
    }
}
`)
	endpoints := (&SpringDetector{}).Detect(root, "SampleSpringController.java")
	require.Len(t, endpoints, 2)

	assert.Equal(t, "/api/status", endpoints[0].Path)
	assert.Equal(t, "GET", endpoints[0].HTTPMethod)
	assert.Equal(t, "status", endpoints[0].HandlerName)
	assert.Equal(t, "SampleSpringController", endpoints[0].ClassName)
	assert.Equal(t, "spring", endpoints[0].Framework)
	assert.Equal(t, parser.LangJava, endpoints[0].Language)

	assert.Equal(t, "/api/legacy", endpoints[1].Path)
	assert.Equal(t, "PUT", endpoints[1].HTTPMethod)
	assert.Equal(t, "legacy", endpoints[1].HandlerName)
}

func TestSpringIgnoresUnannotatedClass(t *testing.T) {
	root := parseSource(t, parser.LangJava, `
package com.example;

public class Plain {
    @GetMapping("/hidden")
    public String hidden() {
        return "";
    }
}
`)
	assert.Empty(t, (&SpringDetector{}).Detect(root, "Plain.java"))
}

func TestManagerRunsAllDetectorsForLanguage(t *testing.T) {
	root := parseSource(t, parser.LangPython, `
@app.route("/hello")
def hello():
    pass
`)
	endpoints := NewManager().Detect(root, "app.py", parser.LangPython)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "flask", endpoints[0].Framework)

	var none []artifact.ApiEndpoint
	assert.Equal(t, none, NewManager().Detect(root, "app.c", parser.LangC))
}

func TestJoinRoutePaths(t *testing.T) {
	assert.Equal(t, "/api/status", joinRoutePaths("/api", "/status"))
	assert.Equal(t, "/api/status", joinRoutePaths("/api/", "status"))
	assert.Equal(t, "/api", joinRoutePaths("/api", ""))
	assert.Equal(t, "/status", joinRoutePaths("/", "/status"))
}
