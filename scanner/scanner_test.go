package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingdoc/analysis-core/output"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestScanner() *Scanner {
	return New(output.NewLoggerWithWriter(output.VerbosityDefault, os.Stderr))
}

func TestScanDirCollectsArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", `
from flask import Flask
app = Flask(__name__)

@app.route("/hello", methods=["GET", "POST"])
def hello_route():
    return greet()

def greet():
    return "hi"
`)
	writeFile(t, dir, "src/Controller.java", `
package com.example;

import org.springframework.web.bind.annotation.RestController;
import org.springframework.web.bind.annotation.GetMapping;

@RestController
public class Controller {
    @GetMapping("/status")
    public String status() {
        return "ok";
    }
}
`)
	writeFile(t, dir, "README.md", "not source")

	s := newTestScanner()
	artifacts, err := s.ScanDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Stats().FilesScanned)
	assert.Zero(t, s.Stats().ParseErrors)

	symbolNames := make([]string, 0, len(artifacts.Symbols))
	for _, symbol := range artifacts.Symbols {
		symbolNames = append(symbolNames, symbol.Name)
	}
	assert.Contains(t, symbolNames, "hello_route")
	assert.Contains(t, symbolNames, "com.example.Controller.status")

	require.Len(t, artifacts.APIEndpoints, 3)
	frameworks := make(map[string]int)
	for _, endpoint := range artifacts.APIEndpoints {
		frameworks[endpoint.Framework]++
	}
	assert.Equal(t, 2, frameworks["flask"])
	assert.Equal(t, 1, frameworks["spring"])
}

// A file that fails to parse is skipped and the scan continues; partial
// ASTs are never stored.
func TestScanDirSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.py", "def broken(:\n")
	writeFile(t, dir, "ok.py", "def fine():\n    pass\n")

	s := newTestScanner()
	artifacts, err := s.ScanDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Stats().FilesScanned)
	assert.Equal(t, 1, s.Stats().ParseErrors)
	require.Len(t, artifacts.Symbols, 1)
	assert.Equal(t, "fine", artifacts.Symbols[0].Name)
}

// C sources are parsed but produce no semantic output.
func TestScanFileCSourceAcceptedWithoutArtifacts(t *testing.T) {
	s := newTestScanner()
	s.ScanFile(context.Background(), "lib.c", []byte("int main(void) { return 0; }\n"))

	assert.Equal(t, 1, s.Stats().FilesScanned)
	snapshot := s.Snapshot()
	assert.Empty(t, snapshot.Symbols)
	assert.Empty(t, snapshot.Relations)
}

func TestScanFileUnsupportedExtensionSkipped(t *testing.T) {
	s := newTestScanner()
	s.ScanFile(context.Background(), "notes.txt", []byte("hello"))
	assert.Zero(t, s.Stats().FilesScanned)
	assert.Equal(t, 1, s.Stats().FilesSkipped)
}

func TestScanDirSkipsHiddenAndVendorDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".git/config.py", "x = 1\n")
	writeFile(t, dir, "__pycache__/cached.py", "x = 1\n")
	writeFile(t, dir, "kept.py", "x = 1\n")

	s := newTestScanner()
	_, err := s.ScanDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().FilesScanned)
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestScanner()
	s.ScanFile(context.Background(), "m.py", []byte("def f():\n    pass\n"))

	first := s.Snapshot()
	first.Symbols[0].Name = "mutated"
	second := s.Snapshot()
	assert.Equal(t, "f", second.Symbols[0].Name)
}
