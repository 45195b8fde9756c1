// Package scanner drives the per-file analysis pipeline over a source
// tree: parse, normalize, extract symbols and relations, detect API
// endpoints, and accumulate everything in the artifact store.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/livingdoc/analysis-core/apidetect"
	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/extractor"
	"github.com/livingdoc/analysis-core/output"
	"github.com/livingdoc/analysis-core/parser"
)

// skipDirs are directory names never descended into during a scan.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"target":       true,
}

// Stats counts the outcome of one scan.
type Stats struct {
	FilesScanned int
	FilesSkipped int
	ParseErrors  int
}

// Scanner wires the pipeline components together. The artifact store is
// the only mutable state; everything else is stateless per file.
type Scanner struct {
	parsers    *parser.Manager
	extractors *extractor.Manager
	detectors  *apidetect.Manager
	store      *artifact.Store
	log        *output.Logger
	stats      Stats
}

// New creates a scanner with the full default component set.
func New(log *output.Logger) *Scanner {
	if log == nil {
		log = output.NewLogger(output.VerbosityDefault)
	}
	return &Scanner{
		parsers:    parser.NewManager(),
		extractors: extractor.NewManager(),
		detectors:  apidetect.NewManager(),
		store:      artifact.NewStore(),
		log:        log,
	}
}

// Stats returns the counters of the scan so far.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Snapshot returns an independent copy of the artifacts collected so far.
func (s *Scanner) Snapshot() artifact.Artifacts {
	return s.store.Snapshot()
}

// ScanDir walks root and runs the pipeline over every supported source
// file. Unsupported extensions are silently dropped; files that fail to
// parse are logged and skipped. The returned snapshot is independent of
// the scanner's store.
func (s *Scanner) ScanDir(ctx context.Context, root string) (artifact.Artifacts, error) {
	stop := s.log.StartTiming("scan")
	defer stop()

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if skipDirs[entry.Name()] || (strings.HasPrefix(entry.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, supported := parser.DetectLanguage(path); !supported {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			s.log.Warning("reading %s: %v", path, err)
			s.stats.FilesSkipped++
			return nil
		}
		s.ScanFile(ctx, relativeTo(root, path), source)
		return nil
	})
	if err != nil {
		return artifact.Artifacts{}, fmt.Errorf("walking %s: %w", root, err)
	}

	s.log.Statistic("Scanned %d files (%d skipped, %d parse errors)",
		s.stats.FilesScanned, s.stats.FilesSkipped, s.stats.ParseErrors)
	return s.store.Snapshot(), nil
}

// ScanFile runs the pipeline over one file's source. Parse failures and
// unsupported languages are counted and skipped; a single bad file never
// aborts a scan.
func (s *Scanner) ScanFile(ctx context.Context, filePath string, source []byte) {
	language, ok := parser.DetectLanguage(filePath)
	if !ok {
		s.stats.FilesSkipped++
		return
	}

	root, err := s.parsers.ParseSource(ctx, filePath, source)
	if err != nil {
		if errors.Is(err, parser.ErrParseFailed) {
			s.log.Warning("skipping %s: %v", filePath, err)
			s.stats.ParseErrors++
		} else {
			s.stats.FilesSkipped++
		}
		return
	}

	result, err := s.extractors.Analyze(root, filePath, language)
	if err != nil && !errors.Is(err, extractor.ErrUnsupportedLanguage) {
		s.log.Warning("analyzing %s: %v", filePath, err)
	}
	if len(result.Symbols) > 0 {
		s.store.AddSymbols(result.Symbols...)
	}
	if len(result.Relations) > 0 {
		s.store.AddRelations(result.Relations...)
	}

	if endpoints := s.detectors.Detect(root, filePath, language); len(endpoints) > 0 {
		s.store.AddAPIEndpoints(endpoints...)
	}

	s.stats.FilesScanned++
	s.log.Debug("scanned %s: %d symbols, %d relations", filePath, len(result.Symbols), len(result.Relations))
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
