package model

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"refaudit/internal/config"
	"refaudit/internal/core/errors"
	"refaudit/internal/parser"
	"refaudit/internal/shared/observability"
)

// Model is the loaded program model of one workspace: every parsed file of
// the configured dialect with its declarations, scopes, and use sites.
type Model struct {
	dialect   parser.DialectSpec
	extractor parser.Extractor
	files     []*parser.File // sorted by path; the model's canonical order
	byPath    map[string]*parser.File
	lines     map[string][]string
}

// Open loads the workspace rooted at the descriptor path. Files that fail to
// parse are skipped with a warning; only an unreadable root is fatal.
func Open(ctx context.Context, cfg *config.Config, root string) (*Model, error) {
	ctx, span := observability.Tracer.Start(ctx, "model.Open")
	defer span.End()

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "workspace path not found")
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}

	spec, ok := parser.DialectRegistry()[cfg.Dialect]
	if !ok {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("unknown dialect %q", cfg.Dialect))
	}

	p := parser.NewParser(parser.NewGrammarLoader())
	p.RegisterExtractor("go", &parser.GoExtractor{})
	p.RegisterExtractor("java", &parser.JavaExtractor{})

	extractor, _ := p.Extractor(cfg.Dialect)

	m := &Model{
		dialect:   spec,
		extractor: extractor,
		byPath:    make(map[string]*parser.File),
		lines:     make(map[string][]string),
	}

	paths, err := scanWorkspace(root, spec, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read file", "path", path, "error", err)
			observability.FilesSkipped.Inc()
			continue
		}
		file, err := p.ParseFile(cfg.Dialect, path, content)
		if err != nil {
			slog.Warn("failed to parse file", "path", path, "error", err)
			observability.FilesSkipped.Inc()
			continue
		}
		m.files = append(m.files, file)
		m.byPath[path] = file
		m.lines[path] = strings.Split(string(content), "\n")
	}

	sort.Slice(m.files, func(i, j int) bool { return m.files[i].Path < m.files[j].Path })

	return m, nil
}

func scanWorkspace(root string, spec parser.DialectSpec, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude dir pattern %q", pattern))
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude file pattern %q", pattern))
		}
		fileGlobs = append(fileGlobs, g)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)

		if d.IsDir() {
			for _, g := range dirGlobs {
				if g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !parser.MatchesDialect(spec, path) {
			return nil
		}
		for _, g := range fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			abs = path
		}
		files = append(files, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (m *Model) Files(ctx context.Context) []*parser.File {
	return m.files
}

func (m *Model) FileCount() int {
	return len(m.files)
}

func (m *Model) Extractor() parser.Extractor {
	return m.extractor
}

// SourceLine returns the raw physical source line, 1-based.
func (m *Model) SourceLine(ctx context.Context, path string, line int) (string, bool) {
	lines, ok := m.lines[path]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// EnclosingScope resolves the innermost declaration span containing the
// location, or false when the location sits outside every known scope.
func (m *Model) EnclosingScope(ctx context.Context, loc parser.Location) (*parser.Scope, bool) {
	file, ok := m.byPath[loc.File]
	if !ok {
		return nil, false
	}

	var best *parser.Scope
	for _, s := range file.Scopes {
		if !s.Contains(loc.Offset) {
			continue
		}
		if best == nil || (s.End-s.Start) < (best.End-best.Start) {
			best = s
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
