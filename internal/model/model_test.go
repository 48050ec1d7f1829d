package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"refaudit/internal/config"
	"refaudit/internal/parser"
)

func writeFixture(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", rel, err)
	}
	return abs
}

func openGoWorkspace(t *testing.T, files map[string]string) (*Model, map[string]string) {
	t.Helper()
	root := t.TempDir()
	abs := make(map[string]string, len(files))
	for rel, content := range files {
		abs[rel] = writeFixture(t, root, rel, content)
	}

	cfg := config.Default()
	cfg.Dialect = "go"

	m, err := Open(context.Background(), cfg, root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m, abs
}

func TestOpenSortsFilesByPath(t *testing.T) {
	m, _ := openGoWorkspace(t, map[string]string{
		"b.go": "package demo\n",
		"a.go": "package demo\n",
		"c.go": "package demo\n",
	})

	files := m.Files(context.Background())
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].Path >= files[i].Path {
			t.Errorf("files out of order: %s before %s", files[i-1].Path, files[i].Path)
		}
	}
}

func TestOpenSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "a.go", "package demo\n")
	writeFixture(t, root, "vendor/dep.go", "package dep\n")

	cfg := config.Default()
	cfg.Dialect = "go"
	cfg.Exclude.Dirs = []string{"vendor"}

	m, err := Open(context.Background(), cfg, root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.FileCount() != 1 {
		t.Fatalf("expected vendor to be excluded, got %d files", m.FileCount())
	}
}

func TestOpenMissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Dialect = "go"

	if _, err := Open(context.Background(), cfg, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing workspace root")
	}
}

func TestSourceLine(t *testing.T) {
	m, abs := openGoWorkspace(t, map[string]string{
		"a.go": "package demo\n\nconst Answer = 42\n",
	})

	line, ok := m.SourceLine(context.Background(), abs["a.go"], 3)
	if !ok {
		t.Fatal("expected line 3 to resolve")
	}
	if line != "const Answer = 42" {
		t.Errorf("unexpected line text: %q", line)
	}

	if _, ok := m.SourceLine(context.Background(), abs["a.go"], 99); ok {
		t.Error("expected out-of-range line to miss")
	}
	if _, ok := m.SourceLine(context.Background(), "nope.go", 1); ok {
		t.Error("expected unknown file to miss")
	}
}

func TestFindReferencesBareConstSamePackage(t *testing.T) {
	m, abs := openGoWorkspace(t, map[string]string{
		"a.go": "package demo\n\nconst Answer = 42\n",
		"b.go": "package demo\n\nfunc Consume() int {\n\treturn Answer + 1\n}\n",
	})

	decl := findDecl(t, m, "Answer")
	sites := m.FindReferences(context.Background(), decl)
	if len(sites) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(sites))
	}
	site := sites[0]
	if site.Location.File != abs["b.go"] || site.Location.Line != 4 {
		t.Errorf("unexpected site location: %s:%d", site.Location.File, site.Location.Line)
	}

	scope, ok := m.EnclosingScope(context.Background(), site.Location)
	if !ok {
		t.Fatal("expected site to fall inside a scope")
	}
	if scope.Kind != parser.ScopeFunction || scope.Name != "Consume" {
		t.Errorf("unexpected scope: kind=%d name=%q", scope.Kind, scope.Name)
	}
}

func TestFindReferencesQualifiedConstCrossPackage(t *testing.T) {
	m, _ := openGoWorkspace(t, map[string]string{
		"a.go":        "package demo\n\nconst Answer = 42\n",
		"sub/c.go":    "package other\n\nfunc Use() int {\n\treturn demo.Answer\n}\n",
		"sub/d.go":    "package other\n\nfunc Miss() int {\n\treturn conf.Answer\n}\n",
		"sub/bare.go": "package other\n\nfunc Bare() int {\n\treturn Answer\n}\n",
	})

	decl := findDecl(t, m, "Answer")
	sites := m.FindReferences(context.Background(), decl)

	// Only the demo-qualified use counts: a foreign qualifier fails the
	// package check, and a bare name in another package is a different symbol.
	if len(sites) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(sites))
	}
	if sites[0].Qualifier != "demo" {
		t.Errorf("unexpected qualifier %q", sites[0].Qualifier)
	}
}

func TestFindReferencesMethodByName(t *testing.T) {
	m, abs := openGoWorkspace(t, map[string]string{
		"a.go": "package demo\n\ntype Widget struct{}\n\nfunc (w *Widget) Render() string {\n\treturn \"w\"\n}\n",
		"b.go": "package demo\n\nfunc Draw() string {\n\tw := Widget{}\n\treturn w.Render()\n}\n",
	})

	decl := findDecl(t, m, "Render")
	sites := m.FindReferences(context.Background(), decl)
	if len(sites) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(sites))
	}
	if sites[0].Location.File != abs["b.go"] || sites[0].Location.Line != 5 {
		t.Errorf("unexpected site location: %s:%d", sites[0].Location.File, sites[0].Location.Line)
	}
}

func TestFindReferencesSkipsOwnNameToken(t *testing.T) {
	m, _ := openGoWorkspace(t, map[string]string{
		"a.go": "package demo\n\nconst Orphan = 1\n",
	})

	decl := findDecl(t, m, "Orphan")
	if sites := m.FindReferences(context.Background(), decl); len(sites) != 0 {
		t.Fatalf("expected no references, got %d", len(sites))
	}
}

func TestEnclosingScopePicksInnermost(t *testing.T) {
	m, _ := openGoWorkspace(t, map[string]string{
		"a.go": "package demo\n\nconst Answer = 42\n",
		"b.go": "package demo\n\nfunc Outer() {\n\tf := func() int {\n\t\treturn Answer\n\t}\n\t_ = f\n}\n",
	})

	decl := findDecl(t, m, "Answer")
	sites := m.FindReferences(context.Background(), decl)
	if len(sites) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(sites))
	}

	scope, ok := m.EnclosingScope(context.Background(), sites[0].Location)
	if !ok {
		t.Fatal("expected a scope")
	}
	if scope.Kind != parser.ScopeLocalFunc {
		t.Errorf("expected local-function scope, got kind=%d", scope.Kind)
	}
	if scope.Name != "Outer" {
		t.Errorf("expected local function to carry enclosing name, got %q", scope.Name)
	}
}

func findDecl(t *testing.T, m *Model, name string) *parser.Declaration {
	t.Helper()
	for _, f := range m.Files(context.Background()) {
		for _, d := range f.Declarations {
			if d.Name == name {
				return d
			}
		}
	}
	t.Fatalf("declaration %q not found", name)
	return nil
}
