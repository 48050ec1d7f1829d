package audit

import (
	"context"
	"testing"

	"refaudit/internal/config"
	"refaudit/internal/parser"
)

// stubGateway is the synchronous in-memory gateway used across the audit
// unit tests.
type stubGateway struct {
	files []*parser.File
	lines map[string][]string
	refs  map[string][]parser.ReferenceSite
}

func (g *stubGateway) Files(ctx context.Context) []*parser.File { return g.files }

func (g *stubGateway) SourceLine(ctx context.Context, path string, line int) (string, bool) {
	lines, ok := g.lines[path]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

func (g *stubGateway) EnclosingScope(ctx context.Context, loc parser.Location) (*parser.Scope, bool) {
	for _, f := range g.files {
		if f.Path != loc.File {
			continue
		}
		var best *parser.Scope
		for _, s := range f.Scopes {
			if !s.Contains(loc.Offset) {
				continue
			}
			if best == nil || (s.End-s.Start) < (best.End-best.Start) {
				best = s
			}
		}
		if best != nil {
			return best, true
		}
	}
	return nil, false
}

func (g *stubGateway) FindReferences(ctx context.Context, d *parser.Declaration) []parser.ReferenceSite {
	return g.refs[d.ID]
}

func (g *stubGateway) Extractor() parser.Extractor { return &parser.GoExtractor{} }

func constDecl(id, name string) *parser.Declaration {
	return &parser.Declaration{
		ID:            id,
		Name:          name,
		Kind:          parser.KindConstField,
		Access:        parser.AccessPublic,
		Namespace:     "app",
		Type:          "A",
		StatementText: "const " + name + " = 1",
		Complete:      true,
		SiblingCount:  1,
	}
}

func methodDecl(id, name string, access parser.Accessibility) *parser.Declaration {
	return &parser.Declaration{
		ID:            id,
		Name:          name,
		Kind:          parser.KindMethod,
		Access:        access,
		Namespace:     "app",
		Type:          "A",
		StatementText: "func (A) " + name + "()",
		Complete:      true,
		SiblingCount:  1,
	}
}

func TestCollectDedup(t *testing.T) {
	gw := &stubGateway{files: []*parser.File{
		{Path: "a.src", Declarations: []*parser.Declaration{constDecl("app.A.Foo", "Foo")}},
		{Path: "a2.src", Declarations: []*parser.Declaration{constDecl("app.A.Foo", "Foo")}},
	}}

	records := Collect(context.Background(), gw, config.Default(), NewLogBuffer(nil))
	if len(records) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(records))
	}
	if records[0].QualifiedName() != "app.A.Foo" {
		t.Errorf("unexpected qualified name %q", records[0].QualifiedName())
	}
}

func TestCollectKindFilter(t *testing.T) {
	gw := &stubGateway{files: []*parser.File{{
		Path: "a.src",
		Declarations: []*parser.Declaration{
			constDecl("app.A.Foo", "Foo"),
			methodDecl("app.A.Bar()", "Bar", parser.AccessPublic),
		},
	}}}

	cfg := config.Default()
	cfg.Audit.Kinds = []string{"const"}

	records := Collect(context.Background(), gw, cfg, NewLogBuffer(nil))
	if len(records) != 1 || records[0].Kind != parser.KindConstField {
		t.Fatalf("expected only the constant field, got %d records", len(records))
	}
}

func TestCollectProtectedThreshold(t *testing.T) {
	gw := &stubGateway{files: []*parser.File{{
		Path: "a.src",
		Declarations: []*parser.Declaration{
			methodDecl("app.A.Open()", "Open", parser.AccessPublic),
			methodDecl("app.A.guard()", "guard", parser.AccessProtected),
		},
	}}}

	cfg := config.Default()
	records := Collect(context.Background(), gw, cfg, NewLogBuffer(nil))
	if len(records) != 1 {
		t.Fatalf("expected protected method excluded by default, got %d records", len(records))
	}

	cfg.Audit.IncludeProtected = true
	records = Collect(context.Background(), gw, cfg, NewLogBuffer(nil))
	if len(records) != 2 {
		t.Fatalf("expected protected method included, got %d records", len(records))
	}
}

func TestCollectSkipsAccessors(t *testing.T) {
	accessor := methodDecl("app.A.GetName()", "GetName", parser.AccessPublic)
	accessor.Accessor = true

	gw := &stubGateway{files: []*parser.File{{
		Path:         "a.src",
		Declarations: []*parser.Declaration{accessor},
	}}}

	cfg := config.Default()
	cfg.Audit.SkipAccessors = true
	if records := Collect(context.Background(), gw, cfg, NewLogBuffer(nil)); len(records) != 0 {
		t.Fatalf("expected accessor excluded, got %d records", len(records))
	}

	cfg.Audit.SkipAccessors = false
	if records := Collect(context.Background(), gw, cfg, NewLogBuffer(nil)); len(records) != 1 {
		t.Fatalf("expected accessor audited when skipping is off, got %d records", len(records))
	}
}

func TestCollectLogsDeclarations(t *testing.T) {
	gw := &stubGateway{files: []*parser.File{{
		Path:         "a.src",
		Declarations: []*parser.Declaration{constDecl("app.A.Foo", "Foo")},
	}}}

	log := NewLogBuffer(nil)
	Collect(context.Background(), gw, config.Default(), log)

	lines := log.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected two log lines per declaration, got %d", len(lines))
	}
	if lines[0] != "ConstField app.A.Foo [Public]" {
		t.Errorf("unexpected declaration line %q", lines[0])
	}
	if lines[1] != "  const Foo = 1" {
		t.Errorf("unexpected text line %q", lines[1])
	}
}
