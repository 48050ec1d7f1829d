package audit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"refaudit/internal/parser"
)

// Gateway is the program-model contract the audit depends on. The production
// implementation is internal/model; tests substitute an in-memory fake.
type Gateway interface {
	Files(ctx context.Context) []*parser.File
	SourceLine(ctx context.Context, path string, line int) (string, bool)
	EnclosingScope(ctx context.Context, loc parser.Location) (*parser.Scope, bool)
	FindReferences(ctx context.Context, d *parser.Declaration) []parser.ReferenceSite
	Extractor() parser.Extractor
}

// DeclarationRecord is one audited declaration with its canonical text.
// Immutable after collection.
type DeclarationRecord struct {
	Kind      parser.SymbolKind
	Access    parser.Accessibility
	Namespace string
	Type      string
	Text      string

	Sym *parser.Declaration
}

// QualifiedName is the record's display name for logs and summaries.
func (r *DeclarationRecord) QualifiedName() string {
	parts := make([]string, 0, 3)
	if r.Namespace != "" {
		parts = append(parts, r.Namespace)
	}
	if r.Type != "" {
		parts = append(parts, r.Type)
	}
	parts = append(parts, r.Sym.Name)
	return strings.Join(parts, ".")
}

// ReferenceRecord is one resolved use of a declaration. Built lazily and
// immediately flattened into report rows.
type ReferenceRecord struct {
	Namespace string
	Type      string
	Member    string
	Line      int
	Code      string
	File      string
}

// LogBuffer is the single-owner human log of one run. Lines accumulate in
// order and are mirrored to the writer as they are emitted.
type LogBuffer struct {
	lines  []string
	mirror io.Writer
}

func NewLogBuffer(mirror io.Writer) *LogBuffer {
	return &LogBuffer{mirror: mirror}
}

func (b *LogBuffer) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	b.lines = append(b.lines, line)
	if b.mirror != nil {
		fmt.Fprintln(b.mirror, line)
	}
}

func (b *LogBuffer) Lines() []string {
	return b.lines
}

func (b *LogBuffer) String() string {
	return strings.Join(b.lines, "\n")
}
