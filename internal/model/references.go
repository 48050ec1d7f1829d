package model

import (
	"context"
	"strings"

	"refaudit/internal/parser"
	"refaudit/internal/shared/observability"
)

// FindReferences returns every use site of the symbol, in the model's
// canonical order: files sorted by path, sites in source byte order. The
// declaration's own name token is never a use of itself.
func (m *Model) FindReferences(ctx context.Context, d *parser.Declaration) []parser.ReferenceSite {
	ctx, span := observability.Tracer.Start(ctx, "model.FindReferences")
	defer span.End()

	var sites []parser.ReferenceSite
	for _, file := range m.files {
		for _, site := range file.Sites {
			if matches(d, site, file) {
				sites = append(sites, site)
			}
		}
	}
	return sites
}

// matches applies the gateway's name-based cross-reference rules. The model
// is syntactic: qualified constant uses must name the declaring type (or the
// declaring package for package-level constants), bare uses must share the
// declaration's namespace, and method calls match on name alone because the
// receiver's type is not recoverable from syntax.
func matches(d *parser.Declaration, site parser.ReferenceSite, f *parser.File) bool {
	if site.Name != d.Name {
		return false
	}
	if site.Location.File == d.Location.File && site.Location.Offset == d.NameOffset {
		return false
	}

	q := site.Qualifier
	if q == "" {
		return f.Namespace == d.Namespace
	}

	if d.Kind == parser.KindMethod {
		return true
	}

	simple := d.Type
	if i := strings.LastIndex(simple, "."); i >= 0 {
		simple = simple[i+1:]
	}
	if simple != "" && (q == simple || strings.HasSuffix(q, "."+simple)) {
		return true
	}
	// Package-level constants qualified by their package name.
	return d.Type == "" && q == d.Namespace
}
