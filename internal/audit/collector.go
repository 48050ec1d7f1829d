package audit

import (
	"context"

	"refaudit/internal/config"
	"refaudit/internal/parser"
	"refaudit/internal/shared/observability"
)

// Collect walks every parsed file and selects the declarations matching the
// configured kind/visibility predicate, deduplicated by symbol identity.
func Collect(ctx context.Context, gw Gateway, cfg *config.Config, log *LogBuffer) []*DeclarationRecord {
	ctx, span := observability.Tracer.Start(ctx, "audit.Collect")
	defer span.End()

	kinds := make(map[string]bool, len(cfg.Audit.Kinds))
	for _, k := range cfg.Audit.Kinds {
		kinds[k] = true
	}

	seen := make(map[string]bool)
	var records []*DeclarationRecord

	for _, file := range gw.Files(ctx) {
		for _, d := range file.Declarations {
			if !selects(d, kinds, cfg.Audit) {
				continue
			}
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true

			rec := &DeclarationRecord{
				Kind:      d.Kind,
				Access:    d.Access,
				Namespace: d.Namespace,
				Type:      d.Type,
				Text:      RenderDeclaration(gw.Extractor(), d),
				Sym:       d,
			}
			records = append(records, rec)

			observability.DeclarationsCollected.WithLabelValues(d.Kind.String()).Inc()
			log.Printf("%s %s [%s]", rec.Kind, rec.QualifiedName(), rec.Access)
			log.Printf("  %s", rec.Text)
		}
	}

	return records
}

// selects applies the kind/accessibility predicate. Constant fields are
// always public-only; the protected tier applies to methods when enabled.
func selects(d *parser.Declaration, kinds map[string]bool, audit config.Audit) bool {
	switch d.Kind {
	case parser.KindConstField:
		return kinds["const"] && d.Access == parser.AccessPublic
	case parser.KindMethod:
		if !kinds["method"] {
			return false
		}
		if audit.SkipAccessors && d.Accessor {
			return false
		}
		if d.Access == parser.AccessProtected {
			return audit.IncludeProtected
		}
		return d.Access == parser.AccessPublic
	}
	return false
}
