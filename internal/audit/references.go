package audit

import (
	"context"

	"refaudit/internal/parser"
	"refaudit/internal/shared/observability"
	"refaudit/internal/shared/util"
)

const (
	globalNamespace = "(global)"
	unknownType     = "(unknown)"
	unnamedMember   = "(unnamed)"
)

// ResolveReferences turns every use site of the declaration into a
// ReferenceRecord, preserving the gateway's site order. A site whose source
// line cannot be retrieved is skipped; a site outside every known scope is
// reported with the fallback labels.
func ResolveReferences(ctx context.Context, gw Gateway, rec *DeclarationRecord, log *LogBuffer) []ReferenceRecord {
	ctx, span := observability.Tracer.Start(ctx, "audit.ResolveReferences")
	defer span.End()

	var refs []ReferenceRecord
	for _, site := range gw.FindReferences(ctx, rec.Sym) {
		code, ok := gw.SourceLine(ctx, site.Location.File, site.Location.Line)
		if !ok {
			continue
		}

		scope, _ := gw.EnclosingScope(ctx, site.Location)
		r := ReferenceRecord{
			Namespace: scopeNamespace(scope),
			Type:      scopeType(scope),
			Member:    classifyMember(scope),
			Line:      site.Location.Line,
			Code:      util.TrimLine(code),
			File:      site.Location.File,
		}
		refs = append(refs, r)

		log.Printf("  %s.%s line:%d file:%s", r.Type, r.Member, r.Line, r.File)
		log.Printf("    %s", r.Code)
	}

	if len(refs) == 0 {
		log.Printf("  (none)")
	}

	observability.ReferencesResolved.Add(float64(len(refs)))
	return refs
}

func scopeNamespace(s *parser.Scope) string {
	if s == nil || s.Namespace == "" {
		return globalNamespace
	}
	return s.Namespace
}

func scopeType(s *parser.Scope) string {
	if s == nil || s.Type == "" {
		return unknownType
	}
	return s.Type
}

// classifyMember labels the enclosing context. The cases are checked in a
// fixed priority order: a static initializer is structurally also a
// function, so the specific kinds must win over the generic ones.
func classifyMember(s *parser.Scope) string {
	if s == nil {
		return unnamedMember
	}

	name := s.Name
	if name == "" {
		name = unnamedMember
	}

	switch s.Kind {
	case parser.ScopeCtor:
		return ctorOwner(s) + ".ctor"
	case parser.ScopeStaticInit:
		return ctorOwner(s) + ".cctor"
	case parser.ScopeLocalFunc:
		return name + " (local function)"
	case parser.ScopeMethod, parser.ScopeFunction, parser.ScopeAccessor:
		return name
	case parser.ScopeFieldInit:
		return name + " (field init)"
	case parser.ScopeEventHandler:
		return name + " (event)"
	}
	return name
}

// ctorOwner is the type a constructor or static initializer belongs to; Go
// init functions are package-owned, so the package name stands in.
func ctorOwner(s *parser.Scope) string {
	if s.Type != "" {
		return s.Type
	}
	if s.Namespace != "" {
		return s.Namespace
	}
	return unknownType
}
