package audit

import (
	"refaudit/internal/parser"
)

// RenderDeclaration produces the single canonical statement for a symbol.
// Pure function of the symbol and its captured source text.
//
// Single-name statements reproduce the original text verbatim (trimmed at
// extraction). Combined statements reconstruct a standalone declaration for
// the target name only, preferring the explicit per-name initializer over
// the resolved constant value. Symbols with no declaring syntax synthesize
// from metadata alone.
func RenderDeclaration(e parser.Extractor, d *parser.Declaration) string {
	if d.StatementText == "" {
		return e.Synthesize(d)
	}
	if d.Complete {
		return d.StatementText
	}

	if d.Kind == parser.KindConstField {
		init := d.InitText
		if init == "" {
			init = e.FormatConst(d.Const, d.ResolvedType)
		}
		return e.AssembleConst(d, init)
	}

	return d.StatementText
}
