package report

import (
	"strconv"
	"strings"

	"refaudit/internal/audit"
	"refaudit/internal/shared/observability"
)

// HeaderFull is the 11-column header of the standard report.
func HeaderFull() []string {
	return []string{
		"Kind", "Accessibility", "Namespace", "Type", "Declaration",
		"RefNamespace", "RefType", "RefMember", "Line", "Code", "File",
	}
}

// HeaderCompact is the 7-column header of the const-only report.
func HeaderCompact() []string {
	return []string{"Type", "Declaration", "RefType", "RefMember", "Line", "Code", "File"}
}

// EscapeField applies the CSV escaping rule: quote the field, doubling
// embedded quotes, iff it contains a quote, comma, CR, or LF. Everything
// else passes through unchanged, empty fields included.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, "\",\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// RowBuffer is the single-owner row accumulator of one run. The header row
// is seeded at construction; rows keep declaration-then-usage order.
type RowBuffer struct {
	compact bool
	rows    [][]string
}

func NewRowBuffer(compact bool) *RowBuffer {
	b := &RowBuffer{compact: compact}
	if compact {
		b.rows = append(b.rows, HeaderCompact())
	} else {
		b.rows = append(b.rows, HeaderFull())
	}
	return b
}

func (b *RowBuffer) Append(fields ...string) {
	b.rows = append(b.rows, fields)
}

// RowCount is the number of data rows, header excluded.
func (b *RowBuffer) RowCount() int {
	return len(b.rows) - 1
}

func (b *RowBuffer) Rows() [][]string {
	return b.rows
}

// Encode serializes all rows, fields escaped and joined by commas, one row
// per line.
func (b *RowBuffer) Encode() []byte {
	var sb strings.Builder
	for _, row := range b.rows {
		for i, field := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(EscapeField(field))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// FromResult flattens an audit result into rows: one per resolved use, or a
// single placeholder row with empty reference columns for zero usages.
func FromResult(result *audit.Result, compact bool) *RowBuffer {
	b := NewRowBuffer(compact)
	for _, e := range result.Entries {
		if len(e.Refs) == 0 {
			b.appendEntry(e.Decl, nil)
			continue
		}
		for i := range e.Refs {
			b.appendEntry(e.Decl, &e.Refs[i])
		}
	}
	observability.ReportRows.Set(float64(b.RowCount()))
	return b
}

func (b *RowBuffer) appendEntry(d *audit.DeclarationRecord, r *audit.ReferenceRecord) {
	var ns, typ, member, line, code, file string
	if r != nil {
		ns = r.Namespace
		typ = r.Type
		member = r.Member
		line = strconv.Itoa(r.Line)
		code = r.Code
		file = r.File
	}

	if b.compact {
		b.Append(d.Type, d.Text, typ, member, line, code, file)
		return
	}
	b.Append(d.Kind.String(), d.Access.String(), d.Namespace, d.Type, d.Text,
		ns, typ, member, line, code, file)
}
