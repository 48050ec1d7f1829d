package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func nodeText(source []byte, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func nodeLocation(path string, n *sitter.Node) Location {
	return Location{
		File:   path,
		Line:   int(n.StartPosition().Row) + 1,
		Column: int(n.StartPosition().Column) + 1,
		Offset: n.StartByte(),
	}
}

// classifyLiteralText resolves a literal initializer expression to a constant
// value. Non-literal expressions resolve to nil.
func classifyLiteralText(text string) *ConstValue {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		if unquoted, err := strconv.Unquote(text); err == nil {
			return &ConstValue{Kind: ConstString, Text: unquoted}
		}
		return nil
	}
	if len(text) >= 3 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		if unquoted, err := strconv.Unquote(text); err == nil {
			return &ConstValue{Kind: ConstChar, Text: unquoted}
		}
		return nil
	}
	if text == "true" || text == "false" {
		return &ConstValue{Kind: ConstBool, Text: text}
	}

	if v := classifyNumericText(text); v != nil {
		return v
	}
	// Java literal-type suffixes (5L, 1.5f, 2.0d). Strip one only when the
	// text does not already parse; a trailing hex digit is not a suffix.
	if len(text) > 1 && strings.ContainsRune("fFdDlL", rune(text[len(text)-1])) {
		return classifyNumericText(text[:len(text)-1])
	}
	return nil
}

func classifyNumericText(text string) *ConstValue {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return &ConstValue{Kind: ConstInt, Text: strconv.FormatInt(i, 10)}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return &ConstValue{Kind: ConstFloat, Text: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return nil
}

func isExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
