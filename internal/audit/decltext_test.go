package audit

import (
	"testing"

	"refaudit/internal/parser"
)

func TestRenderDeclarationSingleName(t *testing.T) {
	d := &parser.Declaration{
		Name:          "Foo",
		Kind:          parser.KindConstField,
		StatementText: "const Foo = 1",
		Complete:      true,
	}
	if got := RenderDeclaration(&parser.GoExtractor{}, d); got != "const Foo = 1" {
		t.Errorf("expected verbatim statement, got %q", got)
	}
}

func TestRenderDeclarationCombinedWithInitializer(t *testing.T) {
	// const A, B = 1, 2: the rendering for A carries only A's name and value.
	d := &parser.Declaration{
		Name:          "A",
		Kind:          parser.KindConstField,
		StatementText: "const A, B = 1, 2",
		Complete:      false,
		SiblingCount:  2,
		InitText:      "1",
	}
	got := RenderDeclaration(&parser.GoExtractor{}, d)
	if got != "const A = 1" {
		t.Errorf("unexpected reconstruction %q", got)
	}
}

func TestRenderDeclarationCombinedResolvedValue(t *testing.T) {
	// const ( A Kind = iota; B ): B inherits the group's type and resolves
	// its value from the iota position.
	d := &parser.Declaration{
		Name:          "B",
		Kind:          parser.KindConstField,
		StatementText: "const B",
		Complete:      false,
		SiblingCount:  1,
		ResolvedType:  "Kind",
		Const:         &parser.ConstValue{Kind: parser.ConstInt, Text: "1"},
	}
	if got := RenderDeclaration(&parser.GoExtractor{}, d); got != "const B Kind = 1" {
		t.Errorf("unexpected reconstruction %q", got)
	}
}

func TestRenderDeclarationStringValue(t *testing.T) {
	d := &parser.Declaration{
		Name:          "Greeting",
		Kind:          parser.KindConstField,
		StatementText: "const Greeting, Other = x, y",
		Complete:      false,
		Const:         &parser.ConstValue{Kind: parser.ConstString, Text: "hello"},
	}
	if got := RenderDeclaration(&parser.GoExtractor{}, d); got != `const Greeting = "hello"` {
		t.Errorf("unexpected reconstruction %q", got)
	}
}

func TestRenderDeclarationAbsentValue(t *testing.T) {
	d := &parser.Declaration{
		Name:          "Missing",
		Kind:          parser.KindConstField,
		StatementText: "const Missing, Other = f(), g()",
		Complete:      false,
	}
	if got := RenderDeclaration(&parser.GoExtractor{}, d); got != "const Missing = nil" {
		t.Errorf("unexpected reconstruction %q", got)
	}
}

func TestRenderDeclarationSynthesizedMethod(t *testing.T) {
	d := &parser.Declaration{
		Name:       "Run",
		Kind:       parser.KindMethod,
		Type:       "Svc",
		Params:     []parser.Param{{Name: "n", Type: "int"}},
		ResultText: "error",
	}
	if got := RenderDeclaration(&parser.GoExtractor{}, d); got != "func (Svc) Run(n int) error" {
		t.Errorf("unexpected synthesis %q", got)
	}
}
