package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
	}

	gl.languages["go"] = sitter.NewLanguage(tree_sitter_go.Language())
	gl.languages["java"] = sitter.NewLanguage(tree_sitter_java.Language())

	return gl
}

func (gl *GrammarLoader) Language(dialect string) (*sitter.Language, error) {
	lang := gl.languages[dialect]
	if lang == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", dialect)
	}
	return lang, nil
}
