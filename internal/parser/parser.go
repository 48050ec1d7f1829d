package parser

import (
	"fmt"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"refaudit/internal/core/errors"
	"refaudit/internal/shared/observability"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // dialect -> extractor
}

// Extractor turns a syntax tree into the program-model File and carries the
// dialect-specific rendering rules used by declaration-text reconstruction.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*File, error)

	// FormatConst renders a resolved constant as a source literal of the
	// dialect. A nil value renders as the dialect's null keyword.
	FormatConst(v *ConstValue, typeHint string) string
	// AssembleConst builds a standalone single-name constant declaration
	// from the declaration's modifier/type text and an initializer.
	AssembleConst(d *Declaration, initText string) string
	// Synthesize builds a best-effort declaration string from symbol
	// metadata alone, for symbols with no resolvable declaring syntax.
	Synthesize(d *Declaration) string
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
}

func (p *Parser) RegisterExtractor(dialect string, e Extractor) {
	p.extractors[dialect] = e
}

func (p *Parser) Extractor(dialect string) (Extractor, bool) {
	e, ok := p.extractors[dialect]
	return e, ok
}

func (p *Parser) ParseFile(dialect, path string, content []byte) (*File, error) {
	grammar, err := p.loader.Language(dialect)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotSupported, "unsupported dialect")
	}

	extractor := p.extractors[dialect]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", dialect))
	}

	start := time.Now()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseError, "parse failed")
	}
	defer tree.Close()

	file, err := extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		return nil, err
	}

	observability.ParsingDuration.WithLabelValues(dialect).Observe(time.Since(start).Seconds())
	observability.FilesParsed.WithLabelValues(dialect).Inc()

	return file, nil
}
