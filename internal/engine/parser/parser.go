package parser

import (
	"hookdeps/internal/core/errors"
	"hookdeps/internal/shared/observability"
	"log/slog"
	"time"
)

// Parser turns source files into syntax trees using one pool per grammar.
type Parser struct {
	loader *GrammarLoader
	pools  map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader: loader,
		pools:  make(map[string]*ParserPool),
	}
	for _, id := range loader.EnabledLanguages() {
		lang, _ := loader.Language(id)
		p.pools[id] = NewParserPool(lang)
	}
	return p
}

func (p *Parser) Supports(path string) bool {
	return p.loader.LanguageForPath(path) != ""
}

// ParseFile detects the language of path by extension and parses content.
// The caller owns the returned tree and must Close it.
func (p *Parser) ParseFile(path string, content []byte) (*Tree, error) {
	lang := p.loader.LanguageForPath(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported file type"), errors.CtxPath, path)
	}
	tree, err := p.ParseSource(lang, content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	tree.Path = path
	return tree, nil
}

// ParseSource parses content with the named grammar.
func (p *Parser) ParseSource(lang string, content []byte) (*Tree, error) {
	pool, ok := p.pools[lang]
	if !ok {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "language not enabled"), errors.CtxLanguage, lang)
	}

	start := time.Now()
	raw := pool.Parse(content)
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	if raw == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "tree-sitter returned no tree"), errors.CtxLanguage, lang)
	}

	tree := &Tree{Language: lang, Source: content, tree: raw}
	if tree.Root().HasError() {
		slog.Debug("source contains syntax errors, analyzing recovered tree", "language", lang)
	}
	return tree, nil
}
