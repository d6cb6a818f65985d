package parser

import (
	"fmt"
	"hookdeps/internal/core/errors"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages  map[string]*sitter.Language
	registry   map[string]LanguageSpec
	extensions map[string]string
}

// NewGrammarLoader loads every enabled grammar of registry. A nil registry
// means DefaultLanguageRegistry.
func NewGrammarLoader(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if registry == nil {
		registry = DefaultLanguageRegistry()
	}

	gl := &GrammarLoader{
		languages:  make(map[string]*sitter.Language),
		registry:   make(map[string]LanguageSpec, len(registry)),
		extensions: make(map[string]string),
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, langID := range names {
		spec := registry[langID]
		spec.Extensions = append([]string(nil), spec.Extensions...)
		gl.registry[langID] = spec
		if !spec.Enabled {
			continue
		}
		switch langID {
		case LangJavaScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case LangTypeScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case LangTSX:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		default:
			return nil, errors.AddContext(
				errors.New(errors.CodeNotSupported, fmt.Sprintf("language %q is enabled but no grammar is bundled", langID)),
				errors.CtxLanguage, langID,
			)
		}
		for _, ext := range spec.Extensions {
			ext = strings.ToLower(ext)
			if owner, dup := gl.extensions[ext]; dup {
				return nil, errors.New(errors.CodeValidationError,
					fmt.Sprintf("extension %s is claimed by both %s and %s", ext, owner, langID))
			}
			gl.extensions[ext] = langID
		}
	}

	return gl, nil
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

// LanguageForPath maps a file path to a language id by extension, or "" when
// no enabled grammar claims it.
func (gl *GrammarLoader) LanguageForPath(path string) string {
	return gl.extensions[strings.ToLower(filepath.Ext(path))]
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	extensions := make([]string, 0, len(gl.extensions))
	for ext := range gl.extensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

func (gl *GrammarLoader) EnabledLanguages() []string {
	langs := make([]string, 0, len(gl.languages))
	for id := range gl.languages {
		langs = append(langs, id)
	}
	sort.Strings(langs)
	return langs
}
