package config

import (
	"fmt"
	"hookdeps/internal/core/errors"
	"strings"

	"github.com/gobwas/glob"
)

var outputFormats = map[string]bool{"text": true, "tsv": true, "sarif": true}

func validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateLanguages,
		validateExclude,
		validateRule,
		validateWatch,
		validateOutput,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return errors.AddContext(errors.New(errors.CodeValidationError, fmt.Sprintf(format, args...)), errors.CtxKey, key)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return invalid("version", "unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateLanguages(cfg *Config) error {
	seen := make(map[string]string)
	for name, lang := range cfg.LanguageRegistry() {
		if !lang.Enabled {
			continue
		}
		for _, ext := range lang.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				return invalid("languages."+name+".extensions", "extension %q must start with a dot", ext)
			}
			if prev, ok := seen[ext]; ok && prev != name {
				return invalid("languages."+name+".extensions", "extension %q is claimed by both %s and %s", ext, prev, name)
			}
			seen[ext] = name
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern "+pattern), errors.CtxKey, "exclude.files")
		}
	}
	return nil
}

func validateRule(cfg *Config) error {
	_, err := cfg.Rule.AnalyzerOptions()
	return err
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce", "debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !outputFormats[cfg.Output.Format] {
		return invalid("output.format", "output format must be one of: text, tsv, sarif; got %q", cfg.Output.Format)
	}
	return nil
}
