package config

import (
	"fmt"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/engine/hooks"
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/shared/util"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is looked up in the working directory when no -config is given.
const DefaultFile = "hookdeps.toml"

type Config struct {
	Version       int                 `toml:"version"`
	Paths         []string            `toml:"paths"`
	Workers       int                 `toml:"workers"`
	Languages     map[string]Language `toml:"languages"`
	Exclude       Exclude             `toml:"exclude"`
	Rule          Rule                `toml:"rule"`
	Watch         Watch               `toml:"watch"`
	Cache         Cache               `toml:"cache"`
	Output        Output              `toml:"output"`
	Observability Observability       `toml:"observability"`
}

type Language struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Rule holds the options of the dependency check itself.
type Rule struct {
	CheckMemoizedVariableIsStatic bool   `toml:"check_memoized_variable_is_static"`
	AdditionalHooks               string `toml:"additional_hooks"`
	ReportStaticDependencies      bool   `toml:"report_static_dependencies"`

	// StaticHooks maps a hook name to true/false, an array of booleans or a
	// table of booleans.
	StaticHooks map[string]any `toml:"static_hooks"`
}

type Watch struct {
	Debounce            time.Duration `toml:"debounce"`
	MaxRelintsPerSecond float64       `toml:"max_relints_per_second"`
}

type Cache struct {
	Files int `toml:"files"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// DefaultConfig is the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}
	return Parse(string(data))
}

// Parse decodes, defaults and validates a TOML document.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRelintsPerSecond <= 0 {
		cfg.Watch.MaxRelintsPerSecond = 5
	}
	if cfg.Cache.Files <= 0 {
		cfg.Cache.Files = 512
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
}

// LanguageRegistry merges the [languages] tables over the built-in grammar
// registry.
func (c *Config) LanguageRegistry() map[string]parser.LanguageSpec {
	registry := parser.DefaultLanguageRegistry()
	for name, lang := range c.Languages {
		spec, ok := registry[name]
		if !ok {
			spec = parser.LanguageSpec{Name: name, Enabled: true}
		}
		if lang.Enabled != nil {
			spec.Enabled = *lang.Enabled
		}
		if len(lang.Extensions) > 0 {
			spec.Extensions = append([]string(nil), lang.Extensions...)
		}
		registry[name] = spec
	}
	return registry
}

// AnalyzerOptions converts the [rule] table into engine options.
func (r Rule) AnalyzerOptions() (deps.Options, error) {
	opts := deps.Options{
		CheckMemoizedVariableIsStatic: r.CheckMemoizedVariableIsStatic,
		ReportStaticDependencies:      r.ReportStaticDependencies,
	}
	if pattern := strings.TrimSpace(r.AdditionalHooks); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return deps.Options{}, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid additional_hooks pattern"),
				errors.CtxKey, "rule.additional_hooks")
		}
		opts.AdditionalHooks = re
	}
	if len(r.StaticHooks) > 0 {
		names := util.SortedStringKeys(r.StaticHooks)

		opts.StaticHooks = make(map[string]hooks.StaticHookSpec, len(names))
		for _, name := range names {
			spec, err := hooks.ParseStaticHookSpec(r.StaticHooks[name])
			if err != nil {
				err = errors.AddContext(err, errors.CtxKey, fmt.Sprintf("rule.static_hooks.%s", name))
				return deps.Options{}, errors.AddContext(err, errors.CtxHook, name)
			}
			opts.StaticHooks[name] = spec
		}
	}
	return opts, nil
}
