package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: HOOKDEPS_[SECTION]_[KEY] (e.g., HOOKDEPS_WATCH_DEBOUNCE).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Workers, "HOOKDEPS_WORKERS")
	setEnvList(&cfg.Paths, "HOOKDEPS_PATHS")

	// Rule
	setEnvBool(&cfg.Rule.CheckMemoizedVariableIsStatic, "HOOKDEPS_RULE_CHECK_MEMOIZED_VARIABLE_IS_STATIC")
	setEnvString(&cfg.Rule.AdditionalHooks, "HOOKDEPS_RULE_ADDITIONAL_HOOKS")
	setEnvBool(&cfg.Rule.ReportStaticDependencies, "HOOKDEPS_RULE_REPORT_STATIC_DEPENDENCIES")

	// Exclude
	setEnvList(&cfg.Exclude.Dirs, "HOOKDEPS_EXCLUDE_DIRS")
	setEnvList(&cfg.Exclude.Files, "HOOKDEPS_EXCLUDE_FILES")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "HOOKDEPS_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRelintsPerSecond, "HOOKDEPS_WATCH_MAX_RELINTS_PER_SECOND")

	// Cache
	setEnvInt(&cfg.Cache.Files, "HOOKDEPS_CACHE_FILES")

	// Output
	setEnvString(&cfg.Output.Format, "HOOKDEPS_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "HOOKDEPS_OUTPUT_PATH")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "HOOKDEPS_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "HOOKDEPS_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = items
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
