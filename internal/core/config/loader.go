package config

import (
	"hookdeps/internal/core/errors"
	"log/slog"
)

// Resolve builds the effective configuration: .env is loaded first, then the
// file at path (falling back to DefaultConfig when path is the implicit
// default and does not exist), then HOOKDEPS_* overrides. The result is
// validated again after overrides.
func Resolve(path string, explicit bool) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := Load(path)
	switch {
	case err == nil:
	case !explicit && errors.IsCode(err, errors.CodeNotFound):
		slog.Debug("no config file, using defaults", "path", path)
		cfg = DefaultConfig()
	default:
		return nil, err
	}

	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
