// Package cli is the hookdeps command line: flag parsing, logging setup, the
// one-shot lint run, watch mode and the terminal UI.
package cli

import (
	"context"
	"fmt"
	coreapp "hookdeps/internal/core/app"
	"hookdeps/internal/core/config"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/shared/observability"
	"hookdeps/internal/shared/version"
	"hookdeps/internal/ui/report"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Exit statuses.
const (
	exitClean       = 0
	exitDiagnostics = 1
	exitError       = 2
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return exitError
	}

	if opts.version {
		fmt.Fprintf(stdout, "%s v%s\n", version.Name, version.Version)
		return exitClean
	}

	cleanupLogs := configureLogging(stderr, opts.ui, opts.verbose)
	defer cleanupLogs()

	cfgPath, explicit := opts.configPath, opts.configPath != ""
	if !explicit {
		cfgPath = config.DefaultFile
	}
	cfg, err := config.Resolve(cfgPath, explicit)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitError
	}
	if err := applyOverrides(cfg, opts); err != nil {
		slog.Error("invalid command line", "error", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return exitError
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize linter", "error", err)
		return exitError
	}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := observability.NewServer(addr, coreapp.NewHealthService(app).Check)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return exitError
		}
		defer srv.Stop(context.Background())
	}

	res, err := app.Run(ctx, coreapp.RunRequest{Fix: opts.fix})
	if err != nil {
		slog.Error("lint failed", "error", err)
		return exitError
	}

	if !opts.watch {
		if err := writeReport(stdout, cfg, res.Files); err != nil {
			slog.Error("failed to write report", "error", err)
			return exitError
		}
		return exitCode(res)
	}

	if err := runWatch(ctx, app, cfgPath, opts, res, stdout); err != nil {
		slog.Error("watch failed", "error", err)
		return exitError
	}
	return exitClean
}

// applyOverrides layers command line flags over the resolved config.
func applyOverrides(cfg *config.Config, opts cliOptions) error {
	if len(opts.args) > 0 {
		cfg.Paths = append([]string(nil), opts.args...)
	}
	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.metricsAddr != "" {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	switch cfg.Output.Format {
	case report.FormatText, report.FormatTSV, report.FormatSARIF:
		return nil
	default:
		return errors.AddContext(
			errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", cfg.Output.Format)),
			errors.CtxKey, "output.format")
	}
}

func writeReport(stdout io.Writer, cfg *config.Config, files []coreapp.FileResult) error {
	opts := report.Options{Format: cfg.Output.Format, ProjectRoot: projectRoot()}
	if cfg.Output.Path != "" {
		return report.WriteFile(cfg.Output.Path, files, opts)
	}
	opts.Color = stdout == os.Stdout
	return report.Write(stdout, files, opts)
}

func exitCode(res coreapp.RunResult) int {
	switch {
	case res.Failed() > 0:
		return exitError
	case res.Diagnostics() > 0:
		return exitDiagnostics
	default:
		return exitClean
	}
}

func projectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// runWatch keeps linting until ctx is done or the UI quits. The config file
// is reloaded when it changes.
func runWatch(ctx context.Context, app *coreapp.App, cfgPath string, opts cliOptions, initial coreapp.RunResult, stdout io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ui *uiRunner
	onUpdate := func(u coreapp.WatchUpdate) {
		cfg := app.CurrentConfig()
		files := u.Changed
		if cfg.Output.Path != "" {
			files = u.Files
		}
		if err := writeReport(stdout, cfg, files); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	}
	if opts.ui {
		ui = newUIRunner()
		onUpdate = ui.send
	}
	session := coreapp.NewSession(app, opts.fix, onUpdate)

	if _, err := os.Stat(cfgPath); err == nil {
		override := func(next *config.Config) error { return applyOverrides(next, opts) }
		cw := config.NewWatcher(cfgPath, func(next *config.Config) {
			if err := app.Reconfigure(next); err != nil {
				slog.Error("ignoring reloaded config", "error", err)
				return
			}
			if err := session.RelintAll(ctx); err != nil {
				slog.Error("re-lint after config reload failed", "error", err)
			}
		}, config.WithOverrides(override))
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config reload disabled", "path", cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- app.Watch(ctx, session) }()

	if ui != nil {
		go session.Seed(initial)
		if err := ui.run(); err != nil {
			return err
		}
		cancel()
		return <-watchErr
	}

	session.Seed(initial)
	return <-watchErr
}

func configureLogging(stderr io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := stderr
	closeFn := func() {}
	if uiMode {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, version.Name, version.Name+".log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", version.Name, version.Name+".log")
	}

	return version.Name + ".log"
}
