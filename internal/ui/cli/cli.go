package cli

import (
	"flag"
	"io"
)

type cliOptions struct {
	configPath  string
	format      string
	output      string
	fix         bool
	watch       bool
	ui          bool
	verbose     bool
	version     bool
	metricsAddr string
	args        []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("hookdeps", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./hookdeps.toml when present)")
	fs.StringVar(&opts.format, "format", "", "Output format: text, tsv or sarif")
	fs.StringVar(&opts.output, "output", "", "Write the report to this file instead of stdout")
	fs.BoolVar(&opts.fix, "fix", false, "Apply suggested dependency fixes in place")
	fs.BoolVar(&opts.watch, "watch", false, "Re-lint files as they change")
	fs.BoolVar(&opts.ui, "ui", false, "Show diagnostics in a terminal UI (implies -watch)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if opts.ui {
		opts.watch = true
	}
	opts.args = fs.Args()
	return opts, nil
}
