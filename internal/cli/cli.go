package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/isctransform/internal/app"
	"github.com/specialistvlad/isctransform/internal/settings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable path flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// flagKeys maps flag names to settings keys. Only flags given on the
// command line override the config file and the environment.
var flagKeys = map[string]string{
	"output-dir":       settings.KeyOutputDir,
	"o":                settings.KeyOutputDir,
	"format":           settings.KeyFormat,
	"f":                settings.KeyFormat,
	"log-level":        settings.KeyLogLevel,
	"log-format":       settings.KeyLogFormat,
	"workers":          settings.KeyWorkers,
	"metrics-file":     settings.KeyMetricsFile,
	"healthcheck-port": settings.KeyHealthPort,
	"watch":            settings.KeyWatch,
	"debounce":         settings.KeyDebounce,
	"check":            settings.KeyCheck,
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("isctransform", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
isctransform - Builds identity-platform attribute transform documents from HCL.

Usage:
  isctransform [options] [PATH...]

Arguments:
  PATH
    A .hcl file or a directory searched recursively for .hcl files.

Settings are read from the -config file, then from %s* environment
variables (for example %sOUTPUT_DIR), then from the options below.

Options:
`, settings.EnvPrefix, settings.EnvPrefix)
		flagSet.PrintDefaults()
	}

	defaults := settings.Defaults()
	var input pathList
	flagSet.Var(&input, "input", "Path to a .hcl file or directory. Repeatable.")
	flagSet.Var(&input, "i", "Path to a .hcl file or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to a YAML settings file.")
	flagSet.String("output-dir", "", "Write one file per document into this directory instead of stdout.")
	flagSet.String("o", "", "Output directory (shorthand).")
	flagSet.String("format", fmt.Sprint(defaults[settings.KeyFormat]), "Output format. Options: 'json' or 'yaml'.")
	flagSet.String("f", fmt.Sprint(defaults[settings.KeyFormat]), "Output format (shorthand).")
	flagSet.String("log-level", fmt.Sprint(defaults[settings.KeyLogLevel]), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.String("log-format", fmt.Sprint(defaults[settings.KeyLogFormat]), "Log output format. Options: 'text' or 'json'.")
	flagSet.Int("workers", defaults[settings.KeyWorkers].(int), "Number of documents built concurrently.")
	flagSet.String("metrics-file", "", "Write build metrics in the Prometheus text format to this file.")
	flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	flagSet.Bool("watch", false, "Rebuild whenever an input file changes.")
	flagSet.Duration("debounce", defaults[settings.KeyDebounce].(time.Duration), "Quiet period before a rebuild in watch mode.")
	flagSet.Bool("check", false, "Validate the transforms without writing any output.")
	listFlag := flagSet.Bool("list-functions", false, "Print the available HCL functions and exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	overrides := make(map[string]any)
	flagSet.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		overrides[key] = f.Value.(flag.Getter).Get()
	})
	paths := append([]string(input), flagSet.Args()...)
	if len(paths) > 0 {
		overrides[settings.KeyInput] = paths
	}
	slog.Debug("Command-line overrides collected.", "overrides", overrides)

	s, err := settings.Load(*configFlag, overrides)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if len(s.Input) == 0 && !*listFlag {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(s)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	config.ListFunctions = *listFlag

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
