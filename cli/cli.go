package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vcrobe/jsxgen/config"
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

// Options are the parsed command-line arguments. Empty strings mean the
// value comes from jsxgen.yaml.
type Options struct {
	In         string
	Out        string
	ConfigPath string
	Root       string
	Name       string
	Cache      string
	NoCache    bool
	Trace      bool
	LogLevel   string
	LogFormat  string
}

// Parse processes command-line arguments. It returns the options, a boolean
// indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("jsxgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
jsxgen - compiles a page's instance tree into a TSX component module.

Usage:
  jsxgen [options] [DOCUMENT]

Arguments:
  DOCUMENT
    Path to the page document (.json, .yaml or .yml).

Options:
`)
		flagSet.PrintDefaults()
	}

	var opts Options
	flagSet.StringVar(&opts.In, "in", "", "Path to the page document.")
	flagSet.StringVar(&opts.Out, "out", "", "Output .tsx file. Empty or '-' writes to stdout.")
	flagSet.StringVar(&opts.ConfigPath, "config", "", "Path to jsxgen.yaml. Defaults to the nearest one above the document.")
	flagSet.StringVar(&opts.Root, "root", "", "Root instance id. Defaults to the first instance of the document.")
	flagSet.StringVar(&opts.Name, "name", "", "Exported component name. Overrides componentName.")
	flagSet.StringVar(&opts.Cache, "cache", "", "Build cache database path. Overrides cache.")
	flagSet.BoolVar(&opts.NoCache, "no-cache", false, "Disable the build cache.")
	flagSet.BoolVar(&opts.Trace, "trace", false, "Print the traceability markers of the emitted module.")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	flagSet.StringVar(&opts.LogFormat, "log-format", "", "Log output format: 'auto', 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if opts.In == "" && flagSet.NArg() > 0 {
		opts.In = flagSet.Arg(0)
	}
	if opts.In == "" {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 || (flagSet.NArg() == 1 && opts.In != flagSet.Arg(0)) {
		return nil, false, &ExitError{Code: 2, Message: "exactly one document may be given"}
	}

	opts.LogLevel = strings.ToLower(opts.LogLevel)
	if opts.LogLevel != "" && !config.ValidLevel(opts.LogLevel) {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	opts.LogFormat = strings.ToLower(opts.LogFormat)
	if opts.LogFormat != "" && !config.ValidFormat(opts.LogFormat) {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'auto', 'text' or 'json'"}
	}
	if opts.Out == "-" {
		opts.Out = ""
	}
	return &opts, false, nil
}

// Apply overrides cfg with the options given on the command line.
func (o *Options) Apply(cfg *config.Config) {
	if o.Name != "" {
		cfg.ComponentName = o.Name
	}
	if o.Cache != "" {
		cfg.Cache = o.Cache
	}
	if o.NoCache {
		cfg.Cache = ""
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
}
