package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vcrobe/jsxgen/buildcache"
	"github.com/vcrobe/jsxgen/cli"
	"github.com/vcrobe/jsxgen/compiler"
	"github.com/vcrobe/jsxgen/config"
	"github.com/vcrobe/jsxgen/console"
	"github.com/vcrobe/jsxgen/document"
	"github.com/vcrobe/jsxgen/trace"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, stderr)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	// every line of one invocation shares a build id
	logger := console.New(cfg.Log.Level, cfg.Log.Format, stderr).With("build", uuid.NewString())
	ctx = console.WithLogger(ctx, logger)
	if cfgPath != "" {
		logger.Debug("Loaded configuration.", "path", cfgPath)
	}

	source, err := build(ctx, opts, cfg)
	if err != nil {
		return err
	}

	if err := writeOutput(ctx, opts.Out, stdout, source); err != nil {
		return err
	}
	if opts.Trace {
		return printTrace(stdout, source)
	}
	return nil
}

func loadConfig(opts *cli.Options) (*config.Config, string, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := config.Find(filepath.Dir(opts.In))
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// build compiles the document, going through the build cache when one is
// configured.
func build(ctx context.Context, opts *cli.Options, cfg *config.Config) (string, error) {
	logger := console.FromContext(ctx)

	data, err := os.ReadFile(opts.In)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", opts.In, err)
	}
	format, err := document.FormatFromPath(opts.In)
	if err != nil {
		return "", err
	}
	compilerOpts := compiler.Options{
		RootInstanceID:      opts.Root,
		ComponentName:       cfg.ComponentName,
		RuntimeModule:       cfg.RuntimeModule,
		ComponentModules:    cfg.ComponentModules,
		IndexWithinAncestor: cfg.IndexWithinAncestor,
	}

	var cache *buildcache.Cache
	var key string
	if cfg.Cache != "" {
		cache, err = buildcache.Open(ctx, cfg.Cache)
		if err != nil {
			return "", err
		}
		defer cache.Close()

		key, err = cacheKey(data, format, compilerOpts)
		if err != nil {
			return "", err
		}
		source, ok, err := cache.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			logger.Info("Served module from cache.", "document", opts.In, "key", key[:16])
			return source, nil
		}
	}

	doc, err := document.Decode(data, format)
	if err != nil {
		return "", fmt.Errorf("decoding document %s: %w", opts.In, err)
	}
	module, err := compiler.Compile(doc, compilerOpts)
	if err != nil {
		return "", fmt.Errorf("compiling %s: %w", opts.In, err)
	}
	for _, w := range module.Warnings {
		logger.Warn("Omitted part of the document.", "instance", w.InstanceID, "reason", w.Message)
	}
	logger.Info("Compiled module.",
		"document", opts.In,
		"components", module.Components,
		"warnings", len(module.Warnings))

	if cache != nil {
		if err := cache.Put(ctx, key, module.Source); err != nil {
			// the module is still usable
			logger.Warn("Failed to store module in cache.", "error", err)
		}
	}
	return module.Source, nil
}

// cacheKey digests the document together with every option that changes
// the output. yaml.v3 writes map keys sorted, so the salt is stable.
func cacheKey(data []byte, format document.Format, opts compiler.Options) (string, error) {
	salt, err := yaml.Marshal(struct {
		Format              document.Format   `yaml:"format"`
		Root                string            `yaml:"root"`
		ComponentName       string            `yaml:"componentName"`
		RuntimeModule       string            `yaml:"runtimeModule"`
		ComponentModules    map[string]string `yaml:"componentModules"`
		IndexWithinAncestor map[string]string `yaml:"indexWithinAncestor"`
	}{format, opts.RootInstanceID, opts.ComponentName, opts.RuntimeModule, opts.ComponentModules, opts.IndexWithinAncestor})
	if err != nil {
		return "", fmt.Errorf("encoding cache salt: %w", err)
	}
	return buildcache.Key(data, string(salt)), nil
}

func writeOutput(ctx context.Context, path string, stdout io.Writer, source string) error {
	if path == "" {
		_, err := io.WriteString(stdout, source)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	console.FromContext(ctx).Debug("Wrote module.", "path", path)
	return nil
}

// printTrace lists the traceability markers of the module, one element per
// line.
func printTrace(w io.Writer, source string) error {
	root, err := trace.Parse(source)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE\tCOMPONENT\tTAG\tINDEX")
	for _, m := range trace.Markers(root) {
		index := "-"
		if m.Index >= 0 {
			index = fmt.Sprint(m.Index)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.InstanceID, m.Component, m.Tag, index)
	}
	return tw.Flush()
}
