// Package config loads jsxgen.yaml, the per-project compiler settings.
//
// The file is looked up from the input document's directory upwards, the
// way .gitignore files are found. Command-line flags override it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vcrobe/jsxgen/compiler"
)

// FileNames are the accepted config file names, in lookup order.
var FileNames = []string{"jsxgen.yaml", "jsxgen.yml"}

// Config represents jsxgen.yaml.
type Config struct {
	// ComponentName is the exported page component name.
	ComponentName string `yaml:"componentName"`

	// RuntimeModule provides useResource. Empty selects the compiler default.
	RuntimeModule string `yaml:"runtimeModule,omitempty"`

	// ComponentModules maps a component namespace ("" for the default
	// namespace, "radix" for "radix:Tabs") to the module it is imported from.
	ComponentModules map[string]string `yaml:"componentModules,omitempty"`

	// IndexWithinAncestor maps a component to the ancestor component its
	// position is counted within, e.g. TabsTrigger: Tabs.
	IndexWithinAncestor map[string]string `yaml:"indexWithinAncestor,omitempty"`

	// Cache is the build cache database path, relative to the config file.
	// Empty disables caching.
	Cache string `yaml:"cache,omitempty"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no jsxgen.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a jsxgen.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses jsxgen.yaml content. The path is used for error messages and
// to resolve the cache location.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Cache != "" && !filepath.IsAbs(cfg.Cache) {
		cfg.Cache = filepath.Join(filepath.Dir(path), cfg.Cache)
	}
	return &cfg, nil
}

// Find searches for a config file starting from dir and walking up to the
// filesystem root. It returns an empty path and nil error when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate checks the component name and the settings that have a closed
// set of values.
func (c *Config) Validate() error {
	if err := compiler.ValidateComponentName(c.ComponentName); err != nil {
		return fmt.Errorf("componentName: %w", err)
	}
	if !ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level %q: must be 'debug', 'info', 'warn' or 'error'", c.Log.Level)
	}
	if !ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log.format %q: must be 'auto', 'text' or 'json'", c.Log.Format)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.ComponentName == "" {
		c.ComponentName = "Page"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// ValidLevel reports whether level names a log level.
func ValidLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat reports whether format names a log format.
func ValidFormat(format string) bool {
	switch format {
	case "auto", "text", "json":
		return true
	}
	return false
}
