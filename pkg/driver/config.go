package driver

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Report formats accepted by [report] format.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config holds the driver configuration, usually read from asfront.toml.
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Driver DriverConfig `toml:"driver"`
	Report ReportConfig `toml:"report"`
}

// ParserConfig holds parser options
type ParserConfig struct {
	AsDoc bool `toml:"asdoc"`
}

// DriverConfig holds batch parsing settings
type DriverConfig struct {
	Jobs       int      `toml:"jobs"`
	Extensions []string `toml:"extensions"`
}

// ReportConfig holds output settings
type ReportConfig struct {
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{Parser: ParserConfig{AsDoc: true}}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from a TOML file. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if !md.IsDefined("parser", "asdoc") {
		cfg.Parser.AsDoc = true
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Driver.Jobs <= 0 {
		c.Driver.Jobs = runtime.GOMAXPROCS(0)
	}
	if len(c.Driver.Extensions) == 0 {
		c.Driver.Extensions = []string{".as", ".es"}
	}
	for i, ext := range c.Driver.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Driver.Extensions[i] = "." + ext
		}
	}
	if c.Report.Format == "" {
		c.Report.Format = FormatText
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("report format must be text, yaml or json, got %q", c.Report.Format)
	}
	return nil
}

// HasSourceExtension reports whether path names a file the driver parses.
func (c *Config) HasSourceExtension(path string) bool {
	for _, ext := range c.Driver.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
