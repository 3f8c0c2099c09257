package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project file looked up from the input's directory upwards.
const ConfigFileName = "djinn.yml"

const (
	FormatJS     = "js"
	FormatESTree = "estree"
)

// Config models djinn.yml.
type Config struct {
	Path      string
	Namespace string
	Catalog   string
	Output    OutputConfig
	Log       LogConfig
}

type OutputConfig struct {
	Format  string
	Prelude bool
	Verify  bool
	Dir     string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// DefaultConfig is used when no project file exists.
func DefaultConfig() *Config {
	return &Config{
		Namespace: "DJINN",
		Output:    OutputConfig{Format: FormatJS},
		Log:       LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig parses the project file at path. Relative paths inside it resolve against
// its directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := ReadConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, abs)
	}
	cfg.Path = abs
	dir := filepath.Dir(abs)
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(dir, cfg.Catalog)
	}
	if cfg.Output.Dir != "" && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(dir, cfg.Output.Dir)
	}
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(dir, cfg.Log.File)
	}
	return cfg, nil
}

// ReadConfig decodes a project file; keys it omits keep their defaults.
func ReadConfig(r io.Reader) (*Config, error) {
	raw := DefaultConfig().toDisk()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg := raw.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks from start towards the filesystem root looking for djinn.yml.
func FindConfig(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}
	if !isJSIdentifier(c.Namespace) {
		return fmt.Errorf("config: namespace %q is not a valid identifier", c.Namespace)
	}
	switch c.Output.Format {
	case FormatJS, FormatESTree:
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

func isJSIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

type configDisk struct {
	Namespace string     `yaml:"namespace"`
	Catalog   string     `yaml:"catalog,omitempty"`
	Output    outputDisk `yaml:"output"`
	Log       logDisk    `yaml:"log"`
}

type outputDisk struct {
	Format  string `yaml:"format"`
	Prelude bool   `yaml:"prelude"`
	Verify  bool   `yaml:"verify"`
	Dir     string `yaml:"dir,omitempty"`
}

type logDisk struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

func (c *Config) toDisk() configDisk {
	return configDisk{
		Namespace: c.Namespace,
		Catalog:   c.Catalog,
		Output: outputDisk{
			Format:  c.Output.Format,
			Prelude: c.Output.Prelude,
			Verify:  c.Output.Verify,
			Dir:     c.Output.Dir,
		},
		Log: logDisk{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File},
	}
}

func (d configDisk) toConfig() *Config {
	return &Config{
		Namespace: strings.TrimSpace(d.Namespace),
		Catalog:   strings.TrimSpace(d.Catalog),
		Output: OutputConfig{
			Format:  strings.ToLower(strings.TrimSpace(d.Output.Format)),
			Prelude: d.Output.Prelude,
			Verify:  d.Output.Verify,
			Dir:     strings.TrimSpace(d.Output.Dir),
		},
		Log: LogConfig{
			Level:  strings.TrimSpace(d.Log.Level),
			Format: strings.ToLower(strings.TrimSpace(d.Log.Format)),
			File:   strings.TrimSpace(d.Log.File),
		},
	}
}
