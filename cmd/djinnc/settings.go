package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"djinn/compiler-go/pkg/catalog"
	"djinn/compiler-go/pkg/compiler"
	"djinn/compiler-go/pkg/driver"
	"djinn/compiler-go/pkg/logging"
)

// cliFlags holds the command line overrides shared by every subcommand. Empty strings
// and unset booleans leave the djinn.yml value in place.
type cliFlags struct {
	config    string
	namespace string
	catalog   string
	format    string
	outDir    string
	logLevel  string
	prelude   boolFlag
	verify    boolFlag
}

// boolFlag records whether the flag was given at all.
type boolFlag struct {
	set   bool
	value bool
}

func (b *boolFlag) String() string {
	if b == nil || !b.set {
		return ""
	}
	return fmt.Sprint(b.value)
}

func (b *boolFlag) Set(v string) error {
	switch v {
	case "true", "1", "":
		b.value = true
	case "false", "0":
		b.value = false
	default:
		return fmt.Errorf("invalid boolean %q", v)
	}
	b.set = true
	return nil
}

func (b *boolFlag) IsBoolFlag() bool { return true }

func registerFlags(fs *flag.FlagSet, output bool) *cliFlags {
	f := &cliFlags{}
	fs.StringVar(&f.config, "config", "", "path to djinn.yml (default: searched from the input directory)")
	fs.StringVar(&f.namespace, "ns", "", "runtime namespace object")
	fs.StringVar(&f.catalog, "catalog", "", "extra builtin catalog (YAML)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.Var(&f.verify, "verify", "parse generated JavaScript before writing it")
	if output {
		fs.StringVar(&f.format, "format", "", "output format: js or estree")
		fs.StringVar(&f.outDir, "o", "", "write output files to this directory instead of stdout")
		fs.Var(&f.prelude, "prelude", "prepend the runtime namespace definition")
	}
	return f
}

type settings struct {
	namespace string
	mode      compiler.Mode
	prelude   bool
	verify    bool
	outputDir string
	catalog   *catalog.Catalog
	logger    *slog.Logger
	closer    io.Closer
}

func (s *settings) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *settings) compilerOptions() compiler.Options {
	return compiler.Options{
		Namespace: s.namespace,
		Mode:      s.mode,
		Prelude:   s.prelude,
		Verify:    s.verify,
		Catalog:   s.catalog,
		Logger:    s.logger,
	}
}

// loadSettings merges djinn.yml (explicit or discovered from input's directory) with the
// command line flags, then installs the logger.
func (c *cli) loadSettings(f *cliFlags, input string) (*settings, error) {
	cfg, err := resolveConfig(f.config, input)
	if err != nil {
		return nil, err
	}
	if f.namespace != "" {
		cfg.Namespace = f.namespace
	}
	if format := strings.ToLower(strings.TrimSpace(f.format)); format != "" {
		cfg.Output.Format = format
	}
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.prelude.set {
		cfg.Output.Prelude = f.prelude.value
	}
	if f.verify.set {
		cfg.Output.Verify = f.verify.value
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mode, err := compiler.ParseMode(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg.Catalog, f.catalog)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	closer, err := logging.Init(logging.Config{
		Level:   level,
		Format:  cfg.Log.Format,
		Output:  c.stderr,
		LogFile: cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	if cfg.Path != "" {
		logger.Debug("loaded project config", "path", cfg.Path)
	}

	return &settings{
		namespace: cfg.Namespace,
		mode:      mode,
		prelude:   cfg.Output.Prelude,
		verify:    cfg.Output.Verify,
		outputDir: cfg.Output.Dir,
		catalog:   cat,
		logger:    logger,
		closer:    closer,
	}, nil
}

func resolveConfig(explicit, input string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}
	start := "."
	if input != "" && input != "-" {
		start = filepath.Dir(input)
	}
	if path, ok := driver.FindConfig(start); ok {
		return driver.LoadConfig(path)
	}
	return driver.DefaultConfig(), nil
}

// loadCatalog layers the project catalog and then the flag catalog over the builtins.
func loadCatalog(paths ...string) (*catalog.Catalog, error) {
	cat := catalog.Default()
	for _, path := range paths {
		if path == "" {
			continue
		}
		extra, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cat = cat.Merge(extra)
	}
	return cat, nil
}
