package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/evolve/compiler/gen"
)

// Environment variables used when the config file leaves the database
// settings empty.
const (
	envDSN     = "EVOLVE_DSN"
	envDialect = "EVOLVE_DIALECT"
)

// Config is the content of the evolve.yaml file.
type Config struct {
	// Script is the transformation script, relative to the config file.
	Script string `yaml:"script"`
	// Target is the output directory of generated files.
	Target        string   `yaml:"target"`
	Package       string   `yaml:"package"`
	Header        string   `yaml:"header"`
	ModelPackage  string   `yaml:"model_package"`
	MigrationsDir string   `yaml:"migrations_dir"`
	Snapshots     bool     `yaml:"snapshots"`
	Workers       int      `yaml:"workers"`
	Database      Database `yaml:"database"`
	Log           Log      `yaml:"log"`
}

// Database holds the connection settings of evolve apply.
type Database struct {
	// Driver is the database/sql driver name.
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults; paths in the file are resolved against its directory.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Script: "evolve.script.yaml", Target: "migrations"}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	cfg.resolve(filepath.Dir(path))
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Script, &c.Target, &c.MigrationsDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// applyEnv fills in empty database settings from environment variables.
// File values take precedence.
func (c *Config) applyEnv() {
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv(envDSN)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = os.Getenv(envDialect)
	}
}

func (c *Config) validate() error {
	if c.Script == "" {
		return errors.New("script is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// options returns the generator options of the config.
func (c *Config) options() []gen.Option {
	opts := []gen.Option{gen.WithTarget(c.Target)}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.ModelPackage != "" {
		opts = append(opts, gen.WithModelPackage(c.ModelPackage))
	}
	if c.MigrationsDir != "" {
		opts = append(opts, gen.WithMigrationsDir(c.MigrationsDir))
	}
	if c.Snapshots {
		opts = append(opts, gen.WithSnapshots())
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	return opts
}
