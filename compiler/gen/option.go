package gen

import (
	"errors"
	"go/token"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/syssam/evolve/transform"
)

// DefaultHeader is the header comment of every generated Go file.
const DefaultHeader = "Code generated by evolve. DO NOT EDIT."

// Config holds the configuration of a generation pass.
type Config struct {
	// Target is the directory generated Go files and artifacts are written to.
	Target string
	// Package is the package name of the generated migrations. Defaults to
	// the base name of Target.
	Package string
	// Header is the header comment of generated Go files.
	Header string
	// MigrationsDir is the atlas migration directory SQL plans are written
	// to. Plans are not written when empty.
	MigrationsDir string
	// ModelPackage is the sub-package of Target class declarations are
	// written to. Class declarations are not generated when empty.
	ModelPackage string
	// Snapshots enables writing a model snapshot after every migration.
	Snapshots bool
	// Workers is the number of parallel file writers.
	Workers int
	// Logger receives progress and diagnostics.
	Logger *slog.Logger
	// Transform holds the options of every transformation pass.
	Transform []transform.Option
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated Go file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the package name of generated migrations.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a valid identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithMigrationsDir enables SQL plans and sets the atlas migration
// directory they are written to.
func WithMigrationsDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("MigrationsDir", nil, "migrations directory cannot be empty")
		}
		c.MigrationsDir = dir
		return nil
	}
}

// WithModelPackage enables class declarations and sets the sub-package of
// the target they are written to.
func WithModelPackage(pkg string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(pkg) {
			return NewConfigError("ModelPackage", pkg, "package must be a valid identifier")
		}
		c.ModelPackage = pkg
		return nil
	}
}

// WithSnapshots enables model snapshots.
func WithSnapshots() Option {
	return func(c *Config) error {
		c.Snapshots = true
		return nil
	}
}

// WithWorkers sets the number of parallel file writers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger of the pass.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithTransformOptions adds options to every transformation pass.
func WithTransformOptions(opts ...transform.Option) Option {
	return func(c *Config) error {
		c.Transform = append(c.Transform, opts...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PackageName returns the package name of generated migrations.
func (c *Config) PackageName() string {
	if c.Package != "" {
		return c.Package
	}
	if base := filepath.Base(c.Target); token.IsIdentifier(base) {
		return base
	}
	return "migrations"
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
