package gen

import (
	"errors"
	"log/slog"
	"strings"
)

// Option sets one Config value, returning a *ConfigError when the value
// is rejected.
type Option func(*Config) error

// WithProcedurePrefix sets the prefix of every procedure name.
// An empty prefix is allowed.
func WithProcedurePrefix(prefix string) Option {
	return func(c *Config) error {
		c.ProcedurePrefix = prefix
		c.prefixSet = true
		return nil
	}
}

// WithAccessSuffix sets the access-type suffix.
func WithAccessSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" {
			return NewConfigError("AccessSuffix", nil, "suffix cannot be empty")
		}
		c.AccessSuffix = suffix
		return nil
	}
}

// WithTransferSuffix sets the transfer-type suffix.
func WithTransferSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" {
			return NewConfigError("TransferSuffix", nil, "suffix cannot be empty")
		}
		c.TransferSuffix = suffix
		return nil
	}
}

// WithOutputMode sets the SQL output mode by name ("single" or "multi").
func WithOutputMode(mode string) Option {
	return func(c *Config) error {
		m := OutputMode(strings.ToLower(strings.TrimSpace(mode)))
		if !m.Valid() {
			return NewConfigError("OutputMode", mode, "unsupported mode; use single or multi")
		}
		c.OutputMode = m
		return nil
	}
}

// WithOutputPath sets the output root directory.
func WithOutputPath(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutputPath", nil, "output path cannot be empty")
		}
		c.OutputPath = dir
		return nil
	}
}

// WithGrantPrincipal sets the principal granted EXECUTE on each procedure.
func WithGrantPrincipal(principal string) Option {
	return func(c *Config) error {
		c.GrantPrincipal = principal
		return nil
	}
}

// WithDatabase sets the database selected by multi-file headers.
func WithDatabase(name string) Option {
	return func(c *Config) error {
		c.Database = name
		return nil
	}
}

// WithSQLFile sets the shared file name used in single-file mode.
func WithSQLFile(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("SQLFile", nil, "file name cannot be empty")
		}
		c.SQLFile = name
		return nil
	}
}

// WithHostPackage sets the import path (and optionally the package name) of
// the generated transfer types.
func WithHostPackage(importPath string, name ...string) Option {
	return func(c *Config) error {
		if importPath == "" {
			return NewConfigError("HostPackage", nil, "import path cannot be empty")
		}
		c.HostPackage = importPath
		if len(name) > 0 && name[0] != "" {
			c.HostPackageName = name[0]
		}
		return nil
	}
}

// WithHeader sets the file header comment of generated Go files.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers bounds the number of tables rendered concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithSkipSQL disables SQL output.
func WithSkipSQL() Option {
	return func(c *Config) error {
		c.SkipSQL = true
		return nil
	}
}

// WithSkipHost disables Go output.
func WithSkipHost() Option {
	return func(c *Config) error {
		c.SkipHost = true
		return nil
	}
}

// WithLogger sets the logger receiving progress records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply runs opts in order and stops at the first rejected one.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll runs every option and joins the errors of the rejected ones.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a validated Config from defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	return (&Config{}).finish(opts...)
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) finish(opts ...Option) (*Config, error) {
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.defaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
