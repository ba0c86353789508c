package gen

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// OutputMode selects how SQL artifacts are laid out on disk.
type OutputMode string

const (
	// OutputMulti writes one file per stored procedure.
	OutputMulti OutputMode = "multi"
	// OutputSingle appends every procedure of every table to one shared file.
	OutputSingle OutputMode = "single"
)

// Valid reports whether m names a known output mode.
func (m OutputMode) Valid() bool {
	return m == OutputMulti || m == OutputSingle
}

// Default configuration values.
const (
	DefaultProcedurePrefix = "usp"
	DefaultAccessSuffix    = "Repository"
	DefaultTransferSuffix  = "Entity"
	DefaultSQLFile         = "StoredProcedures.sql"
	DefaultHeader          = "Code generated by sprocgen. DO NOT EDIT."

	// SQLDir is the sub-directory holding per-procedure files in multi mode.
	SQLDir = "StoredProcedures"
	// RepositoriesDir is the fixed sub-path of the access-type files.
	RepositoriesDir = "Repositories"
	// RepositoriesPackage is the package clause of the access-type files.
	RepositoriesPackage = "repositories"
	// DBFile holds the database handle shared by the access types.
	DBFile = RepositoriesDir + "/db.go"
	// ManifestFile is the name of the manifest written next to the output.
	ManifestFile = "sprocgen.manifest.yaml"
)

// ConfigFiles are the file names FindConfigFile looks for, in order.
var ConfigFiles = []string{"sprocgen.yaml", "sprocgen.yml", ".sprocgen.yaml", ".sprocgen.yml"}

// Config holds the generation settings.
type Config struct {
	// ProcedurePrefix is prepended to every procedure name.
	ProcedurePrefix string `yaml:"procedure_prefix"`
	// AccessSuffix is appended to the table name to form the access type.
	AccessSuffix string `yaml:"access_suffix"`
	// TransferSuffix is appended to the table name to form the transfer type.
	TransferSuffix string `yaml:"transfer_suffix"`
	// OutputMode selects single-file or multi-file SQL output.
	OutputMode OutputMode `yaml:"output_mode"`
	// OutputPath is the root directory of all generated files.
	OutputPath string `yaml:"output_path"`
	// GrantPrincipal, when set, receives EXECUTE on every procedure.
	GrantPrincipal string `yaml:"grant_principal"`
	// Database is selected by a USE header in multi-file output.
	Database string `yaml:"database"`
	// SQLFile is the shared file name in single-file mode.
	SQLFile string `yaml:"sql_file"`
	// HostPackage is the import path of the generated transfer types.
	// The access types live in HostPackage + "/Repositories".
	HostPackage string `yaml:"host_package"`
	// HostPackageName is the package clause of the transfer types.
	// Defaults to the last element of HostPackage.
	HostPackageName string `yaml:"host_package_name"`
	// Header is written as the first comment of every Go file.
	Header string `yaml:"header"`
	// Workers bounds the number of tables rendered concurrently.
	Workers int `yaml:"workers"`
	// SkipSQL disables SQL output.
	SkipSQL bool `yaml:"skip_sql"`
	// SkipHost disables Go output.
	SkipHost bool `yaml:"skip_host"`

	// Logger receives progress records. Defaults to a discarding logger.
	Logger *slog.Logger `yaml:"-"`

	// prefixSet records an explicit (possibly empty) procedure prefix.
	prefixSet bool
}

// defaults fills every unset field with its default value.
func (c *Config) defaults() {
	if c.ProcedurePrefix == "" && !c.prefixSet {
		c.ProcedurePrefix = DefaultProcedurePrefix
	}
	if c.AccessSuffix == "" {
		c.AccessSuffix = DefaultAccessSuffix
	}
	if c.TransferSuffix == "" {
		c.TransferSuffix = DefaultTransferSuffix
	}
	if c.OutputMode == "" {
		c.OutputMode = OutputMulti
	}
	if c.SQLFile == "" {
		c.SQLFile = DefaultSQLFile
	}
	if c.HostPackageName == "" && c.HostPackage != "" {
		c.HostPackageName = path.Base(c.HostPackage)
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Validate checks the settings that generation cannot run without.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return NewConfigError("OutputPath", nil, "output path cannot be empty")
	}
	if !c.OutputMode.Valid() {
		return NewConfigError("OutputMode", c.OutputMode, "unsupported mode; use single or multi")
	}
	if !c.SkipHost && c.HostPackage == "" {
		return NewConfigError("HostPackage", nil, "host package import path is required unless host output is skipped")
	}
	if c.SkipSQL && c.SkipHost {
		return NewConfigError("SkipSQL", true, "nothing to generate with both SQL and host output skipped")
	}
	return nil
}

// TransferPackagePath returns the import path of the transfer types.
func (c *Config) TransferPackagePath() string { return c.HostPackage }

// AccessPackagePath returns the import path of the access types.
func (c *Config) AccessPackagePath() string {
	return path.Join(c.HostPackage, RepositoriesDir)
}

// LoadConfigFile reads a YAML configuration file, applies defaults and the
// given options (which take precedence over file values), and validates the
// result.
func LoadConfigFile(file string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, NewConfigError("File", file, fmt.Sprintf("parse config file: %v", err))
	}
	return c.finish(opts...)
}

// FindConfigFile returns the config file named by $SPROCGEN_CONFIG, or the
// first of ConfigFiles present in dir. It returns "" when none exists.
func FindConfigFile(dir string) string {
	if p := os.Getenv("SPROCGEN_CONFIG"); p != "" {
		return p
	}
	for _, name := range ConfigFiles {
		p := name
		if dir != "" {
			p = filepath.Join(dir, name)
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Save writes the YAML form of c to file.
func (c *Config) Save(file string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
