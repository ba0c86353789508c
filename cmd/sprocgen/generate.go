package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/syssam/sprocgen/compiler"
	"github.com/syssam/sprocgen/compiler/gen"
)

// generateOptions are the flags shared by generate and watch. Flags set on
// the command line override the config file.
type generateOptions struct {
	schemaFile string
	out        string
	mode       string
	prefix     string
	grant      string
	database   string
	sqlFile    string
	pkg        string
	pkgName    string
	workers    int
	skipSQL    bool
	skipHost   bool
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.schemaFile, "schema", "s", "tables.yaml", "table definitions (YAML or JSON)")
	f.StringVarP(&o.out, "out", "o", "generated", "output directory")
	f.StringVarP(&o.mode, "mode", "m", string(gen.OutputMulti), "SQL layout: single or multi")
	f.StringVar(&o.prefix, "prefix", gen.DefaultProcedurePrefix, "procedure name prefix")
	f.StringVar(&o.grant, "grant", "", "principal granted EXECUTE on every procedure")
	f.StringVar(&o.database, "database", "", "database selected at the top of each procedure file (default: the schema file's)")
	f.StringVar(&o.sqlFile, "sql-file", gen.DefaultSQLFile, "file name of single-file output")
	f.StringVarP(&o.pkg, "package", "p", "", "import path of the generated Go package")
	f.StringVar(&o.pkgName, "package-name", "", "package clause of the generated Go package")
	f.IntVar(&o.workers, "workers", 0, "tables rendered concurrently (default: GOMAXPROCS)")
	f.BoolVar(&o.skipSQL, "skip-sql", false, "do not write SQL scripts")
	f.BoolVar(&o.skipHost, "skip-host", false, "do not write Go code")
}

// config builds the generation config from the config file, when one is
// given or found, and the command line.
func (o *generateOptions) config(cmd *cobra.Command, e *env) (*gen.Config, error) {
	file := e.configFile
	if file == "" {
		file = gen.FindConfigFile("")
	}
	f := cmd.Flags()
	// Without a file, flag defaults stand in for the file values.
	set := func(name string) bool { return f.Changed(name) || file == "" }

	opts := []gen.Option{gen.WithLogger(e.logger)}
	if set("out") {
		opts = append(opts, gen.WithOutputPath(o.out))
	}
	if set("mode") {
		opts = append(opts, gen.WithOutputMode(o.mode))
	}
	if f.Changed("prefix") {
		opts = append(opts, gen.WithProcedurePrefix(o.prefix))
	}
	if f.Changed("grant") {
		opts = append(opts, gen.WithGrantPrincipal(o.grant))
	}
	if f.Changed("database") {
		opts = append(opts, gen.WithDatabase(o.database))
	}
	if f.Changed("sql-file") {
		opts = append(opts, gen.WithSQLFile(o.sqlFile))
	}
	if f.Changed("package") {
		opts = append(opts, gen.WithHostPackage(o.pkg, o.pkgName))
	} else if f.Changed("package-name") {
		opts = append(opts, func(c *gen.Config) error {
			c.HostPackageName = o.pkgName
			return nil
		})
	}
	if f.Changed("workers") {
		opts = append(opts, gen.WithWorkers(o.workers))
	}
	if o.skipSQL {
		opts = append(opts, gen.WithSkipSQL())
	}
	if o.skipHost {
		opts = append(opts, gen.WithSkipHost())
	}

	if file == "" {
		return gen.NewConfig(opts...)
	}
	e.logger.Debug("using config file", "file", file)
	return gen.LoadConfigFile(file, opts...)
}

// run generates once and reports the written files.
func (o *generateOptions) run(ctx context.Context, cmd *cobra.Command, e *env) error {
	cfg, err := o.config(cmd, e)
	if err != nil {
		return err
	}
	m, err := compiler.GenerateFile(ctx, cfg, o.schemaFile)
	if err != nil {
		return err
	}
	e.success("generated %d files in %s (%d SQL, %d Go)",
		m.Len(), cfg.OutputPath, len(m.SQL), len(m.Transfer)+len(m.Access))
	return nil
}

func newGenerateCmd(e *env) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate procedures and Go access code from table definitions",
		Long: `Generate plans the procedures of every table in the schema file and writes
the T-SQL scripts, the Go transfer types and the Go repositories.

Examples:
  sprocgen generate --package github.com/org/app/data
  sprocgen generate -s shop.json -o ./data --mode single --grant app_user
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.Context(), cmd, e)
		},
	}
	o.register(cmd)
	return cmd
}
