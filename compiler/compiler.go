// Package compiler runs generation with the T-SQL and Go renderers.
//
//	cfg, err := gen.NewConfig(
//	    gen.WithOutputPath("./generated"),
//	    gen.WithHostPackage("github.com/org/app/generated"),
//	)
//	manifest, err := compiler.GenerateFile(ctx, cfg, "tables.yaml")
package compiler

import (
	"context"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/compiler/gen/host"
	"github.com/syssam/sprocgen/compiler/gen/sql"
	"github.com/syssam/sprocgen/compiler/load"
	"github.com/syssam/sprocgen/schema"
)

// NewGenerator returns a generator rendering T-SQL procedures and Go
// access code.
func NewGenerator(cfg *gen.Config) *gen.Generator {
	g := gen.NewGenerator(cfg)
	return g.WithSQL(sql.NewDialect()).WithHost(host.NewRenderer(g))
}

// Generate generates every artifact of tables under cfg.OutputPath.
func Generate(ctx context.Context, cfg *gen.Config, tables []*schema.Table) (*gen.Manifest, error) {
	return NewGenerator(cfg).Generate(ctx, tables)
}

// GenerateFile loads a schema file and generates its tables. The database
// named by the file is used when cfg names none.
func GenerateFile(ctx context.Context, cfg *gen.Config, schemaFile string) (*gen.Manifest, error) {
	m, err := load.LoadModel(schemaFile)
	if err != nil {
		return nil, err
	}
	if cfg.Database == "" && m.Database != "" {
		c := *cfg
		c.Database = m.Database
		cfg = &c
	}
	return Generate(ctx, cfg, m.Tables)
}
