package gen

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/sprocgen/schema"
)

// Generator plans every table, renders the plans with the configured
// renderers and writes the results.
//
// Tables are planned and rendered in parallel; the rendered output is then
// written by a single writer in table order, so single-file output has a
// deterministic append order.
type Generator struct {
	cfg  *Config
	sql  SQLRenderer
	host HostRenderer
}

var _ RendererHelper = (*Generator)(nil)

// NewGenerator creates a new generator. Renderers are set with WithSQL and
// WithHost before calling Generate.
//
// Example:
//
//	import (
//		"github.com/syssam/sprocgen/compiler/gen/host"
//		"github.com/syssam/sprocgen/compiler/gen/sql"
//	)
//
//	g := gen.NewGenerator(cfg)
//	g.WithSQL(sql.NewDialect()).WithHost(host.NewRenderer(g))
//	manifest, err := g.Generate(ctx, tables)
func NewGenerator(c *Config) *Generator {
	if c != nil {
		c.defaults()
	}
	return &Generator{cfg: c}
}

// WithSQL sets the SQL renderer.
func (g *Generator) WithSQL(r SQLRenderer) *Generator {
	if r != nil {
		g.sql = r
	}
	return g
}

// WithHost sets the Go renderer.
func (g *Generator) WithHost(r HostRenderer) *Generator {
	if r != nil {
		g.host = r
	}
	return g
}

// Config returns the generation settings.
func (g *Generator) Config() *Config { return g.cfg }

// NewFile creates a new Jennifer file with the header comment.
func (g *Generator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(g.cfg.Header)
	return f
}

// rendered holds the output of one table, ready to be written.
type rendered struct {
	plan     *Plan
	scripts  [][]byte
	transfer []byte
	access   []byte
}

// Generate plans, renders and writes all tables, and returns the manifest of
// written files. A failure aborts the run; files already written are left on
// disk.
func (g *Generator) Generate(ctx context.Context, tables []*schema.Table) (*Manifest, error) {
	if g.cfg == nil {
		return nil, NewConfigError("Config", nil, "no config set")
	}
	if !g.cfg.SkipSQL && g.sql == nil {
		return nil, NewConfigError("SQLRenderer", nil, "no SQL renderer set: call WithSQL() before Generate()")
	}
	if !g.cfg.SkipHost && g.host == nil {
		return nil, NewConfigError("HostRenderer", nil, "no host renderer set: call WithHost() before Generate()")
	}

	var shared []byte
	if !g.cfg.SkipHost {
		var err error
		if shared, err = formatGo(DBFile, g.host.GenDB()); err != nil {
			return nil, err
		}
	}

	out := make([]*rendered, len(tables))
	errg, gctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for i, t := range tables {
		errg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := g.render(t)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	w := &writer{cfg: g.cfg, manifest: &Manifest{}}
	if err := w.write(ctx, shared, out); err != nil {
		return w.manifest, err
	}
	g.cfg.Logger.Info("generation complete",
		"tables", len(tables),
		"files", w.manifest.Len(),
		"output", g.cfg.OutputPath,
	)
	return w.manifest, nil
}

// render plans one table and renders its artifacts.
func (g *Generator) render(t *schema.Table) (*rendered, error) {
	plan := NewPlan(g.cfg, t)
	if g.cfg.Logger.Enabled(context.Background(), slog.LevelDebug) {
		names := make([]string, len(plan.Procedures))
		for i, p := range plan.Procedures {
			names[i] = p.Name
		}
		g.cfg.Logger.Debug("table planned", "table", t.Schema()+"."+t.Name(), "procedures", names)
	}

	r := &rendered{plan: plan}
	if !g.cfg.SkipSQL {
		r.scripts = make([][]byte, len(plan.Procedures))
		for i, p := range plan.Procedures {
			r.scripts[i] = g.sql.RenderProcedure(p)
		}
	}
	if !g.cfg.SkipHost {
		var err error
		if r.transfer, err = formatGo(g.cfg.transferFile(t), g.host.GenTransfer(plan)); err != nil {
			return nil, err
		}
		if r.access, err = formatGo(g.cfg.accessFile(t), g.host.GenAccess(plan)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// formatOptions format generated files without resolving imports, which
// Jennifer already tracks.
var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// formatGo renders f and runs the result through goimports.
func formatGo(name string, f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("host", name, "render", err)
	}
	formatted, err := imports.Process(name, buf.Bytes(), formatOptions)
	if err != nil {
		return nil, NewGenerationError("host", name, "format", err)
	}
	return formatted, nil
}

// transferFile returns the slash-separated path of the transfer file of t,
// relative to the output root.
func (c *Config) transferFile(t *schema.Table) string {
	return c.TransferTypeName(t) + ".go"
}

// accessFile returns the slash-separated path of the access file of t,
// relative to the output root.
func (c *Config) accessFile(t *schema.Table) string {
	return path.Join(RepositoriesDir, c.AccessTypeName(t)+".go")
}
