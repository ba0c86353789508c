package sql

import (
	"strings"

	"github.com/syssam/sprocgen/compiler/gen"
)

// Dialect renders procedures as SQL Server (T-SQL) scripts.
type Dialect struct{}

// NewDialect creates a new T-SQL dialect.
func NewDialect() *Dialect { return &Dialect{} }

// Name returns the dialect name.
func (*Dialect) Name() string { return "tsql" }

var _ gen.SQLRenderer = (*Dialect)(nil)

// RenderProcedure returns the script of p:
//
//	IF EXISTS (...) DROP PROCEDURE ...
//	GO
//	CREATE PROCEDURE ... AS BEGIN ... END
//	GO
//	[GRANT EXECUTE ON ... TO ...
//	GO]
func (d *Dialect) RenderProcedure(p *gen.Procedure) []byte {
	var b strings.Builder
	name := p.QualifiedName()

	b.WriteString("IF EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'")
	b.WriteString(strings.ReplaceAll(name, "'", "''"))
	b.WriteString("') AND type IN (N'P', N'PC'))\n")
	b.WriteString("\tDROP PROCEDURE " + name + "\n")
	b.WriteString("GO\n\n")

	b.WriteString("CREATE PROCEDURE " + name + "\n")
	for i, prm := range p.Params {
		b.WriteString("\t@" + prm.Name + " " + ColumnType(prm.Column))
		if i < len(p.Params)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("AS\nBEGIN\n")
	b.WriteString("\tSET NOCOUNT ON;\n")
	table := Quote(p.Table.Schema()) + "." + Quote(p.Table.Name())
	for _, st := range p.Body {
		b.WriteByte('\n')
		writeStatement(&b, table, st)
	}
	b.WriteString("END\n")
	b.WriteString("GO\n")

	if p.Grant != "" {
		b.WriteString("\nGRANT EXECUTE ON " + name + " TO " + Quote(p.Grant) + "\n")
		b.WriteString("GO\n")
	}
	return []byte(b.String())
}

// Quote returns name as a delimited identifier.
func Quote(name string) string { return gen.QuoteIdent(name) }
