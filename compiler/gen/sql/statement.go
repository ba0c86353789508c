package sql

import (
	"strings"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

// writeStatement writes one body statement, indented by one tab and
// terminated by a semicolon.
func writeStatement(b *strings.Builder, table string, st gen.Statement) {
	switch st := st.(type) {
	case *gen.DeclareGUID:
		b.WriteString("\tDECLARE @" + st.Var + " " + schema.TypeUniqueIdentifier + " = NEWID();\n")
	case *gen.Insert:
		writeInsert(b, table, st)
	case *gen.Update:
		b.WriteString("\tUPDATE " + table + "\n")
		for i, a := range st.Set {
			if i == 0 {
				b.WriteString("\tSET ")
			} else {
				b.WriteString(",\n\t\t")
			}
			b.WriteString(Quote(a.Column.Name()) + " = @" + a.Var)
		}
		writeWhere(b, st.Where)
		b.WriteString(";\n")
	case *gen.Delete:
		b.WriteString("\tDELETE FROM " + table)
		writeWhere(b, st.Where)
		b.WriteString(";\n")
	case *gen.Select:
		b.WriteString("\tSELECT " + columnList(st.Columns) + "\n")
		b.WriteString("\tFROM " + table)
		writeWhere(b, st.Where)
		if st.JSON {
			b.WriteString("\n\tFOR JSON PATH")
			if st.Single {
				b.WriteString(", WITHOUT_ARRAY_WRAPPER")
			}
		}
		b.WriteString(";\n")
	case *gen.ReturnIdentity:
		b.WriteString("\tSELECT CAST(SCOPE_IDENTITY() AS " + ColumnType(st.Column) + ");\n")
	case *gen.ReturnVar:
		b.WriteString("\tSELECT @" + st.Var + ";\n")
	}
}

func writeInsert(b *strings.Builder, table string, st *gen.Insert) {
	if len(st.Columns) == 0 {
		b.WriteString("\tINSERT INTO " + table + " DEFAULT VALUES;\n")
		return
	}
	vars := make([]string, len(st.Values))
	for i, v := range st.Values {
		vars[i] = "@" + v
	}
	b.WriteString("\tINSERT INTO " + table + " (" + columnList(st.Columns) + ")\n")
	b.WriteString("\tVALUES (" + strings.Join(vars, ", ") + ");\n")
}

// writeWhere starts a new line with a conjunction over as. It writes nothing
// for an empty predicate.
func writeWhere(b *strings.Builder, as []gen.Assign) {
	for i, a := range as {
		if i == 0 {
			b.WriteString("\n\tWHERE ")
		} else {
			b.WriteString("\n\t\tAND ")
		}
		b.WriteString(Quote(a.Column.Name()) + " = @" + a.Var)
	}
}

func columnList(cols []*schema.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = Quote(c.Name())
	}
	return strings.Join(names, ", ")
}
