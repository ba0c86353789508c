package host

import (
	"github.com/dave/jennifer/jen"
)

// genDB generates the database handle interface, the row scanner interface
// and the JSON reader shared by every access type.
func genDB(f *jen.File) {
	query := func() []jen.Code {
		return []jen.Code{
			jen.Id("ctx").Qual(contextPkg, "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		}
	}

	f.Comment("DBTX runs the generated procedures. *sql.DB, *sql.Conn and *sql.Tx")
	f.Comment("satisfy it.")
	f.Type().Id("DBTX").Interface(
		jen.Id("ExecContext").Params(query()...).Params(jen.Qual(sqlPkg, "Result"), jen.Error()),
		jen.Id("QueryContext").Params(query()...).Params(jen.Op("*").Qual(sqlPkg, "Rows"), jen.Error()),
		jen.Id("QueryRowContext").Params(query()...).Op("*").Qual(sqlPkg, "Row"),
	)

	f.Comment("rowScanner is satisfied by *sql.Row and *sql.Rows.")
	f.Type().Id("rowScanner").Interface(
		jen.Id("Scan").Params(jen.Id("dest").Op("...").Any()).Error(),
	)

	f.Comment("queryJSON runs a FOR JSON query and joins the chunks of its result.")
	f.Func().Id("queryJSON").Params(
		jen.Id("ctx").Qual(contextPkg, "Context"),
		jen.Id("db").Id("DBTX"),
		jen.Id("query").String(),
		jen.Id("args").Op("...").Any(),
	).Params(jen.String(), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("db").Dot("QueryContext").Call(
			jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("..."),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Lit(""), jen.Err()),
		),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Var().Id("b").Qual(stringsPkg, "Builder"),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Var().Id("chunk").String(),
			jen.If(
				jen.Err().Op(":=").Id("rows").Dot("Scan").Call(jen.Op("&").Id("chunk")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Lit(""), jen.Err()),
			),
			jen.Id("b").Dot("WriteString").Call(jen.Id("chunk")),
		),
		jen.Return(jen.Id("b").Dot("String").Call(), jen.Id("rows").Dot("Err").Call()),
	)
}
