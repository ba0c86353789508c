package host

import (
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

// access carries the names shared by the methods of one access type.
type access struct {
	c        *gen.Config
	name     string
	entity   string
	entityPk string
	scanner  string
}

func (a *access) entityType() *jen.Statement {
	return jen.Qual(a.entityPk, a.entity)
}

func (a *access) recv() *jen.Statement {
	return jen.Id("r").Op("*").Id(a.name)
}

// genAccess generates the access struct, its constructor, one method per
// procedure and the row scanner.
func genAccess(c *gen.Config, f *jen.File, plan *gen.Plan) {
	t := plan.Table
	a := &access{
		c:        c,
		name:     c.AccessTypeName(t),
		entity:   c.TransferTypeName(t),
		entityPk: c.TransferPackagePath(),
		scanner:  "scan" + c.TransferTypeName(t),
	}

	f.Commentf("%s calls the stored procedures of [%s].[%s].", a.name, t.Schema(), t.Name())
	f.Type().Id(a.name).Struct(
		jen.Id("db").Id("DBTX"),
	)

	f.Commentf("New%s returns a %s running its procedures on db.", a.name, a.name)
	f.Func().Id("New" + a.name).Params(jen.Id("db").Id("DBTX")).Op("*").Id(a.name).Block(
		jen.Return(jen.Op("&").Id(a.name).Values(jen.Dict{
			jen.Id("db"): jen.Id("db"),
		})),
	)

	scans := false
	for _, p := range plan.Procedures {
		switch {
		case p.Kind == gen.KindInsert:
			a.genInsert(f, p)
		case p.Kind == gen.KindUpdate:
			a.genUpdate(f, p)
		case p.Kind == gen.KindDelete || p.Kind == gen.KindDeleteAllBy:
			a.genExec(f, p)
		case p.Kind.JSON():
			a.genJSON(f, p)
		case p.Kind.SingleRow():
			a.genSelect(f, p)
			scans = true
		default:
			a.genSelectAll(f, p)
			scans = true
		}
	}
	if scans {
		for _, p := range plan.Procedures {
			if p.Kind.Selects() && !p.Kind.JSON() {
				a.genScanner(f, p.Projection)
				break
			}
		}
	}
}

// execQuery returns the EXEC statement of p with one positional
// placeholder per parameter.
func execQuery(p *gen.Procedure) string {
	var b strings.Builder
	b.WriteString("EXEC " + p.QualifiedName())
	for i, prm := range p.Params {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(prm.Placeholder())
	}
	return b.String()
}

// keyParams returns the method parameters of p: ctx followed by one argument
// per procedure parameter, in parameter order.
func (a *access) keyParams(p *gen.Procedure) func(*jen.Group) {
	return func(g *jen.Group) {
		g.Id("ctx").Qual(contextPkg, "Context")
		for _, prm := range p.Params {
			g.Id(argName(prm.Column, a.c.HostPackageName)).Add(typeOf(prm.Column).field())
		}
	}
}

// keyArgs binds the method arguments in parameter order.
func (a *access) keyArgs(p *gen.Procedure) *jen.Statement {
	return jen.Id("args").Op(":=").Index().Any().ValuesFunc(func(g *jen.Group) {
		for _, prm := range p.Params {
			g.Id(argName(prm.Column, a.c.HostPackageName))
		}
	})
}

// entityArgs binds the entity fields in parameter order.
func entityArgs(p *gen.Procedure) *jen.Statement {
	return jen.Id("args").Op(":=").Index().Any().ValuesFunc(func(g *jen.Group) {
		for _, prm := range p.Params {
			g.Id("e").Dot(fieldName(prm.Column))
		}
	})
}

// callArgs returns the query and the variadic argument list of a call.
func callArgs(p *gen.Procedure) []jen.Code {
	args := []jen.Code{jen.Id("ctx"), jen.Lit(execQuery(p))}
	if len(p.Params) > 0 {
		args = append(args, jen.Id("args").Op("..."))
	}
	return args
}

// jsonArgs returns the arguments of a queryJSON call.
func jsonArgs(p *gen.Procedure) []jen.Code {
	args := []jen.Code{jen.Id("ctx"), jen.Id("r").Dot("db"), jen.Lit(execQuery(p))}
	if len(p.Params) > 0 {
		args = append(args, jen.Id("args").Op("..."))
	}
	return args
}

// bind returns the argument binding statement, or nil without parameters.
func bind(p *gen.Procedure, args *jen.Statement) jen.Code {
	if len(p.Params) == 0 {
		return jen.Null()
	}
	return args
}

func (a *access) genInsert(f *jen.File, p *gen.Procedure) {
	if p.Returns == nil {
		f.Commentf("%s calls %s.", p.Method, p.QualifiedName())
	} else {
		f.Commentf("%s calls %s and stores the generated value in e.%s.", p.Method, p.QualifiedName(), fieldName(p.Returns.Column))
	}
	var body []jen.Code
	body = append(body, bind(p, entityArgs(p)))
	if p.Returns == nil {
		body = append(body,
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("db").Dot("ExecContext").Call(callArgs(p)...),
			jen.Return(jen.Err()),
		)
	} else {
		body = append(body,
			jen.Id("row").Op(":=").Id("r").Dot("db").Dot("QueryRowContext").Call(callArgs(p)...),
			jen.Return(jen.Id("row").Dot("Scan").Call(jen.Op("&").Id("e").Dot(fieldName(p.Returns.Column)))),
		)
	}
	f.Func().Params(a.recv()).Id(p.Method).Params(
		jen.Id("ctx").Qual(contextPkg, "Context"),
		jen.Id("e").Op("*").Add(a.entityType()),
	).Error().Block(body...)
}

func (a *access) genUpdate(f *jen.File, p *gen.Procedure) {
	f.Commentf("%s calls %s with the values of e.", p.Method, p.QualifiedName())
	f.Func().Params(a.recv()).Id(p.Method).Params(
		jen.Id("ctx").Qual(contextPkg, "Context"),
		jen.Id("e").Op("*").Add(a.entityType()),
	).Error().Block(
		bind(p, entityArgs(p)),
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("db").Dot("ExecContext").Call(callArgs(p)...),
		jen.Return(jen.Err()),
	)
}

func (a *access) genExec(f *jen.File, p *gen.Procedure) {
	f.Commentf("%s calls %s.", p.Method, p.QualifiedName())
	f.Func().Params(a.recv()).Id(p.Method).ParamsFunc(a.keyParams(p)).Error().Block(
		bind(p, a.keyArgs(p)),
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("db").Dot("ExecContext").Call(callArgs(p)...),
		jen.Return(jen.Err()),
	)
}

func (a *access) genSelect(f *jen.File, p *gen.Procedure) {
	f.Commentf("%s calls %s. It returns nil and no error when no row matches.", p.Method, p.QualifiedName())
	f.Func().Params(a.recv()).Id(p.Method).ParamsFunc(a.keyParams(p)).Params(
		jen.Op("*").Add(a.entityType()), jen.Error(),
	).Block(
		bind(p, a.keyArgs(p)),
		jen.List(jen.Id("e"), jen.Err()).Op(":=").Id(a.scanner).Call(
			jen.Id("r").Dot("db").Dot("QueryRowContext").Call(callArgs(p)...),
		),
		jen.If(jen.Qual(errorsPkg, "Is").Call(jen.Err(), jen.Qual(sqlPkg, "ErrNoRows"))).Block(
			jen.Return(jen.Nil(), jen.Nil()),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("e"), jen.Nil()),
	)
}

func (a *access) genSelectAll(f *jen.File, p *gen.Procedure) {
	f.Commentf("%s calls %s.", p.Method, p.QualifiedName())
	f.Func().Params(a.recv()).Id(p.Method).ParamsFunc(a.keyParams(p)).Params(
		jen.Index().Op("*").Add(a.entityType()), jen.Error(),
	).Block(
		bind(p, a.keyArgs(p)),
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("r").Dot("db").Dot("QueryContext").Call(callArgs(p)...),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Var().Id("items").Index().Op("*").Add(a.entityType()),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.List(jen.Id("e"), jen.Err()).Op(":=").Id(a.scanner).Call(jen.Id("rows")),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Id("items").Op("=").Append(jen.Id("items"), jen.Id("e")),
		),
		jen.Return(jen.Id("items"), jen.Id("rows").Dot("Err").Call()),
	)
}

func (a *access) genJSON(f *jen.File, p *gen.Procedure) {
	f.Commentf("%s calls %s and returns the JSON it produces.", p.Method, p.QualifiedName())
	f.Func().Params(a.recv()).Id(p.Method).ParamsFunc(a.keyParams(p)).Params(
		jen.String(), jen.Error(),
	).Block(
		bind(p, a.keyArgs(p)),
		jen.Return(jen.Id("queryJSON").Call(jsonArgs(p)...)),
	)
}

// genScanner generates the routine reading one row, in projection order,
// into a new transfer value. NULL columns keep the field's zero value.
func (a *access) genScanner(f *jen.File, cols []*schema.Column) {
	holder := func(i int) string { return "c" + strconv.Itoa(i) }

	f.Commentf("%s reads one row of %s columns, in procedure projection order.", a.scanner, a.entity)
	f.Func().Id(a.scanner).Params(jen.Id("s").Id("rowScanner")).Params(
		jen.Op("*").Add(a.entityType()), jen.Error(),
	).BlockFunc(func(g *jen.Group) {
		if len(cols) > 0 {
			g.Var().DefsFunc(func(defs *jen.Group) {
				for i, col := range cols {
					defs.Id(holder(i)).Add(typeOf(col).holder())
				}
			})
		}
		g.If(jen.Err().Op(":=").Id("s").Dot("Scan").CallFunc(func(args *jen.Group) {
			for i := range cols {
				args.Op("&").Id(holder(i))
			}
		}), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		)
		g.Id("e").Op(":=").Qual(a.entityPk, "New"+a.entity).Call()
		for i, col := range cols {
			gt := typeOf(col)
			target := jen.Id("e").Dot(fieldName(col))
			if gt.value == "" {
				g.Add(target).Op("=").Id(holder(i))
				continue
			}
			val := jen.Id(holder(i)).Dot(gt.value)
			if gt.convert != "" {
				val = jen.Id(gt.convert).Call(val)
			}
			g.If(jen.Id(holder(i)).Dot("Valid")).Block(
				jen.Add(target).Op("=").Add(val),
			)
		}
		g.Return(jen.Id("e"), jen.Nil())
	})
}
