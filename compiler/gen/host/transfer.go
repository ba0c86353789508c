package host

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

// genTransfer generates the transfer struct, its constructors and its
// accessors.
func genTransfer(c *gen.Config, f *jen.File, t *schema.Table) {
	name := c.TransferTypeName(t)
	cols := t.Columns()

	f.Commentf("%s mirrors one row of [%s].[%s].", name, t.Schema(), t.Name())
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, col := range cols {
			group.Id(fieldName(col)).Add(typeOf(col).field())
		}
	})

	f.Commentf("New%s returns an empty %s.", name, name)
	f.Func().Id("New" + name).Params().Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values()),
	)

	var values []*schema.Column
	for _, col := range cols {
		if !col.IsIdentity() && !col.IsRowGUID() {
			values = append(values, col)
		}
	}
	if len(values) != len(cols) {
		f.Commentf("New%sWithValues returns a %s holding the values supplied on insert.", name, name)
		genConstructor(c, f, name, "New"+name+"WithValues", values)
	}

	f.Commentf("New%sWithAllColumns returns a %s holding every column value.", name, name)
	genConstructor(c, f, name, "New"+name+"WithAllColumns", cols)

	for _, col := range cols {
		field := fieldName(col)
		f.Commentf("Get%s returns the %s value, or its zero value on a nil %s.", field, col.Name(), name)
		f.Func().Params(jen.Id("e").Op("*").Id(name)).Id("Get"+field).Params().
			Params(jen.Id("v").Add(typeOf(col).field())).Block(
			jen.If(jen.Id("e").Op("!=").Nil()).Block(
				jen.Id("v").Op("=").Id("e").Dot(field),
			),
			jen.Return(jen.Id("v")),
		)
	}
}

// genConstructor generates a constructor taking one argument per column, in
// column order.
func genConstructor(c *gen.Config, f *jen.File, typeName, funcName string, cols []*schema.Column) {
	f.Func().Id(funcName).ParamsFunc(func(params *jen.Group) {
		for _, col := range cols {
			params.Id(argName(col, c.HostPackageName)).Add(typeOf(col).field())
		}
	}).Op("*").Id(typeName).Block(
		jen.Return(jen.Op("&").Id(typeName).Values(jen.DictFunc(func(d jen.Dict) {
			for _, col := range cols {
				d[jen.Id(fieldName(col))] = jen.Id(argName(col, c.HostPackageName))
			}
		}))),
	)
}
