package gen

import (
	"github.com/dave/jennifer/jen"
)

// =============================================================================
// Test renderers
// =============================================================================

// stubSQL renders each procedure as its qualified name and parameters.
type stubSQL struct{}

func (stubSQL) Name() string { return "stub" }

func (stubSQL) RenderProcedure(p *Procedure) []byte {
	s := "-- " + p.QualifiedName()
	for _, prm := range p.Params {
		s += " @" + prm.Name
	}
	return []byte(s + "\nGO\n")
}

// stubHost renders an empty struct per table.
type stubHost struct {
	h RendererHelper
}

func (s stubHost) GenTransfer(plan *Plan) *jen.File {
	c := s.h.Config()
	f := s.h.NewFile(c.HostPackageName)
	f.Type().Id(c.TransferTypeName(plan.Table)).Struct()
	return f
}

func (s stubHost) GenAccess(plan *Plan) *jen.File {
	c := s.h.Config()
	f := s.h.NewFile(RepositoriesPackage)
	f.Type().Id(c.AccessTypeName(plan.Table)).Struct()
	for _, p := range plan.Procedures {
		f.Func().Params(jen.Id("r").Op("*").Id(c.AccessTypeName(plan.Table))).Id(p.Method).Params().Block()
	}
	return f
}

func (s stubHost) GenDB() *jen.File {
	f := s.h.NewFile(RepositoriesPackage)
	f.Type().Id("DBTX").Interface()
	return f
}

var (
	_ SQLRenderer  = stubSQL{}
	_ HostRenderer = stubHost{}
)
