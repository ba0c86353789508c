package host

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/sprocgen/compiler/gen"
)

// Renderer renders the Go transfer and access types of procedure plans.
type Renderer struct {
	h gen.RendererHelper
}

var _ gen.HostRenderer = (*Renderer)(nil)

// NewRenderer creates a Go renderer using the helper's header and settings.
func NewRenderer(h gen.RendererHelper) *Renderer {
	return &Renderer{h: h}
}

// GenTransfer generates the transfer file of a table.
func (r *Renderer) GenTransfer(plan *gen.Plan) *jen.File {
	c := r.h.Config()
	f := r.h.NewFile(c.HostPackageName)
	f.ImportAlias(mssqlPkg, "mssql")
	genTransfer(c, f, plan.Table)
	return f
}

// GenAccess generates the access file of a table.
func (r *Renderer) GenAccess(plan *gen.Plan) *jen.File {
	c := r.h.Config()
	f := r.h.NewFile(gen.RepositoriesPackage)
	f.ImportAlias(mssqlPkg, "mssql")
	f.ImportName(c.TransferPackagePath(), c.HostPackageName)
	genAccess(c, f, plan)
	return f
}

// GenDB generates the file shared by every access type.
func (r *Renderer) GenDB() *jen.File {
	f := r.h.NewFile(gen.RepositoriesPackage)
	genDB(f)
	return f
}
