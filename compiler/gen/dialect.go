package gen

import "github.com/dave/jennifer/jen"

// =============================================================================
// Renderers: one per target, each consuming the same procedure plans
// =============================================================================

// SQLRenderer renders procedure scripts.
type SQLRenderer interface {
	// Name returns the SQL dialect name (e.g., "tsql").
	Name() string
	// RenderProcedure returns the complete script of one procedure: the
	// conditional drop, the create and the optional grant, each batch
	// terminated.
	RenderProcedure(p *Procedure) []byte
}

// TransferRenderer renders the transfer type of a table.
type TransferRenderer interface {
	// GenTransfer generates the transfer file ({Table}{TransferSuffix}.go).
	GenTransfer(plan *Plan) *jen.File
}

// AccessRenderer renders the access type of a table.
type AccessRenderer interface {
	// GenAccess generates the access file
	// (Repositories/{Table}{AccessSuffix}.go).
	GenAccess(plan *Plan) *jen.File
}

// SharedRenderer renders the files shared by all access types.
type SharedRenderer interface {
	// GenDB generates the database handle file (Repositories/db.go).
	GenDB() *jen.File
}

// HostRenderer renders every Go file.
//
//	┌──────────────┐      ┌────────────┐      ┌──────────────┐
//	│ Decide/Plan  │ ───▶ │ *Procedure │ ───▶ │ SQLRenderer  │
//	└──────────────┘      │  (Params)  │      └──────────────┘
//	                      │            │      ┌──────────────┐
//	                      │            │ ───▶ │ HostRenderer │
//	                      └────────────┘      └──────────────┘
//
// Both renderers read the parameter order from Procedure.Params and the
// projection order from Procedure.Projection.
type HostRenderer interface {
	TransferRenderer
	AccessRenderer
	SharedRenderer
}

// RendererHelper provides helpers renderers share with the generator.
// Generator implements this interface.
type RendererHelper interface {
	// NewFile creates a new Jennifer file with the configured header comment.
	NewFile(pkg string) *jen.File
	// Config returns the generation settings.
	Config() *Config
}
