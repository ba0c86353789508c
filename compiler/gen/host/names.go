package host

import (
	"go/token"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

// Import paths referenced by generated code.
const (
	contextPkg = "context"
	errorsPkg  = "errors"
	sqlPkg     = "database/sql"
	stringsPkg = "strings"
	timePkg    = "time"
	mssqlPkg   = "github.com/microsoft/go-mssqldb"
)

// reserved are identifiers a generated argument must not shadow: the locals
// of generated method bodies, the imported package names and the
// predeclared identifiers they use.
var reserved = map[string]bool{
	"ctx": true, "args": true, "row": true, "rows": true, "r": true,
	"e": true, "err": true, "items": true, "db": true, "s": true,
	"context": true, "errors": true, "sql": true, "strings": true,
	"time": true, "mssql": true,
	"any": true, "append": true, "bool": true, "byte": true, "error": true,
	"false": true, "float32": true, "float64": true, "int16": true,
	"int32": true, "int64": true, "nil": true, "string": true, "true": true,
	"uint8": true,
}

// argName returns the Go parameter name of a column: its camel form, with a
// trailing underscore when it is a keyword or would shadow an identifier the
// generated code needs. pkg is the transfer package name.
func argName(c *schema.Column, pkg string) string {
	name := gen.VarName(c)
	if token.IsKeyword(name) || reserved[name] || name == pkg {
		return name + "_"
	}
	return name
}

// fieldName returns the exported struct field of a column.
func fieldName(c *schema.Column) string {
	return gen.Exported(c.Name())
}
