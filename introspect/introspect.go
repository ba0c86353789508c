// Package introspect defines the interface implemented by the database
// inspectors producing table models.
//
//	introspect/mssql   SQL Server, over go-mssqldb
//	introspect/atlas   PostgreSQL, MySQL and SQLite, over Atlas drivers
package introspect

import (
	"context"
	"slices"
	"strings"

	"github.com/syssam/sprocgen/schema"
)

// Options select the tables to inspect.
type Options struct {
	// Schema is the database schema to read. Inspectors apply their own
	// default when it is empty.
	Schema string
	// Tables restricts inspection to the named tables. Empty means all.
	Tables []string
}

// Wants reports whether the table name passes the Tables filter.
// Names are compared case-insensitively.
func (o Options) Wants(name string) bool {
	if len(o.Tables) == 0 {
		return true
	}
	return slices.ContainsFunc(o.Tables, func(t string) bool {
		return strings.EqualFold(t, name)
	})
}

// Inspector reads table models from a live database.
type Inspector interface {
	// Inspect returns the matching tables, ordered by name, with columns in
	// declaration order.
	Inspect(ctx context.Context, opts Options) ([]*schema.Table, error)
	// Close releases the database connection.
	Close() error
}
