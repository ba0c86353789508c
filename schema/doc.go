// Package schema provides the in-memory table model consumed by the
// generators.
//
// A model is built once per table and is read-only afterwards:
//
//	customer := schema.NewTable("Customer",
//	    schema.WithColumns(
//	        schema.Int("Id").Identity(),
//	        schema.NVarChar("Name", 100),
//	        schema.NVarChar("Email", 255).Nullable(),
//	        schema.Int("RegionId"),
//	    ),
//	    schema.WithPrimaryKey("Id"),
//	    schema.WithForeignKey("FK_Customer_Region", "RegionId"),
//	)
//
// # Column order
//
// The order of columns passed to WithColumns is the order of procedure
// parameters, select projections and host struct fields. Primary keys and
// foreign-key groups keep the order in which their column names are given.
//
// # Storage types
//
// Type names follow SQL Server spelling (int, nvarchar, uniqueidentifier, ...).
// Loaders and introspectors map other engines' types onto these names.
package schema
