// Package host renders procedure plans as Go source using Jennifer.
//
// For each table it generates a transfer file in the host package and an
// access file in its Repositories sub-package:
//
//	{output}/
//	├── CustomerEntity.go            # transfer struct, constructors, accessors
//	└── Repositories/
//	    ├── db.go                    # DBTX, rowScanner, queryJSON
//	    └── CustomerRepository.go    # one method per procedure
//
// Access methods call their procedure with positional arguments
// (EXEC [dbo].[uspCustomerDelete] @p1). The argument list is built from
// gen.Procedure.Params, the slice the SQL renderer declares the procedure
// parameters from, and rows are read in gen.Procedure.Projection order.
package host
