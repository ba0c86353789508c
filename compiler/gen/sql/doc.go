// Package sql renders procedure plans as SQL Server (T-SQL) scripts.
//
// Every script is idempotent: it drops the procedure if it exists, creates
// it again and optionally grants EXECUTE to the configured principal. Each
// batch is terminated by a GO line.
//
//	IF EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'[dbo].[uspCustomerDelete]') AND type IN (N'P', N'PC'))
//		DROP PROCEDURE [dbo].[uspCustomerDelete]
//	GO
//
//	CREATE PROCEDURE [dbo].[uspCustomerDelete]
//		@id int
//	AS
//	BEGIN
//		SET NOCOUNT ON;
//
//		DELETE FROM [dbo].[Customer]
//		WHERE [Id] = @id;
//	END
//	GO
//
// Parameters are declared in the order of gen.Procedure.Params, which is
// the order the generated Go code binds its arguments in.
//
// Usage:
//
//	import (
//	    "github.com/syssam/sprocgen/compiler/gen"
//	    "github.com/syssam/sprocgen/compiler/gen/sql"
//	)
//
//	generator := gen.NewGenerator(cfg).WithSQL(sql.NewDialect())
package sql
