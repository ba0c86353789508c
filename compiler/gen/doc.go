// Package gen plans and renders stored procedures and their Go access code
// for relational tables.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Table model (schema.Table)
//	        ↓
//	   Decide (operation list, fixed order)
//	        ↓
//	   Plan (one Procedure per operation)
//	        ↓
//	   SQLRenderer / HostRenderer
//	        ↓
//	   writer (files + manifest)
//
// # Key Types
//
//   - Operation: a procedure kind, optionally keyed by a foreign key
//   - Procedure: the procedure IR shared by every renderer
//   - Param: one positional procedure parameter
//   - Plan: the procedures of one table
//   - Config: settings, built with functional options or from YAML
//   - Manifest: the files written by one run
//
// # Positional Contract
//
// Procedure.Params is the single source of parameter order. The SQL renderer
// declares parameters from it and the host renderer binds arguments from it,
// so a procedure and the access method calling it always agree.
//
// # Error Handling
//
//   - SchemaError: a schema document could not be decoded
//   - ConfigError: an option or config file value is invalid
//   - GenerationError: rendering, formatting or writing failed
//
// Each type matches its sentinel with errors.Is:
//
//	manifest, err := g.Generate(ctx, tables)
//	if errors.Is(err, gen.ErrGenerationFailed) {
//	    // Files written before the failure are left on disk.
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithOutputPath("./generated"),
//	    gen.WithHostPackage("github.com/org/app/generated"),
//	    gen.WithOutputMode("single"),
//	    gen.WithGrantPrincipal("app_user"),
//	)
//
// Or from a sprocgen.yaml file, with options taking precedence:
//
//	cfg, err := gen.LoadConfigFile(gen.FindConfigFile("."), gen.WithWorkers(4))
//
// # Generated Output
//
//	{output}/
//	├── StoredProcedures/           // multi mode: one file per procedure
//	│   └── {Verb}{Table}[By{Key}].sql
//	├── StoredProcedures.sql        // single mode: every procedure
//	├── {Table}Entity.go            // transfer type
//	├── Repositories/
//	│   ├── db.go                   // DBTX, shared helpers
//	│   └── {Table}Repository.go    // access type
//	└── sprocgen.manifest.yaml
package gen
