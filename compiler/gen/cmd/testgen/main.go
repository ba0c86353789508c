// testgen generates the procedures and access code of a small shop schema
// into a temporary directory.
// Run: go run ./compiler/gen/cmd/testgen
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/sprocgen/compiler"
	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

func main() {
	outDir, err := os.MkdirTemp("", "sprocgen-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output directory: %s\n", outDir)

	customer := schema.NewTable("Customer",
		schema.WithColumns(
			schema.Int("Id").Identity(),
			schema.NVarChar("Name", 100),
			schema.NVarChar("Email", 256).Nullable(),
		),
		schema.WithPrimaryKey("Id"),
	)
	order := schema.NewTable("Order",
		schema.WithSchema("sales"),
		schema.WithColumns(
			schema.Int("Id").Identity(),
			schema.Int("CustomerId"),
			schema.Int("RegionId").Nullable(),
			schema.Decimal("Total", 18, 2),
			schema.DateTime2("PlacedAt").Precision(0, 3),
			schema.UniqueIdentifier("TrackingId").RowGUID(),
		),
		schema.WithPrimaryKey("Id"),
		schema.WithForeignKey("FK_Order_Customer", "CustomerId"),
		schema.WithForeignKey("FK_Order_Region", "RegionId"),
	)

	config, err := gen.NewConfig(
		gen.WithOutputPath(outDir),
		gen.WithHostPackage("example.com/shop/data"),
		gen.WithDatabase("Shop"),
		gen.WithGrantPrincipal("app_user"),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating procedures and access code...")
	manifest, err := compiler.Generate(context.Background(), config, []*schema.Table{customer, order})
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated files:")
	for _, rel := range manifest.Paths() {
		info, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to stat %s: %v\n", rel, err)
			continue
		}
		fmt.Printf("  %s (%d bytes)\n", rel, info.Size())
	}

	fmt.Println("\n--- Sample: StoredProcedures/InsertOrder.sql ---")
	content, err := os.ReadFile(filepath.Join(outDir, gen.SQLDir, "InsertOrder.sql"))
	if err == nil {
		fmt.Print(string(content))
	}

	fmt.Printf("\nTo inspect generated code: ls -la %s\n", outDir)
	fmt.Println("Done!")
}
