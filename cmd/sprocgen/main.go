// Command sprocgen generates SQL Server stored procedures and Go data-access
// code from table definitions.
//
//	sprocgen generate --schema tables.yaml --package github.com/org/app/data
//	sprocgen inspect --dsn "sqlserver://..." --write tables.yaml
//	sprocgen watch --schema tables.yaml --package github.com/org/app/data
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
