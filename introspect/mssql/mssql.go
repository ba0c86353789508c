// Package mssql reads table models from SQL Server catalog views.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/microsoft/go-mssqldb" // registers the sqlserver driver
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/syssam/sprocgen/introspect"
	"github.com/syssam/sprocgen/schema"
)

// DefaultSchema is inspected when Options.Schema is empty.
const DefaultSchema = schema.DefaultSchema

const (
	databaseQuery = `SELECT DB_NAME()`

	tablesQuery = `SELECT TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = @p1
ORDER BY TABLE_NAME`

	columnsQuery = `SELECT c.name, TYPE_NAME(c.system_type_id), c.max_length, c.precision, c.scale,
	c.is_nullable, c.is_identity, c.is_rowguidcol
FROM sys.columns c
JOIN sys.tables t ON t.object_id = c.object_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
WHERE s.name = @p1 AND t.name = @p2
ORDER BY c.column_id`

	keysQuery = `SELECT tc.CONSTRAINT_TYPE, tc.CONSTRAINT_NAME, kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
	ON kcu.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
WHERE tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
	AND tc.CONSTRAINT_TYPE IN ('PRIMARY KEY', 'FOREIGN KEY')
ORDER BY tc.CONSTRAINT_TYPE DESC, tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`
)

// Inspector reads tables through INFORMATION_SCHEMA and sys.columns.
type Inspector struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ introspect.Inspector = (*Inspector)(nil)

// Open validates dsn, connects and pings the server.
func Open(ctx context.Context, dsn string) (*Inspector, error) {
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return New(db), nil
}

// New returns an Inspector over an open database.
func New(db *sql.DB) *Inspector {
	return &Inspector{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger sets the logger receiving one debug record per table.
func (i *Inspector) WithLogger(l *slog.Logger) *Inspector {
	if l != nil {
		i.logger = l
	}
	return i
}

// Close closes the database.
func (i *Inspector) Close() error { return i.db.Close() }

// Database returns the name of the database the connection uses.
func (i *Inspector) Database(ctx context.Context) (string, error) {
	var name sql.NullString
	if err := i.db.QueryRowContext(ctx, databaseQuery).Scan(&name); err != nil {
		return "", fmt.Errorf("mssql: querying database name: %w", err)
	}
	return name.String, nil
}

// Inspect implements introspect.Inspector.
func (i *Inspector) Inspect(ctx context.Context, opts introspect.Options) ([]*schema.Table, error) {
	schemaName := opts.Schema
	if schemaName == "" {
		schemaName = DefaultSchema
	}
	names, err := i.tableNames(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	var tables []*schema.Table
	for _, name := range names {
		if !opts.Wants(name) {
			continue
		}
		t, err := i.table(ctx, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("mssql: table %s.%s: %w", schemaName, name, err)
		}
		i.logger.Debug("table inspected", "table", schemaName+"."+name, "columns", len(t.Columns()))
		tables = append(tables, t)
	}
	return tables, nil
}

func (i *Inspector) tableNames(ctx context.Context, schemaName string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("mssql: querying tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("mssql: scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (i *Inspector) table(ctx context.Context, schemaName, name string) (*schema.Table, error) {
	cols, err := i.columns(ctx, schemaName, name)
	if err != nil {
		return nil, err
	}
	opts := []schema.TableOption{schema.WithSchema(schemaName), schema.WithColumns(cols...)}
	keys, err := i.keys(ctx, schemaName, name)
	if err != nil {
		return nil, err
	}
	return schema.NewTable(name, append(opts, keys...)...), nil
}

func (i *Inspector) columns(ctx context.Context, schemaName, table string) ([]schema.ColumnDescriptor, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var cols []schema.ColumnDescriptor
	for rows.Next() {
		var (
			name, typ                      string
			maxLength                      int
			precision, scale               int
			nullable, identity, rowGUIDCol bool
		)
		if err := rows.Scan(&name, &typ, &maxLength, &precision, &scale, &nullable, &identity, &rowGUIDCol); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, newColumn(name, typ, maxLength, precision, scale, nullable, identity, rowGUIDCol))
	}
	return cols, rows.Err()
}

// newColumn converts a sys.columns row. max_length counts bytes, so
// national character lengths are halved; -1 marks (max).
func newColumn(name, typ string, maxLength, precision, scale int, nullable, identity, rowGUIDCol bool) *schema.Column {
	var opts []schema.ColumnOption
	switch typ {
	case schema.TypeNChar, schema.TypeNVarChar:
		if maxLength > 0 {
			maxLength /= 2
		}
		opts = append(opts, schema.WithLength(maxLength))
	case schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary:
		opts = append(opts, schema.WithLength(maxLength))
	case schema.TypeDecimal, schema.TypeNumeric,
		schema.TypeDateTime2, schema.TypeDateTimeOffset, schema.TypeTime:
		opts = append(opts, schema.WithPrecision(precision, scale))
	}
	if nullable {
		opts = append(opts, schema.AsNullable())
	}
	if identity {
		opts = append(opts, schema.AsIdentity())
	}
	if rowGUIDCol {
		opts = append(opts, schema.AsRowGUID())
	}
	return schema.NewColumn(name, typ, opts...)
}

// keys returns the primary key and foreign-key groups of a table. Rows come
// ordered by constraint, then by key ordinal.
func (i *Inspector) keys(ctx context.Context, schemaName, table string) ([]schema.TableOption, error) {
	rows, err := i.db.QueryContext(ctx, keysQuery, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var (
		pk   []string
		fks  []string
		cols = make(map[string][]string)
	)
	for rows.Next() {
		var kind, constraint, column string
		if err := rows.Scan(&kind, &constraint, &column); err != nil {
			return nil, fmt.Errorf("scanning key column: %w", err)
		}
		if kind == "PRIMARY KEY" {
			pk = append(pk, column)
			continue
		}
		if _, ok := cols[constraint]; !ok {
			fks = append(fks, constraint)
		}
		cols[constraint] = append(cols[constraint], column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	opts := []schema.TableOption{schema.WithPrimaryKey(pk...)}
	for _, name := range fks {
		opts = append(opts, schema.WithForeignKey(name, cols[name]...))
	}
	return opts, nil
}
