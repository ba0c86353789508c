// Package atlas reads table models from PostgreSQL, MySQL and SQLite
// through Atlas inspection drivers, mapping column types to their SQL Server
// storage equivalents.
package atlas

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	sqlschema "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	_ "github.com/go-sql-driver/mysql" // registers the mysql driver
	_ "github.com/lib/pq"              // registers the postgres driver
	_ "modernc.org/sqlite"             // registers the sqlite driver

	"github.com/syssam/sprocgen/introspect"
	"github.com/syssam/sprocgen/schema"
)

// Supported database/sql driver names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Drivers lists the driver names accepted by Open.
var Drivers = []string{Postgres, MySQL, SQLite}

// Inspector reads tables through an Atlas driver.
type Inspector struct {
	db     *sql.DB
	driver migrate.Driver
	logger *slog.Logger
}

var _ introspect.Inspector = (*Inspector)(nil)

// Open connects with the named driver and wraps the matching Atlas driver.
func Open(ctx context.Context, driver, dsn string) (*Inspector, error) {
	if !slices.Contains(Drivers, driver) {
		return nil, fmt.Errorf("atlas: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	i, err := New(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return i, nil
}

// New wraps an open database with the Atlas driver of the given dialect.
func New(db *sql.DB, driver string) (*Inspector, error) {
	var (
		drv migrate.Driver
		err error
	)
	switch driver {
	case Postgres:
		drv, err = postgres.Open(db)
	case MySQL:
		drv, err = mysql.Open(db)
	case SQLite:
		drv, err = sqlite.Open(db)
	default:
		return nil, fmt.Errorf("atlas: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("atlas: open %s driver: %w", driver, err)
	}
	return &Inspector{db: db, driver: drv, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, nil
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

// Inspect implements introspect.Inspector. An empty schema selects the
// connection's current schema.
func (i *Inspector) Inspect(ctx context.Context, opts introspect.Options) ([]*schema.Table, error) {
	s, err := i.driver.InspectSchema(ctx, opts.Schema, &sqlschema.InspectOptions{Mode: sqlschema.InspectTables})
	if err != nil {
		return nil, fmt.Errorf("atlas: inspect schema %q: %w", opts.Schema, err)
	}
	tables := Convert(s, opts)
	for _, t := range tables {
		i.logger.Debug("table inspected", "table", t.Schema()+"."+t.Name(), "columns", len(t.Columns()))
	}
	return tables, nil
}

// Convert maps the tables of an inspected schema that pass the options
// filter, ordered by name.
func Convert(s *sqlschema.Schema, opts introspect.Options) []*schema.Table {
	src := slices.Clone(s.Tables)
	slices.SortFunc(src, func(a, b *sqlschema.Table) int { return cmp.Compare(a.Name, b.Name) })

	var tables []*schema.Table
	for _, t := range src {
		if opts.Wants(t.Name) {
			tables = append(tables, ConvertTable(t))
		}
	}
	return tables
}

// ConvertTable maps one Atlas table. The schema name is kept as inspected.
func ConvertTable(t *sqlschema.Table) *schema.Table {
	cols := make([]schema.ColumnDescriptor, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = convertColumn(c)
	}
	opts := []schema.TableOption{schema.WithColumns(cols...)}
	if t.Schema != nil {
		opts = append(opts, schema.WithSchema(t.Schema.Name))
	}
	if t.PrimaryKey != nil {
		var pk []string
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				pk = append(pk, p.C.Name)
			}
		}
		opts = append(opts, schema.WithPrimaryKey(pk...))
	}
	for _, fk := range t.ForeignKeys {
		names := make([]string, len(fk.Columns))
		for i, c := range fk.Columns {
			names[i] = c.Name
		}
		name := fk.Symbol
		if name == "" {
			name = "FK_" + t.Name + "_" + strings.Join(names, "_")
		}
		opts = append(opts, schema.WithForeignKey(name, names...))
	}
	return schema.NewTable(t.Name, opts...)
}

func convertColumn(c *sqlschema.Column) *schema.Column {
	var (
		typ  string
		opts []schema.ColumnOption
	)
	if c.Type != nil {
		typ, opts = convertType(c.Type.Type)
		if c.Type.Null {
			opts = append(opts, schema.AsNullable())
		}
	}
	if isIdentity(c) {
		opts = append(opts, schema.AsIdentity())
	}
	return schema.NewColumn(c.Name, typ, opts...)
}

func isIdentity(c *sqlschema.Column) bool {
	if c.Type != nil {
		if _, ok := c.Type.Type.(*postgres.SerialType); ok {
			return true
		}
	}
	for _, a := range c.Attrs {
		switch a.(type) {
		case *postgres.Identity, *mysql.AutoIncrement, *sqlite.AutoIncrement:
			return true
		}
	}
	return false
}

// convertType returns the SQL Server storage type of an Atlas column type.
func convertType(t sqlschema.Type) (string, []schema.ColumnOption) {
	switch t := t.(type) {
	case *postgres.SerialType:
		switch t.T {
		case postgres.TypeSmallSerial:
			return schema.TypeSmallInt, nil
		case postgres.TypeBigSerial:
			return schema.TypeBigInt, nil
		}
		return schema.TypeInt, nil
	case *sqlschema.IntegerType:
		switch strings.ToLower(t.T) {
		case "bigint", "int8":
			return schema.TypeBigInt, nil
		case "smallint", "int2":
			return schema.TypeSmallInt, nil
		case "tinyint":
			return schema.TypeTinyInt, nil
		}
		return schema.TypeInt, nil
	case *sqlschema.BoolType:
		return schema.TypeBit, nil
	case *sqlschema.DecimalType:
		if t.Precision > 0 {
			return schema.TypeDecimal, []schema.ColumnOption{schema.WithPrecision(t.Precision, t.Scale)}
		}
		return schema.TypeDecimal, nil
	case *sqlschema.FloatType:
		switch strings.ToLower(t.T) {
		case "real", "float4":
			return schema.TypeReal, nil
		}
		if t.Precision > 0 && t.Precision <= 24 {
			return schema.TypeReal, nil
		}
		return schema.TypeFloat, nil
	case *sqlschema.StringType:
		return stringType(t)
	case *sqlschema.TimeType:
		return timeType(t)
	case *sqlschema.BinaryType:
		n := schema.MaxLength
		if t.Size != nil && *t.Size > 0 {
			n = *t.Size
		}
		return schema.TypeVarBinary, []schema.ColumnOption{schema.WithLength(n)}
	case *sqlschema.UUIDType:
		return schema.TypeUniqueIdentifier, nil
	case *sqlschema.JSONType, *sqlschema.EnumType:
		return schema.TypeNVarChar, []schema.ColumnOption{schema.WithLength(schema.MaxLength)}
	case *sqlschema.UnsupportedType:
		return t.T, nil
	}
	return schema.TypeNVarChar, []schema.ColumnOption{schema.WithLength(schema.MaxLength)}
}

func stringType(t *sqlschema.StringType) (string, []schema.ColumnOption) {
	switch strings.ToLower(t.T) {
	case "char", "character", "bpchar", "nchar":
		n := 1
		if t.Size > 0 {
			n = min(t.Size, 4000)
		}
		return schema.TypeNChar, []schema.ColumnOption{schema.WithLength(n)}
	}
	n := t.Size
	if n <= 0 || n > 4000 {
		n = schema.MaxLength
	}
	return schema.TypeNVarChar, []schema.ColumnOption{schema.WithLength(n)}
}

func timeType(t *sqlschema.TimeType) (string, []schema.ColumnOption) {
	var opts []schema.ColumnOption
	if t.Precision != nil && *t.Precision > 0 {
		opts = append(opts, schema.WithPrecision(0, min(*t.Precision, 7)))
	}
	switch strings.ToLower(t.T) {
	case "date":
		return schema.TypeDate, nil
	case "time", "time without time zone", "timetz", "time with time zone":
		return schema.TypeTime, opts
	case postgres.TypeTimestampTZ, postgres.TypeTimestampWTZ:
		return schema.TypeDateTimeOffset, opts
	}
	return schema.TypeDateTime2, opts
}
