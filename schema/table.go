package schema

import "slices"

// DefaultSchema is the database schema assumed when a table does not name one.
const DefaultSchema = "dbo"

// ForeignKey is one named composite key group. Its columns are pointers into
// the owning table's column list, in key order.
type ForeignKey struct {
	name    string
	columns []*Column
}

// Name returns the foreign-key group name.
func (fk *ForeignKey) Name() string { return fk.name }

// Columns returns the group columns in key order.
func (fk *ForeignKey) Columns() []*Column { return slices.Clone(fk.columns) }

// Table describes one table. Column order is significant: it fixes procedure
// parameter order, projection order and host field order.
//
// A Table is built once by NewTable and never mutated afterwards. Membership
// of primary and foreign keys is by column identity, not by name.
type Table struct {
	schema      string
	name        string
	columns     []*Column
	primaryKeys []*Column
	foreignKeys []*ForeignKey
}

// TableOption configures a table in NewTable.
type TableOption func(*tableBuilder)

type tableBuilder struct {
	t   *Table
	pks []string
	fks []struct {
		name string
		cols []string
	}
}

// WithSchema sets the database schema of the table.
func WithSchema(name string) TableOption {
	return func(b *tableBuilder) {
		if name != "" {
			b.t.schema = name
		}
	}
}

// WithColumns appends columns in declaration order.
func WithColumns(cols ...ColumnDescriptor) TableOption {
	return func(b *tableBuilder) {
		for _, d := range cols {
			b.t.columns = append(b.t.columns, d.Column())
		}
	}
}

// WithPrimaryKey sets the primary-key columns by name, in key order.
func WithPrimaryKey(names ...string) TableOption {
	return func(b *tableBuilder) {
		b.pks = append(b.pks[:0], names...)
	}
}

// WithForeignKey adds a named foreign-key group over the given column names.
// Groups keep the order in which they are added.
func WithForeignKey(name string, columns ...string) TableOption {
	return func(b *tableBuilder) {
		b.fks = append(b.fks, struct {
			name string
			cols []string
		}{name: name, cols: columns})
	}
}

// NewTable builds a table. Key column names are resolved against the table's
// own columns after all options are applied; names that match no column are
// skipped. The input is otherwise trusted and not validated.
func NewTable(name string, opts ...TableOption) *Table {
	b := &tableBuilder{t: &Table{schema: DefaultSchema, name: name}}
	for _, opt := range opts {
		opt(b)
	}
	t := b.t
	t.primaryKeys = t.resolve(b.pks)
	for _, fk := range b.fks {
		t.foreignKeys = append(t.foreignKeys, &ForeignKey{name: fk.name, columns: t.resolve(fk.cols)})
	}
	return t
}

func (t *Table) resolve(names []string) []*Column {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		if c := t.Column(n); c != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// Schema returns the database schema name.
func (t *Table) Schema() string { return t.schema }

// Name returns the table name as declared.
func (t *Table) Name() string { return t.name }

// Columns returns all columns in declaration order.
func (t *Table) Columns() []*Column { return slices.Clone(t.columns) }

// PrimaryKeys returns the primary-key columns in key order.
func (t *Table) PrimaryKeys() []*Column { return slices.Clone(t.primaryKeys) }

// ForeignKeys returns the foreign-key groups in declaration order.
func (t *Table) ForeignKeys() []*ForeignKey { return slices.Clone(t.foreignKeys) }

// Column returns the first column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// IsPrimaryKey reports whether c is one of the table's primary-key columns.
func (t *Table) IsPrimaryKey(c *Column) bool {
	return slices.Contains(t.primaryKeys, c)
}

// IdentityColumn returns the first identity column, or nil.
func (t *Table) IdentityColumn() *Column {
	for _, c := range t.columns {
		if c.identity {
			return c
		}
	}
	return nil
}

// RowGUIDColumn returns the first row-unique-identifier column, or nil.
func (t *Table) RowGUIDColumn() *Column {
	for _, c := range t.columns {
		if c.rowGUID {
			return c
		}
	}
	return nil
}
