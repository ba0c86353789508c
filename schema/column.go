package schema

import "strings"

// Storage type names understood by the generators. Any other name is passed
// through verbatim and mapped to a string on the host side.
const (
	TypeBigInt           = "bigint"
	TypeInt              = "int"
	TypeSmallInt         = "smallint"
	TypeTinyInt          = "tinyint"
	TypeBit              = "bit"
	TypeDecimal          = "decimal"
	TypeNumeric          = "numeric"
	TypeMoney            = "money"
	TypeSmallMoney       = "smallmoney"
	TypeFloat            = "float"
	TypeReal             = "real"
	TypeChar             = "char"
	TypeVarChar          = "varchar"
	TypeNChar            = "nchar"
	TypeNVarChar         = "nvarchar"
	TypeText             = "text"
	TypeNText            = "ntext"
	TypeXML              = "xml"
	TypeDate             = "date"
	TypeDateTime         = "datetime"
	TypeDateTime2        = "datetime2"
	TypeSmallDateTime    = "smalldatetime"
	TypeDateTimeOffset   = "datetimeoffset"
	TypeTime             = "time"
	TypeUniqueIdentifier = "uniqueidentifier"
	TypeBinary           = "binary"
	TypeVarBinary        = "varbinary"
	TypeImage            = "image"
	TypeRowVersion       = "rowversion"
	TypeTimestamp        = "timestamp"
)

// MaxLength marks a variable-length column declared as (max).
const MaxLength = -1

// Column describes one table column. A Column is immutable once built; all
// state is read through its accessor methods.
type Column struct {
	name      string
	typ       string
	length    int
	precision int
	scale     int
	identity  bool
	rowGUID   bool
	nullable  bool
}

// ColumnOption configures a Column in NewColumn.
type ColumnOption func(*Column)

// WithLength sets the declared length. Use MaxLength for (max).
func WithLength(n int) ColumnOption {
	return func(c *Column) { c.length = n }
}

// WithPrecision sets the declared precision and scale.
func WithPrecision(precision, scale int) ColumnOption {
	return func(c *Column) {
		c.precision = precision
		c.scale = scale
	}
}

// AsIdentity marks the column as a server-assigned identity column.
func AsIdentity() ColumnOption {
	return func(c *Column) { c.identity = true }
}

// AsRowGUID marks the column as the row-unique-identifier column.
func AsRowGUID() ColumnOption {
	return func(c *Column) { c.rowGUID = true }
}

// AsNullable marks the column as accepting NULL.
func AsNullable() ColumnOption {
	return func(c *Column) { c.nullable = true }
}

// NewColumn returns a column with the given name and storage type. The type
// name is lower-cased; the column name is kept verbatim.
func NewColumn(name, typ string, opts ...ColumnOption) *Column {
	c := &Column{name: name, typ: strings.ToLower(strings.TrimSpace(typ))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the column name as declared.
func (c *Column) Name() string { return c.name }

// Type returns the lower-cased storage type name.
func (c *Column) Type() string { return c.typ }

// Length returns the declared length, MaxLength for (max), or 0 if unset.
func (c *Column) Length() int { return c.length }

// Precision returns the declared numeric precision.
func (c *Column) Precision() int { return c.precision }

// Scale returns the declared numeric scale.
func (c *Column) Scale() int { return c.scale }

// IsIdentity reports whether the column value is assigned by the server.
func (c *Column) IsIdentity() bool { return c.identity }

// IsRowGUID reports whether the column is the row-unique-identifier.
func (c *Column) IsRowGUID() bool { return c.rowGUID }

// IsNullable reports whether the column accepts NULL.
func (c *Column) IsNullable() bool { return c.nullable }

// IsServerAssigned reports whether the server assigns the column value, so
// that no statement may set it: identity and row-version columns.
func (c *Column) IsServerAssigned() bool {
	return c.identity || c.typ == TypeRowVersion || c.typ == TypeTimestamp
}

// Column implements ColumnDescriptor.
func (c *Column) Column() *Column { return c }

// ColumnDescriptor is implemented by values that describe a column, i.e.
// *Column and *ColumnBuilder.
type ColumnDescriptor interface {
	Column() *Column
}

// ColumnBuilder is a fluent builder for columns.
//
//	schema.Int("Id").Identity()
//	schema.NVarChar("Name", 100).Nullable()
type ColumnBuilder struct {
	c Column
}

// Int returns a builder for an int column.
func Int(name string) *ColumnBuilder { return build(name, TypeInt) }

// BigInt returns a builder for a bigint column.
func BigInt(name string) *ColumnBuilder { return build(name, TypeBigInt) }

// SmallInt returns a builder for a smallint column.
func SmallInt(name string) *ColumnBuilder { return build(name, TypeSmallInt) }

// TinyInt returns a builder for a tinyint column.
func TinyInt(name string) *ColumnBuilder { return build(name, TypeTinyInt) }

// Bit returns a builder for a bit column.
func Bit(name string) *ColumnBuilder { return build(name, TypeBit) }

// Decimal returns a builder for a decimal(precision, scale) column.
func Decimal(name string, precision, scale int) *ColumnBuilder {
	return build(name, TypeDecimal).Precision(precision, scale)
}

// Money returns a builder for a money column.
func Money(name string) *ColumnBuilder { return build(name, TypeMoney) }

// Float returns a builder for a float column.
func Float(name string) *ColumnBuilder { return build(name, TypeFloat) }

// Real returns a builder for a real column.
func Real(name string) *ColumnBuilder { return build(name, TypeReal) }

// Char returns a builder for a char(n) column.
func Char(name string, n int) *ColumnBuilder { return build(name, TypeChar).Length(n) }

// VarChar returns a builder for a varchar(n) column.
func VarChar(name string, n int) *ColumnBuilder { return build(name, TypeVarChar).Length(n) }

// NChar returns a builder for an nchar(n) column.
func NChar(name string, n int) *ColumnBuilder { return build(name, TypeNChar).Length(n) }

// NVarChar returns a builder for an nvarchar(n) column.
func NVarChar(name string, n int) *ColumnBuilder { return build(name, TypeNVarChar).Length(n) }

// Date returns a builder for a date column.
func Date(name string) *ColumnBuilder { return build(name, TypeDate) }

// DateTime returns a builder for a datetime column.
func DateTime(name string) *ColumnBuilder { return build(name, TypeDateTime) }

// DateTime2 returns a builder for a datetime2 column.
func DateTime2(name string) *ColumnBuilder { return build(name, TypeDateTime2) }

// DateTimeOffset returns a builder for a datetimeoffset column.
func DateTimeOffset(name string) *ColumnBuilder { return build(name, TypeDateTimeOffset) }

// UniqueIdentifier returns a builder for a uniqueidentifier column.
func UniqueIdentifier(name string) *ColumnBuilder { return build(name, TypeUniqueIdentifier) }

// VarBinary returns a builder for a varbinary(n) column.
func VarBinary(name string, n int) *ColumnBuilder { return build(name, TypeVarBinary).Length(n) }

// Type returns a builder for a column of an arbitrary storage type.
func Type(name, typ string) *ColumnBuilder {
	return build(name, strings.ToLower(strings.TrimSpace(typ)))
}

func build(name, typ string) *ColumnBuilder {
	return &ColumnBuilder{c: Column{name: name, typ: typ}}
}

// Identity marks the column as an identity column.
func (b *ColumnBuilder) Identity() *ColumnBuilder {
	b.c.identity = true
	return b
}

// RowGUID marks the column as the row-unique-identifier column.
func (b *ColumnBuilder) RowGUID() *ColumnBuilder {
	b.c.rowGUID = true
	return b
}

// Nullable marks the column as accepting NULL.
func (b *ColumnBuilder) Nullable() *ColumnBuilder {
	b.c.nullable = true
	return b
}

// Length sets the declared length.
func (b *ColumnBuilder) Length(n int) *ColumnBuilder {
	b.c.length = n
	return b
}

// Precision sets the declared precision and scale.
func (b *ColumnBuilder) Precision(precision, scale int) *ColumnBuilder {
	b.c.precision = precision
	b.c.scale = scale
	return b
}

// Column returns a new immutable column built from the builder state.
func (b *ColumnBuilder) Column() *Column {
	c := b.c
	return &c
}
