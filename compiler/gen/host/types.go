package host

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/sprocgen/schema"
)

// goType describes how a storage type maps to Go.
type goType struct {
	// field returns the struct field type.
	field func() *jen.Statement
	// holder returns the scan destination type. Nil-able fields scan
	// directly into the field type.
	holder func() *jen.Statement
	// value is the holder field carrying the value (e.g. "Int32"); empty
	// when the holder is the field type itself.
	value string
	// convert, when set, converts the holder value to the field type.
	convert string
}

func nullType(name string) func() *jen.Statement {
	return func() *jen.Statement { return jen.Qual(sqlPkg, name) }
}

func basic(f func() *jen.Statement, holder, value string) goType {
	return goType{field: f, holder: nullType(holder), value: value}
}

var (
	int32Type = basic(func() *jen.Statement { return jen.Int32() }, "NullInt32", "Int32")
	int64Type = basic(func() *jen.Statement { return jen.Int64() }, "NullInt64", "Int64")
	int16Type = basic(func() *jen.Statement { return jen.Int16() }, "NullInt16", "Int16")
	uint8Type = basic(func() *jen.Statement { return jen.Uint8() }, "NullByte", "Byte")
	boolType  = basic(func() *jen.Statement { return jen.Bool() }, "NullBool", "Bool")
	f64Type   = basic(func() *jen.Statement { return jen.Float64() }, "NullFloat64", "Float64")
	f32Type   = goType{
		field:   func() *jen.Statement { return jen.Float32() },
		holder:  nullType("NullFloat64"),
		value:   "Float64",
		convert: "float32",
	}
	stringType = basic(func() *jen.Statement { return jen.String() }, "NullString", "String")
	timeType   = basic(func() *jen.Statement { return jen.Qual(timePkg, "Time") }, "NullTime", "Time")
	guidType   = goType{
		field:  func() *jen.Statement { return jen.Qual(mssqlPkg, "UniqueIdentifier") },
		holder: func() *jen.Statement { return jen.Qual(mssqlPkg, "NullUniqueIdentifier") },
		value:  "UUID",
	}
	bytesType = goType{
		field:  func() *jen.Statement { return jen.Index().Byte() },
		holder: func() *jen.Statement { return jen.Index().Byte() },
	}
)

// types maps storage type names to Go types. Unknown types map to string.
var types = map[string]goType{
	schema.TypeInt:              int32Type,
	schema.TypeBigInt:           int64Type,
	schema.TypeSmallInt:         int16Type,
	schema.TypeTinyInt:          uint8Type,
	schema.TypeBit:              boolType,
	schema.TypeDecimal:          f64Type,
	schema.TypeNumeric:          f64Type,
	schema.TypeMoney:            f64Type,
	schema.TypeSmallMoney:       f64Type,
	schema.TypeFloat:            f64Type,
	schema.TypeReal:             f32Type,
	schema.TypeChar:             stringType,
	schema.TypeVarChar:          stringType,
	schema.TypeNChar:            stringType,
	schema.TypeNVarChar:         stringType,
	schema.TypeText:             stringType,
	schema.TypeNText:            stringType,
	schema.TypeXML:              stringType,
	"sysname":                   stringType,
	schema.TypeDate:             timeType,
	schema.TypeDateTime:         timeType,
	schema.TypeDateTime2:        timeType,
	schema.TypeSmallDateTime:    timeType,
	schema.TypeDateTimeOffset:   timeType,
	schema.TypeTime:             timeType,
	schema.TypeUniqueIdentifier: guidType,
	schema.TypeBinary:           bytesType,
	schema.TypeVarBinary:        bytesType,
	schema.TypeImage:            bytesType,
	schema.TypeRowVersion:       bytesType,
	schema.TypeTimestamp:        bytesType,
}

// typeOf returns the Go mapping of a column.
func typeOf(c *schema.Column) goType {
	if t, ok := types[c.Type()]; ok {
		return t
	}
	return stringType
}
