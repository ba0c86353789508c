package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sprocgen/schema"
)

// ColumnType returns the parameter type declaration of c, including its
// length, precision or fractional-seconds scale where the type takes one.
//
//	nvarchar(100)  varbinary(max)  decimal(18,2)  datetime2(3)  int
func ColumnType(c *schema.Column) string {
	typ := strings.ToLower(c.Type())
	switch typ {
	case schema.TypeChar, schema.TypeVarChar, schema.TypeNChar, schema.TypeNVarChar,
		schema.TypeBinary, schema.TypeVarBinary:
		switch n := c.Length(); {
		case n == schema.MaxLength:
			return typ + "(max)"
		case n > 0:
			return typ + "(" + strconv.Itoa(n) + ")"
		}
	case schema.TypeDecimal, schema.TypeNumeric:
		if p := c.Precision(); p > 0 {
			return typ + "(" + strconv.Itoa(p) + "," + strconv.Itoa(c.Scale()) + ")"
		}
	case schema.TypeDateTime2, schema.TypeDateTimeOffset, schema.TypeTime:
		if s := c.Scale(); s > 0 {
			return typ + "(" + strconv.Itoa(s) + ")"
		}
	}
	return typ
}
