package gen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/sprocgen/schema"
)

// keySeparator joins the parts of a composite key name.
const keySeparator = "_"

// Pascal upper-cases the first rune of s. The rest of the spelling, word
// separators included, is kept as is.
//
//	Pascal("customer_id") // Customer_id
//	Pascal("orderID")     // OrderID
func Pascal(s string) string {
	return caseFirst(s, cases.Upper(language.Und))
}

// Camel lower-cases the first rune of s and keeps the rest.
//
//	Camel("Customer_Id") // customer_Id
func Camel(s string) string {
	return caseFirst(s, cases.Lower(language.Und))
}

// caseFirst applies c to the first rune of s. Casers keep state, so each
// call gets its own.
func caseFirst(s string, c cases.Caser) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return c.String(s[:size]) + s[size:]
}

// Identifier replaces every rune of s that is not a letter, a digit or '_'
// with '_', and prefixes '_' when s starts with a digit. The result is valid
// both as a Go identifier and as a T-SQL variable name.
func Identifier(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)
	for i, r := range s {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Exported returns the exported Go identifier of a name: its Pascal form as
// an Identifier, prefixed with X when it does not start with an upper-case
// letter.
func Exported(s string) string {
	id := Identifier(Pascal(s))
	if r, _ := utf8.DecodeRuneInString(id); !unicode.IsUpper(r) {
		return "X" + id
	}
	return id
}

// VarName returns the name of the procedure parameter or variable bound to
// a column: the Camel form of its name as an Identifier.
func VarName(c *schema.Column) string {
	return Identifier(Camel(c.Name()))
}

// KeyName composes the name of a composite key from its columns: the Pascal
// form of each column, in key order, joined by underscores.
//
//	KeyName([CustomerId, order_no]) // CustomerId_Order_no
func KeyName(cols []*schema.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = Pascal(c.Name())
	}
	return strings.Join(parts, keySeparator)
}

// TransferTypeName returns the name of the transfer type of t.
func (c *Config) TransferTypeName(t *schema.Table) string {
	return Exported(t.Name()) + c.TransferSuffix
}

// AccessTypeName returns the name of the access type of t.
func (c *Config) AccessTypeName(t *schema.Table) string {
	return Exported(t.Name()) + c.AccessSuffix
}

// ProcedureName returns the unqualified procedure name of an operation:
// {prefix}{Table}{Verb}[By{Key}].
func (c *Config) ProcedureName(t *schema.Table, op Operation) string {
	var b strings.Builder
	b.WriteString(c.ProcedurePrefix)
	b.WriteString(Pascal(t.Name()))
	b.WriteString(op.Kind.Verb())
	if op.Key != nil {
		b.WriteString("By")
		b.WriteString(KeyName(op.Key.Columns()))
	}
	return b.String()
}

// SQLFileName returns the file name of an operation in multi-file mode:
// {Verb}{Table}[By{Key}].sql.
func SQLFileName(t *schema.Table, op Operation) string {
	var b strings.Builder
	b.WriteString(op.Kind.Verb())
	b.WriteString(Pascal(t.Name()))
	if op.Key != nil {
		b.WriteString("By")
		b.WriteString(KeyName(op.Key.Columns()))
	}
	b.WriteString(".sql")
	return b.String()
}

// MethodName returns the access-type method name of an operation:
// {Verb}[By{Key}].
func MethodName(op Operation) string {
	if op.Key == nil {
		return op.Kind.Verb()
	}
	return op.Kind.Verb() + "By" + Identifier(KeyName(op.Key.Columns()))
}

// QuoteIdent returns name as a bracket-delimited T-SQL identifier, doubling
// any closing bracket.
func QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
