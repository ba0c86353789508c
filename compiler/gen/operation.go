package gen

import "github.com/syssam/sprocgen/schema"

// Kind identifies a generated data-access operation.
type Kind uint8

// Operation kinds, in emission order.
const (
	KindInsert Kind = iota
	KindUpdate
	KindDelete
	KindDeleteAllBy
	KindSelect
	KindSelectJSON
	KindSelectAll
	KindSelectAllJSON
	KindSelectAllBy
	KindSelectAllJSONBy
)

var kindNames = [...]string{
	KindInsert:          "Insert",
	KindUpdate:          "Update",
	KindDelete:          "Delete",
	KindDeleteAllBy:     "DeleteAllBy",
	KindSelect:          "Select",
	KindSelectJSON:      "SelectJson",
	KindSelectAll:       "SelectAll",
	KindSelectAllJSON:   "SelectAllJson",
	KindSelectAllBy:     "SelectAllBy",
	KindSelectAllJSONBy: "SelectAllJsonBy",
}

// verbs are the name parts of each kind; by-key kinds get "By{Key}" appended.
var verbs = [...]string{
	KindInsert:          "Insert",
	KindUpdate:          "Update",
	KindDelete:          "Delete",
	KindDeleteAllBy:     "DeleteAll",
	KindSelect:          "Select",
	KindSelectJSON:      "SelectJson",
	KindSelectAll:       "SelectAll",
	KindSelectAllJSON:   "SelectAllJson",
	KindSelectAllBy:     "SelectAll",
	KindSelectAllJSONBy: "SelectAllJson",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Verb returns the part of procedure, file and method names naming the kind.
func (k Kind) Verb() string {
	if int(k) < len(verbs) {
		return verbs[k]
	}
	return "Unknown"
}

// ByKey reports whether the kind is emitted once per foreign-key group.
func (k Kind) ByKey() bool {
	return k == KindDeleteAllBy || k == KindSelectAllBy || k == KindSelectAllJSONBy
}

// JSON reports whether the kind returns a serialized JSON projection.
func (k Kind) JSON() bool {
	return k == KindSelectJSON || k == KindSelectAllJSON || k == KindSelectAllJSONBy
}

// Selects reports whether the kind reads rows.
func (k Kind) Selects() bool {
	return k >= KindSelect
}

// SingleRow reports whether the kind reads at most one row.
func (k Kind) SingleRow() bool {
	return k == KindSelect || k == KindSelectJSON
}

// Operation is one decided operation of a table. Key is set for by-key kinds
// only.
type Operation struct {
	Kind Kind
	Key  *schema.ForeignKey
}

// Decide returns the operations warranted by the shape of t, in emission
// order. It is a pure function of the table's primary-key count, column
// count and foreign-key groups.
//
// The column count is compared against the number of foreign-key groups,
// not the number of columns covered by them. This is the established rule
// and is kept as is.
func Decide(t *schema.Table) []Operation {
	var (
		fks     = t.ForeignKeys()
		cols    = len(t.Columns())
		pks     = len(t.PrimaryKeys())
		groups  = len(fks)
		hasPK   = pks > 0
		notKeys = cols != pks && cols != groups
		ops     = make([]Operation, 0, 8+3*groups)
	)
	ops = append(ops, Operation{Kind: KindInsert})
	if hasPK && notKeys {
		ops = append(ops, Operation{Kind: KindUpdate})
	}
	if hasPK {
		ops = append(ops, Operation{Kind: KindDelete})
	}
	for _, fk := range fks {
		ops = append(ops, Operation{Kind: KindDeleteAllBy, Key: fk})
	}
	if hasPK && groups != cols {
		ops = append(ops, Operation{Kind: KindSelect}, Operation{Kind: KindSelectJSON})
	}
	if notKeys {
		ops = append(ops, Operation{Kind: KindSelectAll}, Operation{Kind: KindSelectAllJSON})
	}
	for _, fk := range fks {
		ops = append(ops, Operation{Kind: KindSelectAllBy, Key: fk})
	}
	for _, fk := range fks {
		ops = append(ops, Operation{Kind: KindSelectAllJSONBy, Key: fk})
	}
	return ops
}
