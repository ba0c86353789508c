package gen

import (
	"strconv"

	"github.com/syssam/sprocgen/schema"
)

// Param is one positional procedure parameter. The SQL renderer declares it
// as @Name and the host renderer binds it as argument @p{Position}; both walk
// the same Procedure.Params slice.
type Param struct {
	Column   *schema.Column
	Name     string
	Position int
}

// Placeholder returns the positional driver placeholder of the parameter.
func (p *Param) Placeholder() string { return "@p" + strconv.Itoa(p.Position) }

// Return describes the value produced by an Insert procedure.
type Return struct {
	// Column receives the value on the host side.
	Column *schema.Column
	// Identity is set when the value is the new identity, and unset when it
	// is a generated row GUID.
	Identity bool
}

// Statement is one statement of a procedure body.
type Statement interface {
	statement()
}

// Assign pairs a column with the variable bound to it.
type Assign struct {
	Column *schema.Column
	Var    string
}

type (
	// DeclareGUID declares a variable holding a fresh row GUID.
	DeclareGUID struct {
		Column *schema.Column
		Var    string
	}

	// Insert inserts one row. Values holds a variable per column.
	Insert struct {
		Columns []*schema.Column
		Values  []string
	}

	// Update sets columns of the rows matching Where.
	Update struct {
		Set   []Assign
		Where []Assign
	}

	// Delete removes the rows matching Where.
	Delete struct {
		Where []Assign
	}

	// Select projects Columns of the rows matching Where. An empty Where
	// selects every row.
	Select struct {
		Columns []*schema.Column
		Where   []Assign
		JSON    bool
		Single  bool
	}

	// ReturnIdentity returns the identity value of the inserted row.
	ReturnIdentity struct {
		Column *schema.Column
	}

	// ReturnVar returns the value of a variable.
	ReturnVar struct {
		Var string
	}
)

func (*DeclareGUID) statement()    {}
func (*Insert) statement()         {}
func (*Update) statement()         {}
func (*Delete) statement()         {}
func (*Select) statement()         {}
func (*ReturnIdentity) statement() {}
func (*ReturnVar) statement()      {}

// Procedure is the target-neutral description of one generated procedure.
type Procedure struct {
	Operation
	Table *schema.Table
	// Schema and Name are the unqualified parts of the procedure name.
	Schema string
	Name   string
	// File is the SQL file name used in multi-file mode.
	File string
	// Method is the access-type method invoking the procedure.
	Method string
	Params []*Param
	Body   []Statement
	// Projection is the column order of the result rows of Select kinds.
	Projection []*schema.Column
	Returns    *Return
	// Grant is the principal receiving EXECUTE, or empty.
	Grant string
}

// QualifiedName returns [schema].[name].
func (p *Procedure) QualifiedName() string {
	return QuoteIdent(p.Schema) + "." + QuoteIdent(p.Name)
}

// Plan is the set of procedures generated for one table.
type Plan struct {
	Table      *schema.Table
	Procedures []*Procedure
}

// NewPlan decides the operations of t and builds their procedures in
// emission order.
func NewPlan(c *Config, t *schema.Table) *Plan {
	ops := Decide(t)
	p := &Plan{Table: t, Procedures: make([]*Procedure, len(ops))}
	for i, op := range ops {
		p.Procedures[i] = NewProcedure(c, t, op)
	}
	return p
}

// Procedure returns the first procedure of the given kind, or nil.
func (p *Plan) Procedure(k Kind) *Procedure {
	for _, proc := range p.Procedures {
		if proc.Kind == k {
			return proc
		}
	}
	return nil
}

// NewProcedure builds the procedure of a single operation.
func NewProcedure(c *Config, t *schema.Table, op Operation) *Procedure {
	p := &Procedure{
		Operation: op,
		Table:     t,
		Schema:    t.Schema(),
		Name:      c.ProcedureName(t, op),
		File:      SQLFileName(t, op),
		Method:    MethodName(op),
		Grant:     c.GrantPrincipal,
	}
	switch op.Kind {
	case KindInsert:
		p.buildInsert(t)
	case KindUpdate:
		// Every column is a parameter; server-assigned columns are never set.
		p.Params = params(t.Columns())
		var set []Assign
		for _, prm := range p.Params {
			if !t.IsPrimaryKey(prm.Column) && !prm.Column.IsServerAssigned() {
				set = append(set, Assign{Column: prm.Column, Var: prm.Name})
			}
		}
		if len(set) > 0 {
			p.Body = []Statement{&Update{Set: set, Where: assigns(t.PrimaryKeys())}}
		}
	case KindDelete, KindDeleteAllBy:
		cols := p.keyColumns(t)
		p.Params = params(cols)
		p.Body = []Statement{&Delete{Where: assigns(cols)}}
	default:
		var where []Assign
		if op.Kind != KindSelectAll && op.Kind != KindSelectAllJSON {
			cols := p.keyColumns(t)
			p.Params = params(cols)
			where = assigns(cols)
		}
		p.Projection = t.Columns()
		p.Body = []Statement{&Select{
			Columns: p.Projection,
			Where:   where,
			JSON:    op.Kind.JSON(),
			Single:  op.Kind.SingleRow(),
		}}
	}
	return p
}

// keyColumns returns the foreign-key group columns of by-key operations and
// the primary-key columns otherwise.
func (p *Procedure) keyColumns(t *schema.Table) []*schema.Column {
	if p.Key != nil {
		return p.Key.Columns()
	}
	return t.PrimaryKeys()
}

func (p *Procedure) buildInsert(t *schema.Table) {
	var (
		cols   []*schema.Column
		values []string
		inputs []*schema.Column
	)
	for _, c := range t.Columns() {
		switch {
		case c.IsIdentity():
		case c.IsRowGUID():
			v := VarName(c)
			p.Body = append(p.Body, &DeclareGUID{Column: c, Var: v})
			cols = append(cols, c)
			values = append(values, v)
		case c.IsServerAssigned():
			// Bound like any other input but left out of the column list.
			inputs = append(inputs, c)
		default:
			inputs = append(inputs, c)
			cols = append(cols, c)
			values = append(values, VarName(c))
		}
	}
	p.Params = params(inputs)
	p.Body = append(p.Body, &Insert{Columns: cols, Values: values})
	// Identity takes precedence over the row GUID.
	if id := t.IdentityColumn(); id != nil {
		p.Returns = &Return{Column: id, Identity: true}
		p.Body = append(p.Body, &ReturnIdentity{Column: id})
	} else if g := t.RowGUIDColumn(); g != nil {
		p.Returns = &Return{Column: g}
		p.Body = append(p.Body, &ReturnVar{Var: VarName(g)})
	}
}

func params(cols []*schema.Column) []*Param {
	ps := make([]*Param, len(cols))
	for i, c := range cols {
		ps[i] = &Param{Column: c, Name: VarName(c), Position: i + 1}
	}
	return ps
}

func assigns(cols []*schema.Column) []Assign {
	as := make([]Assign, len(cols))
	for i, c := range cols {
		as[i] = Assign{Column: c, Var: VarName(c)}
	}
	return as
}
