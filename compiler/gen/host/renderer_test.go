package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

func newRenderer(t *testing.T, opts ...gen.Option) (*Renderer, *gen.Config) {
	t.Helper()
	opts = append([]gen.Option{
		gen.WithOutputPath(t.TempDir()),
		gen.WithHostPackage("example.com/app/data"),
	}, opts...)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	return NewRenderer(gen.NewGenerator(c)), c
}

func customerTable() *schema.Table {
	return schema.NewTable("Customer",
		schema.WithColumns(
			schema.Int("Id").Identity(),
			schema.NVarChar("Name", 100),
			schema.NVarChar("Email", 255),
		),
		schema.WithPrimaryKey("Id"),
	)
}

func orderLineTable() *schema.Table {
	return schema.NewTable("OrderLine",
		schema.WithSchema("sales"),
		schema.WithColumns(
			schema.Int("OrderId"),
			schema.SmallInt("LineNo"),
			schema.Int("ProductId"),
			schema.Decimal("Quantity", 18, 4),
		),
		schema.WithPrimaryKey("OrderId", "LineNo"),
		schema.WithForeignKey("FK_OrderLine_Order", "OrderId"),
		schema.WithForeignKey("FK_OrderLine_Product", "ProductId"),
	)
}

func TestGenTransfer(t *testing.T) {
	r, c := newRenderer(t)
	plan := gen.NewPlan(c, customerTable())
	code := r.GenTransfer(plan).GoString()

	assert.Contains(t, code, "// Code generated by sprocgen. DO NOT EDIT.")
	assert.Contains(t, code, "package data")
	assert.Contains(t, code, "// CustomerEntity mirrors one row of [dbo].[Customer].")
	assert.Regexp(t, `type CustomerEntity struct \{\n\tId\s+int32\n\tName\s+string\n\tEmail\s+string\n\}`, code)

	assert.Contains(t, code, "func NewCustomerEntity() *CustomerEntity {\n\treturn &CustomerEntity{}\n}")
	assert.Contains(t, code, "func NewCustomerEntityWithValues(name string, email string) *CustomerEntity {")
	assert.Contains(t, code, "func NewCustomerEntityWithAllColumns(id int32, name string, email string) *CustomerEntity {")
	assert.Regexp(t, `Email:\s+email,`, code)
	assert.Regexp(t, `Id:\s+id,`, code)

	assert.Contains(t, code, "func (e *CustomerEntity) GetId() (v int32) {\n\tif e != nil {\n\t\tv = e.Id\n\t}\n\treturn v\n}")
	assert.Contains(t, code, "func (e *CustomerEntity) GetEmail() (v string) {")
}

func TestGenTransferOmitsValuesConstructor(t *testing.T) {
	r, c := newRenderer(t, gen.WithTransferSuffix("Dto"))
	tbl := schema.NewTable("Setting",
		schema.WithColumns(schema.VarChar("Key", 50), schema.NVarChar("Value", schema.MaxLength)),
		schema.WithPrimaryKey("Key"),
	)
	code := r.GenTransfer(gen.NewPlan(c, tbl)).GoString()

	assert.Contains(t, code, "type SettingDto struct")
	assert.NotContains(t, code, "NewSettingDtoWithValues")
	assert.Contains(t, code, "func NewSettingDtoWithAllColumns(key string, value string) *SettingDto {")
}

func TestGenTransferTypes(t *testing.T) {
	r, c := newRenderer(t)
	tbl := schema.NewTable("Sample", schema.WithColumns(
		schema.UniqueIdentifier("Guid").RowGUID(),
		schema.BigInt("Big"),
		schema.TinyInt("Tiny"),
		schema.Bit("Flag"),
		schema.Money("Price"),
		schema.Real("Ratio"),
		schema.DateTime2("At"),
		schema.VarBinary("Blob", schema.MaxLength),
		schema.Type("Shape", "geography"),
	))
	code := r.GenTransfer(gen.NewPlan(c, tbl)).GoString()

	for _, re := range []string{
		`Guid\s+mssql\.UniqueIdentifier`,
		`Big\s+int64`,
		`Tiny\s+uint8`,
		`Flag\s+bool`,
		`Price\s+float64`,
		`Ratio\s+float32`,
		`At\s+time\.Time`,
		`Blob\s+\[\]byte`,
		`Shape\s+string`,
	} {
		assert.Regexp(t, re, code)
	}
	assert.Contains(t, code, `mssql "github.com/microsoft/go-mssqldb"`)
	assert.Contains(t, code, `"time"`)
	// Guid is generated, so the values constructor leaves it out.
	assert.Contains(t, code, "func NewSampleEntityWithValues(big int64, tiny uint8, flag bool, price float64, ratio float32, at time.Time, blob []byte, shape string) *SampleEntity {")
}

// Nullable columns keep plain field types; a NULL read leaves the zero value.
func TestGenNullableColumns(t *testing.T) {
	r, c := newRenderer(t)
	tbl := schema.NewTable("Order", schema.WithColumns(
		schema.Int("Id").Identity(),
		schema.Int("RegionId").Nullable(),
		schema.NVarChar("Note", schema.MaxLength).Nullable(),
	), schema.WithPrimaryKey("Id"))
	plan := gen.NewPlan(c, tbl)

	transfer := r.GenTransfer(plan).GoString()
	assert.Regexp(t, `type OrderEntity struct \{\n\tId\s+int32\n\tRegionId\s+int32\n\tNote\s+string\n\}`, transfer)
	assert.NotContains(t, transfer, "sql.Null")

	access := r.GenAccess(plan).GoString()
	assert.Regexp(t, `c1\s+sql\.NullInt32`, access)
	assert.Contains(t, access, "if c1.Valid {\n\t\te.RegionId = c1.Int32\n\t}")
	assert.Contains(t, access, "if c2.Valid {\n\t\te.Note = c2.String\n\t}")
}

func TestGenTransferReservedNames(t *testing.T) {
	r, c := newRenderer(t)
	tbl := schema.NewTable("Odd", schema.WithColumns(
		schema.Int("Type"),
		schema.NVarChar("Range", 10),
		schema.NVarChar("Data", 10),
		schema.NVarChar("String", 10),
	))
	code := r.GenTransfer(gen.NewPlan(c, tbl)).GoString()

	assert.Contains(t, code, "func NewOddEntityWithAllColumns(type_ int32, range_ string, data_ string, string_ string) *OddEntity {")
	assert.Regexp(t, `Type:\s+type_,`, code)
}

func TestGenTransferSeparatedNames(t *testing.T) {
	r, c := newRenderer(t)
	tbl := schema.NewTable("ship_log", schema.WithColumns(
		schema.Int("Order_Id"),
		schema.Int("OrderId"),
		schema.NVarChar("ship to", 50),
		schema.Int("_seq"),
	))
	code := r.GenTransfer(gen.NewPlan(c, tbl)).GoString()

	assert.Regexp(t, `type Ship_logEntity struct \{\n\tOrder_Id\s+int32\n\tOrderId\s+int32\n\tShip_to\s+string\n\tX_seq\s+int32\n\}`, code)
	assert.Contains(t, code, "func NewShip_logEntityWithAllColumns(order_Id int32, orderId int32, ship_to string, _seq int32) *Ship_logEntity {")
	assert.Contains(t, code, "func (e *Ship_logEntity) GetX_seq() (v int32) {")
}

func TestGenAccessCustomer(t *testing.T) {
	r, c := newRenderer(t)
	plan := gen.NewPlan(c, customerTable())
	code := r.GenAccess(plan).GoString()

	assert.Contains(t, code, "package repositories")
	assert.Contains(t, code, `"example.com/app/data"`)
	assert.Contains(t, code, "type CustomerRepository struct {\n\tdb DBTX\n}")
	assert.Contains(t, code, "func NewCustomerRepository(db DBTX) *CustomerRepository {")

	t.Run("Insert", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) Insert(ctx context.Context, e *data.CustomerEntity) error {\n"+
			"\targs := []any{e.Name, e.Email}\n"+
			"\trow := r.db.QueryRowContext(ctx, \"EXEC [dbo].[uspCustomerInsert] @p1, @p2\", args...)\n"+
			"\treturn row.Scan(&e.Id)\n}")
	})

	t.Run("Update", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) Update(ctx context.Context, e *data.CustomerEntity) error {\n"+
			"\targs := []any{e.Id, e.Name, e.Email}\n"+
			"\t_, err := r.db.ExecContext(ctx, \"EXEC [dbo].[uspCustomerUpdate] @p1, @p2, @p3\", args...)\n"+
			"\treturn err\n}")
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) Delete(ctx context.Context, id int32) error {\n"+
			"\targs := []any{id}\n"+
			"\t_, err := r.db.ExecContext(ctx, \"EXEC [dbo].[uspCustomerDelete] @p1\", args...)\n")
	})

	t.Run("Select", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) Select(ctx context.Context, id int32) (*data.CustomerEntity, error) {")
		assert.Contains(t, code, "e, err := scanCustomerEntity(r.db.QueryRowContext(ctx, \"EXEC [dbo].[uspCustomerSelect] @p1\", args...))")
		assert.Contains(t, code, "if errors.Is(err, sql.ErrNoRows) {\n\t\treturn nil, nil\n\t}")
	})

	t.Run("SelectJson", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) SelectJson(ctx context.Context, id int32) (string, error) {")
		assert.Contains(t, code, "return queryJSON(ctx, r.db, \"EXEC [dbo].[uspCustomerSelectJson] @p1\", args...)")
	})

	t.Run("SelectAll", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) SelectAll(ctx context.Context) ([]*data.CustomerEntity, error) {\n"+
			"\trows, err := r.db.QueryContext(ctx, \"EXEC [dbo].[uspCustomerSelectAll]\")\n")
		assert.Contains(t, code, "defer rows.Close()")
		assert.Contains(t, code, "items = append(items, e)")
		assert.Contains(t, code, "return items, rows.Err()")
	})

	t.Run("SelectAllJson", func(t *testing.T) {
		assert.Contains(t, code, "func (r *CustomerRepository) SelectAllJson(ctx context.Context) (string, error) {\n"+
			"\treturn queryJSON(ctx, r.db, \"EXEC [dbo].[uspCustomerSelectAllJson]\")\n}")
	})

	t.Run("scanner", func(t *testing.T) {
		assert.Contains(t, code, "func scanCustomerEntity(s rowScanner) (*data.CustomerEntity, error) {")
		assert.Regexp(t, `var \(\n\t\tc0\s+sql\.NullInt32\n\t\tc1\s+sql\.NullString\n\t\tc2\s+sql\.NullString\n\t\)`, code)
		assert.Contains(t, code, "if err := s.Scan(&c0, &c1, &c2); err != nil {")
		assert.Contains(t, code, "e := data.NewCustomerEntity()")
		assert.Contains(t, code, "if c0.Valid {\n\t\te.Id = c0.Int32\n\t}")
		assert.Contains(t, code, "if c2.Valid {\n\t\te.Email = c2.String\n\t}")
		assert.Equal(t, 1, strings.Count(code, "func scanCustomerEntity("))
	})
}

func TestGenAccessByKey(t *testing.T) {
	r, c := newRenderer(t)
	code := r.GenAccess(gen.NewPlan(c, orderLineTable())).GoString()

	assert.Contains(t, code, "func (r *OrderLineRepository) Delete(ctx context.Context, orderId int32, lineNo int16) error {\n"+
		"\targs := []any{orderId, lineNo}\n"+
		"\t_, err := r.db.ExecContext(ctx, \"EXEC [sales].[uspOrderLineDelete] @p1, @p2\", args...)\n")
	assert.Contains(t, code, "func (r *OrderLineRepository) DeleteAllByOrderId(ctx context.Context, orderId int32) error {")
	assert.Contains(t, code, "func (r *OrderLineRepository) DeleteAllByProductId(ctx context.Context, productId int32) error {")
	assert.Contains(t, code, "func (r *OrderLineRepository) SelectAllByProductId(ctx context.Context, productId int32) ([]*data.OrderLineEntity, error) {")
	assert.Contains(t, code, "func (r *OrderLineRepository) SelectAllJsonByOrderId(ctx context.Context, orderId int32) (string, error) {")
	assert.Contains(t, code, "\"EXEC [sales].[uspOrderLineSelectAllByProductId] @p1\"")
	assert.Contains(t, code, "if c3.Valid {\n\t\te.Quantity = c3.Float64\n\t}")
}

func TestGenAccessInsertVariants(t *testing.T) {
	r, c := newRenderer(t)

	t.Run("row GUID", func(t *testing.T) {
		tbl := schema.NewTable("Document",
			schema.WithColumns(
				schema.UniqueIdentifier("RowId").RowGUID(),
				schema.NVarChar("Title", 200),
			),
			schema.WithPrimaryKey("RowId"),
		)
		code := r.GenAccess(gen.NewPlan(c, tbl)).GoString()
		assert.Contains(t, code, "stores the generated value in e.RowId.")
		assert.Contains(t, code, "\treturn row.Scan(&e.RowId)\n")
		assert.Contains(t, code, "if c0.Valid {\n\t\te.RowId = c0.UUID\n\t}")
		assert.Regexp(t, `c0\s+mssql\.NullUniqueIdentifier`, code)
	})

	t.Run("no return", func(t *testing.T) {
		tbl := schema.NewTable("Setting",
			schema.WithColumns(schema.VarChar("Key", 50), schema.VarBinary("Value", schema.MaxLength), schema.Real("Weight")),
			schema.WithPrimaryKey("Key"),
		)
		code := r.GenAccess(gen.NewPlan(c, tbl)).GoString()
		assert.Contains(t, code, "func (r *SettingRepository) Insert(ctx context.Context, e *data.SettingEntity) error {\n"+
			"\targs := []any{e.Key, e.Value, e.Weight}\n"+
			"\t_, err := r.db.ExecContext(ctx, \"EXEC [dbo].[uspSettingInsert] @p1, @p2, @p3\", args...)\n"+
			"\treturn err\n}")
		assert.Contains(t, code, "\te.Value = c1\n")
		assert.Contains(t, code, "if c2.Valid {\n\t\te.Weight = float32(c2.Float64)\n\t}")
	})

	t.Run("identity only", func(t *testing.T) {
		tbl := schema.NewTable("Code", schema.WithColumns(schema.Int("Id").Identity()))
		code := r.GenAccess(gen.NewPlan(c, tbl)).GoString()
		assert.Contains(t, code, "\trow := r.db.QueryRowContext(ctx, \"EXEC [dbo].[uspCodeInsert]\")\n")
		assert.NotContains(t, code, "args := ")
	})

	t.Run("no row selects", func(t *testing.T) {
		code := r.GenAccess(gen.NewPlan(c, schema.NewTable("Marker"))).GoString()
		assert.Contains(t, code, "\t_, err := r.db.ExecContext(ctx, \"EXEC [dbo].[uspMarkerInsert]\")\n")
		assert.NotContains(t, code, "func scanMarkerEntity(")
	})
}

func TestGenDB(t *testing.T) {
	r, _ := newRenderer(t)
	code := r.GenDB().GoString()

	assert.Contains(t, code, "package repositories")
	assert.Contains(t, code, "type DBTX interface {")
	assert.Contains(t, code, "ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)")
	assert.Contains(t, code, "QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)")
	assert.Contains(t, code, "QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row")
	assert.Contains(t, code, "type rowScanner interface {")
	assert.Contains(t, code, "func queryJSON(ctx context.Context, db DBTX, query string, args ...any) (string, error) {")
}

// Access methods bind their arguments in the order the procedure declares
// its parameters.
func TestGenAccessArgumentOrder(t *testing.T) {
	r, c := newRenderer(t)
	for _, tbl := range []*schema.Table{customerTable(), orderLineTable()} {
		plan := gen.NewPlan(c, tbl)
		code := r.GenAccess(plan).GoString()
		for _, p := range plan.Procedures {
			if len(p.Params) == 0 {
				continue
			}
			names := make([]string, len(p.Params))
			for i, prm := range p.Params {
				if p.Kind == gen.KindInsert || p.Kind == gen.KindUpdate {
					names[i] = "e." + fieldName(prm.Column)
				} else {
					names[i] = argName(prm.Column, c.HostPackageName)
				}
			}
			assert.Contains(t, code, "args := []any{"+strings.Join(names, ", ")+"}", p.Name)
		}
	}
}
