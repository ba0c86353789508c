package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sprocgen/schema"
)

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

func orderTable() *schema.Table {
	return schema.NewTable("Order",
		schema.WithColumns(
			schema.Int("Id").Identity(),
			schema.Int("CustomerId"),
			schema.Int("RegionId"),
			schema.Money("Total"),
		),
		schema.WithPrimaryKey("Id"),
		schema.WithForeignKey("FK_Order_Customer", "CustomerId"),
		schema.WithForeignKey("FK_Order_Region", "RegionId"),
	)
}

func kinds(ops []Operation) []Kind {
	ks := make([]Kind, len(ops))
	for i, op := range ops {
		ks[i] = op.Kind
	}
	return ks
}

func TestKind(t *testing.T) {
	assert.Equal(t, "SelectAllJsonBy", KindSelectAllJSONBy.String())
	assert.Equal(t, "SelectAllJson", KindSelectAllJSONBy.Verb())
	assert.Equal(t, "DeleteAll", KindDeleteAllBy.Verb())
	assert.Equal(t, "Unknown", Kind(200).String())
	assert.Equal(t, "Unknown", Kind(200).Verb())

	assert.True(t, KindDeleteAllBy.ByKey())
	assert.True(t, KindSelectAllBy.ByKey())
	assert.False(t, KindSelectAll.ByKey())

	assert.True(t, KindSelectJSON.JSON())
	assert.True(t, KindSelectAllJSONBy.JSON())
	assert.False(t, KindSelect.JSON())

	assert.True(t, KindSelect.SingleRow())
	assert.True(t, KindSelectJSON.SingleRow())
	assert.False(t, KindSelectAll.SingleRow())

	assert.True(t, KindSelectAllBy.Selects())
	assert.False(t, KindDeleteAllBy.Selects())
}

func TestDecideCustomer(t *testing.T) {
	ops := Decide(customerTable())

	assert.Equal(t, []Kind{
		KindInsert,
		KindUpdate,
		KindDelete,
		KindSelect,
		KindSelectJSON,
		KindSelectAll,
		KindSelectAllJSON,
	}, kinds(ops))
	for _, op := range ops {
		assert.Nil(t, op.Key)
	}
}

func TestDecideTwoForeignKeys(t *testing.T) {
	tbl := orderTable()
	ops := Decide(tbl)
	fks := tbl.ForeignKeys()

	assert.Equal(t, []Kind{
		KindInsert,
		KindUpdate,
		KindDelete,
		KindDeleteAllBy,
		KindDeleteAllBy,
		KindSelect,
		KindSelectJSON,
		KindSelectAll,
		KindSelectAllJSON,
		KindSelectAllBy,
		KindSelectAllBy,
		KindSelectAllJSONBy,
		KindSelectAllJSONBy,
	}, kinds(ops))
	assert.Same(t, fks[0], ops[3].Key)
	assert.Same(t, fks[1], ops[4].Key)
	assert.Same(t, fks[0], ops[9].Key)
	assert.Same(t, fks[1], ops[10].Key)

	c := MustNewConfig(WithOutputPath(t.TempDir()), WithSkipHost())
	var names []string
	for _, op := range ops {
		if op.Kind == KindDeleteAllBy || op.Kind == KindSelectAllBy {
			names = append(names, c.ProcedureName(tbl, op))
		}
	}
	assert.Equal(t, []string{
		"uspOrderDeleteAllByCustomerId",
		"uspOrderDeleteAllByRegionId",
		"uspOrderSelectAllByCustomerId",
		"uspOrderSelectAllByRegionId",
	}, names)
}

func TestDecideShapes(t *testing.T) {
	tests := []struct {
		name  string
		table *schema.Table
		want  []Kind
	}{
		{
			name: "no primary key",
			table: schema.NewTable("Log", schema.WithColumns(
				schema.Int("Level"), schema.NVarChar("Message", schema.MaxLength),
			)),
			want: []Kind{KindInsert, KindSelectAll, KindSelectAllJSON},
		},
		{
			name: "key only",
			table: schema.NewTable("Tag",
				schema.WithColumns(schema.NVarChar("Code", 10)),
				schema.WithPrimaryKey("Code"),
			),
			want: []Kind{KindInsert, KindDelete, KindSelect, KindSelectJSON},
		},
		{
			name: "association with one group per column",
			table: schema.NewTable("CustomerTag",
				schema.WithColumns(schema.Int("CustomerId"), schema.NVarChar("TagCode", 10)),
				schema.WithPrimaryKey("CustomerId", "TagCode"),
				schema.WithForeignKey("FK_Customer", "CustomerId"),
				schema.WithForeignKey("FK_Tag", "TagCode"),
			),
			want: []Kind{
				KindInsert, KindDelete,
				KindDeleteAllBy, KindDeleteAllBy,
				KindSelectAllBy, KindSelectAllBy,
				KindSelectAllJSONBy, KindSelectAllJSONBy,
			},
		},
		{
			// The group count, not the covered column count, is compared.
			name: "group count equals column count",
			table: schema.NewTable("Link",
				schema.WithColumns(schema.Int("Id"), schema.Int("A"), schema.Int("B")),
				schema.WithPrimaryKey("Id"),
				schema.WithForeignKey("FK_A", "A"),
				schema.WithForeignKey("FK_B", "B"),
				schema.WithForeignKey("FK_AB", "A", "B"),
			),
			want: []Kind{
				KindInsert, KindDelete,
				KindDeleteAllBy, KindDeleteAllBy, KindDeleteAllBy,
				KindSelectAllBy, KindSelectAllBy, KindSelectAllBy,
				KindSelectAllJSONBy, KindSelectAllJSONBy, KindSelectAllJSONBy,
			},
		},
		{
			name:  "empty table",
			table: schema.NewTable("Empty"),
			want:  []Kind{KindInsert},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(Decide(tt.table)))
		})
	}
}

func TestDecidePure(t *testing.T) {
	tbl := orderTable()
	first := Decide(tbl)
	second := Decide(tbl)
	require.Equal(t, first, second)

	// An independently built table of the same shape decides the same kinds.
	assert.Equal(t, kinds(first), kinds(Decide(orderTable())))
}
