package gen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sprocgen/schema"
)

func newTestGenerator(c *Config) *Generator {
	g := NewGenerator(c)
	return g.WithSQL(stubSQL{}).WithHost(stubHost{h: g})
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestGeneratorRenderers(t *testing.T) {
	t.Run("missing SQL renderer", func(t *testing.T) {
		g := NewGenerator(testConfig(t))
		g.WithHost(stubHost{h: g})
		_, err := g.Generate(context.Background(), []*schema.Table{customerTable()})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("missing host renderer", func(t *testing.T) {
		g := NewGenerator(testConfig(t)).WithSQL(stubSQL{})
		_, err := g.Generate(context.Background(), []*schema.Table{customerTable()})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("skipped outputs need no renderer", func(t *testing.T) {
		g := NewGenerator(testConfig(t, WithSkipHost())).WithSQL(stubSQL{})
		_, err := g.Generate(context.Background(), []*schema.Table{customerTable()})
		require.NoError(t, err)
	})

	t.Run("nil renderers are ignored", func(t *testing.T) {
		g := NewGenerator(testConfig(t)).WithSQL(stubSQL{}).WithSQL(nil)
		assert.NotNil(t, g.sql)
	})

	t.Run("helper", func(t *testing.T) {
		c := testConfig(t, WithHeader("custom header"))
		g := NewGenerator(c)
		assert.Same(t, c, g.Config())
		assert.Contains(t, g.NewFile("data").GoString(), "// custom header")
	})
}

func TestGenerateMulti(t *testing.T) {
	c := testConfig(t, WithDatabase("Shop"))
	dir := c.OutputPath

	m, err := newTestGenerator(c).Generate(context.Background(), []*schema.Table{customerTable()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"StoredProcedures/InsertCustomer.sql",
		"StoredProcedures/UpdateCustomer.sql",
		"StoredProcedures/DeleteCustomer.sql",
		"StoredProcedures/SelectCustomer.sql",
		"StoredProcedures/SelectJsonCustomer.sql",
		"StoredProcedures/SelectAllCustomer.sql",
		"StoredProcedures/SelectAllJsonCustomer.sql",
	}, m.SQL)
	assert.Equal(t, []string{"CustomerEntity.go"}, m.Transfer)
	assert.Equal(t, []string{"Repositories/db.go", "Repositories/CustomerRepository.go"}, m.Access)

	assert.Equal(t,
		"USE [Shop]\nGO\n\n-- [dbo].[uspCustomerInsert] @name @email\nGO\n",
		readFile(t, dir, "StoredProcedures/InsertCustomer.sql"),
	)
	assert.Equal(t,
		"USE [Shop]\nGO\n\n-- [dbo].[uspCustomerDelete] @id\nGO\n",
		readFile(t, dir, "StoredProcedures/DeleteCustomer.sql"),
	)

	transfer := readFile(t, dir, "CustomerEntity.go")
	assert.True(t, strings.HasPrefix(transfer, "// "+DefaultHeader+"\n"))
	assert.Contains(t, transfer, "package data\n")
	assert.Contains(t, transfer, "type CustomerEntity struct{}")

	access := readFile(t, dir, "Repositories/CustomerRepository.go")
	assert.Contains(t, access, "package repositories\n")
	assert.Contains(t, access, "func (r *CustomerRepository) SelectAllJson()")
	assert.Contains(t, readFile(t, dir, "Repositories/db.go"), "type DBTX interface{}")

	onDisk, err := ReadManifest(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, m, onDisk)
}

// Files are written after the per-table fan-out has finished, in both modes.
func TestGenerateWritesAfterRendering(t *testing.T) {
	for _, mode := range []string{"multi", "single"} {
		t.Run(mode, func(t *testing.T) {
			c := testConfig(t, WithSkipHost(), WithOutputMode(mode), WithWorkers(2))
			m, err := newTestGenerator(c).Generate(context.Background(), []*schema.Table{customerTable(), orderTable()})
			require.NoError(t, err)
			require.NotEmpty(t, m.SQL)
			for _, rel := range append(m.Paths(), ManifestFile) {
				assert.FileExists(t, filepath.Join(c.OutputPath, filepath.FromSlash(rel)))
			}
		})
	}
}

func TestGenerateMultiWithoutDatabase(t *testing.T) {
	c := testConfig(t, WithSkipHost())
	_, err := newTestGenerator(c).Generate(context.Background(), []*schema.Table{customerTable()})
	require.NoError(t, err)

	assert.Equal(t,
		"-- [dbo].[uspCustomerInsert] @name @email\nGO\n",
		readFile(t, c.OutputPath, "StoredProcedures/InsertCustomer.sql"),
	)
	_, err = os.Stat(filepath.Join(c.OutputPath, "Repositories"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateSingle(t *testing.T) {
	c := testConfig(t, WithOutputMode("single"), WithSQLFile("All.sql"), WithDatabase("Shop"))
	tables := []*schema.Table{orderTable(), customerTable()}

	m, err := newTestGenerator(c).Generate(context.Background(), tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"All.sql"}, m.SQL)
	assert.Equal(t, []string{"OrderEntity.go", "CustomerEntity.go"}, m.Transfer)

	out := readFile(t, c.OutputPath, "All.sql")
	assert.NotContains(t, out, "USE [Shop]")

	banner := bannerRule + "-- [dbo].[uspOrderInsert]\n" + bannerRule +
		"-- [dbo].[uspOrderInsert] @customerId @regionId @total\nGO\n\n"
	assert.True(t, strings.HasPrefix(out, banner), out)
	assert.Equal(t, 13+7, strings.Count(out, bannerRule)/2)

	// Tables are appended in input order, procedures in decision order.
	order := []string{
		"[dbo].[uspOrderInsert]",
		"[dbo].[uspOrderDeleteAllByCustomerId]",
		"[dbo].[uspOrderSelectAllJsonByRegionId]",
		"[dbo].[uspCustomerInsert]",
		"[dbo].[uspCustomerSelectAllJson]",
	}
	last := -1
	for _, name := range order {
		i := strings.Index(out, "-- "+name+"\n")
		require.Greater(t, i, last, name)
		last = i
	}
}

func TestGenerateDeterministic(t *testing.T) {
	run := func(mode string) map[string]string {
		c := testConfig(t, WithOutputMode(mode), WithWorkers(4))
		tables := []*schema.Table{customerTable(), orderTable()}
		m, err := newTestGenerator(c).Generate(context.Background(), tables)
		require.NoError(t, err)
		files := make(map[string]string)
		for _, p := range append(m.Paths(), ManifestFile) {
			files[p] = readFile(t, c.OutputPath, p)
		}
		return files
	}

	for _, mode := range []string{"multi", "single"} {
		t.Run(mode, func(t *testing.T) {
			assert.Equal(t, run(mode), run(mode))
		})
	}
}

func TestGenerateOverwrites(t *testing.T) {
	c := testConfig(t, WithSkipHost(), WithOutputMode("single"))
	g := newTestGenerator(c)
	path := filepath.Join(c.OutputPath, c.SQLFile)
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than anything generated "+strings.Repeat("x", 4096)), 0o644))

	_, err := g.Generate(context.Background(), []*schema.Table{customerTable()})
	require.NoError(t, err)
	first := readFile(t, c.OutputPath, c.SQLFile)
	assert.NotContains(t, first, "stale")

	_, err = g.Generate(context.Background(), []*schema.Table{customerTable()})
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, c.OutputPath, c.SQLFile))
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testConfig(t)
	_, err := newTestGenerator(c).Generate(ctx, []*schema.Table{customerTable()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = os.Stat(filepath.Join(c.OutputPath, ManifestFile))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateWriteError(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the procedure directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(dir, SQLDir), nil, 0o644))

	c := testConfig(t, WithOutputPath(dir), WithSkipHost())
	_, err := newTestGenerator(c).Generate(context.Background(), []*schema.Table{customerTable()})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "write", genErr.Phase)
	assert.Equal(t, "StoredProcedures/InsertCustomer.sql", genErr.File)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := testConfig(t, WithLogger(logger))

	_, err := newTestGenerator(c).Generate(context.Background(), []*schema.Table{customerTable()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="table planned" table=dbo.Customer`)
	assert.Contains(t, out, "uspCustomerSelectAllJson")
	assert.Contains(t, out, `msg="generation complete" tables=1 files=10`)
}

func TestGenerateEmpty(t *testing.T) {
	c := testConfig(t)
	m, err := newTestGenerator(c).Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, m.SQL)
	assert.Empty(t, m.Transfer)
	assert.Equal(t, []string{DBFile}, m.Access)
}
