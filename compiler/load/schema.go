// Package load reads and writes table models as YAML or JSON documents.
package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sprocgen/compiler/gen"
	"github.com/syssam/sprocgen/schema"
)

// Format is the encoding of a schema document.
type Format int

const (
	// YAML documents. Any extension other than .json.
	YAML Format = iota
	// JSON documents.
	JSON
)

// FormatOf returns the format implied by the file extension.
func FormatOf(file string) Format {
	if strings.EqualFold(filepath.Ext(file), ".json") {
		return JSON
	}
	return YAML
}

// Document is the on-disk form of a list of tables.
type Document struct {
	Database string   `yaml:"database,omitempty" json:"database,omitempty"`
	Tables   []*Table `yaml:"tables" json:"tables"`
}

// Model is a decoded document.
type Model struct {
	// Database names the database holding the tables. Empty when the
	// document does not say.
	Database string
	Tables   []*schema.Table
}

// Table represents a schema.Table in a document.
type Table struct {
	Name        string        `yaml:"name" json:"name"`
	Schema      string        `yaml:"schema,omitempty" json:"schema,omitempty"`
	Columns     []*Column     `yaml:"columns" json:"columns"`
	PrimaryKey  []string      `yaml:"primaryKey,omitempty,flow" json:"primaryKey,omitempty"`
	ForeignKeys []*ForeignKey `yaml:"foreignKeys,omitempty" json:"foreignKeys,omitempty"`
}

// Column represents a schema.Column in a document.
type Column struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Length    Length `yaml:"length,omitempty" json:"length,omitempty"`
	Precision int    `yaml:"precision,omitempty" json:"precision,omitempty"`
	Scale     int    `yaml:"scale,omitempty" json:"scale,omitempty"`
	Identity  bool   `yaml:"identity,omitempty" json:"identity,omitempty"`
	RowGUID   bool   `yaml:"rowguid,omitempty" json:"rowguid,omitempty"`
	Nullable  bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
}

// ForeignKey represents a foreign-key group in a document.
type ForeignKey struct {
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Columns []string `yaml:"columns,flow" json:"columns"`
}

// Length is a column length. It is written as "max" for schema.MaxLength.
type Length int

const maxLength = "max"

func parseLength(s string) (Length, error) {
	if strings.EqualFold(s, maxLength) {
		return schema.MaxLength, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: want a number or %q", s, maxLength)
	}
	return Length(n), nil
}

// UnmarshalYAML accepts a number or "max".
func (l *Length) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: length must be a scalar", value.Line)
	}
	n, err := parseLength(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*l = n
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Length) MarshalYAML() (any, error) {
	if l == schema.MaxLength {
		return maxLength, nil
	}
	return int(l), nil
}

// UnmarshalJSON accepts a number or "max".
func (l *Length) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	n, err := parseLength(s)
	if err != nil {
		return err
	}
	*l = n
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Length) MarshalJSON() ([]byte, error) {
	if l == schema.MaxLength {
		return []byte(strconv.Quote(maxLength)), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// NewTable converts a table model to its document form.
func NewTable(t *schema.Table) *Table {
	dt := &Table{Name: t.Name()}
	if t.Schema() != schema.DefaultSchema {
		dt.Schema = t.Schema()
	}
	for _, c := range t.Columns() {
		dt.Columns = append(dt.Columns, &Column{
			Name:      c.Name(),
			Type:      c.Type(),
			Length:    Length(c.Length()),
			Precision: c.Precision(),
			Scale:     c.Scale(),
			Identity:  c.IsIdentity(),
			RowGUID:   c.IsRowGUID(),
			Nullable:  c.IsNullable(),
		})
	}
	dt.PrimaryKey = names(t.PrimaryKeys())
	for _, fk := range t.ForeignKeys() {
		dt.ForeignKeys = append(dt.ForeignKeys, &ForeignKey{Name: fk.Name(), Columns: names(fk.Columns())})
	}
	return dt
}

func names(cols []*schema.Column) []string {
	if len(cols) == 0 {
		return nil
	}
	s := make([]string, len(cols))
	for i, c := range cols {
		s[i] = c.Name()
	}
	return s
}

// Build returns the table model of t. Key columns naming no column of the
// table are dropped.
func (t *Table) Build() *schema.Table {
	cols := make([]schema.ColumnDescriptor, len(t.Columns))
	for i, c := range t.Columns {
		var opts []schema.ColumnOption
		if c.Length != 0 {
			opts = append(opts, schema.WithLength(int(c.Length)))
		}
		if c.Precision != 0 || c.Scale != 0 {
			opts = append(opts, schema.WithPrecision(c.Precision, c.Scale))
		}
		if c.Identity {
			opts = append(opts, schema.AsIdentity())
		}
		if c.RowGUID {
			opts = append(opts, schema.AsRowGUID())
		}
		if c.Nullable {
			opts = append(opts, schema.AsNullable())
		}
		cols[i] = schema.NewColumn(c.Name, c.Type, opts...)
	}
	opts := []schema.TableOption{
		schema.WithSchema(t.Schema),
		schema.WithColumns(cols...),
		schema.WithPrimaryKey(t.PrimaryKey...),
	}
	for _, fk := range t.ForeignKeys {
		opts = append(opts, schema.WithForeignKey(fk.Name, fk.Columns...))
	}
	return schema.NewTable(t.Name, opts...)
}

// check reports the entries a table model cannot be built without.
func (t *Table) check(i int) error {
	if t == nil || t.Name == "" {
		return gen.NewSchemaError("", "", fmt.Sprintf("table #%d has no name", i+1), nil)
	}
	for j, c := range t.Columns {
		switch {
		case c == nil || c.Name == "":
			return gen.NewSchemaError(t.Name, "", fmt.Sprintf("column #%d has no name", j+1), nil)
		case c.Type == "":
			return gen.NewSchemaError(t.Name, c.Name, "column has no type", nil)
		}
	}
	for _, fk := range t.ForeignKeys {
		if fk == nil || len(fk.Columns) == 0 {
			return gen.NewSchemaError(t.Name, "", "foreign key has no columns", nil)
		}
	}
	return nil
}

// Marshal encodes m as a document in the given format.
func Marshal(m *Model, format Format) ([]byte, error) {
	doc := &Document{Database: m.Database, Tables: make([]*Table, len(m.Tables))}
	for i, t := range m.Tables {
		doc.Tables[i] = NewTable(t)
	}
	if format == JSON {
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTables encodes tables as a document in the given format.
func MarshalTables(tables []*schema.Table, format Format) ([]byte, error) {
	return Marshal(&Model{Tables: tables}, format)
}

// Unmarshal decodes a document, keeping the tables in document order.
// Unknown keys are rejected. Failures are reported as *gen.SchemaError.
func Unmarshal(buf []byte, format Format) (*Model, error) {
	doc := &Document{}
	var err error
	if format == JSON {
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		err = dec.Decode(doc)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, gen.NewSchemaError("", "", "decode document", err)
	}
	m := &Model{Database: doc.Database, Tables: make([]*schema.Table, len(doc.Tables))}
	for i, t := range doc.Tables {
		if err := t.check(i); err != nil {
			return nil, err
		}
		m.Tables[i] = t.Build()
	}
	return m, nil
}

// UnmarshalTables decodes the tables of a document.
func UnmarshalTables(buf []byte, format Format) ([]*schema.Table, error) {
	m, err := Unmarshal(buf, format)
	if err != nil {
		return nil, err
	}
	return m.Tables, nil
}

// LoadModel reads a schema file. The format follows the extension.
func LoadModel(file string) (*Model, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	m, err := Unmarshal(buf, FormatOf(file))
	if err != nil {
		var serr *gen.SchemaError
		if errors.As(err, &serr) {
			serr.Message = file + ": " + serr.Message
		}
		return nil, err
	}
	return m, nil
}

// Load reads the tables of a schema file.
func Load(file string) ([]*schema.Table, error) {
	m, err := LoadModel(file)
	if err != nil {
		return nil, err
	}
	return m.Tables, nil
}

// SaveModel writes m to a schema file. The format follows the extension.
func SaveModel(file string, m *Model) error {
	buf, err := Marshal(m, FormatOf(file))
	if err != nil {
		return fmt.Errorf("encode schema file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, buf, 0o644)
}

// Save writes tables to a schema file.
func Save(file string, tables []*schema.Table) error {
	return SaveModel(file, &Model{Tables: tables})
}
