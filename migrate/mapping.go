package migrate

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping supplies the table and column names of classes and properties.
type Mapping interface {
	// Table returns the table mapping of class.
	Table(class string) (*TableMapping, bool)
	// Tables returns every table mapping, including join tables.
	Tables() []*TableMapping
}

// TableMapping maps a class, or an association join table, onto a table.
type TableMapping struct {
	// Class is empty for join tables.
	Class       string              `yaml:"class,omitempty"`
	Name        string              `yaml:"table"`
	Columns     []ColumnMapping     `yaml:"columns"`
	PrimaryKey  []string            `yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKeyMapping `yaml:"foreign_keys,omitempty"`
}

// ColumnMapping maps a property onto a column.
type ColumnMapping struct {
	// Property is the property path. Members of a complex property are
	// addressed as "<Navigation>.<Member>".
	Property string `yaml:"property,omitempty"`
	// ComplexType names the complex type declaring the member, if any.
	ComplexType string `yaml:"complex_type,omitempty"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Nullable    bool   `yaml:"nullable,omitempty"`
	Identity    bool   `yaml:"identity,omitempty"`
}

// ForeignKeyMapping is a foreign key declared by the table.
type ForeignKeyMapping struct {
	Name             string   `yaml:"name,omitempty"`
	Columns          []string `yaml:"columns"`
	PrincipalTable   string   `yaml:"principal_table"`
	PrincipalColumns []string `yaml:"principal_columns"`
	CascadeDelete    bool     `yaml:"cascade_delete,omitempty"`
}

// Column returns the column definition.
func (c ColumnMapping) Column() Column {
	return Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable, Identity: c.Identity}
}

// Member returns the last segment of the property path.
func (c ColumnMapping) Member() string {
	if i := strings.LastIndexByte(c.Property, '.'); i >= 0 {
		return c.Property[i+1:]
	}
	return c.Property
}

// Column returns the column mapped from the property path.
func (t *TableMapping) Column(property string) (ColumnMapping, bool) {
	for _, c := range t.Columns {
		if c.Property == property {
			return c, true
		}
	}
	return ColumnMapping{}, false
}

// ColumnByName returns the column with the given name.
func (t *TableMapping) ColumnByName(name string) (ColumnMapping, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMapping{}, false
}

// PropertyColumns returns the columns mapped from property: the column of a
// scalar property, or the member columns of a complex property.
func (t *TableMapping) PropertyColumns(property string) []ColumnMapping {
	if c, ok := t.Column(property); ok {
		return []ColumnMapping{c}
	}
	var cs []ColumnMapping
	for _, c := range t.Columns {
		if strings.HasPrefix(c.Property, property+".") {
			cs = append(cs, c)
		}
	}
	return cs
}

// KeyColumns returns the primary-key column definitions.
func (t *TableMapping) KeyColumns() []Column {
	cols := make([]Column, 0, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		if c, ok := t.ColumnByName(name); ok {
			cols = append(cols, c.Column())
		}
	}
	return cols
}

// ForeignKeyTo returns the first foreign key of t referencing principal.
func (t *TableMapping) ForeignKeyTo(principal string) (ForeignKeyMapping, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.PrincipalTable == principal {
			return fk, true
		}
	}
	return ForeignKeyMapping{}, false
}

// ForeignKey returns the constraint of fk declared by t.
func (t *TableMapping) ForeignKey(fk ForeignKeyMapping) ForeignKey {
	name := fk.Name
	if name == "" {
		name = ForeignKeyName(t.Name, fk.PrincipalTable, fk.Columns...)
	}
	return ForeignKey{
		Name:             name,
		DependentTable:   t.Name,
		DependentColumns: slices.Clone(fk.Columns),
		PrincipalTable:   fk.PrincipalTable,
		PrincipalColumns: slices.Clone(fk.PrincipalColumns),
		CascadeDelete:    fk.CascadeDelete,
	}
}

// Definition returns the CreateTable operation creating t.
func (t *TableMapping) Definition() *CreateTable {
	op := &CreateTable{Name: t.Name, PrimaryKey: slices.Clone(t.PrimaryKey)}
	for _, c := range t.Columns {
		op.Columns = append(op.Columns, c.Column())
	}
	return op
}

// StaticMapping is a Mapping backed by a list of tables.
type StaticMapping struct {
	Entries []*TableMapping `yaml:"tables"`
}

// NewStaticMapping returns a mapping over tables.
func NewStaticMapping(tables ...*TableMapping) *StaticMapping {
	return &StaticMapping{Entries: tables}
}

// ParseMapping decodes a YAML mapping document.
func ParseMapping(data []byte) (*StaticMapping, error) {
	m := &StaticMapping{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("migrate: parse mapping: %w", err)
	}
	return m, nil
}

// Marshal encodes the mapping as YAML.
func (m *StaticMapping) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Table implements Mapping.
func (m *StaticMapping) Table(class string) (*TableMapping, bool) {
	for _, t := range m.Entries {
		if t.Class != "" && t.Class == class {
			return t, true
		}
	}
	return nil, false
}

// Tables implements Mapping.
func (m *StaticMapping) Tables() []*TableMapping {
	return m.Entries
}

// TableByName returns the table with the given name.
func TableByName(m Mapping, name string) (*TableMapping, bool) {
	for _, t := range m.Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// ForeignKeysReferencing returns the single-column foreign keys of every
// table referencing table.column.
func ForeignKeysReferencing(m Mapping, table, column string) []DependentColumn {
	var deps []DependentColumn
	for _, t := range m.Tables() {
		for _, fk := range t.ForeignKeys {
			if fk.PrincipalTable != table || len(fk.Columns) != 1 || !slices.Equal(fk.PrincipalColumns, []string{column}) {
				continue
			}
			deps = append(deps, DependentColumn{
				DependentTable:   t.Name,
				ForeignKeyColumn: fk.Columns[0],
				ForeignKey:       t.ForeignKey(fk).Name,
			})
		}
	}
	return deps
}

var _ Mapping = (*StaticMapping)(nil)
