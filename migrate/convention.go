package migrate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/schema"
)

// FromModel returns the conventional mapping of the named classes:
//
//   - every non-complex class maps to the pluralized class name
//   - a primitive property maps to its configured column name or its own name
//   - members of a complex property map to "<Navigation>_<Member>"
//   - a single-valued navigation to a class without a reference back, or with
//     a collection back, declares a foreign key on the class
//   - two collections referencing each other map to a join table
//
// A single integer primary key with no generation policy is an identity.
// Navigations to classes the provider does not know are ignored.
func FromModel(p schema.Provider, classes ...string) (*StaticMapping, error) {
	c := &convention{provider: p, byClass: make(map[string]*TableMapping), fks: make(map[string][]ForeignKeyMapping)}
	for _, name := range classes {
		if err := c.class(name); err != nil {
			return nil, err
		}
	}
	for _, fn := range c.deferred {
		fn()
	}
	m := &StaticMapping{}
	for _, name := range classes {
		if t, ok := c.byClass[name]; ok {
			m.Entries = append(m.Entries, t)
		}
	}
	m.Entries = append(m.Entries, c.joins...)
	for _, t := range m.Entries {
		t.ForeignKeys = append(t.ForeignKeys, c.fks[t.Name]...)
	}
	return m, nil
}

type convention struct {
	provider schema.Provider
	byClass  map[string]*TableMapping
	joins    []*TableMapping
	fks      map[string][]ForeignKeyMapping
	// deferred adds columns to the dependent tables of principal-only associations.
	deferred []func()
}

func (c *convention) class(name string) error {
	cls, err := c.provider.Class(name)
	if err != nil {
		return err
	}
	if cls.Complex {
		return nil
	}
	t := &TableMapping{Class: cls.Name, Name: TableName(cls.Name)}
	for _, p := range cls.Properties {
		switch p := p.(type) {
		case *schema.PrimitiveProperty:
			col := primitiveColumn(p, columnName(p))
			col.Identity = conventionalIdentity(cls, p)
			if cls.IsPrimaryKey(p.Name) {
				col.Nullable = false
			}
			t.Columns = append(t.Columns, col)
		case *schema.ForeignKeyProperty:
			t.Columns = append(t.Columns, ColumnMapping{
				Property: p.Name,
				Name:     p.Name,
				Type:     StoreType(&schema.PrimitiveProperty{PropertyBase: p.PropertyBase}),
				Nullable: strings.HasPrefix(p.Type, "*"),
			})
		case *schema.NavigationProperty:
			if err := c.navigation(cls, t, p); err != nil {
				return err
			}
		}
	}
	for _, k := range cls.PrimaryKeys {
		if col, ok := t.Column(k); ok {
			t.PrimaryKey = append(t.PrimaryKey, col.Name)
		}
	}
	c.byClass[cls.Name] = t
	return nil
}

func (c *convention) navigation(cls *schema.ClassModel, t *TableMapping, nav *schema.NavigationProperty) error {
	target, err := c.provider.Class(nav.Target)
	switch {
	case evolve.IsNotFound(err):
		// Dangling navigations map to nothing.
		return nil
	case err != nil:
		return fmt.Errorf("migrate: navigation %s.%s: %w", cls.Name, nav.Name, err)
	}
	if target.Complex {
		if nav.Collection {
			return nil
		}
		for _, p := range target.Properties {
			mp, ok := p.(*schema.PrimitiveProperty)
			if !ok {
				continue
			}
			col := primitiveColumn(mp, ComplexColumnName(nav.Name, columnName(mp)))
			col.Property = nav.Name + "." + mp.Name
			col.ComplexType = target.Name
			t.Columns = append(t.Columns, col)
		}
		return nil
	}
	back := backReference(target, cls.Name)
	switch {
	case !nav.Collection && (back == nil || back.Collection):
		return c.foreignKey(cls, t, target, nav.Name)
	case !nav.Collection && hasForeignKeyProperty(cls, nav.Name):
		return c.foreignKey(cls, t, target, nav.Name)
	case nav.Collection && back != nil && back.Collection && cls.Name < target.Name:
		c.joinTable(cls, target)
	case nav.Collection && back == nil:
		// The dependent declares no navigation; its table carries the key.
		return c.principalOnly(cls, target)
	}
	return nil
}

// foreignKey declares the key of target on t, reusing foreign-key
// properties named "<Navigation><Key>" when the class has them.
func (c *convention) foreignKey(cls *schema.ClassModel, t *TableMapping, target *schema.ClassModel, nav string) error {
	keys, err := c.keyColumns(target)
	if err != nil {
		return err
	}
	fk := ForeignKeyMapping{PrincipalTable: TableName(target.Name)}
	for _, k := range keys {
		fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
		if p, ok := cls.Property(nav + k.Name).(*schema.ForeignKeyProperty); ok {
			fk.Columns = append(fk.Columns, p.Name)
			continue
		}
		name := ForeignKeyColumnName(nav, k.Name)
		t.Columns = append(t.Columns, ColumnMapping{Name: name, Type: k.Type, Nullable: true})
		fk.Columns = append(fk.Columns, name)
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

func (c *convention) principalOnly(principal, dependent *schema.ClassModel) error {
	keys, err := c.keyColumns(principal)
	if err != nil {
		return err
	}
	table := TableName(dependent.Name)
	fk := ForeignKeyMapping{PrincipalTable: TableName(principal.Name)}
	var cols []ColumnMapping
	for _, k := range keys {
		name := ForeignKeyColumnName(principal.Name, k.Name)
		cols = append(cols, ColumnMapping{Name: name, Type: k.Type, Nullable: true})
		fk.Columns = append(fk.Columns, name)
		fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
	}
	c.fks[table] = append(c.fks[table], fk)
	c.deferred = append(c.deferred, func() {
		if t, ok := c.byClass[dependent.Name]; ok {
			t.Columns = append(t.Columns, cols...)
		}
	})
	return nil
}

func (c *convention) joinTable(a, b *schema.ClassModel) {
	t := &TableMapping{Name: JoinTableName(a.Name, b.Name)}
	for _, cls := range []*schema.ClassModel{a, b} {
		keys, err := c.keyColumns(cls)
		if err != nil {
			continue
		}
		fk := ForeignKeyMapping{PrincipalTable: TableName(cls.Name), CascadeDelete: true}
		for _, k := range keys {
			name := ForeignKeyColumnName(cls.Name, k.Name)
			t.Columns = append(t.Columns, ColumnMapping{Name: name, Type: k.Type})
			t.PrimaryKey = append(t.PrimaryKey, name)
			fk.Columns = append(fk.Columns, name)
			fk.PrincipalColumns = append(fk.PrincipalColumns, k.Name)
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	c.joins = append(c.joins, t)
}

// keyColumns returns the primary-key columns of cls as they appear in its table.
func (c *convention) keyColumns(cls *schema.ClassModel) ([]Column, error) {
	var cols []Column
	for _, k := range cls.PrimaryKeys {
		p, ok := cls.Property(k).(*schema.PrimitiveProperty)
		if !ok {
			return nil, fmt.Errorf("migrate: key %s.%s is not a primitive property", cls.Name, k)
		}
		col := primitiveColumn(p, columnName(p))
		cols = append(cols, Column{Name: col.Name, Type: col.Type})
	}
	return cols, nil
}

func backReference(target *schema.ClassModel, class string) *schema.NavigationProperty {
	for _, p := range target.Properties {
		if nav, ok := p.(*schema.NavigationProperty); ok && nav.Target == class {
			return nav
		}
	}
	return nil
}

func hasForeignKeyProperty(cls *schema.ClassModel, nav string) bool {
	for _, p := range cls.Properties {
		if _, ok := p.(*schema.ForeignKeyProperty); ok && strings.HasPrefix(p.PropertyName(), nav) {
			return true
		}
	}
	return false
}

func primitiveColumn(p *schema.PrimitiveProperty, name string) ColumnMapping {
	return ColumnMapping{
		Property: p.Name,
		Name:     name,
		Type:     StoreType(p),
		Nullable: Nullable(p),
	}
}

func columnName(p *schema.PrimitiveProperty) string {
	if p.Column.ColumnName != nil {
		return *p.Column.ColumnName
	}
	return p.Name
}

func conventionalIdentity(cls *schema.ClassModel, p *schema.PrimitiveProperty) bool {
	if p.Column.Generated != nil {
		return *p.Column.Generated == schema.GeneratedIdentity
	}
	if len(cls.PrimaryKeys) != 1 || cls.PrimaryKeys[0] != p.Name {
		return false
	}
	switch p.Type {
	case "int", "int32", "int64":
		return true
	}
	return false
}

// Nullable returns the nullability of p: the configured facet, or true for
// pointer, string and byte-slice types.
func Nullable(p *schema.PrimitiveProperty) bool {
	if p.Column.Nullable != nil {
		return *p.Column.Nullable
	}
	return strings.HasPrefix(p.Type, "*") || p.Type == "string" || p.Type == "[]byte"
}

// StoreType returns the column store type of p: the configured column type,
// or the type derived from the declared type and the length facets.
func StoreType(p *schema.PrimitiveProperty) string {
	c := p.Column
	if c.ColumnType != nil {
		return *c.ColumnType
	}
	switch strings.TrimPrefix(p.Type, "*") {
	case "int", "int32", "uint16":
		return "int"
	case "int64", "uint32", "uint", "uint64":
		return "bigint"
	case "int16":
		return "smallint"
	case "int8", "uint8", "byte":
		return "tinyint"
	case "bool":
		return "bit"
	case "float64":
		return "float"
	case "float32":
		return "real"
	case "decimal.Decimal":
		precision, scale := uint8(18), uint8(2)
		if c.Precision != nil {
			precision = *c.Precision
		}
		if c.Scale != nil {
			scale = *c.Scale
		}
		return fmt.Sprintf("decimal(%d,%d)", precision, scale)
	case "time.Time":
		return "datetime2"
	case "uuid.UUID":
		return "uniqueidentifier"
	case "[]byte":
		if c.RowVersion != nil && *c.RowVersion {
			return "rowversion"
		}
		return sized("binary", c)
	default:
		prefix := "n"
		if c.Unicode != nil && !*c.Unicode {
			prefix = ""
		}
		return prefix + sized("char", c)
	}
}

// sized returns base with a fixed or variable length suffix.
func sized(base string, c schema.ColumnInfo) string {
	fixed := c.FixedLength != nil && *c.FixedLength
	length := "max"
	if c.MaxLength != nil && (c.IsMaxLength == nil || !*c.IsMaxLength) {
		length = strconv.Itoa(*c.MaxLength)
	}
	if fixed && length != "max" {
		return base + "(" + length + ")"
	}
	return "var" + base + "(" + length + ")"
}
