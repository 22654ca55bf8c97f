package load

import (
	"fmt"

	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/mixin"
)

// Class is the serialized form of a schema.ClassModel.
type Class struct {
	Name       string     `yaml:"name" msgpack:"name"`
	Base       string     `yaml:"base,omitempty" msgpack:"base,omitempty"`
	Visibility string     `yaml:"visibility,omitempty" msgpack:"visibility,omitempty"`
	Complex    bool       `yaml:"complex,omitempty" msgpack:"complex,omitempty"`
	Keys       []string   `yaml:"keys,omitempty" msgpack:"keys,omitempty"`
	// Mixins names built-in mixins whose properties precede Properties.
	Mixins     []string   `yaml:"mixins,omitempty" msgpack:"mixins,omitempty"`
	Properties []Property `yaml:"properties,omitempty" msgpack:"properties,omitempty"`
}

// Property is the serialized form of a schema.Property. Kind is one of
// "primitive" (the default), "navigation" and "foreign_key".
type Property struct {
	Name          string  `yaml:"name" msgpack:"name"`
	Kind          string  `yaml:"kind,omitempty" msgpack:"kind,omitempty"`
	Type          string  `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Target        string  `yaml:"target,omitempty" msgpack:"target,omitempty"`
	Collection    bool    `yaml:"collection,omitempty" msgpack:"collection,omitempty"`
	Visibility    string  `yaml:"visibility,omitempty" msgpack:"visibility,omitempty"`
	Virtual       *bool   `yaml:"virtual,omitempty" msgpack:"virtual,omitempty"`
	SetterPrivate *bool   `yaml:"setter_private,omitempty" msgpack:"setter_private,omitempty"`
	Column        *Column `yaml:"column,omitempty" msgpack:"column,omitempty"`
}

// Column is the serialized form of a schema.ColumnInfo.
type Column struct {
	Nullable         *bool          `yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	Name             *string        `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type             *string        `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Order            *int           `yaml:"order,omitempty" msgpack:"order,omitempty"`
	Annotations      map[string]any `yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	Generated        string         `yaml:"generated,omitempty" msgpack:"generated,omitempty"`
	ConcurrencyToken *bool          `yaml:"concurrency_token,omitempty" msgpack:"concurrency_token,omitempty"`
	ParameterName    *string        `yaml:"parameter_name,omitempty" msgpack:"parameter_name,omitempty"`
	MaxLength        *int           `yaml:"max_length,omitempty" msgpack:"max_length,omitempty"`
	IsMaxLength      *bool          `yaml:"is_max_length,omitempty" msgpack:"is_max_length,omitempty"`
	FixedLength      *bool          `yaml:"fixed_length,omitempty" msgpack:"fixed_length,omitempty"`
	Unicode          *bool          `yaml:"unicode,omitempty" msgpack:"unicode,omitempty"`
	Precision        *uint8         `yaml:"precision,omitempty" msgpack:"precision,omitempty"`
	Scale            *uint8         `yaml:"scale,omitempty" msgpack:"scale,omitempty"`
	RowVersion       *bool          `yaml:"row_version,omitempty" msgpack:"row_version,omitempty"`
}

// Property kinds.
const (
	KindPrimitive  = "primitive"
	KindNavigation = "navigation"
	KindForeignKey = "foreign_key"
)

// NewClass returns the serialized form of c.
func NewClass(c *schema.ClassModel) Class {
	cls := Class{
		Name:    c.Name,
		Base:    c.Base,
		Complex: c.Complex,
		Keys:    append([]string(nil), c.PrimaryKeys...),
	}
	if c.Visibility != schema.VisibilityDefault {
		cls.Visibility = c.Visibility.String()
	}
	for _, p := range c.Properties {
		cls.Properties = append(cls.Properties, NewProperty(p))
	}
	return cls
}

// NewProperty returns the serialized form of p.
func NewProperty(p schema.Property) Property {
	base := p.Common()
	doc := Property{
		Name:          base.Name,
		Type:          base.Type,
		Virtual:       base.Virtual,
		SetterPrivate: base.SetterPrivate,
	}
	if base.Visibility != schema.VisibilityDefault {
		doc.Visibility = base.Visibility.String()
	}
	switch p := p.(type) {
	case *schema.PrimitiveProperty:
		if p.Column.IsSpecified() {
			doc.Column = newColumn(p.Column)
		}
	case *schema.NavigationProperty:
		doc.Kind = KindNavigation
		doc.Target = p.Target
		doc.Collection = p.Collection
	case *schema.ForeignKeyProperty:
		doc.Kind = KindForeignKey
	}
	return doc
}

func newColumn(c schema.ColumnInfo) *Column {
	c = c.Copy()
	col := &Column{
		Nullable:         c.Nullable,
		Name:             c.ColumnName,
		Type:             c.ColumnType,
		Order:            c.ColumnOrder,
		Annotations:      c.Annotations,
		ConcurrencyToken: c.ConcurrencyToken,
		ParameterName:    c.ParameterName,
		MaxLength:        c.MaxLength,
		IsMaxLength:      c.IsMaxLength,
		FixedLength:      c.FixedLength,
		Unicode:          c.Unicode,
		Precision:        c.Precision,
		Scale:            c.Scale,
		RowVersion:       c.RowVersion,
	}
	if c.Generated != nil {
		col.Generated = c.Generated.String()
	}
	return col
}

// Model returns the class model described by c.
func (c Class) Model() (*schema.ClassModel, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("load: class without name")
	}
	cls := &schema.ClassModel{
		Name:        c.Name,
		Base:        c.Base,
		Visibility:  schema.ParseVisibility(c.Visibility),
		Complex:     c.Complex,
		PrimaryKeys: append([]string(nil), c.Keys...),
	}
	for _, p := range c.Properties {
		prop, err := p.Model()
		if err != nil {
			return nil, fmt.Errorf("load: class %s: %w", c.Name, err)
		}
		cls.Properties = append(cls.Properties, prop)
	}
	if len(c.Mixins) > 0 {
		ms := make([]mixin.Mixin, len(c.Mixins))
		for i, name := range c.Mixins {
			m, ok := mixin.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("load: class %s: unknown mixin %q", c.Name, name)
			}
			ms[i] = m
		}
		if err := mixin.Apply(cls, ms...); err != nil {
			return nil, fmt.Errorf("load: class %s: %w", c.Name, err)
		}
	}
	return cls, nil
}

// Model returns the property described by p.
func (p Property) Model() (schema.Property, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("property without name")
	}
	base := schema.PropertyBase{
		Name:          p.Name,
		Type:          p.Type,
		Visibility:    schema.ParseVisibility(p.Visibility),
		Virtual:       p.Virtual,
		SetterPrivate: p.SetterPrivate,
	}
	switch p.Kind {
	case "", KindPrimitive:
		if p.Type == "" {
			return nil, fmt.Errorf("property %s: missing type", p.Name)
		}
		prop := &schema.PrimitiveProperty{PropertyBase: base}
		if p.Column != nil {
			col, err := p.Column.info()
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}
			prop.Column = col
		}
		return prop.Copy(), nil
	case KindNavigation:
		if p.Target == "" {
			return nil, fmt.Errorf("navigation %s: missing target", p.Name)
		}
		if base.Type == "" {
			base.Type = schema.NavigationType(p.Target, p.Collection)
		}
		return (&schema.NavigationProperty{PropertyBase: base, Target: p.Target, Collection: p.Collection}).Copy(), nil
	case KindForeignKey:
		if p.Type == "" {
			return nil, fmt.Errorf("foreign key %s: missing type", p.Name)
		}
		return (&schema.ForeignKeyProperty{PropertyBase: base}).Copy(), nil
	default:
		return nil, fmt.Errorf("property %s: unknown kind %q", p.Name, p.Kind)
	}
}

func (c *Column) info() (schema.ColumnInfo, error) {
	info := schema.ColumnInfo{
		Nullable:         c.Nullable,
		ColumnName:       c.Name,
		ColumnType:       c.Type,
		ColumnOrder:      c.Order,
		Annotations:      c.Annotations,
		ConcurrencyToken: c.ConcurrencyToken,
		ParameterName:    c.ParameterName,
		MaxLength:        c.MaxLength,
		IsMaxLength:      c.IsMaxLength,
		FixedLength:      c.FixedLength,
		Unicode:          c.Unicode,
		Precision:        c.Precision,
		Scale:            c.Scale,
		RowVersion:       c.RowVersion,
	}
	if c.Generated != "" {
		g := schema.ParseGenerated(c.Generated)
		if g == 0 {
			return schema.ColumnInfo{}, fmt.Errorf("unknown generation policy %q", c.Generated)
		}
		info.Generated = &g
	}
	return info, nil
}

// Classes converts every document in order.
func Classes(docs []Class) ([]*schema.ClassModel, error) {
	classes := make([]*schema.ClassModel, 0, len(docs))
	for _, d := range docs {
		c, err := d.Model()
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}
