package field

import (
	"github.com/syssam/evolve"
	"github.com/syssam/evolve/schema"
)

// Builder configures one primitive property.
type Builder struct {
	p schema.PrimitiveProperty
}

// Of returns a builder for a property of an arbitrary declared type.
func Of(name, typ string) *Builder {
	return &Builder{p: schema.PrimitiveProperty{PropertyBase: schema.PropertyBase{Name: name, Type: typ}}}
}

// Int returns a builder for an int property.
func Int(name string) *Builder { return Of(name, "int") }

// Int64 returns a builder for an int64 property.
func Int64(name string) *Builder { return Of(name, "int64") }

// String returns a builder for a string property.
func String(name string) *Builder { return Of(name, "string") }

// Bool returns a builder for a bool property.
func Bool(name string) *Builder { return Of(name, "bool") }

// Float returns a builder for a float64 property.
func Float(name string) *Builder { return Of(name, "float64") }

// Decimal returns a builder for a decimal property.
func Decimal(name string) *Builder { return Of(name, "decimal.Decimal") }

// Time returns a builder for a time.Time property.
func Time(name string) *Builder { return Of(name, "time.Time") }

// Bytes returns a builder for a []byte property.
func Bytes(name string) *Builder { return Of(name, "[]byte") }

// Name renames the property. Used when the name is only known after the
// builder was created.
func (b *Builder) Name(name string) *Builder {
	b.p.Name = name
	return b
}

// Nullable sets the nullability facet.
func (b *Builder) Nullable(v bool) *Builder {
	b.p.Column.Nullable = evolve.Ptr(v)
	return b
}

// Required is shorthand for Nullable(false).
func (b *Builder) Required() *Builder { return b.Nullable(false) }

// Optional is shorthand for Nullable(true).
func (b *Builder) Optional() *Builder { return b.Nullable(true) }

// Column sets the column name.
func (b *Builder) Column(name string) *Builder {
	b.p.Column.ColumnName = evolve.Ptr(name)
	return b
}

// ColumnType sets the store type of the column.
func (b *Builder) ColumnType(typ string) *Builder {
	b.p.Column.ColumnType = evolve.Ptr(typ)
	return b
}

// Order sets the column order.
func (b *Builder) Order(n int) *Builder {
	b.p.Column.ColumnOrder = evolve.Ptr(n)
	return b
}

// Annotation adds a column annotation.
func (b *Builder) Annotation(name string, value any) *Builder {
	if b.p.Column.Annotations == nil {
		b.p.Column.Annotations = make(map[string]any)
	}
	b.p.Column.Annotations[name] = value
	return b
}

// Generated sets the value-generation policy.
func (b *Builder) Generated(g schema.Generated) *Builder {
	b.p.Column.Generated = evolve.Ptr(g)
	return b
}

// Identity marks the column as generated by the database on insert.
func (b *Builder) Identity() *Builder { return b.Generated(schema.GeneratedIdentity) }

// NotGenerated marks the column as supplied by the application.
func (b *Builder) NotGenerated() *Builder { return b.Generated(schema.GeneratedNone) }

// Computed marks the column as computed by the database.
func (b *Builder) Computed() *Builder { return b.Generated(schema.GeneratedComputed) }

// ConcurrencyToken marks the property as an optimistic concurrency token.
func (b *Builder) ConcurrencyToken() *Builder {
	b.p.Column.ConcurrencyToken = evolve.Ptr(true)
	return b
}

// ParameterName sets the name of the stored-procedure parameter.
func (b *Builder) ParameterName(name string) *Builder {
	b.p.Column.ParameterName = evolve.Ptr(name)
	return b
}

// MaxLength sets the maximum length.
func (b *Builder) MaxLength(n int) *Builder {
	b.p.Column.MaxLength = evolve.Ptr(n)
	return b
}

// Unbounded allows the maximum length supported by the store.
func (b *Builder) Unbounded() *Builder {
	b.p.Column.IsMaxLength = evolve.Ptr(true)
	return b
}

// FixedLength sets the fixed-length facet.
func (b *Builder) FixedLength(v bool) *Builder {
	b.p.Column.FixedLength = evolve.Ptr(v)
	return b
}

// Unicode sets the unicode facet.
func (b *Builder) Unicode(v bool) *Builder {
	b.p.Column.Unicode = evolve.Ptr(v)
	return b
}

// Precision sets precision and scale.
func (b *Builder) Precision(precision, scale uint8) *Builder {
	b.p.Column.Precision = evolve.Ptr(precision)
	b.p.Column.Scale = evolve.Ptr(scale)
	return b
}

// RowVersion marks the property as a row version.
func (b *Builder) RowVersion() *Builder {
	b.p.Column.RowVersion = evolve.Ptr(true)
	return b
}

// Visibility sets the access level.
func (b *Builder) Visibility(v schema.Visibility) *Builder {
	b.p.Visibility = v
	return b
}

// Virtual sets the virtual flag.
func (b *Builder) Virtual(v bool) *Builder {
	b.p.Virtual = evolve.Ptr(v)
	return b
}

// SetterPrivate sets the private-setter flag.
func (b *Builder) SetterPrivate(v bool) *Builder {
	b.p.SetterPrivate = evolve.Ptr(v)
	return b
}

// Property returns a copy of the configured property.
func (b *Builder) Property() *schema.PrimitiveProperty {
	return b.p.Copy().(*schema.PrimitiveProperty)
}

// Properties builds every builder in order.
func Properties(bs ...*Builder) []schema.Property {
	ps := make([]schema.Property, len(bs))
	for i, b := range bs {
		ps[i] = b.Property()
	}
	return ps
}
