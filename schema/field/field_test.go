package field_test

import (
	"testing"

	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() *schema.PrimitiveProperty
		validate func(t *testing.T, p *schema.PrimitiveProperty)
	}{
		{
			name:  "unset_facets",
			build: func() *schema.PrimitiveProperty { return field.String("Name").Property() },
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.Equal(t, "Name", p.Name)
				assert.Equal(t, "string", p.Type)
				assert.False(t, p.Column.IsSpecified())
				assert.Nil(t, p.Column.Nullable)
			},
		},
		{
			name:  "identity",
			build: func() *schema.PrimitiveProperty { return field.Int("Id").Identity().Property() },
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.True(t, p.Column.IsIdentity())
				assert.Equal(t, "int", p.Type)
			},
		},
		{
			name:  "not_generated",
			build: func() *schema.PrimitiveProperty { return field.Int64("Id").NotGenerated().Property() },
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.False(t, p.Column.IsIdentity())
				require.NotNil(t, p.Column.Generated)
				assert.Equal(t, schema.GeneratedNone, *p.Column.Generated)
			},
		},
		{
			name: "string_facets",
			build: func() *schema.PrimitiveProperty {
				return field.String("Street").
					Required().
					MaxLength(100).
					FixedLength(false).
					Unicode(true).
					Column("street").
					ColumnType("nvarchar").
					Order(3).
					Property()
			},
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				c := p.Column
				assert.False(t, *c.Nullable)
				assert.Equal(t, 100, *c.MaxLength)
				assert.False(t, *c.FixedLength)
				assert.True(t, *c.Unicode)
				assert.Equal(t, "street", *c.ColumnName)
				assert.Equal(t, "nvarchar", *c.ColumnType)
				assert.Equal(t, 3, *c.ColumnOrder)
				assert.Nil(t, c.IsMaxLength)
			},
		},
		{
			name: "decimal",
			build: func() *schema.PrimitiveProperty {
				return field.Decimal("Price").Precision(18, 2).Optional().Property()
			},
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.Equal(t, uint8(18), *p.Column.Precision)
				assert.Equal(t, uint8(2), *p.Column.Scale)
				assert.True(t, *p.Column.Nullable)
			},
		},
		{
			name: "row_version",
			build: func() *schema.PrimitiveProperty {
				return field.Bytes("Version").RowVersion().ConcurrencyToken().Computed().Property()
			},
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.True(t, *p.Column.RowVersion)
				assert.True(t, *p.Column.ConcurrencyToken)
				assert.Equal(t, schema.GeneratedComputed, *p.Column.Generated)
			},
		},
		{
			name: "code_facets",
			build: func() *schema.PrimitiveProperty {
				return field.Bool("Active").
					Visibility(schema.VisibilityProtected).
					Virtual(true).
					SetterPrivate(true).
					ParameterName("p_active").
					Annotation("comment", "soft delete").
					Unbounded().
					Property()
			},
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.Equal(t, schema.VisibilityProtected, p.Visibility)
				assert.True(t, *p.Virtual)
				assert.True(t, *p.SetterPrivate)
				assert.Equal(t, "p_active", *p.Column.ParameterName)
				assert.Equal(t, "soft delete", p.Column.Annotations["comment"])
				assert.True(t, *p.Column.IsMaxLength)
			},
		},
		{
			name:  "of_and_rename",
			build: func() *schema.PrimitiveProperty { return field.Of("Tags", "[]string").Name("Labels").Property() },
			validate: func(t *testing.T, p *schema.PrimitiveProperty) {
				assert.Equal(t, "Labels", p.Name)
				assert.Equal(t, "[]string", p.Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func TestPropertyIsIndependent(t *testing.T) {
	t.Parallel()

	b := field.String("Name").MaxLength(10)
	p1 := b.Property()
	*p1.Column.MaxLength = 20
	p2 := b.Property()
	assert.Equal(t, 10, *p2.Column.MaxLength)
}

func TestProperties(t *testing.T) {
	t.Parallel()

	ps := field.Properties(field.Int("Id"), field.String("Name"), field.Time("Created"))
	require.Len(t, ps, 3)
	assert.Equal(t, "Id", ps[0].PropertyName())
	assert.Equal(t, "time.Time", ps[2].PropertyType())
}
