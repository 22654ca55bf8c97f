package mixin_test

import (
	"testing"

	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/field"
	"github.com/syssam/evolve/schema/mixin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchemaBaseMixin tests the base Schema mixin.
func TestSchemaBaseMixin(t *testing.T) {
	m := mixin.Schema{}
	assert.Nil(t, m.Properties())
	assert.Nil(t, m.Keys())
}

// Audit is a custom mixin for testing.
type Audit struct {
	mixin.Schema
}

func (Audit) Properties() []schema.Property {
	return field.Properties(field.String("CreatedBy").Optional(), field.String("UpdatedBy").Optional())
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		mixin mixin.Mixin
		props []string
		keys  []string
	}{
		{"id", mixin.ID{}, []string{"Id"}, []string{"Id"}},
		{"time", mixin.Time{}, []string{"CreatedAt", "UpdatedAt"}, nil},
		{"create_time", mixin.CreateTime{}, []string{"CreatedAt"}, nil},
		{"update_time", mixin.UpdateTime{}, []string{"UpdatedAt"}, nil},
		{"soft_delete", mixin.SoftDelete{}, []string{"DeletedAt"}, nil},
		{"time_soft_delete", mixin.TimeSoftDelete{}, []string{"CreatedAt", "UpdatedAt", "DeletedAt"}, nil},
		{"row_version", mixin.RowVersion{}, []string{"RowVersion"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := &schema.ClassModel{Properties: tt.mixin.Properties()}
			assert.Equal(t, tt.props, cls.PropertyNames())
			assert.Equal(t, tt.keys, tt.mixin.Keys())

			m, ok := mixin.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.mixin, m)
		})
	}

	t.Run("facets", func(t *testing.T) {
		id := mixin.ID{Type: "int64"}.Properties()[0].(*schema.PrimitiveProperty)
		assert.Equal(t, "int64", id.Type)
		assert.True(t, id.Column.IsIdentity())

		deleted := mixin.SoftDelete{}.Properties()[0].(*schema.PrimitiveProperty)
		assert.Equal(t, "*time.Time", deleted.Type)
		require.NotNil(t, deleted.Column.Nullable)
		assert.True(t, *deleted.Column.Nullable)

		rv := mixin.RowVersion{}.Properties()[0].(*schema.PrimitiveProperty)
		require.NotNil(t, rv.Column.RowVersion)
		assert.True(t, *rv.Column.RowVersion)
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := mixin.Lookup("tenant")
		assert.False(t, ok)
		assert.Contains(t, mixin.Names(), "soft_delete")
		assert.IsNonDecreasing(t, mixin.Names())
	})
}

func TestApply(t *testing.T) {
	t.Run("prepends properties and keys", func(t *testing.T) {
		cls := &schema.ClassModel{
			Name:        "Customer",
			PrimaryKeys: []string{"Code"},
			Properties:  field.Properties(field.String("Code"), field.String("Name")),
		}
		require.NoError(t, mixin.Apply(cls, mixin.ID{}, mixin.Time{}, Audit{}))
		assert.Equal(t, []string{"Id", "CreatedAt", "UpdatedAt", "CreatedBy", "UpdatedBy", "Code", "Name"}, cls.PropertyNames())
		assert.Equal(t, []string{"Id", "Code"}, cls.PrimaryKeys)
	})

	t.Run("duplicate property", func(t *testing.T) {
		cls := &schema.ClassModel{
			Name:       "Customer",
			Properties: field.Properties(field.Time("CreatedAt")),
		}
		err := mixin.Apply(cls, mixin.Time{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"CreatedAt"`)
		assert.Equal(t, []string{"CreatedAt"}, cls.PropertyNames())
	})

	t.Run("no mixins", func(t *testing.T) {
		cls := &schema.ClassModel{Name: "Empty"}
		require.NoError(t, mixin.Apply(cls))
		assert.Empty(t, cls.Properties)
		assert.Empty(t, cls.PrimaryKeys)
	})
}

func TestAnnotateProperties(t *testing.T) {
	m := mixin.AnnotateProperties(mixin.Time{}, map[string]any{"Audit": true})
	props := m.Properties()
	require.Len(t, props, 2)
	for _, p := range props {
		pp := p.(*schema.PrimitiveProperty)
		assert.Equal(t, map[string]any{"Audit": true}, pp.Column.Annotations)
	}
	assert.Nil(t, m.Keys())

	// The wrapped mixin hands out fresh properties.
	for _, p := range mixin.Time{}.Properties() {
		assert.Nil(t, p.(*schema.PrimitiveProperty).Column.Annotations)
	}
}
