package migrate_test

import (
	"testing"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
	"github.com/syssam/evolve/schema/field"

	"github.com/stretchr/testify/require"
)

// shop returns a model with a complex type, a one-to-many and a
// many-to-many association.
func shop() *change.Model {
	return change.NewModel(
		&schema.ClassModel{
			Name:        "Customer",
			PrimaryKeys: []string{"Id"},
			Properties: []schema.Property{
				field.Int("Id").Property(),
				field.String("Name").MaxLength(100).Property(),
				edge.One("Address"),
				edge.Many("Order"),
			},
		},
		&schema.ClassModel{
			Name:        "Order",
			PrimaryKeys: []string{"Id"},
			Properties: []schema.Property{
				field.Int("Id").Property(),
				field.Decimal("Total").Property(),
				edge.One("Customer"),
				edge.Many("Tag"),
			},
		},
		&schema.ClassModel{
			Name:        "Tag",
			PrimaryKeys: []string{"Id"},
			Properties: []schema.Property{
				field.Int("Id").NotGenerated().Property(),
				field.String("Label").Property(),
				edge.Many("Order"),
			},
		},
		&schema.ClassModel{
			Name:    "Address",
			Complex: true,
			Properties: field.Properties(
				field.String("Street"),
				field.String("City"),
			),
		},
	)
}

func mappingOf(t *testing.T, m *change.Model) *migrate.StaticMapping {
	t.Helper()
	sm, err := migrate.FromModel(m, m.Names()...)
	require.NoError(t, err)
	return sm
}

// builderFor returns a builder over shop before and after ops.
func builderFor(t *testing.T, ops ...change.Operation) *migrate.Builder {
	t.Helper()
	before := shop()
	after := before.Copy()
	require.NoError(t, after.Apply(ops...))
	return migrate.NewBuilder(mappingOf(t, before), mappingOf(t, after))
}

func changeModel(classes ...*schema.ClassModel) *change.Model {
	return change.NewModel(classes...)
}

func navMany(name, target string) *schema.NavigationProperty {
	return edge.Many(target, edge.Named(name))
}
