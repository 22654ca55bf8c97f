package transform_test

import (
	"testing"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
	"github.com/syssam/evolve/schema/field"
	"github.com/syssam/evolve/transform"

	"github.com/stretchr/testify/require"
)

// store returns a model of customers with inline address columns and their
// orders, plus two classes without associations.
func store() *change.Model {
	return change.NewModel(
		&schema.ClassModel{
			Name:        "Customer",
			PrimaryKeys: []string{"Id"},
			Properties: []schema.Property{
				field.Int("Id").Property(),
				field.String("Name").MaxLength(100).Property(),
				field.String("Street").Property(),
				field.String("City").Property(),
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
			},
		},
		&schema.ClassModel{
			Name:        "Invoice",
			PrimaryKeys: []string{"Id"},
			Properties: field.Properties(
				field.Int("Id"),
				field.String("Number").Required(),
			),
		},
		&schema.ClassModel{
			Name:        "Account",
			PrimaryKeys: []string{"Id"},
			Properties: field.Properties(
				field.Int("Id"),
				field.String("Login"),
			),
		},
	)
}

// roundTrip runs ts up and their inverses down and returns both passes.
func roundTrip(t *testing.T, m *change.Model, ts ...transform.Transformation) (up, down *transform.Pass) {
	t.Helper()
	s := transform.NewSet().Add(ts...)
	up, err := s.Run(m, transform.Up)
	require.NoError(t, err)
	down, err = s.Run(up.Model, transform.Down)
	require.NoError(t, err)
	require.Empty(t, s.Dropped())
	return up, down
}

func kinds(ops []migrate.Operation) []string {
	ks := make([]string, len(ops))
	for i, op := range ops {
		ks[i] = op.Kind()
	}
	return ks
}

func changeKinds(ops []change.Operation) []string {
	ks := make([]string, len(ops))
	for i, op := range ops {
		ks[i] = op.Op()
	}
	return ks
}

// newClass returns a class with an int primary key over keys.
func newClass(name string, keys ...string) *schema.ClassModel {
	cls := &schema.ClassModel{Name: name, PrimaryKeys: keys}
	for _, k := range keys {
		cls.Properties = append(cls.Properties, field.Int(k).NotGenerated().Property())
	}
	return cls
}
