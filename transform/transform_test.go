package transform_test

import (
	"testing"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
	"github.com/syssam/evolve/schema/field"
	"github.com/syssam/evolve/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformation_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tr       func() transform.Transformation
		up, down []string
	}{
		{
			name: "rename class",
			tr:   func() transform.Transformation { return &transform.RenameClass{Old: "Customer", New: "Client"} },
			up:   []string{"RenameTable"},
			down: []string{"RenameTable"},
		},
		{
			name: "rename property",
			tr: func() transform.Transformation {
				return &transform.RenameProperty{Class: "Customer", Old: "Name", New: "FullName"}
			},
			up:   []string{"RenameColumn"},
			down: []string{"RenameColumn"},
		},
		{
			name: "create class",
			tr: func() transform.Transformation {
				return transform.NewCreateClass("Tag", field.Properties(field.Int("Id"), field.String("Label")), "Id")
			},
			up:   []string{"CreateTable"},
			down: []string{"DropTable"},
		},
		{
			name: "remove class",
			tr:   func() transform.Transformation { return &transform.RemoveClass{Name: "Account"} },
			up:   []string{"DropTable"},
			down: []string{"CreateTable"},
		},
		{
			name: "add property",
			tr: func() transform.Transformation {
				return &transform.AddProperty{Class: "Invoice", Property: field.Bool("Paid").Property()}
			},
			up:   []string{"AddColumn"},
			down: []string{"DropColumn"},
		},
		{
			name: "remove property",
			tr:   func() transform.Transformation { return &transform.RemoveProperty{Class: "Customer", Name: "City"} },
			up:   []string{"DropColumn"},
			down: []string{"AddColumn"},
		},
		{
			name: "extract complex type",
			tr: func() transform.Transformation {
				return &transform.ExtractComplexType{Class: "Customer", ComplexType: "Address", Properties: []string{"Street", "City"}}
			},
			up:   []string{"RenameColumn", "RenameColumn"},
			down: []string{"RenameColumn", "RenameColumn"},
		},
		{
			name: "extract class",
			tr: func() transform.Transformation {
				return &transform.ExtractClass{
					From:       "Customer",
					Properties: []string{"Street", "City"},
					Class:      &schema.ClassModel{Name: "Profile"},
				}
			},
			up:   []string{"CreateTable", "InsertFrom", "AddForeignKey", "DropColumn", "DropColumn"},
			down: []string{"AddColumn", "AddColumn", "UpdateFrom", "DropTable"},
		},
		{
			name: "one-to-one primary key",
			tr: func() transform.Transformation {
				return transform.NewSet().AddOneToOnePrimaryKeyAssociation(
					"Customer", edge.One("Account"), "Account", edge.One("Customer"), true, edge.Info{},
				).Up()[0]
			},
			up:   []string{"Identity", "AddForeignKey"},
			down: []string{"DropForeignKey", "Identity"},
		},
		{
			name: "one-to-one foreign key",
			tr: func() transform.Transformation {
				return transform.NewSet().AddOneToOneForeignKeyAssociation(
					"Customer", edge.One("Invoice"), "Invoice", edge.One("Customer"), true, false, edge.Info{},
				).Up()[0]
			},
			up:   []string{"AddColumn", "CreateIndex", "AddForeignKey"},
			down: []string{"DropForeignKey", "DropIndex", "DropColumn"},
		},
		{
			name: "one-to-many",
			tr: func() transform.Transformation {
				return transform.NewSet().AddOneToManyAssociation(
					"Customer", edge.Many("Invoice"), "Invoice", edge.One("Customer"), true, edge.Info{},
				).Up()[0]
			},
			up:   []string{"AddColumn", "CreateIndex", "AddForeignKey"},
			down: []string{"DropForeignKey", "DropIndex", "DropColumn"},
		},
		{
			name: "many-to-many",
			tr: func() transform.Transformation {
				return transform.NewSet().AddManyToManyAssociation(
					"Order", edge.Many("Invoice"), "Invoice", edge.Many("Order"), nil,
				).Up()[0]
			},
			up:   []string{"CreateTable", "AddForeignKey", "AddForeignKey", "CreateIndex", "CreateIndex"},
			down: []string{"DropForeignKey", "DropForeignKey", "DropTable"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := store()
			up, down := roundTrip(t, m, tt.tr())
			assert.False(t, up.Model.Equal(m), "up pass changes the model")
			assert.True(t, down.Model.Equal(m), "down pass restores the model")
			assert.Equal(t, tt.up, kinds(up.Operations()))
			assert.Equal(t, tt.down, kinds(down.Operations()))
		})
	}
}

func TestRename_InverseLaws(t *testing.T) {
	t.Parallel()

	rc := &transform.RenameClass{Old: "Customer", New: "Client"}
	assert.Equal(t, &transform.RenameClass{Old: "Client", New: "Customer"}, rc.Inverse())
	assert.Equal(t, rc, rc.Inverse().Inverse())

	rp := &transform.RenameProperty{Class: "Customer", Old: "Name", New: "FullName"}
	assert.Equal(t, &transform.RenameProperty{Class: "Customer", Old: "FullName", New: "Name"}, rp.Inverse())
	assert.Equal(t, rp, rp.Inverse().Inverse())
}

func TestInverse_RequiresCapture(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tr   interface {
			transform.Transformation
			transform.Capturer
		}
	}{
		{name: "remove class", tr: &transform.RemoveClass{Name: "Account"}},
		{name: "remove property", tr: &transform.RemoveProperty{Class: "Customer", Name: "City"}},
		{name: "join complex type", tr: &transform.JoinComplexType{ComplexType: "Address", Class: "Customer"}},
	}
	m := store()
	require.NoError(t, m.Apply(
		&change.CreateEmptyClass{Class: &schema.ClassModel{Name: "Address", Complex: true}},
		&change.MovePropertyBetweenClasses{From: "Customer", To: "Address", Property: "Street"},
		&change.AddPropertyToClass{Class: "Customer", Property: edge.One("Address", edge.Named("Home"))},
	))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Nil(t, tt.tr.Inverse())
			require.NoError(t, tt.tr.Capture(m))
			assert.NotNil(t, tt.tr.Inverse())
		})
	}
}

func TestInverse_Shapes(t *testing.T) {
	t.Parallel()

	create := transform.NewCreateClass("Tag", field.Properties(field.Int("Id")), "Id")
	remove, ok := create.Inverse().(*transform.RemoveClass)
	require.True(t, ok)
	assert.Equal(t, "Tag", remove.Name)
	assert.Equal(t, create.Class, remove.Class)
	assert.NotSame(t, create.Class, remove.Class)

	extract := &transform.ExtractComplexType{Class: "Order", ComplexType: "Address", Properties: []string{"Street", "City"}}
	join, ok := extract.Inverse().(*transform.JoinComplexType)
	require.True(t, ok)
	assert.Equal(t, "Address", join.ComplexType)
	assert.Equal(t, "Order", join.Class)
	assert.Equal(t, []string{"Street", "City"}, join.Properties)
	require.NotNil(t, join.Navigation)
	assert.Equal(t, "Address", join.Navigation.Name)

	s := transform.NewSet().
		AddOneToOnePrimaryKeyAssociation("Customer", edge.One("Account"), "Account", nil, false, edge.Info{}).
		AddOneToManyAssociation("Customer", edge.Many("Invoice"), "Invoice", nil, false, edge.Info{
			ForeignKeyProperties: []*schema.ForeignKeyProperty{edge.ForeignKey("CustomerId", "int")},
		})
	pk, ok := s.Up()[0].Inverse().(*transform.RemoveOneToOnePrimaryKeyAssociation)
	require.True(t, ok)
	assert.True(t, pk.AddIdentity)
	assert.Equal(t, edge.Ref{Class: "Customer", Navigation: "Account"}, pk.Principal)
	many, ok := s.Up()[1].Inverse().(*transform.RemoveOneToManyAssociation)
	require.True(t, ok)
	assert.Equal(t, []string{"CustomerId"}, many.ForeignKeyProperties)

	for _, tr := range []transform.Transformation{
		&transform.MergeClasses{Principal: "Customer", Dependent: "Profile", Properties: []string{"Street"}},
		&transform.RemoveOneToOnePrimaryKeyAssociation{},
		&transform.RemoveOneToOneForeignKeyAssociation{},
		&transform.RemoveOneToManyAssociation{},
		&transform.RemoveManyToManyAssociation{},
	} {
		assert.Nil(t, tr.Inverse(), tr.Kind())
	}
}

func TestExtractComplexType_JoinDuality(t *testing.T) {
	t.Parallel()

	m := store()
	extract := &transform.ExtractComplexType{Class: "Customer", ComplexType: "Address", Properties: []string{"Street", "City"}}
	changes, err := extract.ModelChanges(m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CreateEmptyClass", "MovePropertyBetweenClasses", "MovePropertyBetweenClasses", "AddPropertyToClass",
	}, changeKinds(changes))

	pass, err := transform.Run(m, transform.Up, []transform.Transformation{extract})
	require.NoError(t, err)
	address, err := pass.Model.Class("Address")
	require.NoError(t, err)
	assert.True(t, address.Complex)
	assert.Equal(t, []string{"Street", "City"}, address.PropertyNames())
	customer, err := pass.Model.Class("Customer")
	require.NoError(t, err)
	assert.False(t, customer.HasProperty("Street"))
	nav, ok := customer.Property("Address").(*schema.NavigationProperty)
	require.True(t, ok)
	assert.Equal(t, "Address", nav.Target)

	back, err := transform.Run(pass.Model, transform.Down, []transform.Transformation{extract.Inverse()})
	require.NoError(t, err)
	assert.True(t, back.Model.Equal(m))
	_, err = back.Model.Class("Address")
	assert.True(t, evolve.IsNotFound(err))
}

func TestJoinComplexType_RemovesReferencingNavigations(t *testing.T) {
	t.Parallel()

	m := store()
	require.NoError(t, m.Apply(
		&change.CreateEmptyClass{Class: &schema.ClassModel{Name: "Address", Complex: true}},
		&change.MovePropertyBetweenClasses{From: "Customer", To: "Address", Property: "Street"},
		&change.AddPropertyToClass{Class: "Customer", Property: edge.One("Address", edge.Named("Home"))},
		&change.AddPropertyToClass{Class: "Customer", Property: edge.Many("Address", edge.Named("Previous"))},
	))
	join := &transform.JoinComplexType{ComplexType: "Address", Class: "Customer"}
	changes, err := join.ModelChanges(m)
	require.NoError(t, err)
	assert.Equal(t, []change.Operation{
		&change.MovePropertyBetweenClasses{From: "Address", To: "Customer", Property: "Street"},
		&change.RemoveClass{Name: "Address"},
		&change.RemovePropertyFromClass{Class: "Customer", Property: "Home"},
		&change.RemovePropertyFromClass{Class: "Customer", Property: "Previous"},
	}, changes)
}

func TestAssociation_MappingChain(t *testing.T) {
	t.Parallel()

	tr := transform.NewSet().AddOneToManyAssociation(
		"Customer", edge.Many("Invoice"), "Invoice", edge.One("Customer"), true, edge.Info{},
	).Up()[0]
	changes, err := tr.ModelChanges(store())
	require.NoError(t, err)
	require.Len(t, changes, 2)
	for _, op := range changes {
		add := op.(*change.AddPropertyToClass)
		if add.Class == "Invoice" {
			assert.Len(t, add.Mapping, 1)
		} else {
			assert.Empty(t, add.Mapping)
		}
	}
}

func TestAssociation_ForeignKeyColumns(t *testing.T) {
	t.Parallel()

	pass, err := transform.NewSet().AddOneToManyAssociation(
		"Customer", edge.Many("Invoice"), "Invoice", edge.One("Customer"), true, edge.Info{},
	).Run(store(), transform.Up)
	require.NoError(t, err)
	ops := pass.Operations()
	require.Len(t, ops, 3)
	assert.Equal(t, &migrate.AddColumn{
		Table:  "Invoices",
		Column: migrate.Column{Name: "Customer_Id", Type: "int"},
	}, ops[0])
	assert.Equal(t, &migrate.CreateIndex{Table: "Invoices", Name: "IX_Customer_Id", Columns: []string{"Customer_Id"}}, ops[1])
	fk := ops[2].(*migrate.AddForeignKey)
	assert.Equal(t, "Customers", fk.PrincipalTable)
	assert.Equal(t, []string{"Id"}, fk.PrincipalColumns)
}
