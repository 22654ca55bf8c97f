// Package change defines the code-model mutations emitted by transformations
// and an in-memory model that applies them.
package change

import (
	"fmt"

	"github.com/syssam/evolve/compiler/fluent"
	"github.com/syssam/evolve/schema"
)

// Operation is a single code-model mutation intent. The set of operations is
// closed: CreateEmptyClass, RemoveClass, RenameClass, AddPropertyToClass,
// RemovePropertyFromClass, MovePropertyBetweenClasses and RenameProperty.
type Operation interface {
	// Op returns the operation name.
	Op() string
	// Classes returns the names of the classes the operation touches.
	Classes() []string
	operation()
}

// CreateEmptyClass creates a class. The code emitter materializes the
// properties carried by Class together with the class declaration.
type CreateEmptyClass struct {
	Class   *schema.ClassModel
	Mapping []fluent.Chain
}

// RemoveClass removes a class and its declaration.
type RemoveClass struct {
	Name string
}

// RenameClass renames a class.
type RenameClass struct {
	Old, New string
}

// AddPropertyToClass appends a property to a class.
type AddPropertyToClass struct {
	Class    string
	Property schema.Property
	Mapping  []fluent.Chain
}

// RemovePropertyFromClass removes a property from a class.
type RemovePropertyFromClass struct {
	Class    string
	Property string
}

// MovePropertyBetweenClasses moves a property, appending it to the target.
type MovePropertyBetweenClasses struct {
	From, To string
	Property string
}

// RenameProperty renames a property of a class.
type RenameProperty struct {
	Class    string
	Old, New string
}

// Op implements Operation.
func (*CreateEmptyClass) Op() string           { return "CreateEmptyClass" }
func (*RemoveClass) Op() string                { return "RemoveClass" }
func (*RenameClass) Op() string                { return "RenameClass" }
func (*AddPropertyToClass) Op() string         { return "AddPropertyToClass" }
func (*RemovePropertyFromClass) Op() string    { return "RemovePropertyFromClass" }
func (*MovePropertyBetweenClasses) Op() string { return "MovePropertyBetweenClasses" }
func (*RenameProperty) Op() string             { return "RenameProperty" }

// Classes implements Operation.
func (o *CreateEmptyClass) Classes() []string           { return []string{o.Class.Name} }
func (o *RemoveClass) Classes() []string                { return []string{o.Name} }
func (o *RenameClass) Classes() []string                { return []string{o.Old, o.New} }
func (o *AddPropertyToClass) Classes() []string         { return []string{o.Class} }
func (o *RemovePropertyFromClass) Classes() []string    { return []string{o.Class} }
func (o *MovePropertyBetweenClasses) Classes() []string { return []string{o.From, o.To} }
func (o *RenameProperty) Classes() []string             { return []string{o.Class} }

func (*CreateEmptyClass) operation()           {}
func (*RemoveClass) operation()                {}
func (*RenameClass) operation()                {}
func (*AddPropertyToClass) operation()         {}
func (*RemovePropertyFromClass) operation()    {}
func (*MovePropertyBetweenClasses) operation() {}
func (*RenameProperty) operation()             {}

// Describe returns a one-line human readable description of op.
func Describe(op Operation) string {
	switch op := op.(type) {
	case *CreateEmptyClass:
		return fmt.Sprintf("create class %s (%d properties)", op.Class.Name, len(op.Class.Properties))
	case *RemoveClass:
		return "remove class " + op.Name
	case *RenameClass:
		return fmt.Sprintf("rename class %s to %s", op.Old, op.New)
	case *AddPropertyToClass:
		return fmt.Sprintf("add %s property %s.%s", schema.KindOf(op.Property), op.Class, op.Property.PropertyName())
	case *RemovePropertyFromClass:
		return fmt.Sprintf("remove property %s.%s", op.Class, op.Property)
	case *MovePropertyBetweenClasses:
		return fmt.Sprintf("move property %s.%s to %s", op.From, op.Property, op.To)
	case *RenameProperty:
		return fmt.Sprintf("rename property %s.%s to %s", op.Class, op.Old, op.New)
	default:
		panic(fmt.Sprintf("change: unexpected operation %T", op))
	}
}

var (
	_ Operation = (*CreateEmptyClass)(nil)
	_ Operation = (*RemoveClass)(nil)
	_ Operation = (*RenameClass)(nil)
	_ Operation = (*AddPropertyToClass)(nil)
	_ Operation = (*RemovePropertyFromClass)(nil)
	_ Operation = (*MovePropertyBetweenClasses)(nil)
	_ Operation = (*RenameProperty)(nil)
)
