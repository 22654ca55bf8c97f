package transform

import (
	"fmt"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
	"github.com/syssam/evolve/schema"
)

// Transformation is a single model transformation. The set of variants is
// closed.
type Transformation interface {
	// Kind returns the variant name, e.g. "RenameClass".
	Kind() string
	// ModelChanges returns the code-model changes of the transformation
	// against the model p. It never mutates p.
	ModelChanges(p schema.Provider) ([]change.Operation, error)
	// MigrationOperations returns the relational migration operations of the
	// transformation. b maps the model before and after ModelChanges.
	MigrationOperations(b *migrate.Builder) ([]migrate.Operation, error)
	// Inverse returns the transformation undoing this one, or nil when the
	// transformation is not invertible.
	Inverse() Transformation
	transformation()
}

// Capturer is implemented by transformations whose inverse needs state read
// from the model before they run.
type Capturer interface {
	Transformation
	// Capture records what Inverse needs from the model p.
	Capture(p schema.Provider) error
}

// Direction selects the transformations of a pass.
type Direction uint8

// Directions.
const (
	Up Direction = iota
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Describe returns a one-line human readable description of t.
func Describe(t Transformation) string {
	switch t := t.(type) {
	case *CreateClass:
		return fmt.Sprintf("create class %s", t.Class.Name)
	case *RemoveClass:
		return "remove class " + t.Name
	case *AddProperty:
		return fmt.Sprintf("add property %s.%s", t.Class, t.Property.PropertyName())
	case *RemoveProperty:
		return fmt.Sprintf("remove property %s.%s", t.Class, t.Name)
	case *RenameClass:
		return fmt.Sprintf("rename class %s to %s", t.Old, t.New)
	case *RenameProperty:
		return fmt.Sprintf("rename property %s.%s to %s", t.Class, t.Old, t.New)
	case *ExtractClass:
		return fmt.Sprintf("extract class %s from %s", t.Class.Name, t.From)
	case *MergeClasses:
		return fmt.Sprintf("merge class %s into %s", t.Dependent, t.Principal)
	case *ExtractComplexType:
		return fmt.Sprintf("extract complex type %s from %s", t.ComplexType, t.Class)
	case *JoinComplexType:
		return fmt.Sprintf("join complex type %s into %s", t.ComplexType, t.Class)
	case *AddOneToOnePrimaryKeyAssociation:
		return "add one-to-one primary key association " + describeEnds(t.Association.Principal.Class, t.Association.Dependent.Class)
	case *AddOneToOneForeignKeyAssociation:
		return "add one-to-one foreign key association " + describeEnds(t.Association.Principal.Class, t.Association.Dependent.Class)
	case *AddOneToManyAssociation:
		return "add one-to-many association " + describeEnds(t.Association.Principal.Class, t.Association.Dependent.Class)
	case *AddManyToManyAssociation:
		return "add many-to-many association " + describeEnds(t.Association.Principal.Class, t.Association.Dependent.Class)
	case *RemoveOneToOnePrimaryKeyAssociation:
		return "remove one-to-one primary key association " + describeEnds(t.Principal.Class, t.Dependent.Class)
	case *RemoveOneToOneForeignKeyAssociation:
		return "remove one-to-one foreign key association " + describeEnds(t.Principal.Class, t.Dependent.Class)
	case *RemoveOneToManyAssociation:
		return "remove one-to-many association " + describeEnds(t.Principal.Class, t.Dependent.Class)
	case *RemoveManyToManyAssociation:
		return "remove many-to-many association " + describeEnds(t.Principal.Class, t.Dependent.Class)
	default:
		panic(fmt.Sprintf("transform: unexpected transformation %T", t))
	}
}

func describeEnds(principal, dependent string) string {
	return principal + " -> " + dependent
}

var (
	_ Transformation = (*CreateClass)(nil)
	_ Transformation = (*RemoveClass)(nil)
	_ Transformation = (*AddProperty)(nil)
	_ Transformation = (*RemoveProperty)(nil)
	_ Transformation = (*RenameClass)(nil)
	_ Transformation = (*RenameProperty)(nil)
	_ Transformation = (*ExtractClass)(nil)
	_ Transformation = (*MergeClasses)(nil)
	_ Transformation = (*ExtractComplexType)(nil)
	_ Transformation = (*JoinComplexType)(nil)
	_ Transformation = (*AddOneToOnePrimaryKeyAssociation)(nil)
	_ Transformation = (*AddOneToOneForeignKeyAssociation)(nil)
	_ Transformation = (*AddOneToManyAssociation)(nil)
	_ Transformation = (*AddManyToManyAssociation)(nil)
	_ Transformation = (*RemoveOneToOnePrimaryKeyAssociation)(nil)
	_ Transformation = (*RemoveOneToOneForeignKeyAssociation)(nil)
	_ Transformation = (*RemoveOneToManyAssociation)(nil)
	_ Transformation = (*RemoveManyToManyAssociation)(nil)

	_ Capturer = (*RemoveClass)(nil)
	_ Capturer = (*RemoveProperty)(nil)
	_ Capturer = (*JoinComplexType)(nil)
)
