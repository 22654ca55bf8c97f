package change

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/schema"
)

// Model is an in-memory class model. It implements schema.Provider and
// applies operations the way a code emitter applies them to source files.
// Values passed in and handed out are copies.
type Model struct {
	classes map[string]*schema.ClassModel
}

// NewModel returns a model holding copies of classes.
func NewModel(classes ...*schema.ClassModel) *Model {
	m := &Model{classes: make(map[string]*schema.ClassModel, len(classes))}
	for _, c := range classes {
		m.classes[c.Name] = c.Copy()
	}
	return m
}

// Class implements schema.Provider.
func (m *Model) Class(name string) (*schema.ClassModel, error) {
	c, ok := m.classes[name]
	if !ok {
		return nil, evolve.NewNotFoundError("class", name)
	}
	return c.Copy(), nil
}

// Names returns the sorted class names.
func (m *Model) Names() []string {
	return slices.Sorted(maps.Keys(m.classes))
}

// Classes returns copies of every class, sorted by name.
func (m *Model) Classes() []*schema.ClassModel {
	names := m.Names()
	cs := make([]*schema.ClassModel, len(names))
	for i, name := range names {
		cs[i] = m.classes[name].Copy()
	}
	return cs
}

// Copy returns an independent copy of the model.
func (m *Model) Copy() *Model {
	return NewModel(m.Classes()...)
}

// Equal reports whether both models hold structurally equal classes.
func (m *Model) Equal(other *Model) bool {
	if len(m.classes) != len(other.classes) {
		return false
	}
	for name, c := range m.classes {
		if !schema.Equal(c, other.classes[name]) {
			return false
		}
	}
	return true
}

// Apply applies ops in order. It stops at the first failing operation and
// leaves the model unchanged in that case.
func (m *Model) Apply(ops ...Operation) error {
	work := m.Copy()
	for i, op := range ops {
		if err := work.apply(op); err != nil {
			return fmt.Errorf("change: operation #%d (%s): %w", i, op.Op(), err)
		}
	}
	m.classes = work.classes
	return nil
}

func (m *Model) apply(op Operation) error {
	switch op := op.(type) {
	case *CreateEmptyClass:
		if _, ok := m.classes[op.Class.Name]; ok {
			return evolve.NewPreconditionError("create-class", "class %q already exists", op.Class.Name)
		}
		m.classes[op.Class.Name] = op.Class.Copy()
	case *RemoveClass:
		if _, ok := m.classes[op.Name]; !ok {
			return evolve.NewNotFoundError("class", op.Name)
		}
		delete(m.classes, op.Name)
	case *RenameClass:
		c, ok := m.classes[op.Old]
		if !ok {
			return evolve.NewNotFoundError("class", op.Old)
		}
		if _, ok := m.classes[op.New]; ok {
			return evolve.NewPreconditionError("rename-class", "class %q already exists", op.New)
		}
		delete(m.classes, op.Old)
		c.Name = op.New
		m.classes[op.New] = c
		m.retarget(op.Old, op.New)
	case *AddPropertyToClass:
		c, ok := m.classes[op.Class]
		if !ok {
			return evolve.NewNotFoundError("class", op.Class)
		}
		return c.AddProperty(op.Property.Copy())
	case *RemovePropertyFromClass:
		c, ok := m.classes[op.Class]
		if !ok {
			return evolve.NewNotFoundError("class", op.Class)
		}
		if _, err := c.RemoveProperty(op.Property); err != nil {
			return err
		}
	case *MovePropertyBetweenClasses:
		from, ok := m.classes[op.From]
		if !ok {
			return evolve.NewNotFoundError("class", op.From)
		}
		to, ok := m.classes[op.To]
		if !ok {
			return evolve.NewNotFoundError("class", op.To)
		}
		p, err := from.RemoveProperty(op.Property)
		if err != nil {
			return err
		}
		return to.AddProperty(p)
	case *RenameProperty:
		c, ok := m.classes[op.Class]
		if !ok {
			return evolve.NewNotFoundError("class", op.Class)
		}
		p := c.Property(op.Old)
		if p == nil {
			return evolve.NewNotFoundError("property", op.Class+"."+op.Old)
		}
		if c.HasProperty(op.New) {
			return evolve.NewPreconditionError("rename-property", "class %q already has property %q", op.Class, op.New)
		}
		p.Common().Name = op.New
		for i, k := range c.PrimaryKeys {
			if k == op.Old {
				c.PrimaryKeys[i] = op.New
			}
		}
	default:
		return fmt.Errorf("change: unexpected operation %T", op)
	}
	return nil
}

// retarget points navigation properties at a renamed class.
func (m *Model) retarget(from, to string) {
	for _, c := range m.classes {
		for _, p := range c.Properties {
			nav, ok := p.(*schema.NavigationProperty)
			if !ok || nav.Target != from {
				continue
			}
			if nav.Type == schema.NavigationType(from, nav.Collection) {
				nav.Type = schema.NavigationType(to, nav.Collection)
			}
			nav.Target = to
		}
	}
}

var _ schema.Provider = (*Model)(nil)
