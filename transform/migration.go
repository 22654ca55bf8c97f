package transform

import (
	"github.com/syssam/evolve/change"
)

// Migration is an authored model migration.
type Migration interface {
	// ID orders migrations, e.g. "202610171200_AddAddress".
	ID() string
	// Name is the human readable name.
	Name() string
	// Up adds the transformations of the migration to s.
	Up(s *Set)
}

// Reverter is implemented by migrations declaring their down pass
// explicitly instead of deriving it from the inverses of Up.
type Reverter interface {
	Down(s *Set)
}

// RevertName returns the name of the down pass of a migration.
func RevertName(name string) string { return "Revert" + name }

// Result is the compiled form of a migration.
type Result struct {
	ID   string
	Name string
	Up   *Pass
	Down *Pass
	// Dropped lists the up transformations without an inverse that were left
	// out of a derived down pass.
	Dropped []Transformation
}

// Compile runs the up pass of m against model and the down pass against the
// model the up pass produced. The down pass is the explicit one of a
// Reverter, or the inverses of the up transformations.
func Compile(m Migration, model *change.Model, opts ...Option) (*Result, error) {
	up := NewSet(opts...)
	m.Up(up)
	upPass, err := up.Run(model, Up)
	if err != nil {
		return nil, err
	}
	res := &Result{ID: m.ID(), Name: m.Name(), Up: upPass}
	down := NewSet(opts...)
	if r, ok := m.(Reverter); ok {
		r.Down(down)
	}
	if down.Len() == 0 {
		down.Add(up.Down()...)
		res.Dropped = up.Dropped()
	}
	if res.Down, err = run(upPass.Model, Down, down.Up(), down.opts); err != nil {
		return nil, err
	}
	return res, nil
}
