package transform

import (
	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
)

// Pass is the result of running transformations against a model.
type Pass struct {
	Direction Direction
	Steps     []Step
	// Model is the model after the last transformation.
	Model *change.Model
}

// Step is the output of one transformation of a pass.
type Step struct {
	Index          int
	Transformation Transformation
	Changes        []change.Operation
	Operations     []migrate.Operation
}

// Changes returns the code-model changes of every step in order.
func (p *Pass) Changes() []change.Operation {
	var ops []change.Operation
	for _, s := range p.Steps {
		ops = append(ops, s.Changes...)
	}
	return ops
}

// Operations returns the migration operations of every step in order.
func (p *Pass) Operations() []migrate.Operation {
	var ops []migrate.Operation
	for _, s := range p.Steps {
		ops = append(ops, s.Operations...)
	}
	return ops
}

// Run runs ts in order against a copy of m. Each transformation sees the
// model left by the previous one. The first failure aborts the pass with a
// *evolve.TransformationError.
func Run(m *change.Model, d Direction, ts []Transformation, opts ...Option) (*Pass, error) {
	return run(m, d, ts, newOptions(opts))
}

func run(m *change.Model, d Direction, ts []Transformation, o *options) (*Pass, error) {
	var (
		work = m.Copy()
		pass = &Pass{Direction: d}
	)
	for i, t := range ts {
		step, next, err := apply(work, i, t, o)
		if err != nil {
			o.logger.Error("transformation failed", "direction", d, "index", i, "transformation", t.Kind(), "error", err)
			return nil, err
		}
		o.logger.Debug("transformation applied",
			"direction", d,
			"index", i,
			"transformation", Describe(t),
			"changes", len(step.Changes),
			"operations", len(step.Operations),
		)
		pass.Steps = append(pass.Steps, *step)
		work = next
	}
	pass.Model = work
	return pass, nil
}

func apply(work *change.Model, i int, t Transformation, o *options) (*Step, *change.Model, error) {
	fail := func(phase string, err error) (*Step, *change.Model, error) {
		return nil, nil, evolve.NewTransformationError(i, t.Kind(), phase, err)
	}
	if c, ok := t.(Capturer); ok {
		if err := c.Capture(work); err != nil {
			return fail(evolve.PhaseCapture, err)
		}
	}
	changes, err := t.ModelChanges(work)
	if err != nil {
		return fail(evolve.PhaseModel, err)
	}
	next := work.Copy()
	if err := next.Apply(changes...); err != nil {
		return fail(evolve.PhaseModel, err)
	}
	before, err := o.mapping(work)
	if err != nil {
		return fail(evolve.PhaseMigration, err)
	}
	after, err := o.mapping(next)
	if err != nil {
		return fail(evolve.PhaseMigration, err)
	}
	ops, err := t.MigrationOperations(migrate.NewBuilder(before, after))
	if err != nil {
		return fail(evolve.PhaseMigration, err)
	}
	return &Step{Index: i, Transformation: t, Changes: changes, Operations: ops}, next, nil
}
