package transform

import (
	"io"
	"log/slog"
	"slices"

	"github.com/syssam/evolve"
	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/migrate"
)

// MappingFunc returns the schema mapping of a model.
type MappingFunc func(m *change.Model) (migrate.Mapping, error)

// ConventionMapping maps every class of m by convention.
func ConventionMapping(m *change.Model) (migrate.Mapping, error) {
	return migrate.FromModel(m, m.Names()...)
}

type options struct {
	logger  *slog.Logger
	mapping MappingFunc
}

// Option configures a Set or a pass.
type Option func(*options)

// WithLogger sets the logger. The default discards every record.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMapping sets how the mapping before and after each transformation is
// obtained. The default is ConventionMapping.
func WithMapping(fn MappingFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.mapping = fn
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		mapping: ConventionMapping,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Set is the ordered, append-only list of transformations of a migration.
type Set struct {
	opts    *options
	items   []Transformation
	dropped []Transformation
}

// NewSet returns an empty set.
func NewSet(opts ...Option) *Set {
	return &Set{opts: newOptions(opts)}
}

// Add appends transformations to the set. Nil values are ignored.
func (s *Set) Add(ts ...Transformation) *Set {
	for _, t := range ts {
		if t != nil {
			s.items = append(s.items, t)
		}
	}
	return s
}

// Len returns the number of transformations.
func (s *Set) Len() int { return len(s.items) }

// Up returns the transformations in application order.
func (s *Set) Up() []Transformation {
	return slices.Clone(s.items)
}

// Down returns the inverses of the transformations in reverse order.
// Transformations without an inverse are left out, logged and reported by
// Dropped.
func (s *Set) Down() []Transformation {
	s.dropped = nil
	down := make([]Transformation, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		t := s.items[i]
		inv := t.Inverse()
		if inv == nil {
			s.dropped = append(s.dropped, t)
			s.opts.logger.Warn("transformation has no inverse, left out of the down pass",
				"index", i, "transformation", t.Kind(), "description", Describe(t))
			continue
		}
		down = append(down, inv)
	}
	return down
}

// Dropped returns the transformations left out by the last call to Down.
func (s *Set) Dropped() []Transformation {
	return slices.Clone(s.dropped)
}

// Capture walks the set against a working copy of m and records in each
// Capturer the state its inverse needs. m is not modified.
func (s *Set) Capture(m *change.Model) error {
	work := m.Copy()
	for i, t := range s.items {
		if c, ok := t.(Capturer); ok {
			if err := c.Capture(work); err != nil {
				return evolve.NewTransformationError(i, t.Kind(), evolve.PhaseCapture, err)
			}
		}
		changes, err := t.ModelChanges(work)
		if err != nil {
			return evolve.NewTransformationError(i, t.Kind(), evolve.PhaseModel, err)
		}
		if err := work.Apply(changes...); err != nil {
			return evolve.NewTransformationError(i, t.Kind(), evolve.PhaseModel, err)
		}
	}
	return nil
}

// Run runs the transformations of direction d against m.
func (s *Set) Run(m *change.Model, d Direction) (*Pass, error) {
	ts := s.Up()
	if d == Down {
		ts = s.Down()
	}
	return run(m, d, ts, s.opts)
}
