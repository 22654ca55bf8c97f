// Package index describes the index created over the foreign-key columns of
// an association.
package index

import "strings"

// Index configures a database index.
type Index struct {
	Name      string
	Unique    bool
	Clustered bool
	Order     *int
}

// Option configures an Index.
type Option func(*Index)

// Name sets the index name.
func Name(name string) Option {
	return func(i *Index) { i.Name = name }
}

// Unique marks the index as unique.
func Unique() Option {
	return func(i *Index) { i.Unique = true }
}

// Clustered marks the index as clustered.
func Clustered() Option {
	return func(i *Index) { i.Clustered = true }
}

// Order sets the position of the column in a multi-column index.
func Order(n int) Option {
	return func(i *Index) { i.Order = &n }
}

// New returns an index configured by opts.
func New(opts ...Option) *Index {
	i := &Index{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Copy returns a deep copy of i.
func (i *Index) Copy() *Index {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Order != nil {
		n := *i.Order
		cp.Order = &n
	}
	return &cp
}

// NameOr returns the configured name, or the conventional name derived from
// the indexed columns when none is set.
func (i *Index) NameOr(columns ...string) string {
	if i != nil && i.Name != "" {
		return i.Name
	}
	return DefaultName(columns...)
}

// DefaultName returns the conventional index name "IX_<col1>_<col2>...".
func DefaultName(columns ...string) string {
	return "IX_" + strings.Join(columns, "_")
}
