package fluent

import (
	"sort"

	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
)

// ForKey returns the chain declaring the primary key of class, or nil when
// keys is empty.
func ForKey(class string, keys []string) *Chain {
	if len(keys) == 0 {
		return nil
	}
	return &Chain{Entity: class, Calls: []Call{NewCall(HasKey, Select(class, keys...))}}
}

// ForProperty returns the chain configuring the facets of p declared on class.
// It returns nil when no facet is set.
func ForProperty(class string, p *schema.PrimitiveProperty) *Chain {
	c := p.Column
	if !c.IsSpecified() {
		return nil
	}
	calls := []Call{NewCall(Property, Select(class, p.Name))}
	add := func(m Method, params ...Param) { calls = append(calls, NewCall(m, params...)) }
	if c.ColumnName != nil {
		add(HasColumnName, String{V: *c.ColumnName})
	}
	if c.ColumnType != nil {
		add(HasColumnType, String{V: *c.ColumnType})
	}
	if c.ColumnOrder != nil {
		add(HasColumnOrder, Value{V: *c.ColumnOrder})
	}
	if len(c.Annotations) > 0 {
		names := make([]string, 0, len(c.Annotations))
		for name := range c.Annotations {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(HasColumnAnnotation, String{V: name}, annotationParam(c.Annotations[name]))
		}
	}
	if c.Nullable != nil {
		if *c.Nullable {
			add(IsOptional)
		} else {
			add(IsRequired)
		}
	}
	if c.Generated != nil {
		add(HasDatabaseGeneratedOption, Value{V: "DatabaseGeneratedOption." + c.Generated.String()})
	}
	if c.ConcurrencyToken != nil {
		add(IsConcurrencyToken, Value{V: *c.ConcurrencyToken})
	}
	if c.ParameterName != nil {
		add(HasParameterName, String{V: *c.ParameterName})
	}
	if c.MaxLength != nil {
		add(HasMaxLength, Value{V: *c.MaxLength})
	}
	if c.IsMaxLength != nil && *c.IsMaxLength {
		add(IsMaxLength)
	}
	if c.FixedLength != nil {
		if *c.FixedLength {
			add(IsFixedLength)
		} else {
			add(IsVariableLength)
		}
	}
	if c.Unicode != nil {
		add(IsUnicode, Value{V: *c.Unicode})
	}
	if c.Precision != nil {
		params := []Param{Value{V: *c.Precision}}
		if c.Scale != nil {
			params = append(params, Value{V: *c.Scale})
		}
		add(HasPrecision, params...)
	}
	if c.RowVersion != nil && *c.RowVersion {
		add(IsRowVersion)
	}
	return &Chain{Entity: class, Calls: calls}
}

func annotationParam(v any) Param {
	if s, ok := v.(string); ok {
		return String{V: s}
	}
	return Value{V: v}
}

// ForAssociation returns the chain configuring association a. The chain
// starts from the dependent end when it is navigable and from the principal
// end otherwise.
func ForAssociation(a *edge.Association) Chain {
	from, to := a.Dependent, a.Principal
	if from.Navigation == nil && to.Navigation != nil {
		from, to = to, from
	}
	var (
		calls = []Call{NewCall(hasMethod(to.Multiplicity), navParams(from)...)}
		with  = withMethod(from.Multiplicity)
	)
	calls = append(calls, NewCall(with, navParams(to)...))
	switch info := a.Info; {
	case info.JoinTable != nil:
		var m []Call
		if info.JoinTable.Name != "" {
			m = append(m, NewCall(ToTable, String{V: info.JoinTable.Name}))
		}
		if len(info.JoinTable.LeftKeys) > 0 {
			m = append(m, NewCall(MapLeftKey, stringParams(info.JoinTable.LeftKeys)...))
		}
		if len(info.JoinTable.RightKeys) > 0 {
			m = append(m, NewCall(MapRightKey, stringParams(info.JoinTable.RightKeys)...))
		}
		calls = append(calls, NewCall(Map, MapCalls{Calls: m}))
	case len(info.ForeignKeyProperties) > 0:
		calls = append(calls, NewCall(HasForeignKey, Select(a.Dependent.Class, a.ForeignKeyNames()...)))
	case len(info.ForeignKeyColumns) > 0:
		calls = append(calls, NewCall(Map, MapCalls{Calls: []Call{NewCall(MapKey, stringParams(info.ForeignKeyColumns)...)}}))
	}
	if a.Info.CascadeOnDelete != nil {
		calls = append(calls, NewCall(WillCascadeOnDelete, Value{V: *a.Info.CascadeOnDelete}))
	}
	return Chain{Entity: from.Class, Calls: calls}
}

func hasMethod(m edge.Multiplicity) Method {
	switch m {
	case edge.MultiplicityOne:
		return HasRequired
	case edge.MultiplicityMany:
		return HasMany
	default:
		return HasOptional
	}
}

func withMethod(m edge.Multiplicity) Method {
	switch m {
	case edge.MultiplicityOne:
		return WithRequired
	case edge.MultiplicityMany:
		return WithMany
	default:
		return WithOptional
	}
}

func navParams(e edge.End) []Param {
	if e.Navigation == nil {
		return nil
	}
	return []Param{Select(e.Class, e.Navigation.Name)}
}

func stringParams(ss []string) []Param {
	ps := make([]Param, len(ss))
	for i, s := range ss {
		ps[i] = String{V: s}
	}
	return ps
}
