package schema

import "maps"

// Generated is the value-generation policy of a column.
type Generated uint8

// Generation policies.
const (
	GeneratedNone Generated = iota + 1
	GeneratedIdentity
	GeneratedComputed
)

// String returns the policy name.
func (g Generated) String() string {
	switch g {
	case GeneratedNone:
		return "None"
	case GeneratedIdentity:
		return "Identity"
	case GeneratedComputed:
		return "Computed"
	default:
		return "Unset"
	}
}

// ParseGenerated returns the policy with the given name, or 0 when unknown.
func ParseGenerated(s string) Generated {
	switch s {
	case "None", "none":
		return GeneratedNone
	case "Identity", "identity":
		return GeneratedIdentity
	case "Computed", "computed":
		return GeneratedComputed
	default:
		return 0
	}
}

// ColumnInfo holds the optional schema facets of a primitive property.
// A nil facet is unset and inherits the framework default.
type ColumnInfo struct {
	Nullable         *bool
	ColumnName       *string
	ColumnType       *string
	ColumnOrder      *int
	Annotations      map[string]any
	Generated        *Generated
	ConcurrencyToken *bool
	ParameterName    *string
	MaxLength        *int
	IsMaxLength      *bool
	FixedLength      *bool
	Unicode          *bool
	Precision        *uint8
	Scale            *uint8
	RowVersion       *bool
}

// Copy returns a deep copy of the facets.
func (c ColumnInfo) Copy() ColumnInfo {
	return ColumnInfo{
		Nullable:         clonePtr(c.Nullable),
		ColumnName:       clonePtr(c.ColumnName),
		ColumnType:       clonePtr(c.ColumnType),
		ColumnOrder:      clonePtr(c.ColumnOrder),
		Annotations:      maps.Clone(c.Annotations),
		Generated:        clonePtr(c.Generated),
		ConcurrencyToken: clonePtr(c.ConcurrencyToken),
		ParameterName:    clonePtr(c.ParameterName),
		MaxLength:        clonePtr(c.MaxLength),
		IsMaxLength:      clonePtr(c.IsMaxLength),
		FixedLength:      clonePtr(c.FixedLength),
		Unicode:          clonePtr(c.Unicode),
		Precision:        clonePtr(c.Precision),
		Scale:            clonePtr(c.Scale),
		RowVersion:       clonePtr(c.RowVersion),
	}
}

// IsSpecified reports whether at least one facet is set.
func (c ColumnInfo) IsSpecified() bool {
	return c.Nullable != nil ||
		c.ColumnName != nil ||
		c.ColumnType != nil ||
		c.ColumnOrder != nil ||
		len(c.Annotations) > 0 ||
		c.Generated != nil ||
		c.ConcurrencyToken != nil ||
		c.ParameterName != nil ||
		c.MaxLength != nil ||
		c.IsMaxLength != nil ||
		c.FixedLength != nil ||
		c.Unicode != nil ||
		c.Precision != nil ||
		c.Scale != nil ||
		c.RowVersion != nil
}

// IsIdentity reports whether the generation policy is explicitly Identity.
func (c ColumnInfo) IsIdentity() bool {
	return c.Generated != nil && *c.Generated == GeneratedIdentity
}
