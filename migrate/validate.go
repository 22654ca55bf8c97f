package migrate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/evolve"
)

// ValidationError is a problem found in a mapping.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking marks changes that lose data.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if any error or warning is breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range slices.Concat(r.Errors, r.Warnings) {
		if e.Breaking {
			return true
		}
	}
	return false
}

// Err returns the errors as a single error, or nil. Several errors are
// combined into an *evolve.AggregateError.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return evolve.NewAggregateError(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for _, e := range errs {
			sb.WriteString("  - " + e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) errorf(table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(breaking bool, table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...), Breaking: breaking})
}

// ValidateMapping checks a mapping for duplicate tables and columns, keys
// over unknown columns and foreign keys referencing unknown tables or
// columns.
func ValidateMapping(m Mapping) *ValidationResult {
	result := &ValidationResult{}
	tables := make(map[string]*TableMapping)
	classes := make(map[string]bool)
	for _, t := range m.Tables() {
		if _, ok := tables[t.Name]; ok {
			result.errorf(t.Name, "", "duplicate table name")
		}
		tables[t.Name] = t
		if t.Class != "" {
			if classes[t.Class] {
				result.errorf(t.Name, "", "class %q is mapped twice", t.Class)
			}
			classes[t.Class] = true
		}
		validateTable(t, result)
	}
	for _, t := range m.Tables() {
		for _, fk := range t.ForeignKeys {
			principal, ok := tables[fk.PrincipalTable]
			if !ok {
				result.errorf(t.Name, "", "foreign key references non-existent table %q", fk.PrincipalTable)
				continue
			}
			if len(fk.Columns) != len(fk.PrincipalColumns) {
				result.errorf(t.Name, "", "foreign key to %q has %d columns but references %d", fk.PrincipalTable, len(fk.Columns), len(fk.PrincipalColumns))
			}
			for _, col := range fk.PrincipalColumns {
				if _, ok := principal.ColumnByName(col); !ok {
					result.errorf(t.Name, "", "foreign key references non-existent column %s.%s", fk.PrincipalTable, col)
				}
			}
		}
	}
	return result
}

func validateTable(t *TableMapping, result *ValidationResult) {
	if len(t.PrimaryKey) == 0 {
		result.warnf(false, t.Name, "", "table has no primary key")
	}
	names := make(map[string]bool, len(t.Columns))
	props := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if names[c.Name] {
			result.errorf(t.Name, c.Name, "duplicate column name")
		}
		names[c.Name] = true
		if c.Property != "" {
			if props[c.Property] {
				result.errorf(t.Name, c.Name, "property %q is mapped twice", c.Property)
			}
			props[c.Property] = true
		}
	}
	for _, k := range t.PrimaryKey {
		if !names[k] {
			result.errorf(t.Name, "", "primary key references non-existent column %q", k)
		}
	}
	for _, fk := range t.ForeignKeys {
		for _, col := range fk.Columns {
			if !names[col] {
				result.errorf(t.Name, "", "foreign key references non-existent column %q", col)
			}
		}
	}
}

// ValidateDiff reports the data-losing and risky changes between two
// mappings: dropped tables and columns, type changes and columns becoming
// NOT NULL. Renamed tables are matched by class.
func ValidateDiff(before, after Mapping) *ValidationResult {
	result := &ValidationResult{}
	for _, cur := range before.Tables() {
		next, ok := counterpart(after, cur)
		if !ok {
			result.warnf(true, cur.Name, "", "table will be dropped")
			continue
		}
		for _, c := range cur.Columns {
			d, ok := next.Column(c.Property)
			if c.Property == "" || !ok {
				d, ok = next.ColumnByName(c.Name)
			}
			if !ok {
				result.warnf(true, cur.Name, c.Name, "column will be dropped")
				continue
			}
			if c.Type != d.Type {
				result.warnf(false, cur.Name, c.Name, "column type changing from %s to %s", c.Type, d.Type)
			}
			if c.Nullable && !d.Nullable {
				result.warnf(true, cur.Name, c.Name, "column changing from NULL to NOT NULL may fail if column has NULL values")
			}
		}
	}
	return result
}

func counterpart(m Mapping, t *TableMapping) (*TableMapping, bool) {
	if t.Class != "" {
		if next, ok := m.Table(t.Class); ok {
			return next, true
		}
	}
	return TableByName(m, t.Name)
}
