package migrate

import (
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/evolve/schema/index"
)

// TableName returns the conventional table name of a class.
func TableName(class string) string {
	return inflect.Pluralize(class)
}

// ComplexColumnName returns the conventional column name of a member of a
// complex property.
func ComplexColumnName(navigation, member string) string {
	return navigation + "_" + member
}

// ForeignKeyColumnName returns the conventional name of a foreign-key column
// referencing key through navigation.
func ForeignKeyColumnName(navigation, key string) string {
	return navigation + "_" + key
}

// JoinTableName returns the conventional join table name of a many-to-many
// association. It does not depend on the order of the classes.
func JoinTableName(a, b string) string {
	names := []string{a, b}
	sort.Strings(names)
	return names[0] + inflect.Pluralize(names[1])
}

// PrimaryKeyName returns the conventional primary-key constraint name.
func PrimaryKeyName(table string) string {
	return "PK_" + table
}

// ForeignKeyName returns the conventional foreign-key constraint name.
func ForeignKeyName(dependent, principal string, columns ...string) string {
	return "FK_" + dependent + "_" + principal + "_" + strings.Join(columns, "_")
}

// IndexName returns the index name configured by idx, or the conventional
// name of an index over columns.
func IndexName(idx *index.Index, columns ...string) string {
	return idx.NameOr(columns...)
}
