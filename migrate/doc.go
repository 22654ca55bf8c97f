// Package migrate describes relational migration operations and builds them
// from the before and after schema mappings of a transformation.
//
// Besides the standard DDL operations the package defines three custom
// operations carrying data-preserving SQL:
//
//   - InsertFrom copies columns of one table into another
//   - UpdateFrom copies columns between two joined tables
//   - Identity changes whether a primary key column is generated by the
//     database; ExpandIdentity lowers it to an ordered sequence of DDL and SQL
//
// A Builder resolves class and property names into table and column names
// through two Mapping values: the mapping before the transformation (Old) and
// after it (New).
package migrate
