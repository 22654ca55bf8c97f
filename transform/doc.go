// Package transform defines the model transformations a migration is
// authored with and compiles them into code-model changes and relational
// migration operations.
//
// A transformation is a value of a closed set of variants. Each variant
// reports the code-model changes it makes against a read-only snapshot of
// the model, the migration operations it needs given the mapping before and
// after those changes, and optionally its inverse:
//
//	s := transform.NewSet()
//	s.RenameClass("Customer", "Client")
//	s.ExtractComplexType("Client", "Address", []string{"Street", "City"}, nil)
//	pass, err := s.Run(model, transform.Up)
//
// A down pass applies the inverses in reverse order. Transformations without
// an inverse are left out and reported by Set.Dropped.
package transform
