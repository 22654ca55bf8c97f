// Package edge provides builders for navigation properties and the
// association model connecting two classes.
//
// Navigation properties are built by two free functions that differ only in
// multiplicity:
//
//	edge.One("Customer")                     // *Customer named "Customer"
//	edge.Many("Order", edge.Named("Orders")) // []*Order
//	edge.Many("Order")                       // []*Order named "Orders"
//
// An Association pairs a principal End with a dependent End and carries
// optional Info facets: cascade delete, explicit foreign-key columns or
// properties, a many-to-many join table and the foreign-key index.
//
//	a, err := edge.NewAssociation(
//		edge.End{Class: "Customer", Multiplicity: edge.MultiplicityOne, Navigation: edge.Many("Order")},
//		edge.End{Class: "Order", Multiplicity: edge.MultiplicityMany, Navigation: edge.One("Customer")},
//		edge.Info{CascadeOnDelete: evolve.Ptr(true)},
//	)
//
// The two ends of an association always reference distinct classes.
package edge
