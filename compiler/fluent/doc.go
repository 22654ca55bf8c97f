// Package fluent renders descriptions of ORM mapping calls as source text.
//
// A Chain names the entity it configures and holds the ordered calls of a
// fluent mapping statement. Each Call has a Method and a list of parameters
// drawn from a closed set:
//
//   - PropertySelector renders as a lambda selecting one or more members
//   - Value renders its default text representation
//   - String renders quoted
//   - MapCalls renders a nested lambda over a list of calls
//
// Rendering is a pure function of the input:
//
//	g, err := fluent.Render(fluent.Chain{
//		Entity: "Customer",
//		Calls: []fluent.Call{
//			fluent.NewCall(fluent.Property, fluent.Select("Customer", "Name")),
//			fluent.NewCall(fluent.HasMaxLength, fluent.Value{V: 50}),
//		},
//	})
//	// g.Content == "Property(c => c.Name)\n    .HasMaxLength(50);"
//	// fluent.Prefix("Customer") + g.Content is the complete statement.
package fluent
