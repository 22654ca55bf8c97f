package fluent

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/evolve"
)

// Method is the name of a fluent mapping method.
type Method string

// Mapping methods emitted by the generator.
const (
	HasKey                     Method = "HasKey"
	Property                   Method = "Property"
	Ignore                     Method = "Ignore"
	ToTable                    Method = "ToTable"
	HasColumnName              Method = "HasColumnName"
	HasColumnType              Method = "HasColumnType"
	HasColumnOrder             Method = "HasColumnOrder"
	HasColumnAnnotation        Method = "HasColumnAnnotation"
	IsRequired                 Method = "IsRequired"
	IsOptional                 Method = "IsOptional"
	HasDatabaseGeneratedOption Method = "HasDatabaseGeneratedOption"
	IsConcurrencyToken         Method = "IsConcurrencyToken"
	HasParameterName           Method = "HasParameterName"
	HasMaxLength               Method = "HasMaxLength"
	IsMaxLength                Method = "IsMaxLength"
	IsFixedLength              Method = "IsFixedLength"
	IsVariableLength           Method = "IsVariableLength"
	IsUnicode                  Method = "IsUnicode"
	HasPrecision               Method = "HasPrecision"
	IsRowVersion               Method = "IsRowVersion"
	HasRequired                Method = "HasRequired"
	HasOptional                Method = "HasOptional"
	HasMany                    Method = "HasMany"
	WithRequired               Method = "WithRequired"
	WithOptional               Method = "WithOptional"
	WithMany                   Method = "WithMany"
	HasForeignKey              Method = "HasForeignKey"
	WillCascadeOnDelete        Method = "WillCascadeOnDelete"
	Map                        Method = "Map"
	MapKey                     Method = "MapKey"
	MapLeftKey                 Method = "MapLeftKey"
	MapRightKey                Method = "MapRightKey"
	HasIndex                   Method = "HasIndex"
)

// Param is a call parameter. Implementations: PropertySelector, Value,
// String and MapCalls.
type Param interface {
	param()
}

// PropertySelector selects one or more properties of Class.
type PropertySelector struct {
	Class string
	Names []string
}

// Value is a literal rendered with its default text representation.
type Value struct {
	V any
}

// String is a literal rendered quoted.
type String struct {
	V string
}

// MapCalls is a nested list of calls rendered as a lambda body.
type MapCalls struct {
	Calls []Call
}

func (PropertySelector) param() {}
func (Value) param()            {}
func (String) param()           {}
func (MapCalls) param()         {}

// Select returns a selector of the named properties of class.
func Select(class string, names ...string) PropertySelector {
	return PropertySelector{Class: class, Names: names}
}

// Call is one method call of a chain.
type Call struct {
	Method Method
	Params []Param
}

// NewCall returns a call of m with the given parameters.
func NewCall(m Method, params ...Param) Call {
	return Call{Method: m, Params: params}
}

// Chain is the ordered list of calls configuring Entity.
type Chain struct {
	Entity string
	Calls  []Call
}

// Copy returns a deep copy of c.
func (c Chain) Copy() Chain {
	return Chain{Entity: c.Entity, Calls: copyCalls(c.Calls)}
}

func copyCalls(calls []Call) []Call {
	if calls == nil {
		return nil
	}
	cp := make([]Call, len(calls))
	for i, call := range calls {
		cp[i] = Call{Method: call.Method, Params: make([]Param, len(call.Params))}
		for j, p := range call.Params {
			switch p := p.(type) {
			case PropertySelector:
				cp[i].Params[j] = PropertySelector{Class: p.Class, Names: slices.Clone(p.Names)}
			case MapCalls:
				cp[i].Params[j] = MapCalls{Calls: copyCalls(p.Calls)}
			default:
				cp[i].Params[j] = p
			}
		}
	}
	return cp
}

// Generated is the rendered text of a chain.
type Generated struct {
	Entity  string
	Content string
}

// Statement returns the complete mapping statement including the entity prefix.
func (g Generated) Statement() string {
	return Prefix(g.Entity) + g.Content
}

const (
	indent       = "    "
	builderParam = "modelBuilder"
	mapParam     = "m"
	lambda       = " => "
	paramSep     = ", "
)

// Prefix returns the text that opens a mapping statement for entity, ending
// with the member access of the first call.
func Prefix(entity string) string {
	return builderParam + ".Entity<" + entity + ">()" + newline(1) + "."
}

// Render renders the calls of c as a fluent chain terminated by a statement
// separator.
func Render(c Chain) (Generated, error) {
	calls := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		s, err := RenderCall(call)
		if err != nil {
			return Generated{}, err
		}
		calls[i] = s
	}
	return Generated{
		Entity:  c.Entity,
		Content: strings.Join(calls, newline(1)+".") + ";",
	}, nil
}

// RenderCall renders a single call without a leading member access.
func RenderCall(c Call) (string, error) {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		s, err := RenderParam(p)
		if err != nil {
			return "", err
		}
		params[i] = s
	}
	return string(c.Method) + "(" + strings.Join(params, paramSep) + ")", nil
}

// RenderParam renders one parameter. It fails with an
// evolve.UnsupportedParameterError for a nil parameter or a Value whose
// concrete kind has no literal form, and with an evolve.PreconditionError
// for a selector without properties.
func RenderParam(p Param) (string, error) {
	switch p := p.(type) {
	case PropertySelector:
		return renderSelector(p)
	case Value:
		return renderValue(p.V)
	case String:
		return `"` + p.V + `"`, nil
	case MapCalls:
		return renderMap(p)
	case nil:
		return "", evolve.NewUnsupportedParameterError("<nil>")
	default:
		return "", evolve.NewUnsupportedParameterError(fmt.Sprintf("%T", p))
	}
}

func renderSelector(p PropertySelector) (string, error) {
	if len(p.Names) == 0 {
		return "", evolve.NewPreconditionError("property-selector", "selector of %q selects no property", p.Class)
	}
	x := LambdaParam(p.Class)
	if len(p.Names) == 1 {
		return x + lambda + x + "." + p.Names[0], nil
	}
	members := make([]string, len(p.Names))
	for i, name := range p.Names {
		members[i] = x + "." + name
	}
	return x + lambda + "new { " + strings.Join(members, paramSep) + " }", nil
}

func renderValue(v any) (string, error) {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), nil
	case reflect.Invalid:
		return "", evolve.NewUnsupportedParameterError("<nil>")
	default:
		return "", evolve.NewUnsupportedParameterError(reflect.TypeOf(v).String())
	}
}

func renderMap(p MapCalls) (string, error) {
	switch len(p.Calls) {
	case 0:
		return mapParam + lambda + "{ }", nil
	case 1:
		s, err := RenderCall(p.Calls[0])
		if err != nil {
			return "", err
		}
		return mapParam + lambda + mapParam + "." + s, nil
	}
	var sb strings.Builder
	sb.WriteString(mapParam + " =>")
	sb.WriteString(newline(1) + "{")
	for _, call := range p.Calls {
		s, err := RenderCall(call)
		if err != nil {
			return "", err
		}
		sb.WriteString(newline(2) + mapParam + "." + s + ";")
	}
	sb.WriteString(newline(1) + "}")
	return sb.String(), nil
}

// LambdaParam returns the lambda parameter name used for selectors on class:
// its first character, lower-cased.
func LambdaParam(class string) string {
	for _, r := range class {
		return cases.Lower(language.Und).String(string(r))
	}
	return "x"
}

func newline(n int) string {
	return "\n" + strings.Repeat(indent, n)
}
