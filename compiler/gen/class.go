package gen

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/schema"
)

// ClassFiles returns one declaration file per class of m, keyed by file
// name.
func (c *Config) ClassFiles(m *change.Model) map[string]*jen.File {
	files := make(map[string]*jen.File)
	for _, cls := range m.Classes() {
		files[strings.ToLower(cls.Name)+".go"] = c.ClassFile(cls)
	}
	return files
}

// ClassFile returns the declaration of cls as a Go struct. Primary keys
// and explicit column names are recorded in the evolve struct tag.
func (c *Config) ClassFile(cls *schema.ClassModel) *jen.File {
	f := c.newFile(c.ModelPackage)
	name := cls.Name
	if cls.Complex {
		f.Commentf("%s is a complex type: its fields are stored in the table of the owning class.", name)
	} else {
		f.Commentf("%s holds the schema definition of the %s class.", name, cls.Name)
	}
	keys := make(map[string]bool, len(cls.PrimaryKeys))
	for _, k := range cls.PrimaryKeys {
		keys[k] = true
	}
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		if cls.Base != "" {
			g.Id(cls.Base)
		}
		for _, p := range cls.Properties {
			base := p.Common()
			s := g.Id(exported(base.Name, base.Visibility)).Id(base.Type)
			if tag := fieldTag(p, keys[base.Name]); tag != "" {
				s.Tag(map[string]string{"evolve": tag})
			}
		}
	})
	return f
}

func fieldTag(p schema.Property, key bool) string {
	var opts []string
	if key {
		opts = append(opts, "key")
	}
	switch p := p.(type) {
	case *schema.PrimitiveProperty:
		if p.Column.ColumnName != nil {
			opts = append(opts, "column="+*p.Column.ColumnName)
		}
		if p.Column.IsIdentity() {
			opts = append(opts, "identity")
		}
	case *schema.ForeignKeyProperty:
		opts = append(opts, "fk")
	}
	return strings.Join(opts, ",")
}

// exported returns the Go identifier of a property with the given
// visibility: unexported unless public or default.
func exported(name string, v schema.Visibility) string {
	if v == schema.VisibilityDefault || v == schema.VisibilityPublic || name == "" {
		return name
	}
	r := []rune(name)
	if !unicode.IsUpper(r[0]) {
		return name
	}
	return cases.Lower(language.Und).String(string(r[0])) + string(r[1:])
}
