package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/evolve/change"
	"github.com/syssam/evolve/schema"
	"github.com/syssam/evolve/schema/edge"
	"github.com/syssam/evolve/schema/index"
	"github.com/syssam/evolve/transform"
)

// Script is a transformation script: a starting model and the migrations
// to compile against it.
type Script struct {
	Model      []Class     `yaml:"model"`
	Migrations []Migration `yaml:"migrations"`
}

// Migration is the serialized form of a transform.Migration. A migration
// without down steps derives its down pass from the inverses of up.
type Migration struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Up   []Step `yaml:"up"`
	Down []Step `yaml:"down,omitempty"`
}

// Step is one transformation of a migration. Op selects the
// transformation; the remaining fields are read as the op requires.
type Step struct {
	Op          string     `yaml:"op"`
	Class       string     `yaml:"class,omitempty"`
	Name        string     `yaml:"name,omitempty"`
	Old         string     `yaml:"old,omitempty"`
	New         string     `yaml:"new,omitempty"`
	Keys        []string   `yaml:"keys,omitempty"`
	Properties  []Property `yaml:"properties,omitempty"`
	Property    *Property  `yaml:"property,omitempty"`
	Members     []string   `yaml:"members,omitempty"`
	ComplexType string     `yaml:"complex_type,omitempty"`
	Navigation  string     `yaml:"navigation,omitempty"`
	Target      *Class     `yaml:"target,omitempty"`
	Principal   *End       `yaml:"principal,omitempty"`
	Dependent   *End       `yaml:"dependent,omitempty"`
	Info        *Info      `yaml:"info,omitempty"`
	AddIdentity bool       `yaml:"add_identity,omitempty"`
	ForeignKeys []string   `yaml:"foreign_keys,omitempty"`
}

// End is one end of an association step.
type End struct {
	Class      string `yaml:"class"`
	Navigation string `yaml:"navigation,omitempty"`
	Required   bool   `yaml:"required,omitempty"`
}

// Info is the serialized form of edge.Info.
type Info struct {
	CascadeOnDelete *bool      `yaml:"cascade_on_delete,omitempty"`
	Columns         []string   `yaml:"columns,omitempty"`
	Properties      []Property `yaml:"properties,omitempty"`
	JoinTable       *JoinTable `yaml:"join_table,omitempty"`
	Index           *Index     `yaml:"index,omitempty"`
}

// JoinTable is the serialized form of edge.JoinTable.
type JoinTable struct {
	Name      string   `yaml:"name,omitempty"`
	LeftKeys  []string `yaml:"left_keys,omitempty"`
	RightKeys []string `yaml:"right_keys,omitempty"`
}

// Index is the serialized form of index.Index.
type Index struct {
	Name      string `yaml:"name,omitempty"`
	Unique    bool   `yaml:"unique,omitempty"`
	Clustered bool   `yaml:"clustered,omitempty"`
}

// Step ops.
const (
	OpCreateClass                         = "create_class"
	OpRemoveClass                         = "remove_class"
	OpAddProperty                         = "add_property"
	OpRemoveProperty                      = "remove_property"
	OpRenameClass                         = "rename_class"
	OpRenameProperty                      = "rename_property"
	OpExtractComplexType                  = "extract_complex_type"
	OpJoinComplexType                     = "join_complex_type"
	OpExtractClass                        = "extract_class"
	OpMergeClasses                        = "merge_classes"
	OpAddOneToOnePrimaryKeyAssociation    = "add_one_to_one_pk"
	OpAddOneToOneForeignKeyAssociation    = "add_one_to_one_fk"
	OpAddOneToManyAssociation             = "add_one_to_many"
	OpAddManyToManyAssociation            = "add_many_to_many"
	OpRemoveOneToOnePrimaryKeyAssociation = "remove_one_to_one_pk"
	OpRemoveOneToOneForeignKeyAssociation = "remove_one_to_one_fk"
	OpRemoveOneToManyAssociation          = "remove_one_to_many"
	OpRemoveManyToManyAssociation         = "remove_many_to_many"
)

// ParseScript parses a YAML transformation script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load: parse script: %w", err)
	}
	return s, nil
}

// ReadScript reads and parses the script at path.
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return s, nil
}

// ChangeModel returns the starting model of the script.
func (s *Script) ChangeModel() (*change.Model, error) {
	classes, err := Classes(s.Model)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		if seen[c.Name] {
			return nil, fmt.Errorf("load: duplicate class %s", c.Name)
		}
		seen[c.Name] = true
	}
	return change.NewModel(classes...), nil
}

// Compile returns the migrations of the script in declaration order.
// Every step is validated up front.
func (s *Script) Compile() ([]transform.Migration, error) {
	ms := make([]transform.Migration, 0, len(s.Migrations))
	ids := make(map[string]bool, len(s.Migrations))
	for _, m := range s.Migrations {
		if m.ID == "" || m.Name == "" {
			return nil, fmt.Errorf("load: migration %q: id and name are required", m.Name)
		}
		if ids[m.ID] {
			return nil, fmt.Errorf("load: duplicate migration id %s", m.ID)
		}
		ids[m.ID] = true
		cm, err := m.compile()
		if err != nil {
			return nil, fmt.Errorf("load: migration %s: %w", m.ID, err)
		}
		ms = append(ms, cm)
	}
	return ms, nil
}

func (m Migration) compile() (transform.Migration, error) {
	up, err := Transformations(m.Up)
	if err != nil {
		return nil, fmt.Errorf("up: %w", err)
	}
	sm := &scripted{id: m.ID, name: m.Name, up: up}
	if len(m.Down) == 0 {
		return sm, nil
	}
	down, err := Transformations(m.Down)
	if err != nil {
		return nil, fmt.Errorf("down: %w", err)
	}
	return &revertible{scripted: sm, down: down}, nil
}

type scripted struct {
	id, name string
	up       []transform.Transformation
}

func (m *scripted) ID() string          { return m.id }
func (m *scripted) Name() string        { return m.name }
func (m *scripted) Up(s *transform.Set) { s.Add(m.up...) }

type revertible struct {
	*scripted
	down []transform.Transformation
}

func (m *revertible) Down(s *transform.Set) { s.Add(m.down...) }

// Transformations converts steps in order.
func Transformations(steps []Step) ([]transform.Transformation, error) {
	s := transform.NewSet()
	for i, st := range steps {
		if err := st.add(s); err != nil {
			return nil, fmt.Errorf("step #%d (%s): %w", i, st.Op, err)
		}
	}
	return s.Up(), nil
}

func (st Step) add(s *transform.Set) error {
	switch st.Op {
	case OpCreateClass:
		props, err := properties(st.Properties)
		if err != nil {
			return err
		}
		s.CreateClass(st.Name, props, st.Keys...)
	case OpRemoveClass:
		s.RemoveClass(st.Name)
	case OpAddProperty:
		if st.Property == nil {
			return fmt.Errorf("missing property")
		}
		p, err := st.Property.Model()
		if err != nil {
			return err
		}
		s.AddProperty(st.Class, p)
	case OpRemoveProperty:
		s.RemoveProperty(st.Class, st.Name)
	case OpRenameClass:
		s.RenameClass(st.Old, st.New)
	case OpRenameProperty:
		s.RenameProperty(st.Class, st.Old, st.New)
	case OpExtractComplexType:
		var nav *schema.NavigationProperty
		if st.Navigation != "" {
			nav = edge.One(st.ComplexType, edge.Named(st.Navigation))
		}
		s.ExtractComplexType(st.Class, st.ComplexType, st.Members, nav)
	case OpJoinComplexType:
		s.JoinComplexType(st.ComplexType, st.Class)
	case OpExtractClass:
		if st.Target == nil {
			return fmt.Errorf("missing target class")
		}
		cls, err := st.Target.Model()
		if err != nil {
			return err
		}
		var fromNav, classNav *schema.NavigationProperty
		if p := st.Principal; p != nil && p.Navigation != "" {
			fromNav = edge.One(cls.Name, edge.Named(p.Navigation))
		}
		if d := st.Dependent; d != nil && d.Navigation != "" {
			classNav = edge.One(st.Class, edge.Named(d.Navigation))
		}
		s.ExtractClass(st.Class, st.Members, cls, fromNav, classNav)
	case OpMergeClasses:
		p, d, err := st.ends()
		if err != nil {
			return err
		}
		s.MergeClasses(p.Class, p.Navigation, d.Class, d.Navigation, st.Members...)
	case OpAddOneToOnePrimaryKeyAssociation, OpAddOneToOneForeignKeyAssociation, OpAddOneToManyAssociation, OpAddManyToManyAssociation:
		return st.addAssociation(s)
	case OpRemoveOneToOnePrimaryKeyAssociation, OpRemoveOneToOneForeignKeyAssociation, OpRemoveOneToManyAssociation, OpRemoveManyToManyAssociation:
		p, d, err := st.ends()
		if err != nil {
			return err
		}
		switch st.Op {
		case OpRemoveOneToOnePrimaryKeyAssociation:
			s.RemoveOneToOnePrimaryKeyAssociation(p.Class, p.Navigation, d.Class, d.Navigation, st.AddIdentity)
		case OpRemoveOneToOneForeignKeyAssociation:
			s.RemoveOneToOneForeignKeyAssociation(p.Class, p.Navigation, d.Class, d.Navigation)
		case OpRemoveOneToManyAssociation:
			s.RemoveOneToManyAssociation(p.Class, p.Navigation, d.Class, d.Navigation, st.ForeignKeys...)
		default:
			s.RemoveManyToManyAssociation(p.Class, p.Navigation, d.Class, d.Navigation)
		}
	case "":
		return fmt.Errorf("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

func (st Step) ends() (*End, *End, error) {
	if st.Principal == nil || st.Dependent == nil {
		return nil, nil, fmt.Errorf("principal and dependent are required")
	}
	return st.Principal, st.Dependent, nil
}

func (st Step) addAssociation(s *transform.Set) error {
	p, d, err := st.ends()
	if err != nil {
		return err
	}
	info, err := st.Info.model()
	if err != nil {
		return err
	}
	// The principal navigation is a collection only when the dependent end
	// is many.
	var (
		many      = st.Op == OpAddOneToManyAssociation || st.Op == OpAddManyToManyAssociation
		principal = navigation(p.Navigation, d.Class, many)
		dependent = navigation(d.Navigation, p.Class, st.Op == OpAddManyToManyAssociation)
	)
	switch st.Op {
	case OpAddOneToOnePrimaryKeyAssociation:
		s.AddOneToOnePrimaryKeyAssociation(p.Class, principal, d.Class, dependent, p.Required, info)
	case OpAddOneToOneForeignKeyAssociation:
		s.AddOneToOneForeignKeyAssociation(p.Class, principal, d.Class, dependent, p.Required, d.Required, info)
	case OpAddOneToManyAssociation:
		s.AddOneToManyAssociation(p.Class, principal, d.Class, dependent, p.Required, info)
	default:
		s.AddManyToManyAssociation(p.Class, principal, d.Class, dependent, info.JoinTable)
	}
	return nil
}

func navigation(name, target string, many bool) *schema.NavigationProperty {
	switch {
	case name == "":
		return nil
	case many:
		return edge.Many(target, edge.Named(name))
	default:
		return edge.One(target, edge.Named(name))
	}
}

func (i *Info) model() (edge.Info, error) {
	if i == nil {
		return edge.Info{}, nil
	}
	info := edge.Info{
		CascadeOnDelete:   i.CascadeOnDelete,
		ForeignKeyColumns: i.Columns,
	}
	for _, p := range i.Properties {
		if p.Kind == "" {
			p.Kind = KindForeignKey
		}
		prop, err := p.Model()
		if err != nil {
			return edge.Info{}, err
		}
		fk, ok := prop.(*schema.ForeignKeyProperty)
		if !ok {
			return edge.Info{}, fmt.Errorf("property %s: foreign key expected", p.Name)
		}
		info.ForeignKeyProperties = append(info.ForeignKeyProperties, fk)
	}
	if j := i.JoinTable; j != nil {
		info.JoinTable = &edge.JoinTable{Name: j.Name, LeftKeys: j.LeftKeys, RightKeys: j.RightKeys}
	}
	if x := i.Index; x != nil {
		var opts []index.Option
		if x.Name != "" {
			opts = append(opts, index.Name(x.Name))
		}
		if x.Unique {
			opts = append(opts, index.Unique())
		}
		if x.Clustered {
			opts = append(opts, index.Clustered())
		}
		info.ForeignKeyIndex = index.New(opts...)
	}
	return info.Copy(), nil
}

func properties(docs []Property) ([]schema.Property, error) {
	ps := make([]schema.Property, 0, len(docs))
	for _, d := range docs {
		p, err := d.Model()
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
