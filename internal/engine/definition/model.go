// # internal/engine/definition/model.go
package definition

import "strings"

// Parameter is a method argument, an event listener argument or a data type
// member. At most one of Type and AnonymousType is set.
type Parameter struct {
	Name          string
	Type          string
	AnonymousType *AnonymousType
	Optional      bool
	IsRest        bool
	Comment       string
	LineNum       int
}

func (p *Parameter) SetType(typ string) {
	p.Type = typ
	p.AnonymousType = nil
}

func (p *Parameter) SetAnonymousType(anon *AnonymousType) {
	p.Type = ""
	p.AnonymousType = anon
}

// AnonymousType is an inline object shape described only by its listed fields.
type AnonymousType struct {
	Members []*Parameter
	IsArray bool
}

type Method struct {
	// Name is empty for constructors.
	Name       string
	IsStatic   bool
	Parameters []*Parameter
	Returns    *Parameter
	Comment    string
	URL        string
	Platforms  []string
	// Prefixes is the namespace path between the root and the name. It is
	// consumed by grouping and nil afterwards.
	Prefixes []string
}

// FindParameter resolves a dotted path like "options.width", descending
// through anonymous types. It returns nil when any segment is missing.
func (m *Method) FindParameter(path string) *Parameter {
	parts := strings.Split(path, ".")
	param := findParameter(m.Parameters, parts[0])
	for _, part := range parts[1:] {
		if param == nil || param.AnonymousType == nil {
			return nil
		}
		param = findParameter(param.AnonymousType.Members, part)
	}
	return param
}

func findParameter(params []*Parameter, name string) *Parameter {
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

type Property struct {
	Name          string
	Type          string
	AnonymousType *AnonymousType
	IsStatic      bool
	Comment       string
	URL           string
	Platforms     []string
	Prefixes      []string
}

func (p *Property) SetType(typ string) {
	p.Type = typ
	p.AnonymousType = nil
}

type Event struct {
	// Name is the emitted event string and may contain hyphens.
	Name      string
	Returns   []*Parameter
	Comment   string
	URL       string
	Platforms []string
}

// DataType is a named object shape referenced by parameters. IsInterface
// marks a synthesized shape whose members are unknown or all optional.
type DataType struct {
	Name        string
	Members     []*Parameter
	IsInterface bool
}

// MakeAllMembersOptional marks every member optional, recursing into
// anonymous member types.
func (d *DataType) MakeAllMembersOptional() {
	makeOptional(d.Members)
}

func makeOptional(members []*Parameter) {
	for _, m := range members {
		m.Optional = true
		if m.AnonymousType != nil {
			makeOptional(m.AnonymousType.Members)
		}
	}
}

// Group is one namespace segment of a dotted path such as dock in
// app.dock.bounce.
type Group struct {
	Name       string
	Methods    []*Method
	Properties []*Property
	Groups     []*Group
}

func (g *Group) subgroups() *[]*Group { return &g.Groups }

// groupContainer is implemented by the output root and by every group.
type groupContainer interface {
	subgroups() *[]*Group
}

// Output is the API model of one document.
type Output struct {
	Mode         OutputMode
	Name         string
	Comment      string
	URL          string
	Events       []*Event
	Methods      []*Method
	Properties   []*Property
	Constructors []*Method
	DataTypes    []*DataType
	Groups       []*Group
}

func (o *Output) subgroups() *[]*Group { return &o.Groups }

// GetGroup walks the group tree along prefixes, creating missing groups
// unless existingOnly is set, in which case a missing segment returns nil.
func (o *Output) GetGroup(prefixes []string, existingOnly bool) *Group {
	var container groupContainer = o
	var group *Group
	for _, name := range prefixes {
		children := container.subgroups()
		group = nil
		for _, candidate := range *children {
			if candidate.Name == name {
				group = candidate
				break
			}
		}
		if group == nil {
			if existingOnly {
				return nil
			}
			group = &Group{Name: name}
			*children = append(*children, group)
		}
		container = group
	}
	return group
}

// FindMethod looks a method up by name, or by dotted path into the groups.
func (o *Output) FindMethod(path string) *Method {
	parts := strings.Split(path, ".")
	methods := o.Methods
	if len(parts) > 1 {
		group := o.GetGroup(parts[:len(parts)-1], true)
		if group == nil {
			return nil
		}
		methods = group.Methods
	}
	name := parts[len(parts)-1]
	for _, m := range methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindProperty looks a property up by name, or by dotted path into the groups.
func (o *Output) FindProperty(path string) *Property {
	parts := strings.Split(path, ".")
	properties := o.Properties
	if len(parts) > 1 {
		group := o.GetGroup(parts[:len(parts)-1], true)
		if group == nil {
			return nil
		}
		properties = group.Properties
	}
	name := parts[len(parts)-1]
	for _, p := range properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (o *Output) FindEvent(name string) *Event {
	for _, e := range o.Events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (o *Output) FindDataType(name string) *DataType {
	for _, d := range o.DataTypes {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// EachMethod visits the flat methods and then every grouped method, depth
// first.
func (o *Output) EachMethod(fn func(*Method)) {
	for _, m := range o.Methods {
		fn(m)
	}
	var walk func(groups []*Group)
	walk = func(groups []*Group) {
		for _, g := range groups {
			for _, m := range g.Methods {
				fn(m)
			}
			walk(g.Groups)
		}
	}
	walk(o.Groups)
}
