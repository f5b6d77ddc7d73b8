package output

import (
	"regexp"
	"strings"

	"apidocgen/internal/engine/definition"
	"apidocgen/internal/shared/util"
)

var nonIdentifierChars = regexp.MustCompile(`[^A-Za-z0-9_$]`)

type DeclarationOptions struct {
	// ModuleName is the ambient module id, as in declare module 'electron'.
	ModuleName string
	// Aggregate names the interface that collects every output.
	Aggregate   string
	Header      []string
	References  []string
	TypeAliases map[string]string
}

// DeclarationGenerator renders parsed outputs as one TypeScript ambient
// module declaration.
type DeclarationGenerator struct {
	opts DeclarationOptions
	w    *Writer
}

func NewDeclarationGenerator(opts DeclarationOptions) *DeclarationGenerator {
	if opts.ModuleName == "" {
		opts.ModuleName = "electron"
	}
	if opts.Aggregate == "" {
		opts.Aggregate = upperFirst(identifier(opts.ModuleName))
	}
	return &DeclarationGenerator{opts: opts}
}

func (g *DeclarationGenerator) Generate(outputs []*definition.Output) (string, error) {
	g.w = NewWriter()
	w := g.w

	for _, line := range g.opts.Header {
		w.WriteLine(line)
	}
	if len(g.opts.Header) > 0 {
		w.WriteLine("")
	}
	for _, ref := range g.opts.References {
		w.WriteLinef(`/// <reference path="%s" />`, ref)
	}
	if len(g.opts.References) > 0 {
		w.WriteLine("")
	}

	w.WriteLinef("declare module '%s' {", g.opts.ModuleName)
	w.Indent()
	w.WriteLine("")
	w.WriteLine(`import * as events from "events";`)
	if len(g.opts.TypeAliases) > 0 {
		for _, name := range util.SortedStringKeys(g.opts.TypeAliases) {
			w.WriteLinef("type %s = %s;", name, g.opts.TypeAliases[name])
		}
		w.WriteLine("")
	}

	for _, out := range outputs {
		g.emitOutput(out)
		w.WriteLine("")
	}

	g.emitAggregate(outputs)

	w.Unindent()
	w.WriteLine("}")
	return w.String(), nil
}

func (g *DeclarationGenerator) emitAggregate(outputs []*definition.Output) {
	w := g.w
	w.WriteLinef("interface %s {", g.opts.Aggregate)
	w.Indent()
	for _, out := range outputs {
		if out.Mode == definition.ModeModule {
			g.emitComment(out.Comment, out.URL, nil, nil, nil)
			w.WriteLinef("%s: %sModule;", out.Name, upperFirst(out.Name))
		} else {
			w.WriteLinef("/** %s */", out.Comment)
			w.WriteLinef("%s: typeof %s;", out.Name, out.Name)
		}
	}
	for _, out := range outputs {
		if len(out.DataTypes) == 0 {
			continue
		}
		w.WriteLinef("// Data types defined in %s", out.URL)
		for _, dt := range out.DataTypes {
			w.WriteLinef("%s: typeof %s;", dt.Name, dt.Name)
		}
	}
	w.Unindent()
	w.WriteLine("}")

	variable := identifier(g.opts.ModuleName)
	w.WriteLinef("var %s: %s;", variable, g.opts.Aggregate)
	w.WriteLinef("export = %s;", variable)
}

func (g *DeclarationGenerator) emitOutput(out *definition.Output) {
	w := g.w

	for _, dt := range out.DataTypes {
		if dt.IsInterface {
			w.WriteLinef("interface %s {", dt.Name)
		} else {
			w.WriteLinef("class %s {", dt.Name)
		}
		w.Indent()
		for _, member := range dt.Members {
			if member.Comment != "" {
				g.emitComment(member.Comment, "", nil, nil, nil)
			}
			g.emitMember(member)
			w.WriteLine(";")
		}
		w.Unindent()
		w.WriteLine("}")
		w.WriteLine("")
	}

	g.emitComment(out.Comment, out.URL, nil, nil, nil)
	if out.Mode == definition.ModeModule {
		w.WriteLinef("interface %sModule extends NodeJS.EventEmitter {", upperFirst(out.Name))
	} else {
		w.WriteLinef("class %s extends events.EventEmitter {", out.Name)
	}
	w.Indent()

	if len(out.Constructors) > 0 {
		g.sectionBanner("Constructors")
		for _, ctor := range out.Constructors {
			g.emitMethod(ctor, true, false)
		}
	}
	if len(out.Properties) > 0 {
		g.sectionBanner("Properties")
		for _, p := range out.Properties {
			g.emitProperty(p, p.IsStatic)
		}
	}
	if len(out.Events) > 0 {
		g.sectionBanner("Events")
		w.WriteLine("on(event: string, listener: Function): NodeJS.EventEmitter;")
		for _, ev := range out.Events {
			g.emitEvent(ev)
		}
	}
	if len(out.Methods) > 0 {
		g.sectionBanner("Methods")
		for _, m := range out.Methods {
			g.emitMethod(m, false, m.IsStatic)
		}
	}
	if len(out.Groups) > 0 {
		g.sectionBanner("Grouped Definitions")
		for _, group := range out.Groups {
			g.emitGroup(group)
		}
	}

	w.Unindent()
	w.WriteLine("}")
}

func (g *DeclarationGenerator) sectionBanner(title string) {
	g.w.WriteLine("//")
	g.w.WriteLine("// " + title)
	g.w.WriteLine("//")
}

func (g *DeclarationGenerator) emitGroup(group *definition.Group) {
	w := g.w
	w.WriteLinef("%s: {", group.Name)
	w.Indent()
	// Type literal members cannot be static.
	for _, p := range group.Properties {
		g.emitProperty(p, false)
	}
	for _, m := range group.Methods {
		g.emitMethod(m, false, false)
	}
	for _, sub := range group.Groups {
		g.emitGroup(sub)
	}
	w.Unindent()
	w.WriteLine("};")
}

func (g *DeclarationGenerator) emitProperty(p *definition.Property, static bool) {
	w := g.w
	g.emitComment(p.Comment, p.URL, p.Platforms, nil, nil)
	if static {
		w.Write("static ")
	}
	w.Writef("%s: ", p.Name)
	if p.AnonymousType != nil {
		g.emitAnonymousType(p.AnonymousType)
	} else {
		w.Write(typeOrAny(p.Type))
	}
	w.WriteLine(";")
}

func (g *DeclarationGenerator) emitMethod(m *definition.Method, isCtor, static bool) {
	w := g.w
	params := m.Parameters
	if params == nil {
		params = []*definition.Parameter{}
	}
	g.emitComment(m.Comment, m.URL, m.Platforms, params, m.Returns)

	switch {
	case isCtor:
		w.Write("constructor(")
	case static:
		w.Writef("static %s(", m.Name)
	default:
		w.Writef("%s(", m.Name)
	}
	g.emitParameterList(m.Parameters)
	if isCtor {
		w.WriteLine(");")
		return
	}

	w.Write("): ")
	switch {
	case m.Returns == nil:
		w.Write("void")
	case m.Returns.AnonymousType != nil:
		g.emitAnonymousType(m.Returns.AnonymousType)
	default:
		w.Write(typeOrAny(m.Returns.Type))
	}
	w.WriteLine(";")
}

func (g *DeclarationGenerator) emitEvent(ev *definition.Event) {
	w := g.w
	g.emitComment(ev.Comment, ev.URL, ev.Platforms, ev.Returns, nil)
	w.Writef("on(event: '%s', listener: ", ev.Name)
	if ev.Returns != nil {
		w.Write("(")
		g.emitParameterList(ev.Returns)
		w.Write(") => void")
	} else {
		w.Write("Function")
	}
	w.WriteLine("): NodeJS.EventEmitter;")
}

func (g *DeclarationGenerator) emitParameterList(params []*definition.Parameter) {
	w := g.w
	for i, p := range params {
		if i > 0 {
			w.Write(", ")
		}
		if p.IsRest {
			w.Write("..." + p.Name)
		} else {
			w.Write(p.Name)
			if p.Optional {
				w.Write("?")
			}
		}
		w.Write(": ")
		if p.AnonymousType != nil {
			g.emitAnonymousType(p.AnonymousType)
		} else {
			w.Write(typeOrAny(p.Type))
		}
	}
}

func (g *DeclarationGenerator) emitMember(p *definition.Parameter) {
	g.w.Write(p.Name)
	if p.Optional {
		g.w.Write("?")
	}
	g.w.Write(": ")
	if p.AnonymousType != nil {
		g.emitAnonymousType(p.AnonymousType)
	} else {
		g.w.Write(typeOrAny(p.Type))
	}
}

func (g *DeclarationGenerator) emitAnonymousType(t *definition.AnonymousType) {
	g.w.Write("{ ")
	for _, member := range t.Members {
		g.emitMember(member)
		g.w.Write("; ")
	}
	g.w.Write("}")
	if t.IsArray {
		g.w.Write("[]")
	}
}

// emitComment writes a JSDoc block. Without url, params and returns it
// collapses to a single line.
func (g *DeclarationGenerator) emitComment(comment, url string, platforms []string, params []*definition.Parameter, returns *definition.Parameter) {
	w := g.w
	singleLine := url == "" && params == nil && returns == nil
	if singleLine {
		w.Write("/** ")
	} else {
		w.WriteLine("/**")
		w.Write(" * ")
	}
	if len(platforms) > 0 {
		w.Writef("(%s) ", strings.Join(platforms, ", "))
	}
	if singleLine {
		w.WriteLinef("%s */", comment)
		return
	}

	w.WriteLine(comment)
	if url != "" {
		w.WriteLinef(" * @see {@link %s}", url)
	}
	for _, p := range params {
		if p.Comment != "" {
			w.WriteLinef(" * @param %s - %s", p.Name, p.Comment)
		} else {
			w.WriteLinef(" * @param %s", p.Name)
		}
	}
	if returns != nil && returns.Comment != "" {
		w.WriteLinef(" * @returns %s", returns.Comment)
	}
	w.WriteLine(" */")
}

func typeOrAny(t string) string {
	if t == "" {
		return "any"
	}
	return t
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func identifier(s string) string {
	id := nonIdentifierChars.ReplaceAllString(s, "_")
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "_" + id
	}
	return id
}
