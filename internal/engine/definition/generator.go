// # internal/engine/definition/generator.go
package definition

import (
	"apidocgen/internal/core/diag"
	"apidocgen/internal/engine/markdown"
	"apidocgen/internal/shared/util"
)

const (
	eventsSection             = "Events"
	methodsSection            = "Methods"
	propertiesSection         = "Properties"
	instanceEventsSection     = "Instance Events"
	instanceMethodsSection    = "Instance Methods"
	instancePropertiesSection = "Instance Properties"
	classSectionPrefix        = "Class: "
	topLevelPrefix            = "# "
)

type generator struct {
	url      string
	settings Settings
	sink     diag.Sink
	out      *Output
}

// Generate parses one document into its API model. Only the first top-level
// section is read. Problems are reported to sink; the model is always
// returned, possibly partial.
func Generate(url, text string, settings Settings, sink diag.Sink) *Output {
	if sink == nil {
		sink = diag.Discard
	}
	g := &generator{
		url:      url,
		settings: settings,
		sink:     sink,
		out:      &Output{Mode: settings.Mode, URL: url},
	}

	top := markdown.SplitIntoSectionSequence(markdown.SplitIntoLines(text), topLevelPrefix)
	if len(top.Sections) == 0 {
		sink.Error(url, 0, "no top-level heading found")
		g.out.Name = settings.Name
		return g.out
	}
	if extra := len(top.Sections) - 1; extra > 0 {
		sink.Verbose("%s: ignoring %d additional top-level sections", url, extra)
	}

	g.parseTopLevelSection(top.Sections[0])
	g.groupMembers()
	g.backfillPredicates()
	return g.out
}

func (g *generator) parseTopLevelSection(section *markdown.Section) {
	g.out.Name = section.Name
	if g.settings.Name != "" {
		g.out.Name = g.settings.Name
	}
	if g.settings.Mode == ModeClass {
		g.out.Name = toTypeCase(g.out.Name)
	}

	subsections := section.SplitIntoSubsections()
	preamble := markdown.SplitIntoParagraphs(subsections.LinesBefore)
	if len(preamble) > 0 {
		if first, ok := markdown.FirstSentence(preamble[0].Lines); ok {
			g.out.Comment = first.Text
		}
	} else {
		g.sink.Warning(g.url, section.LineNum, "no summary for %s", section.Name)
	}

	if g.settings.Mode == ModeClass {
		if class := subsections.FindSection(classSectionPrefix + g.out.Name); class != nil {
			classSubsections := class.SplitIntoSubsections()
			if len(classSubsections.Sections) > 0 && !isCanonicalSection(classSubsections.Sections[0].Name) {
				g.parseConstructors(classSubsections.Sections[0])
			}
			g.parseClassSections(classSubsections, section.Name)
		}
		g.parseClassSections(subsections, section.Name)
	} else {
		g.parseModuleSections(subsections)
	}

	g.parseUncommonSections(subsections, section.Name)
}

// isCanonicalSection reports whether name is one of the member sections a
// class without a constructor may open with.
func isCanonicalSection(name string) bool {
	switch name {
	case eventsSection, instanceEventsSection, methodsSection,
		instanceMethodsSection, propertiesSection, instancePropertiesSection:
		return true
	}
	return false
}

func (g *generator) parseClassSections(seq markdown.SectionSequence, staticPrefix string) {
	if s := seq.FindSection(eventsSection); s != nil {
		g.parseEvents(s)
	}
	if s := seq.FindSection(instanceEventsSection); s != nil {
		g.parseEvents(s)
	}
	if s := seq.FindSection(instanceMethodsSection); s != nil {
		g.parseMethods(s, &g.out.Methods, methodOptions{})
	}
	if s := seq.FindSection(methodsSection); s != nil {
		g.parseMethods(s, &g.out.Methods, methodOptions{
			staticPrefix:  staticPrefix,
			forceInstance: g.settings.MethodsAreInstance,
		})
	}
	if s := seq.FindSection(propertiesSection); s != nil {
		g.parseProperties(s, true)
	}
	if s := seq.FindSection(instancePropertiesSection); s != nil {
		g.parseProperties(s, false)
	}
}

func (g *generator) parseModuleSections(seq markdown.SectionSequence) {
	if s := seq.FindSection(eventsSection); s != nil {
		g.parseEvents(s)
	}
	if s := seq.FindSection(methodsSection); s != nil {
		g.parseMethods(s, &g.out.Methods, methodOptions{})
	}
	if s := seq.FindSection(propertiesSection); s != nil {
		g.parseProperties(s, false)
	}
}

// parseUncommonSections handles configured extra sections in name order.
// Methods found there are static only in class mode.
func (g *generator) parseUncommonSections(seq markdown.SectionSequence, topName string) {
	for _, name := range util.SortedStringKeys(g.settings.UncommonSections) {
		section := seq.FindSection(name)
		if section == nil {
			g.sink.Warning(g.url, 0, "could not find uncommon section '%s'", name)
			continue
		}
		switch g.settings.UncommonSections[name] {
		case RoleMethods:
			opts := methodOptions{}
			if g.settings.Mode == ModeClass {
				opts.staticPrefix = topName
			}
			g.parseMethods(section, &g.out.Methods, opts)
		case RoleProperties:
			g.parseProperties(section, false)
		case RoleEvents:
			g.parseEvents(section)
		default:
			g.sink.Error(g.url, section.LineNum, "section '%s' has no role", name)
		}
	}
}

// groupMembers moves prefixed methods and properties into the group tree.
func (g *generator) groupMembers() {
	methods := g.out.Methods[:0]
	for _, m := range g.out.Methods {
		if len(m.Prefixes) == 0 {
			methods = append(methods, m)
			continue
		}
		group := g.out.GetGroup(m.Prefixes, false)
		m.Prefixes = nil
		group.Methods = append(group.Methods, m)
	}
	g.out.Methods = methods

	properties := g.out.Properties[:0]
	for _, p := range g.out.Properties {
		if len(p.Prefixes) == 0 {
			properties = append(properties, p)
			continue
		}
		group := g.out.GetGroup(p.Prefixes, false)
		p.Prefixes = nil
		group.Properties = append(group.Properties, p)
	}
	g.out.Properties = properties
}

func (g *generator) backfillPredicates() {
	g.out.EachMethod(func(m *Method) {
		if m.Returns == nil && isPredicateName(m.Name) {
			m.Returns = &Parameter{Type: "boolean"}
		}
	})
}
