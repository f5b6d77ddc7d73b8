// # internal/engine/definition/members.go
package definition

import (
	"fmt"
	"strings"

	"apidocgen/internal/engine/markdown"
)

type methodOptions struct {
	constructors  bool
	staticPrefix  string
	forceInstance bool
}

func (g *generator) parseMethods(section *markdown.Section, dest *[]*Method, opts methodOptions) {
	if opts.constructors {
		g.sink.Verbose("parsing constructors from %s", g.url)
	} else {
		g.sink.Verbose("parsing methods from %s", g.url)
	}
	for _, member := range section.SplitIntoSubsections().Sections {
		if m := g.parseMethod(member, opts); m != nil {
			*dest = append(*dest, m)
		}
	}
}

// parseConstructors reads the first section under "Class: X". It is either
// the constructor itself or a section holding constructor headings.
func (g *generator) parseConstructors(section *markdown.Section) {
	opts := methodOptions{constructors: true}
	if _, _, ok := MatchHeading(ConstructorMatchers, section.Name); ok {
		g.sink.Verbose("parsing constructors from %s", g.url)
		if m := g.parseMethod(section, opts); m != nil {
			g.out.Constructors = append(g.out.Constructors, m)
		}
		return
	}
	g.parseMethods(section, &g.out.Constructors, opts)
}

func (g *generator) parseMethod(member *markdown.Section, opts methodOptions) *Method {
	matchers := MethodMatchers
	if opts.constructors {
		matchers = ConstructorMatchers
	}
	heading, _, ok := MatchHeading(matchers, member.Name)
	if !ok {
		g.sink.Error(g.url, member.LineNum, "invalid method line %q", member.Name)
		return nil
	}

	sig, status := parseSignature(heading.Signature)
	switch status {
	case sigBadShape:
		g.sink.Error(g.url, member.LineNum, "invalid method signature %q", heading.Signature)
		return nil
	case sigBadParams:
		g.sink.Error(g.url, member.LineNum, "invalid method parameters %q", heading.Signature)
		return nil
	}
	if sig.mixed {
		g.sink.Warning(g.url, member.LineNum, "signature mixes optional groups with variadic suffix: %q", heading.Signature)
	}

	method := &Method{
		Name:       sig.name(),
		URL:        markdown.MakeURL(g.url, member.Name),
		Parameters: sig.params,
		Platforms:  heading.Platforms,
		Prefixes:   sig.prefixes(),
		IsStatic: !opts.forceInstance && opts.staticPrefix != "" &&
			sig.path[0] == opts.staticPrefix,
	}

	paragraphs := memberParagraphs(member)
	summary := 0
	if len(paragraphs) > 0 && strings.HasPrefix(paragraphs[0].FirstLine().Text, "*") {
		refs := make([]typeRef, 0)
		listed := g.parseParameterList(markdown.ParseList(paragraphs[0].Lines, '*'), &refs)
		g.resolveDataTypes(&refs, paragraphs)
		g.reconcileParameters(method, listed, sig.variadic)
		summary = 1
	}

	if len(paragraphs) > summary {
		if first, ok := markdown.FirstSentence(paragraphs[summary].Lines); ok {
			method.Comment = first.Text
			if typ := inferReturnType(first.Text); typ != "" {
				method.Returns = &Parameter{Type: typ}
			}
		}
	}

	if opts.constructors {
		className := strings.TrimPrefix(method.Name, "new ")
		if className == "" {
			className = g.out.Name
		}
		method.Name = ""
		method.IsStatic = false
		method.Prefixes = nil
		method.Returns = nil
		method.Comment = fmt.Sprintf("Builds a new instance of the %s class.", className)
	}
	return method
}

// reconcileParameters copies what the bullet list says onto the positional
// parameters from the signature, matched by name. On a variadic method the
// last unmatched item becomes the rest parameter.
func (g *generator) reconcileParameters(method *Method, listed []*Parameter, variadic bool) {
	for i, param := range listed {
		existing := findParameter(method.Parameters, param.Name)
		if existing == nil {
			if variadic && i == len(listed)-1 {
				if param.AnonymousType != nil {
					param.AnonymousType.IsArray = true
				} else {
					param.Type += "[]"
				}
				param.IsRest = true
				method.Parameters = append(method.Parameters, param)
				continue
			}
			g.sink.Warning(g.url, param.LineNum, "undefined parameter name %q", param.Name)
			continue
		}
		existing.Type = param.Type
		existing.AnonymousType = param.AnonymousType
		existing.Comment = param.Comment
		existing.LineNum = param.LineNum
	}
}

func (g *generator) parseProperties(section *markdown.Section, static bool) {
	g.sink.Verbose("parsing properties from %s", g.url)
	matchers := PropertyMatchers
	if static {
		matchers = StaticPropertyMatchers
	}

	for _, member := range section.SplitIntoSubsections().Sections {
		heading, _, ok := MatchHeading(matchers, member.Name)
		if !ok {
			g.sink.Error(g.url, member.LineNum, "invalid property line %q", member.Name)
			continue
		}

		path := strings.Split(heading.Signature, ".")
		property := &Property{
			Name:      path[len(path)-1],
			Type:      "any",
			IsStatic:  static,
			URL:       markdown.MakeURL(g.url, member.Name),
			Platforms: heading.Platforms,
		}
		if len(path) > 2 {
			property.Prefixes = append([]string(nil), path[1:len(path)-1]...)
		}
		g.out.Properties = append(g.out.Properties, property)

		paragraphs := memberParagraphs(member)
		if len(paragraphs) > 0 {
			if first, ok := markdown.FirstSentence(paragraphs[0].Lines); ok {
				property.Comment = first.Text
			}
		}
	}
}

func (g *generator) parseEvents(section *markdown.Section) {
	g.sink.Verbose("parsing events from %s", g.url)

	for _, member := range section.SplitIntoSubsections().Sections {
		heading, _, ok := MatchHeading(EventMatchers, member.Name)
		if !ok {
			g.sink.Error(g.url, member.LineNum, "invalid event line %q", member.Name)
			continue
		}

		event := &Event{
			Name:      heading.Signature,
			URL:       markdown.MakeURL(g.url, member.Name),
			Platforms: heading.Platforms,
		}
		g.out.Events = append(g.out.Events, event)

		paragraphs := memberParagraphs(member)
		summary := 0
		var returns []*markdown.ListItem
		if len(paragraphs) > 0 {
			first := paragraphs[0].FirstLine().Text
			switch {
			case strings.TrimSpace(first) == "Returns:":
				if len(paragraphs) > 1 {
					returns = markdown.ParseList(paragraphs[1].Lines, '*')
				} else {
					g.sink.Warning(g.url, paragraphs[0].FirstLine().Num, "event '%s' has an empty return list", event.Name)
				}
				summary = 2
			case strings.HasPrefix(first, "*"):
				returns = markdown.ParseList(paragraphs[0].Lines, '*')
				summary = 1
			}
		}

		if returns != nil {
			refs := make([]typeRef, 0)
			event.Returns = g.parseParameterList(returns, &refs)
			g.resolveDataTypes(&refs, paragraphs)
		}

		if len(paragraphs) > summary {
			if first, ok := markdown.FirstSentence(paragraphs[summary].Lines); ok {
				event.Comment = first.Text
			}
		}
	}
}
