// # internal/engine/definition/params.go
package definition

import (
	"fmt"
	"regexp"
	"strings"

	"apidocgen/internal/engine/markdown"
)

const (
	commentMarker   = " - "
	optionalPostfix = "(optional)"
)

var (
	paramLine        = regexp.MustCompile("^`(\\w+)` *([^,]*)(?:, *(.+))?$")
	trailingParen    = regexp.MustCompile(` *\([^)]+\)$`)
	singleBracket    = regexp.MustCompile(`^\[(\w+)\]$`)
	doubleBracket    = regexp.MustCompile(`^\[(\w+)\]\[(\w+)\]$`)
	arrayOfObjects   = regexp.MustCompile("(?i)^array of `(\\w+)` objects$")
	arrayOfType      = regexp.MustCompile("(?i)^array of `(\\w+)`.*$")
	singleWord       = regexp.MustCompile(`^\w+$`)
	markdownLinkType = regexp.MustCompile(`^\[(\w+)\]\(.*\)$`)
)

// typeRef is a named data type mentioned by a parameter, waiting to be
// resolved against the document.
type typeRef struct {
	name string
	line int
}

// parseParameterList turns bullet items into parameters. Referenced named
// types are appended to refs.
func (g *generator) parseParameterList(items []*markdown.ListItem, refs *[]typeRef) []*Parameter {
	params := make([]*Parameter, 0, len(items))
	for i, item := range items {
		params = append(params, g.parseParameterItem(i, item, refs))
	}
	return params
}

func (g *generator) parseParameterItem(index int, item *markdown.ListItem, refs *[]typeRef) *Parameter {
	param := &Parameter{LineNum: item.LineNum}

	code := item.Text
	if at := strings.Index(code, commentMarker); at != -1 {
		param.Comment = strings.TrimSpace(code[at+len(commentMarker):])
		code = code[:at]
	}

	m := paramLine.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		g.sink.Warning(g.url, item.LineNum, "invalid parameter line %q", item.Text)
		param.Name = fmt.Sprintf("p%d", index+1)
		param.Type = "any"
		return param
	}
	param.Name = escapeReserved(m[1])

	typ := strings.TrimSpace(m[2])
	if strings.HasSuffix(strings.ToLower(typ), optionalPostfix) {
		typ = strings.TrimSpace(typ[:len(typ)-len(optionalPostfix)])
		param.Optional = true
	}
	typ = trailingParen.ReplaceAllString(typ, "")
	if typ == "" && param.Comment != "" {
		typ = param.Comment
	}
	typ = singleBracket.ReplaceAllString(typ, "$1")
	typ = doubleBracket.ReplaceAllString(typ, "$1")

	switch {
	case typ == "Object":
		if len(item.Items) > 0 {
			param.SetAnonymousType(&AnonymousType{Members: g.parseParameterList(item.Items, refs)})
			return param
		}
		param.Type = typ
	case typ == "Objects":
		if len(item.Items) > 0 {
			param.SetAnonymousType(&AnonymousType{
				Members: g.parseParameterList(item.Items, refs),
				IsArray: true,
			})
			return param
		}
		param.Type = "Object[]"
	case typ == "Array":
		param.Type = "any[]"
		if cm := arrayOfObjects.FindStringSubmatch(strings.TrimSpace(param.Comment)); cm != nil {
			param.Type = g.reference(cm[1], item.LineNum, refs) + "[]"
		}
	case strings.HasPrefix(typ, "Array of `"):
		param.Type = "any[]"
		if tm := arrayOfType.FindStringSubmatch(typ); tm != nil {
			param.Type = g.reference(tm[1], item.LineNum, refs) + "[]"
		}
	case singleWord.MatchString(typ):
		param.Type = simpleType(typ)
	case markdownLinkType.MatchString(typ):
		param.Type = markdownLinkType.FindStringSubmatch(typ)[1]
	case typ == "":
		param.Type = "any"
	default:
		g.sink.Warning(g.url, item.LineNum, "invalid parameter type %q", typ)
		param.Type = "any"
	}
	return param
}

func (g *generator) reference(name string, line int, refs *[]typeRef) string {
	name = toTypeCase(name)
	*refs = append(*refs, typeRef{name: name, line: line})
	return name
}
