// # internal/engine/definition/datatypes.go
package definition

import (
	"strings"

	"apidocgen/internal/engine/markdown"
)

// resolveDataTypes makes sure every referenced type exists in the output.
// Types already known are left alone. Members parsed here can reference more
// types; those are appended to refs and resolved in the same pass.
func (g *generator) resolveDataTypes(refs *[]typeRef, paragraphs []markdown.Paragraph) {
	for i := 0; i < len(*refs); i++ {
		ref := (*refs)[i]
		if g.out.FindDataType(ref.name) != nil {
			continue
		}

		at := findDefiningParagraph(paragraphs, ref.name)
		if at == -1 {
			g.sink.Warning(g.url, ref.line, "could not find the definition of type %s", ref.name)
			g.out.DataTypes = append(g.out.DataTypes, &DataType{
				Name:        ref.name,
				Members:     []*Parameter{},
				IsInterface: true,
			})
			continue
		}

		dataType := &DataType{Name: ref.name}
		g.out.DataTypes = append(g.out.DataTypes, dataType)

		var memberLines []markdown.Line
		defining := paragraphs[at]
		if len(defining.Lines) == 1 {
			if at+1 < len(paragraphs) {
				memberLines = paragraphs[at+1].Lines
			} else {
				g.sink.Warning(g.url, defining.FirstLine().Num, "type %s has no member list", ref.name)
			}
		} else {
			memberLines = defining.Lines[1:]
		}

		// A defined object block is a concrete shape: members are required.
		dataType.Members = g.parseParameterList(markdown.ParseList(memberLines, '*'), refs)
		for _, member := range dataType.Members {
			member.Optional = false
		}
	}
}

func findDefiningParagraph(paragraphs []markdown.Paragraph, name string) int {
	marker := "`" + strings.ToLower(name) + "` object"
	for i, p := range paragraphs {
		if len(p.Lines) > 0 && strings.HasPrefix(strings.ToLower(p.Lines[0].Text), marker) {
			return i
		}
	}
	return -1
}
