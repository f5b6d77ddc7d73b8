// # internal/engine/definition/normalize.go
package definition

import (
	"strings"

	"apidocgen/internal/engine/markdown"
)

// normalizeMemberParagraphs repairs a parameter list written without
// bullets: a first paragraph led by a code span gets "* " on every line, and
// an already bulleted paragraph right after it is nested into it. Source
// lines are copied, never edited in place.
func normalizeMemberParagraphs(paragraphs []markdown.Paragraph) []markdown.Paragraph {
	if len(paragraphs) == 0 || len(paragraphs[0].Lines) == 0 ||
		!strings.HasPrefix(paragraphs[0].Lines[0].Text, "`") {
		return paragraphs
	}

	merged := make([]markdown.Line, 0, len(paragraphs[0].Lines))
	for _, line := range paragraphs[0].Lines {
		line.Text = "* " + line.Text
		merged = append(merged, line)
	}

	rest := paragraphs[1:]
	if len(rest) > 0 && len(rest[0].Lines) > 0 && strings.HasPrefix(rest[0].Lines[0].Text, "* ") {
		for _, line := range rest[0].Lines {
			line.Text = "  " + line.Text
			merged = append(merged, line)
		}
		rest = rest[1:]
	}

	out := make([]markdown.Paragraph, 0, len(rest)+1)
	out = append(out, markdown.Paragraph{Lines: merged})
	return append(out, rest...)
}

func memberParagraphs(section *markdown.Section) []markdown.Paragraph {
	return normalizeMemberParagraphs(markdown.SplitIntoParagraphs(section.Lines))
}
