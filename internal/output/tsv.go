package output

import (
	"fmt"
	"strings"

	"apidocgen/internal/core/diag"
	"apidocgen/internal/engine/definition"
)

// TSVGenerator writes flat, tab-separated listings of parsed members and of
// diagnostics for spreadsheet or grep use.
type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// GenerateIndex lists every member of every output, one row each, with
// grouped members under their dotted path.
func (t *TSVGenerator) GenerateIndex(outputs []*definition.Output) (string, error) {
	var buf strings.Builder

	buf.WriteString("Output\tKind\tName\tStatic\tPlatforms\tURL\n")
	for _, out := range outputs {
		row := func(kind, name string, static bool, platforms []string, url string) {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%t\t%s\t%s\n",
				out.Name, kind, tsvField(name), static, strings.Join(platforms, ","), url))
		}
		for _, c := range out.Constructors {
			row("constructor", out.Name, false, c.Platforms, c.URL)
		}
		for _, p := range out.Properties {
			row("property", p.Name, p.IsStatic, p.Platforms, p.URL)
		}
		for _, e := range out.Events {
			row("event", e.Name, false, e.Platforms, e.URL)
		}
		for _, m := range out.Methods {
			row("method", m.Name, m.IsStatic, m.Platforms, m.URL)
		}
		var walk func(prefix string, groups []*definition.Group)
		walk = func(prefix string, groups []*definition.Group) {
			for _, g := range groups {
				path := prefix + g.Name + "."
				for _, p := range g.Properties {
					row("property", path+p.Name, false, p.Platforms, p.URL)
				}
				for _, m := range g.Methods {
					row("method", path+m.Name, false, m.Platforms, m.URL)
				}
				walk(path, g.Groups)
			}
		}
		walk("", out.Groups)
		for _, dt := range out.DataTypes {
			row("datatype", dt.Name, false, nil, out.URL)
		}
	}

	return buf.String(), nil
}

// DocumentDiagnostics pairs a configured document with what its parse reported.
type DocumentDiagnostics struct {
	Document string
	Entries  []diag.Entry
}

func (t *TSVGenerator) GenerateDiagnostics(docs []DocumentDiagnostics) (string, error) {
	var buf strings.Builder

	buf.WriteString("Document\tSeverity\tLocation\tLine\tMessage\n")
	for _, doc := range docs {
		for _, e := range doc.Entries {
			if e.Severity == diag.SeverityVerbose {
				continue
			}
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%s\n",
				doc.Document,
				e.Severity,
				e.Location,
				e.Line,
				tsvField(e.Message),
			))
		}
	}

	return buf.String(), nil
}

func tsvField(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
