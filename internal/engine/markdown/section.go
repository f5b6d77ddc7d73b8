// # internal/engine/markdown/section.go
package markdown

import "strings"

// SplitIntoSectionSequence cuts lines at every line starting with prefix.
// The heading line itself belongs to no section; its trimmed remainder is
// the section name. Without any heading every line lands in LinesBefore.
func SplitIntoSectionSequence(lines []Line, prefix string) SectionSequence {
	seq := SectionSequence{Sections: make([]*Section, 0)}
	var current *Section
	start := -1

	for i, line := range lines {
		if !strings.HasPrefix(line.Text, prefix) {
			continue
		}
		if current != nil {
			current.Lines = lines[start:i]
			seq.Sections = append(seq.Sections, current)
		} else {
			seq.LinesBefore = lines[:i]
		}
		current = &Section{
			Name:    strings.TrimSpace(line.Text[len(prefix):]),
			Prefix:  prefix,
			LineNum: line.Num,
		}
		start = i + 1
	}

	if current != nil {
		current.Lines = lines[start:]
		seq.Sections = append(seq.Sections, current)
	} else {
		seq.LinesBefore = lines
	}
	return seq
}
