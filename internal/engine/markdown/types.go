// # internal/engine/markdown/types.go
package markdown

// Line is one source line. Num is 1-based.
type Line struct {
	Num  int
	Text string
}

// Sentence is text merged across line fragments up to a '.' terminator.
// LineNum is the line the sentence content started on.
type Sentence struct {
	LineNum int
	Text    string
}

// Paragraph is a run of non-blank lines.
type Paragraph struct {
	Lines []Line
}

// FirstLine returns the paragraph's first line, or a zero Line when empty.
func (p Paragraph) FirstLine() Line {
	if len(p.Lines) == 0 {
		return Line{}
	}
	return p.Lines[0]
}

// ListItem is a bulleted entry. Children sit strictly deeper than their parent.
type ListItem struct {
	IndentLevel int
	LineNum     int
	Text        string
	Items       []*ListItem
}

// Section is the span of lines under one heading, up to the next heading
// with the same prefix.
type Section struct {
	Prefix  string
	LineNum int
	Name    string
	Lines   []Line
}

// SplitIntoSubsections re-splits the section one heading level deeper.
func (s *Section) SplitIntoSubsections() SectionSequence {
	return SplitIntoSectionSequence(s.Lines, "#"+s.Prefix)
}

// SectionSequence is what a heading split produces: the lines before the
// first heading and the sections in source order.
type SectionSequence struct {
	LinesBefore []Line
	Sections    []*Section
}

// FindSection returns the first section whose name matches exactly, or nil.
func (s SectionSequence) FindSection(name string) *Section {
	for _, section := range s.Sections {
		if section.Name == name {
			return section
		}
	}
	return nil
}
