// # internal/engine/markdown/text.go
package markdown

import (
	"regexp"
	"strings"
)

var nonWordRun = regexp.MustCompile(`\W+`)

// SplitIntoLines splits on \n or \r\n. Content is not otherwise touched; a
// final line break does not open an extra empty line.
func SplitIntoLines(text string) []Line {
	raw := strings.Split(text, "\n")
	if len(raw) > 1 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]Line, len(raw))
	for i, value := range raw {
		lines[i] = Line{Num: i + 1, Text: strings.TrimSuffix(value, "\r")}
	}
	return lines
}

// IsBlank reports whether text holds only whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// SplitIntoParagraphs groups non-blank runs. Consecutive blank lines never
// produce empty paragraphs.
func SplitIntoParagraphs(lines []Line) []Paragraph {
	paragraphs := make([]Paragraph, 0)
	start := 0
	for i, line := range lines {
		if !IsBlank(line.Text) {
			continue
		}
		if start != i {
			paragraphs = append(paragraphs, Paragraph{Lines: lines[start:i]})
		}
		start = i + 1
	}
	if start < len(lines) {
		paragraphs = append(paragraphs, Paragraph{Lines: lines[start:]})
	}
	return paragraphs
}

// SplitIntoSentences joins trimmed line text with single spaces and cuts after
// every '.'. There is no abbreviation handling.
func SplitIntoSentences(lines []Line) []Sentence {
	sentences := make([]Sentence, 0)
	var current *Sentence

	appendText := func(text string, lineNum int) {
		text = strings.TrimSpace(text)
		switch {
		case current == nil:
			current = &Sentence{Text: text, LineNum: lineNum}
		case current.Text == "":
			current.Text = text
			current.LineNum = lineNum
		default:
			current.Text += " " + text
		}
	}
	push := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(current.Text)
		if current.Text != "" {
			sentences = append(sentences, *current)
			current = nil
		}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		for pos := 0; pos < len(text); {
			stop := strings.IndexByte(text[pos:], '.')
			if stop == -1 {
				appendText(text[pos:], line.Num)
				break
			}
			appendText(text[pos:pos+stop+1], line.Num)
			push()
			pos += stop + 1
		}
	}
	push()
	return sentences
}

// FirstSentence returns the first sentence of the lines, or false when the
// lines hold no text at all.
func FirstSentence(lines []Line) (Sentence, bool) {
	sentences := SplitIntoSentences(lines)
	if len(sentences) == 0 {
		return Sentence{}, false
	}
	return sentences[0], true
}

// MakeURL builds the same-document anchor for a heading.
func MakeURL(baseURL, sectionName string) string {
	anchor := nonWordRun.ReplaceAllString(strings.ToLower(sectionName), "-")
	return baseURL + "#" + anchor
}
