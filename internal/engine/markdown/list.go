// # internal/engine/markdown/list.go
package markdown

import "strings"

// ParseList reads a bulleted list. Indentation is measured in 2-space units;
// a deeper item nests under the previous one, a shallower one closes every
// open item at its level or below. Non-bullet lines continue the last item.
func ParseList(lines []Line, bullet byte) []*ListItem {
	items := make([]*ListItem, 0)
	var (
		last   *ListItem
		parent *ListItem
		stack  []*ListItem
	)

	for _, line := range lines {
		indent := leadingSpaces(line.Text)
		if indent == len(line.Text) {
			continue
		}

		if line.Text[indent] != bullet {
			if last != nil {
				if more := strings.TrimSpace(line.Text[indent:]); more != "" {
					last.Text += " " + more
				}
			}
			continue
		}

		item := &ListItem{
			Text:        strings.TrimSpace(line.Text[indent+1:]),
			LineNum:     line.Num,
			IndentLevel: indent / 2,
		}

		if last != nil && item.IndentLevel > last.IndentLevel {
			stack = append(stack, parent)
			parent = last
		} else {
			for parent != nil && item.IndentLevel <= parent.IndentLevel {
				if len(stack) == 0 {
					parent = nil
					break
				}
				parent = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		}

		if parent != nil {
			parent.Items = append(parent.Items, item)
		} else {
			items = append(items, item)
		}
		last = item
	}

	return items
}

func leadingSpaces(text string) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}
