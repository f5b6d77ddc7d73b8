package output

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"apidocgen/internal/core/errors"
)

// SyntaxIssue is an ERROR or MISSING node found in emitted declarations.
// Line and Column are 1-based.
type SyntaxIssue struct {
	Line    int
	Column  int
	Kind    string
	Snippet string
}

func (i SyntaxIssue) String() string {
	if i.Snippet == "" {
		return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Kind)
	}
	return fmt.Sprintf("%d:%d: %s near %q", i.Line, i.Column, i.Kind, i.Snippet)
}

// Verifier parses declaration text with the TypeScript grammar.
type Verifier struct {
	lang *sitter.Language
}

func NewVerifier() *Verifier {
	return &Verifier{lang: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())}
}

// Verify returns the syntax issues in src, ordered by position. A nil slice
// means the text parsed cleanly.
func (v *Verifier) Verify(src []byte) ([]SyntaxIssue, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(v.lang); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "set typescript grammar")
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var issues []SyntaxIssue
	collectIssues(root, src, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Column < issues[j].Column
	})
	return issues, nil
}

func collectIssues(node *sitter.Node, src []byte, issues *[]SyntaxIssue) {
	if node == nil {
		return
	}
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		issue := SyntaxIssue{
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
			Kind:   "syntax error",
		}
		if node.IsMissing() {
			issue.Kind = "missing " + node.Kind()
		} else {
			issue.Snippet = snippet(src, node)
		}
		*issues = append(*issues, issue)
		// Nested errors under an ERROR node repeat the same problem.
		if node.IsError() {
			return
		}
	}
	if !node.HasError() {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectIssues(node.Child(i), src, issues)
	}
}

func snippet(src []byte, node *sitter.Node) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(src)) {
		end = uint(len(src))
	}
	if end-start > 40 {
		end = start + 40
	}
	return string(src[start:end])
}
