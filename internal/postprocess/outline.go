// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading found in a markdown document.
type Heading struct {
	Level int
	Text  string
}

// String renders h in ATX form.
func (h Heading) String() string {
	return strings.Repeat("#", h.Level) + " " + h.Text
}

// Outline parses src and returns its headings in document order.
func Outline(src string) []Heading {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(inlineText(h, source)),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// OutlineStrings is Outline rendered as "## Title" lines.
func OutlineStrings(src string) []string {
	headings := Outline(src)
	if len(headings) == 0 {
		return nil
	}
	out := make([]string, len(headings))
	for i, h := range headings {
		out[i] = h.String()
	}
	return out
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}
