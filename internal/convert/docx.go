// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxConverter reads .docx files with go-docx. Heading styles become ATX
// headings, hyperlinks become inline links, tables become pipe tables and
// drawings become image references.
type DocxConverter struct{}

// Convert parses the document at path and renders its body as Markdown.
func (DocxConverter) Convert(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing docx %s: %w", path, err)
	}

	var blocks []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if s := renderParagraph(doc, it); s != "" {
				blocks = append(blocks, s)
			}
		case *docx.Table:
			if s := renderTable(doc, it); s != "" {
				blocks = append(blocks, s)
			}
		}
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

func renderParagraph(doc *docx.Docx, p *docx.Paragraph) string {
	text := strings.TrimSpace(paragraphText(doc, p))
	if text == "" {
		return ""
	}
	if level := headingLevel(p); level > 0 {
		return strings.Repeat("#", level) + " " + strings.ReplaceAll(text, "\n", " ")
	}
	return text
}

// headingLevel maps "Heading1".."Heading6" (or "heading 1") to 1..6.
func headingLevel(p *docx.Paragraph) int {
	if p.Properties == nil || p.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(p.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	n := strings.TrimPrefix(style, "heading")
	if len(n) != 1 || n[0] < '1' || n[0] > '6' {
		return 0
	}
	return int(n[0] - '0')
}

func paragraphText(doc *docx.Docx, p *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(&b, c)
		case *docx.Hyperlink:
			var label strings.Builder
			label.WriteString(c.Run.InstrText)
			writeRun(&label, &c.Run)
			target, err := doc.ReferTarget(c.ID)
			if err != nil || target == "" {
				b.WriteString(label.String())
				continue
			}
			fmt.Fprintf(&b, "[%s](%s)", label.String(), target)
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
		case *docx.Tab:
			b.WriteString("\t")
		case *docx.BarterRabbet:
			b.WriteString("\n")
		case *docx.Drawing:
			fmt.Fprintf(b, "![%s](image)", drawingName(c))
		}
	}
}

func drawingName(d *docx.Drawing) string {
	switch {
	case d.Inline != nil && d.Inline.DocPr != nil:
		return d.Inline.DocPr.Name
	case d.Anchor != nil && d.Anchor.DocPr != nil:
		return d.Anchor.DocPr.Name
	}
	return ""
}

func renderTable(doc *docx.Docx, t *docx.Table) string {
	var rows [][]string
	for _, tr := range t.TableRows {
		var row []string
		for _, tc := range tr.TableCells {
			var parts []string
			for _, p := range tc.Paragraphs {
				if s := strings.TrimSpace(paragraphText(doc, p)); s != "" {
					parts = append(parts, s)
				}
			}
			row = append(row, strings.Join(parts, " "))
		}
		rows = append(rows, row)
	}
	var b strings.Builder
	writeTable(&b, rows)
	return strings.TrimSuffix(b.String(), "\n")
}
