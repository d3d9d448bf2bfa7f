// ABOUTME: Renders model-generated markdown as Slack mrkdwn
// ABOUTME: Walks the goldmark AST; Slack has no headings and swaps the bold/italic markers

package bot

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// RenderMrkdwn converts standard markdown to Slack's mrkdwn dialect:
// **bold** becomes *bold*, *italic* becomes _italic_, [t](u) becomes
// <u|t>, headings become bold lines, list bullets become •.
func RenderMrkdwn(source string) string {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var b strings.Builder
	renderBlocks(&b, doc, src)
	return strings.TrimSpace(b.String())
}

func renderBlocks(b *strings.Builder, parent ast.Node, src []byte) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			fmt.Fprintf(b, "*%s*\n\n", renderInline(node, src))
		case *ast.Paragraph:
			b.WriteString(renderInline(node, src) + "\n\n")
		case *ast.TextBlock:
			b.WriteString(renderInline(node, src) + "\n")
		case *ast.List:
			renderList(b, node, src)
			b.WriteString("\n")
		case *ast.FencedCodeBlock:
			b.WriteString("```\n")
			writeRawLines(b, node, src)
			b.WriteString("```\n\n")
		case *ast.CodeBlock:
			b.WriteString("```\n")
			writeRawLines(b, node, src)
			b.WriteString("```\n\n")
		case *ast.Blockquote:
			var quoted strings.Builder
			renderBlocks(&quoted, node, src)
			for _, line := range strings.Split(strings.TrimRight(quoted.String(), "\n"), "\n") {
				b.WriteString("> " + line + "\n")
			}
			b.WriteString("\n")
		case *ast.ThematicBreak:
			// Slack has no horizontal rule; drop it
		default:
			if n.Type() == ast.TypeBlock {
				renderBlocks(b, n, src)
			}
		}
	}
}

func renderList(b *strings.Builder, list *ast.List, src []byte) {
	index := list.Start
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}

		var item strings.Builder
		renderBlocks(&item, li, src)
		itemText := strings.TrimRight(item.String(), "\n")
		// Continuation lines of a multi-line item stay indented under the marker
		itemText = strings.ReplaceAll(itemText, "\n", "\n   ")
		b.WriteString(marker + itemText + "\n")
	}
}

func renderInline(parent ast.Node, src []byte) string {
	var b strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.Emphasis:
			inner := renderInline(node, src)
			if node.Level >= 2 {
				b.WriteString("*" + inner + "*")
			} else {
				b.WriteString("_" + inner + "_")
			}
		case *ast.CodeSpan:
			b.WriteString("`" + renderInline(node, src) + "`")
		case *ast.Link:
			label := renderInline(node, src)
			if label == "" {
				label = string(node.Destination)
			}
			b.WriteString("<" + string(node.Destination) + "|" + label + ">")
		case *ast.AutoLink:
			b.Write(node.URL(src))
		case *ast.Image:
			b.Write(node.Destination)
		default:
			b.WriteString(renderInline(n, src))
		}
	}
	return b.String()
}

func writeRawLines(b *strings.Builder, node ast.Node, src []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
}
