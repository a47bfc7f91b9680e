package content

import (
	"html"
	"io"
	"strconv"
	"strings"
)

// WriteHTML writes the tree as an HTML fragment. Links and panel toggles are
// exposed through data attributes for the page script to wire up.
func WriteHTML(w io.Writer, n *Node) error {
	var b strings.Builder
	writeHTML(&b, n)
	_, err := io.WriteString(w, b.String())
	return err
}

// HTML returns the tree as an HTML fragment.
func HTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	esc := html.EscapeString

	switch n.Kind {
	case NodeText:
		b.WriteString(esc(n.Text))
	case NodeBold:
		b.WriteString("<strong>" + esc(n.Text) + "</strong>")
	case NodeLabel:
		b.WriteString(`<strong class="label">` + esc(n.Text) + "</strong>")
	case NodeSectionLink:
		b.WriteString(`<a href="#" class="section-ref" data-section="` + esc(n.Target) + `">` + esc(n.Text) + "</a>")
	case NodeReferenceLink:
		b.WriteString(`<a href="#" class="legal-ref" data-reference="` + esc(n.Target) + `">` + esc(n.Text) + "</a>")
	case NodeParagraph:
		b.WriteString("<p>")
		writeChildren(b, n)
		b.WriteString("</p>")
	case NodeHeading:
		b.WriteString("<h4>" + esc(n.Text) + "</h4>")
		writeChildren(b, n)
	case NodeList:
		b.WriteString(`<ul class="` + esc(string(n.Shape)) + `">`)
		writeChildren(b, n)
		b.WriteString("</ul>")
	case NodeItem:
		b.WriteString("<li>")
		writeChildren(b, n)
		b.WriteString("</li>")
	case NodeQuote:
		b.WriteString(`<blockquote class="suggested-language"><strong>` + esc(n.Text) + `</strong><div class="quote-body">`)
		writeChildren(b, n)
		b.WriteString("</div></blockquote>")
	case NodePanel:
		attrs := ` data-scope="` + esc(n.Scope) + `" data-key="` + esc(n.Key) + `"`
		b.WriteString(`<section class="option-panel"` + attrs + `>`)
		b.WriteString(`<button type="button" class="option-toggle"` + attrs +
			` aria-expanded="` + strconv.FormatBool(n.Expanded) + `">` + esc(n.Text) + "</button>")
		if n.Expanded {
			b.WriteString(`<div class="option-body">`)
			writeChildren(b, n)
			b.WriteString("</div>")
		}
		b.WriteString("</section>")
	case NodeError:
		b.WriteString(`<div class="error-banner" role="alert">` + esc(n.Text) + "</div>")
	default:
		class := "block"
		if n.Shape != "" {
			class += " " + string(n.Shape)
		}
		b.WriteString(`<div class="` + esc(class) + `">`)
		if n.Text != "" {
			b.WriteString("<h3>" + esc(n.Text) + "</h3>")
		}
		writeChildren(b, n)
		b.WriteString("</div>")
	}
}

func writeChildren(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		writeHTML(b, c)
	}
}
