package content

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	termHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38")).Background(lipgloss.Color("#8BC34A")).Padding(0, 1)
	termBold    = lipgloss.NewStyle().Bold(true)
	termLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	termSection = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#4FC3F7"))
	termLegal   = lipgloss.NewStyle().Italic(true).Underline(true).Foreground(lipgloss.Color("#CE93D8"))
	termPanel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB74D"))
	termQuote   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#2a3850")).Padding(0, 1)
	termError   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#e53935")).Foreground(lipgloss.Color("#e53935")).Padding(0, 1)
)

// Terminal renders the tree for a terminal, wrapping paragraphs at width.
// A width of zero or less disables wrapping.
func Terminal(n *Node, width int) string {
	var lines []string
	termBlock(&lines, n, width, 0)
	return strings.Join(lines, "\n")
}

func termBlock(lines *[]string, n *Node, width, indent int) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", indent)
	wrap := func(s string) string {
		w := width - 2*indent
		if w <= 10 {
			return s
		}
		return lipgloss.NewStyle().Width(w).Render(s)
	}
	emit := func(s string) {
		for _, l := range strings.Split(s, "\n") {
			*lines = append(*lines, pad+l)
		}
	}

	switch {
	case n.Kind.Inline():
		emit(termInline(n))
	case n.Kind == NodeParagraph:
		emit(wrap(termRun(n.Children)))
	case n.Kind == NodeHeading:
		emit(termHeading.Render(n.Text))
	case n.Kind == NodeItem:
		if allInline(n.Children) {
			emit(wrap("• " + termRun(n.Children)))
			return
		}
		emit("•")
		for _, c := range n.Children {
			termBlock(lines, c, width, indent+1)
		}
	case n.Kind == NodeQuote:
		body := termLabel.Render(n.Text) + "\n" + termRun(n.Children)
		if width > 0 {
			emit(termQuote.Width(width - 2*indent - 4).Render(body))
		} else {
			emit(termQuote.Render(body))
		}
	case n.Kind == NodePanel:
		marker := "▸"
		if n.Expanded {
			marker = "▾"
		}
		emit(termPanel.Render(marker + " " + n.Text))
		for _, c := range n.Children {
			termBlock(lines, c, width, indent+1)
		}
	case n.Kind == NodeError:
		emit(termError.Render(n.Text))
	default:
		if n.Text != "" {
			emit(termHeading.Render(n.Text))
		}
		for _, c := range n.Children {
			termBlock(lines, c, width, indent)
		}
	}
}

func termRun(nodes []*Node) string {
	var b strings.Builder
	for _, c := range nodes {
		if c.Kind.Inline() {
			b.WriteString(termInline(c))
			continue
		}
		b.WriteString("\n")
		b.WriteString(Terminal(c, 0))
	}
	return b.String()
}

func termInline(n *Node) string {
	switch n.Kind {
	case NodeBold:
		return termBold.Render(n.Text)
	case NodeLabel:
		return termLabel.Render(n.Text)
	case NodeSectionLink:
		return termSection.Render(n.Text)
	case NodeReferenceLink:
		return termLegal.Render(n.Text)
	default:
		return n.Text
	}
}

func allInline(nodes []*Node) bool {
	for _, c := range nodes {
		if !c.Kind.Inline() {
			return false
		}
	}
	return true
}
