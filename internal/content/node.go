package content

import "strings"

// NodeKind identifies a display node.
type NodeKind string

const (
	NodeBlock         NodeKind = "block"
	NodeList          NodeKind = "list"
	NodeItem          NodeKind = "item"
	NodeParagraph     NodeKind = "paragraph"
	NodeHeading       NodeKind = "heading"
	NodeQuote         NodeKind = "quote"
	NodePanel         NodeKind = "panel"
	NodeError         NodeKind = "error"
	NodeLabel         NodeKind = "label"
	NodeText          NodeKind = "text"
	NodeBold          NodeKind = "bold"
	NodeSectionLink   NodeKind = "section_link"
	NodeReferenceLink NodeKind = "reference_link"
)

// Inline reports whether nodes of this kind sit inside a line of text.
func (k NodeKind) Inline() bool {
	switch k {
	case NodeText, NodeBold, NodeLabel, NodeSectionLink, NodeReferenceLink:
		return true
	}
	return false
}

// Node is one element of a render tree.
//
// Panels carry the disclosure Scope and Key that address their expanded flag.
// A collapsed panel has no children. Link nodes carry the section id or the
// case/statute name in Target.
type Node struct {
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Shape    Kind     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`
	Scope    string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Key      string   `json:"key,omitempty" yaml:"key,omitempty"`
	Expanded bool     `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`

	activate func()
}

// Activate runs the node's bound action: the link callback for link nodes or
// the disclosure toggle for panels. It reports whether anything was bound.
func (n *Node) Activate() bool {
	if n == nil || n.activate == nil {
		return false
	}
	n.activate()
	return true
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node matching pred, depth-first.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching pred, depth-first.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// PlainText flattens the tree to text. Inline runs are concatenated; blocks
// are separated by newlines.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writePlain(&b)
	return b.String()
}

func (n *Node) writePlain(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind.Inline() {
		b.WriteString(n.Text)
		return
	}
	if n.Text != "" {
		b.WriteString(n.Text)
		if len(n.Children) > 0 {
			b.WriteString("\n")
		}
	}
	for i, c := range n.Children {
		if i > 0 && !(c.Kind.Inline() && n.Children[i-1].Kind.Inline()) {
			b.WriteString("\n")
		}
		c.writePlain(b)
	}
}

func textNode(s string) *Node {
	return &Node{Kind: NodeText, Text: s}
}
