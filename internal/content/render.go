package content

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/navigationiq/navigator/internal/annotate"
)

// Links are the callbacks link nodes invoke when activated. Either may be
// nil, in which case the matching links render but do nothing.
type Links struct {
	OnSectionRef       func(sectionID string)
	OnCaseOrStatuteRef func(name string)
}

// State is the disclosure view a renderer reads panel state from and reports
// toggles to. Keys are option ids within the caller's scope.
type State interface {
	IsOpen(key string) bool
	Toggle(key string)
}

type namedState interface {
	Name() string
}

// childState addresses the flags of a nested value through its parent,
// prefixing every option with the value's key.
type childState struct {
	parent State
	prefix string
}

func (c childState) IsOpen(key string) bool { return c.parent.IsOpen(c.prefix + "-" + key) }
func (c childState) Toggle(key string)      { c.parent.Toggle(c.prefix + "-" + key) }

type collapsed struct{}

func (collapsed) IsOpen(string) bool { return false }
func (collapsed) Toggle(string)      {}

// Renderer turns classified values into node trees.
type Renderer struct {
	scanner *annotate.Scanner
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithScanner replaces the scanner used for leaf strings.
func WithScanner(s *annotate.Scanner) RendererOption {
	return func(r *Renderer) {
		r.scanner = s
	}
}

// NewRenderer returns a renderer using the default scanner unless overridden.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{scanner: annotate.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render renders v with the default renderer.
func Render(v any, links Links, state State) *Node {
	return defaultRenderer.Render(v, links, state)
}

// Render renders v. It returns nil for empty values and never fails: values
// matching no known shape render as key/value blocks or lines.
func (r *Renderer) Render(v any, links Links, state State) *Node {
	if state == nil {
		state = collapsed{}
	}
	rc := renderCtx{r: r, links: links, state: state}
	if ns, ok := state.(namedState); ok {
		rc.scope = ns.Name()
	}
	return rc.render(v)
}

type renderCtx struct {
	r     *Renderer
	links Links
	state State
	scope string
}

// child narrows the context to the value at key. Panels below it read and
// toggle "<key>-<option>" on the parent, so option sets under sibling keys
// never share a flag.
func (rc renderCtx) child(key string) renderCtx {
	rc.state = childState{parent: rc.state, prefix: key}
	if rc.scope == "" {
		rc.scope = key
	} else {
		rc.scope += "-" + key
	}
	return rc
}

func (rc renderCtx) render(v any) *Node {
	switch Classify(v) {
	case KindEmpty:
		return nil
	case KindPrerendered:
		if n, ok := v.(*Node); ok {
			return n
		}
		n := v.(Node)
		return &n
	case KindHeadedItemList:
		list, _ := asList(v)
		return rc.headedItems(list)
	case KindPlainList:
		list, _ := asList(v)
		return rc.plainList(list)
	case KindRecommendation:
		obj, _ := asObject(v)
		return rc.recommendation(obj)
	case KindOptionSet:
		obj, _ := asObject(v)
		return rc.optionSet(obj)
	case KindKeyValue:
		obj, _ := asObject(v)
		return rc.keyValue(obj)
	default:
		return rc.lines(scalarText(v))
	}
}

func (rc renderCtx) headedItems(list []any) *Node {
	out := &Node{Kind: NodeList, Shape: KindHeadedItemList}
	for i, el := range list {
		item := &Node{Kind: NodeItem}
		ic := rc.child(strconv.Itoa(i))
		obj, ok := asObject(el)
		if !ok || !obj.Has(fieldHeader) {
			item.Children = unwrapLines(ic.render(el))
		} else {
			if header := scalarText(valueOf(obj, fieldHeader)); header != "" {
				item.Children = append(item.Children, &Node{Kind: NodeBold, Text: header}, textNode(" "))
			}
			text, _ := obj.Get(fieldText)
			item.Children = append(item.Children, ic.inline(text)...)
		}
		if len(item.Children) > 0 {
			out.Children = append(out.Children, item)
		}
	}
	return out
}

func (rc renderCtx) plainList(list []any) *Node {
	out := &Node{Kind: NodeList, Shape: KindPlainList}
	for i, el := range list {
		child := rc.child(strconv.Itoa(i)).render(el)
		if child == nil {
			continue
		}
		out.Children = append(out.Children, &Node{Kind: NodeItem, Children: unwrapLines(child)})
	}
	return out
}

func (rc renderCtx) recommendation(obj *Object) *Node {
	out := &Node{Kind: NodeBlock, Shape: KindRecommendation}
	summary, _ := obj.Get(fieldRecommendationSummary)
	out.Children = append(out.Children, unwrapLines(rc.child(fieldRecommendationSummary).render(summary))...)
	out.Children = append(out.Children, &Node{Kind: NodeHeading, Text: "Implementation Steps"})
	steps, _ := obj.Get(fieldImplementationSteps)
	if n := rc.child(fieldImplementationSteps).render(steps); n != nil {
		out.Children = append(out.Children, n)
	}
	return out
}

func (rc renderCtx) optionSet(obj *Object) *Node {
	out := &Node{Kind: NodeBlock, Shape: KindOptionSet}
	for _, key := range optionKeys(obj) {
		v, _ := obj.Get(key)
		option, _ := asObject(v)

		title := option.String(fieldTitle)
		if title == "" {
			title = Label(key)
		}
		panel := &Node{
			Kind:     NodePanel,
			Text:     title,
			Scope:    rc.scope,
			Key:      key,
			Expanded: rc.state.IsOpen(key),
		}
		state, k := rc.state, key
		panel.activate = func() { state.Toggle(k) }

		if panel.Expanded {
			if body := rc.child(key).render(option); body != nil {
				panel.Children = []*Node{body}
			}
		}
		out.Children = append(out.Children, panel)
	}
	return out
}

func (rc renderCtx) keyValue(obj *Object) *Node {
	out := &Node{Kind: NodeBlock, Shape: KindKeyValue}
	for _, key := range obj.Keys() {
		if key == fieldTitle {
			continue
		}
		v, _ := obj.Get(key)
		label := Label(key)

		if key == fieldSuggestedLanguage {
			out.Children = append(out.Children, &Node{
				Kind:     NodeQuote,
				Text:     label,
				Children: rc.child(key).inline(v),
			})
			continue
		}

		if isScalar(v) {
			p := &Node{Kind: NodeParagraph}
			p.Children = append(p.Children, &Node{Kind: NodeLabel, Text: label + ":"}, textNode(" "))
			p.Children = append(p.Children, rc.inline(v)...)
			out.Children = append(out.Children, p)
			continue
		}

		out.Children = append(out.Children, &Node{
			Kind:     NodeParagraph,
			Children: []*Node{{Kind: NodeLabel, Text: label + ":"}},
		})
		if n := rc.child(key).render(v); n != nil {
			out.Children = append(out.Children, n)
		}
	}
	return out
}

func (rc renderCtx) lines(s string) *Node {
	out := &Node{Kind: NodeBlock, Shape: KindLineList}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out.Children = append(out.Children, &Node{Kind: NodeParagraph, Children: rc.tokens(line)})
	}
	return out
}

// inline renders v for use inside a line: scalars become scanned inline
// nodes, anything else a nested block.
func (rc renderCtx) inline(v any) []*Node {
	if v == nil {
		return nil
	}
	if isScalar(v) {
		return rc.tokens(scalarText(v))
	}
	if n := rc.render(v); n != nil {
		return []*Node{n}
	}
	return nil
}

func (rc renderCtx) tokens(s string) []*Node {
	toks := rc.r.scanner.Scan(s)
	nodes := make([]*Node, 0, len(toks))
	for _, t := range toks {
		nodes = append(nodes, rc.tokenNode(t))
	}
	return nodes
}

func (rc renderCtx) tokenNode(t annotate.Token) *Node {
	switch t.Kind {
	case annotate.KindSection:
		n := &Node{Kind: NodeSectionLink, Text: t.Text, Target: t.Ref}
		if fn := rc.links.OnSectionRef; fn != nil {
			id := t.Ref
			n.activate = func() { fn(id) }
		}
		return n
	case annotate.KindCase, annotate.KindStatute:
		n := &Node{Kind: NodeReferenceLink, Text: t.Text, Target: t.Ref}
		if fn := rc.links.OnCaseOrStatuteRef; fn != nil {
			name := t.Ref
			n.activate = func() { fn(name) }
		}
		return n
	case annotate.KindEmphasis:
		return &Node{Kind: NodeBold, Text: t.Text}
	default:
		return textNode(t.Text)
	}
}

// unwrapLines flattens a line block into its paragraphs so list items and
// summaries do not nest an extra container.
func unwrapLines(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == NodeBlock && n.Shape == KindLineList {
		return n.Children
	}
	return []*Node{n}
}

func valueOf(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, float32, int, int64, int32, uint, uint64:
		return true
	}
	return false
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}

// Label turns a camelCase key into a display label: "suggestedLanguage"
// becomes "Suggested Language".
func Label(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewPanel builds a collapsible panel whose flag lives at key in state.
// body is rendered only while the panel is expanded.
func NewPanel(title string, state State, key string, body func() *Node) *Node {
	if state == nil {
		state = collapsed{}
	}
	panel := &Node{
		Kind:     NodePanel,
		Text:     title,
		Key:      key,
		Expanded: state.IsOpen(key),
	}
	if ns, ok := state.(namedState); ok {
		panel.Scope = ns.Name()
	}
	panel.activate = func() { state.Toggle(key) }
	if panel.Expanded && body != nil {
		if n := body(); n != nil {
			panel.Children = []*Node{n}
		}
	}
	return panel
}
