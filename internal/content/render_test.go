package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/navigationiq/navigator/internal/annotate"
	"github.com/navigationiq/navigator/internal/disclosure"
)

// mapState is a minimal State for tests.
type mapState map[string]bool

func (m mapState) IsOpen(k string) bool { return m[k] }
func (m mapState) Toggle(k string)      { m[k] = !m[k] }

func kinds(nodes []*Node) []NodeKind {
	var out []NodeKind
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil, Links{}, nil); got != nil {
		t.Errorf("Render(nil) = %+v, want nil", got)
	}
}

func TestRender_PrerenderedPassesThrough(t *testing.T) {
	el := &Node{Kind: NodeParagraph, Children: []*Node{textNode("**not scanned**")}}
	if got := Render(el, Links{}, nil); got != el {
		t.Errorf("Render(element) returned a different node")
	}
}

func TestRender_LineList(t *testing.T) {
	got := Render("First line with Section 3.4\n\n   \nSecond **bold** line", Links{}, nil)

	if got.Shape != KindLineList || len(got.Children) != 2 {
		t.Fatalf("Render(lines) = %+v, want two paragraphs", got)
	}
	if diff := cmp.Diff([]NodeKind{NodeText, NodeSectionLink}, kinds(got.Children[0].Children)); diff != "" {
		t.Errorf("first paragraph kinds (-want +got):\n%s", diff)
	}
	if link := got.Children[0].Children[1]; link.Target != "3.4" || link.Text != "Section 3.4" {
		t.Errorf("section link = %+v", link)
	}
	if diff := cmp.Diff([]NodeKind{NodeText, NodeBold, NodeText}, kinds(got.Children[1].Children)); diff != "" {
		t.Errorf("second paragraph kinds (-want +got):\n%s", diff)
	}
}

func TestRender_HeadedItems(t *testing.T) {
	v := []any{
		map[string]any{"header": "Issue Type:", "text": "Parent Complaint"},
		map[string]any{"header": "Relevant Section:", "text": "Section 3.4 – Disciplinary Action Policy"},
	}
	got := Render(v, Links{}, nil)

	if got.Kind != NodeList || got.Shape != KindHeadedItemList || len(got.Children) != 2 {
		t.Fatalf("Render(headed items) = %+v", got)
	}
	if txt := got.Children[0].PlainText(); txt != "Issue Type: Parent Complaint" {
		t.Errorf("first item = %q", txt)
	}
	second := got.Children[1]
	if second.Children[0].Kind != NodeBold || second.Children[2].Kind != NodeSectionLink {
		t.Errorf("second item kinds = %v", kinds(second.Children))
	}
}

func TestRender_PlainListRecurses(t *testing.T) {
	v := []any{
		"1. **Acknowledge:** contact the parent",
		map[string]any{"owner": "Head of School"},
		nil,
	}
	got := Render(v, Links{}, nil)

	if got.Shape != KindPlainList || len(got.Children) != 2 {
		t.Fatalf("Render(list) = %+v, want two items", got)
	}
	if first := got.Children[0].Children; len(first) != 1 || first[0].Kind != NodeParagraph {
		t.Errorf("string item should unwrap to a paragraph, got %v", kinds(first))
	}
	nested := got.Children[1].Children[0]
	if nested.Shape != KindKeyValue || nested.PlainText() != "Owner: Head of School" {
		t.Errorf("map item = %+v (%q)", nested, nested.PlainText())
	}
}

func TestRender_Recommendation(t *testing.T) {
	v := NewObject().
		Set("recommendationSummary", "**Recommended Option:** Option A\n**Confidence Level:** High").
		Set("implementationSteps", []any{"1. Acknowledge", "2. Investigate"})
	got := Render(v, Links{}, nil)

	want := []NodeKind{NodeParagraph, NodeParagraph, NodeHeading, NodeList}
	if diff := cmp.Diff(want, kinds(got.Children)); diff != "" {
		t.Fatalf("recommendation kinds (-want +got):\n%s", diff)
	}
	if got.Children[2].Text != "Implementation Steps" {
		t.Errorf("heading = %q", got.Children[2].Text)
	}
	if n := len(got.Children[3].Children); n != 2 {
		t.Errorf("steps = %d items, want 2", n)
	}
}

func TestRender_KeyValue(t *testing.T) {
	v := NewObject().
		Set("title", "hidden").
		Set("suggestedLanguage", "We are reviewing *Doe v. Roe*.").
		Set("riskScore", "Low").
		Set("details", []any{"a", "b"})
	got := Render(v, Links{}, nil)

	want := []NodeKind{NodeQuote, NodeParagraph, NodeParagraph, NodeList}
	if diff := cmp.Diff(want, kinds(got.Children)); diff != "" {
		t.Fatalf("key/value kinds (-want +got):\n%s", diff)
	}
	if strings.Contains(got.PlainText(), "hidden") {
		t.Error("title field should not be rendered")
	}
	quote := got.Children[0]
	if quote.Text != "Suggested Language" || quote.Children[1].Kind != NodeReferenceLink {
		t.Errorf("quote = %+v", quote)
	}
	if txt := got.Children[1].PlainText(); txt != "Risk Score: Low" {
		t.Errorf("risk line = %q", txt)
	}
	if txt := got.Children[2].PlainText(); txt != "Details:" {
		t.Errorf("nested label = %q", txt)
	}
}

func TestRender_OptionSetRespectsDisclosure(t *testing.T) {
	v := NewObject().
		Set("optionA", NewObject().Set("title", "Option A").Set("riskScore", "Low")).
		Set("optionB", NewObject().Set("riskScore", "High")).
		Set("summary", "ignored")

	state := mapState{"optionA": true}
	got := Render(v, Links{}, state)

	if len(got.Children) != 2 {
		t.Fatalf("panels = %d, want 2", len(got.Children))
	}
	a, b := got.Children[0], got.Children[1]
	if a.Text != "Option A" || !a.Expanded || len(a.Children) != 1 {
		t.Errorf("panel A = %+v, want expanded with body", a)
	}
	if b.Text != "Option B" || b.Expanded || len(b.Children) != 0 {
		t.Errorf("panel B = %+v, want collapsed, titled from key", b)
	}

	if !b.Activate() {
		t.Fatal("panel Activate() should be bound")
	}
	if !state["optionB"] {
		t.Error("activating panel B did not toggle optionB")
	}
	again := Render(v, Links{}, state)
	if !again.Children[1].Expanded || len(again.Children[1].Children) == 0 {
		t.Error("re-render after toggle should expand panel B")
	}
}

func TestRender_LinksReachCallbacksAtDepth(t *testing.T) {
	var sections, refs []string
	links := Links{
		OnSectionRef:       func(id string) { sections = append(sections, id) },
		OnCaseOrStatuteRef: func(name string) { refs = append(refs, name) },
	}
	v := []any{
		NewObject().Set("header", "Legal:").Set("text", []any{
			NewObject().
				Set("optionA", NewObject().Set("title", "A").Set("legalReference", "*Smith v. Westbrook Charter (2020)*")).
				Set("note", "x"),
		}),
		NewObject().
			Set("recommendationSummary", "Follow Section 4.3").
			Set("implementationSteps", []any{"Cite **Title IX**"}),
	}

	tree := Render(v, links, mapState{"0-0-optionA": true})
	for _, n := range tree.FindAll(func(n *Node) bool {
		return n.Kind == NodeSectionLink || n.Kind == NodeReferenceLink
	}) {
		n.Activate()
	}

	if diff := cmp.Diff([]string{"4.3"}, sections); diff != "" {
		t.Errorf("section callbacks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Smith v. Westbrook Charter (2020)", "Title IX"}, refs); diff != "" {
		t.Errorf("reference callbacks (-want +got):\n%s", diff)
	}
}

func TestRender_WithDecimalScanner(t *testing.T) {
	r := NewRenderer(WithScanner(annotate.New(annotate.WithStandaloneDecimals())))
	got := r.Render("Review 5.6 before approving.", Links{}, nil)

	link := got.Find(func(n *Node) bool { return n.Kind == NodeSectionLink })
	if link == nil || link.Target != "5.6" {
		t.Errorf("decimal renderer link = %+v, want target 5.6", link)
	}
	if Render("Review 5.6 before approving.", Links{}, nil).Find(func(n *Node) bool {
		return n.Kind == NodeSectionLink
	}) != nil {
		t.Error("default renderer should not link bare decimals")
	}
}

func TestRenderResult_ErrorContainment(t *testing.T) {
	err := errors.New("upstream returned 500: quota exceeded")
	got := RenderResult(ErrorValue("Failed to generate AI response. "+err.Error()), Links{}, nil)
	if got.Kind != NodeError {
		t.Fatalf("RenderResult(error value) kind = %s, want error", got.Kind)
	}
	if !strings.Contains(got.Text, "quota exceeded") {
		t.Errorf("error text = %q, want the thrown message", got.Text)
	}

	ok := RenderResult(map[string]any{"error": "x", "detail": "y"}, Links{}, nil)
	if ok.Kind == NodeError {
		t.Error("a map with more than an error field is ordinary content")
	}
}

// The end-to-end shape used by the risk assessment's response options.
func TestRender_StepOptionsScenario(t *testing.T) {
	doc := []byte(`{"step4":{"title":"Options","content":{
		"optionA":{"title":"Option A","suggestedLanguage":"Do X","riskScore":"Low"},
		"optionB":{"title":"Option B","suggestedLanguage":"Do Y","riskScore":"High"}}}}`)
	v, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	step, _ := v.(*Object).Get("step4")
	stepContent, _ := step.(*Object).Get("content")

	state := mapState{}
	tree := Render(stepContent, Links{}, state)

	panels := tree.FindAll(func(n *Node) bool { return n.Kind == NodePanel })
	titles := make([]string, len(panels))
	for i, p := range panels {
		titles[i] = p.Text
	}
	if diff := cmp.Diff([]string{"Option A", "Option B"}, titles); diff != "" {
		t.Fatalf("panel titles (-want +got):\n%s", diff)
	}
	for _, p := range panels {
		if p.Expanded || len(p.Children) != 0 {
			t.Errorf("panel %q should start collapsed", p.Text)
		}
	}

	panels[0].Activate()
	tree = Render(stepContent, Links{}, state)
	optionA := tree.Children[0]

	quote := optionA.Find(func(n *Node) bool { return n.Kind == NodeQuote })
	if quote == nil || quote.Text != "Suggested Language" || !strings.Contains(quote.PlainText(), "Do X") {
		t.Errorf("suggested language block = %+v", quote)
	}
	risk := optionA.Find(func(n *Node) bool {
		return n.Kind == NodeParagraph && n.PlainText() == "Risk Score: Low"
	})
	if risk == nil {
		t.Errorf("missing \"Risk Score: Low\" line in %q", optionA.PlainText())
	}
	if tree.Children[1].Expanded {
		t.Error("expanding option A expanded option B")
	}

	opts := cmpopts.IgnoreUnexported(Node{})
	if diff := cmp.Diff(tree.Children[1], &Node{Kind: NodePanel, Text: "Option B", Key: "optionB"}, opts); diff != "" {
		t.Errorf("collapsed option B (-got +want):\n%s", diff)
	}
}

// Option sets under sibling steps carry their own flags.
func TestRender_SiblingOptionSetsAreIndependent(t *testing.T) {
	doc := []byte(`{
		"step4":{"title":"Options","content":{
			"optionA":{"title":"4A","riskScore":"Low"},
			"optionB":{"title":"4B","riskScore":"High"}}},
		"step5":{"title":"Responses","content":{
			"optionA":{"title":"5A","likelyResponse":"Calm"}}}}`)
	v, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	store := disclosure.New()
	state := store.Scope("render")
	panels := func() []*Node {
		return Render(v, Links{}, state).FindAll(func(n *Node) bool { return n.Kind == NodePanel })
	}

	got := panels()
	type addr struct{ Text, Scope, Key string }
	var addrs []addr
	for _, p := range got {
		addrs = append(addrs, addr{p.Text, p.Scope, p.Key})
	}
	want := []addr{
		{"4A", "render-step4-content", "optionA"},
		{"4B", "render-step4-content", "optionB"},
		{"5A", "render-step5-content", "optionA"},
	}
	if diff := cmp.Diff(want, addrs); diff != "" {
		t.Fatalf("panel addresses (-want +got):\n%s", diff)
	}

	got[0].Activate()
	got = panels()
	if !got[0].Expanded || len(got[0].Children) == 0 {
		t.Error("toggled panel 4A should render expanded")
	}
	if got[1].Expanded || got[2].Expanded {
		t.Errorf("toggling 4A expanded a sibling: 4B=%v 5A=%v", got[1].Expanded, got[2].Expanded)
	}
	if diff := cmp.Diff([]string{"render-step4-content-optionA"}, store.Expanded()); diff != "" {
		t.Errorf("store flags (-want +got):\n%s", diff)
	}

	got[2].Activate()
	got = panels()
	if !got[0].Expanded || got[1].Expanded || !got[2].Expanded {
		t.Errorf("expanded = [%v %v %v], want [true false true]", got[0].Expanded, got[1].Expanded, got[2].Expanded)
	}
}

func TestRender_NestedOptionSetsInsideOptions(t *testing.T) {
	inner := func(title string) *Object {
		return NewObject().Set("optionA", NewObject().Set("title", title))
	}
	v := NewObject().
		Set("optionA", NewObject().Set("title", "A").Set("followUps", inner("A.1"))).
		Set("optionB", NewObject().Set("title", "B").Set("followUps", inner("B.1")))

	state := mapState{"optionA": true, "optionB": true, "optionA-followUps-optionA": true}
	tree := Render(v, Links{}, state)

	a := tree.Children[0].Find(func(n *Node) bool { return n.Kind == NodePanel && n.Text == "A.1" })
	b := tree.Children[1].Find(func(n *Node) bool { return n.Kind == NodePanel && n.Text == "B.1" })
	if a == nil || b == nil {
		t.Fatalf("nested panels missing: A.1=%v B.1=%v", a, b)
	}
	if !a.Expanded || b.Expanded {
		t.Errorf("nested expanded A.1=%v B.1=%v, want only A.1", a.Expanded, b.Expanded)
	}
	if a.Scope != "optionA-followUps" || b.Scope != "optionB-followUps" {
		t.Errorf("nested scopes = %q, %q", a.Scope, b.Scope)
	}
}
