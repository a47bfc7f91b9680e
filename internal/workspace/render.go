package workspace

import (
	"github.com/navigationiq/navigator/internal/content"
)

// Render renders the named flow. A loading flow renders a loading line, an
// idle flow renders nothing, and error values render as an error banner.
// A fallback notice is shown above the result.
func (w *Workspace) Render(name string) (*content.Node, error) {
	f, err := w.Flow(name)
	if err != nil {
		return nil, err
	}
	if name == FlowJournal {
		return w.RenderModal(), nil
	}

	switch f.Status() {
	case StatusIdle:
		return nil, nil
	case StatusLoading:
		return loadingNode(), nil
	}

	result, notice := f.Result()
	var body *content.Node
	if msg, ok := content.AsError(result); ok {
		body = &content.Node{Kind: content.NodeError, Text: msg}
	} else {
		switch name {
		case FlowRisk:
			body = w.renderRisk(f, result)
		case FlowLegal:
			body = w.renderLegal(f, result)
		case FlowHR:
			body = w.renderHR(f, result)
		default:
			body = w.renderer.Render(result, w.Links(), f.Disclosure().Scope(name))
		}
	}

	if notice == "" {
		return body, nil
	}
	return &content.Node{Kind: content.NodeBlock, Children: nonNil(paragraph(notice), body)}, nil
}
