package content

// ErrorValue wraps a failure message as the {error: message} value flows
// store in place of a generated result.
func ErrorValue(msg string) *Object {
	return NewObject().Set(fieldError, msg)
}

// AsError reports whether v is an error value and returns its message.
func AsError(v any) (string, bool) {
	obj, ok := asObject(v)
	if !ok || obj.Len() != 1 {
		return "", false
	}
	msg, ok := valueOf(obj, fieldError).(string)
	return msg, ok
}

// RenderResult renders a flow result. Error values become an error banner;
// anything else goes through Render.
func RenderResult(v any, links Links, state State) *Node {
	if msg, ok := AsError(v); ok {
		return &Node{Kind: NodeError, Text: msg}
	}
	return Render(v, links, state)
}

// RenderResult renders a flow result with r.
func (r *Renderer) RenderResult(v any, links Links, state State) *Node {
	if msg, ok := AsError(v); ok {
		return &Node{Kind: NodeError, Text: msg}
	}
	return r.Render(v, links, state)
}
