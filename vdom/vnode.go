package vdom

// VNode represents one element of an emitted markup tree.
type VNode struct {
	Tag        string            // The tag name as written
	Attributes map[string]string // Attribute values; expression attributes keep their {...} source
	Children   []*VNode          // The child elements
	Content    string            // The text directly inside the element
}

// NewVNode creates a new VNode.
func NewVNode(tag string, attributes map[string]string, children []*VNode, content string) *VNode {
	if attributes == nil {
		attributes = make(map[string]string)
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   children,
		Content:    content,
	}
}

// AppendChild adds child as the last child of v.
func (v *VNode) AppendChild(child *VNode) {
	v.Children = append(v.Children, child)
}

// AppendContent adds text to the Content field of the VNode.
func (v *VNode) AppendContent(text string) {
	v.Content += text
}

// Attr returns the value of an attribute.
func (v *VNode) Attr(name string) (string, bool) {
	value, ok := v.Attributes[name]
	return value, ok
}

// Walk visits v and its descendants depth first, parents before children.
// Returning false from visit skips the node's children.
func (v *VNode) Walk(visit func(*VNode) bool) {
	if v == nil || !visit(v) {
		return
	}
	for _, child := range v.Children {
		child.Walk(visit)
	}
}
