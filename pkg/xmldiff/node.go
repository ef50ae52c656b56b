package xmldiff

import "strconv"

// NodeKind distinguishes element nodes from text nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is a parsed XML node.
//
// An element with no element children keeps all of its character data in
// Text and has no children. An element with element children (mixed
// content) keeps each non-blank run of character data as a TextNode child,
// in document order, and leaves Text empty.
type Node struct {
	Kind     NodeKind
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// NewElement creates an element node.
func NewElement(name string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Name: name, Attrs: attrs, Children: children}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: TextNode, Text: text}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// label describes n for structural mismatch messages.
func (n *Node) label() string {
	if n == nil {
		return Absent
	}
	if n.Kind == TextNode {
		return "text " + strconv.Quote(NormalizeSpace(n.Text))
	}
	return "<" + n.Name + ">"
}

// segment returns the path step for n given its 1-based ordinal among
// siblings of the same name.
func (n *Node) segment(ordinal int) string {
	name := n.Name
	if n.Kind == TextNode {
		name = "text()"
	}
	return name + "[" + strconv.Itoa(ordinal) + "]"
}

// ordinals returns, for each child, its 1-based position among siblings of
// the same name and kind.
func ordinals(children []*Node) []int {
	counts := make(map[string]int, len(children))
	out := make([]int, len(children))
	for i, c := range children {
		key := c.Name
		if c.Kind == TextNode {
			key = "\x00text"
		}
		counts[key]++
		out[i] = counts[key]
	}
	return out
}
