package xmldiff

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/htmlindex"
)

// Parse reads one XML document from r and builds its node tree.
// maxDepth limits element nesting; zero or negative means DefaultMaxDepth.
// Exceeding it returns a *DepthLimitError.
func Parse(r io.Reader, maxDepth int) (*Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var stack []*builder
	var root *Node
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("unexpected element %s after document end", qualifiedName(t.Name))
			}
			if len(stack) >= maxDepth {
				return nil, &DepthLimitError{Limit: maxDepth}
			}
			name := qualifiedName(t.Name)
			attrs, err := convertAttrs(t.Attr)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", name, err)
			}
			b := &builder{node: &Node{
				Kind:  ElementNode,
				Name:  name,
				Attrs: attrs,
			}}
			if len(stack) == 0 {
				root = b.node
			}
			stack = append(stack, b)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.finish()
			if len(stack) > 0 {
				stack[len(stack)-1].addChild(b.node)
			} else {
				rootClosed = true
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, errors.New("unexpected character data outside root element")
				}
				continue
			}
			stack[len(stack)-1].addText(string(t))
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}

	return root, nil
}

// ParseFile parses the XML file at path. The file is closed before ParseFile
// returns.
func ParseFile(path string, maxDepth int) (node *Node, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return Parse(f, maxDepth)
}

// builder accumulates an element while its end tag is pending.
type builder struct {
	node *Node
	// pending is character data seen since the last child element.
	pending  strings.Builder
	segments []*Node
	hasElems bool
	allText  strings.Builder
}

func (b *builder) addText(s string) {
	b.pending.WriteString(s)
	b.allText.WriteString(s)
}

func (b *builder) flushText() {
	if b.pending.Len() == 0 {
		return
	}
	text := b.pending.String()
	b.pending.Reset()
	if strings.TrimSpace(text) == "" {
		return
	}
	b.segments = append(b.segments, NewText(text))
}

func (b *builder) addChild(child *Node) {
	b.flushText()
	b.hasElems = true
	b.segments = append(b.segments, child)
}

func (b *builder) finish() {
	if !b.hasElems {
		b.node.Text = b.allText.String()
		return
	}
	b.flushText()
	b.node.Children = b.segments
}

// convertAttrs resolves attribute names. encoding/xml accepts repeated
// attributes, which are not well-formed, so they are rejected here.
func convertAttrs(attrs []xml.Attr) ([]Attr, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make([]Attr, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for i, a := range attrs {
		name := qualifiedName(a.Name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate attribute %s", name)
		}
		seen[name] = struct{}{}
		out[i] = Attr{Name: name, Value: a.Value}
	}
	return out, nil
}

// qualifiedName renders a resolved name. Names in a namespace use Clark
// notation ({uri}local), so element and attribute names do not depend on the
// prefix. Namespace declarations keep their prefix (xmlns, xmlns:p) and are
// compared like any other attribute.
func qualifiedName(n xml.Name) string {
	switch {
	case n.Space == "":
		return n.Local
	case n.Space == "xmlns":
		return "xmlns:" + n.Local
	default:
		return "{" + n.Space + "}" + n.Local
	}
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// charsetReader decodes documents that declare a non-UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
