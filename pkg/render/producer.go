package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/brook-ui/brook/pkg/vdom"
)

// Fragment is one contiguous piece of markup plus the interactive regions
// discovered while rendering it. A region declaration always belongs to the
// fragment that carries the region element's opening tag.
type Fragment struct {
	Markup  []byte
	Regions []vdom.RegionDecl
}

// FragmentSource yields markup fragments one at a time. Next returns io.EOF
// after the final fragment. Any other error is fatal: no fragment emitted
// before the failure may be treated as a complete document.
type FragmentSource interface {
	Next() (Fragment, error)
}

// FragmentStream walks a render tree and produces its markup as a lazy,
// forward-only fragment sequence. Each call to Next performs one render
// step (an opening tag, a text run, a closing tag); nothing is rendered
// ahead of the consumer's pull. The stream is single-use and not safe for
// concurrent use.
type FragmentStream struct {
	stack   []workItem
	regions uint64
	steps   int
	err     error
}

// workItem is one pending render step. Exactly one of node/closeTag is set.
type workItem struct {
	node     *vdom.VNode
	path     string
	closeTag string
}

// NewFragmentStream creates a fragment stream over the given tree.
// A nil tree yields an empty sequence.
func NewFragmentStream(tree *vdom.VNode) *FragmentStream {
	s := &FragmentStream{}
	if tree != nil {
		s.stack = []workItem{{node: tree, path: nodeLabel(tree)}}
	}
	return s
}

// Next returns the next markup fragment. It returns io.EOF when the tree is
// exhausted, or a *render.Error if a node cannot be rendered. After any
// non-EOF error the stream is dead and Next keeps returning the same error.
func (s *FragmentStream) Next() (Fragment, error) {
	if s.err != nil {
		return Fragment{}, s.err
	}

	for len(s.stack) > 0 {
		item := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if item.closeTag != "" {
			s.steps++
			return Fragment{Markup: []byte("</" + item.closeTag + ">")}, nil
		}

		node := item.node
		switch node.Kind {
		case vdom.KindText:
			s.steps++
			return Fragment{Markup: []byte(escapeHTML(node.Text))}, nil

		case vdom.KindRaw:
			s.steps++
			return Fragment{Markup: []byte(node.Text)}, nil

		case vdom.KindFragment:
			s.pushChildren(node, item.path)

		case vdom.KindComponent:
			if node.Comp == nil {
				s.err = newError(item.path, ErrNilComponent)
				return Fragment{}, s.err
			}
			if out := node.Comp.Render(); out != nil {
				s.stack = append(s.stack, workItem{node: out, path: item.path + "/" + nodeLabel(out)})
			}

		case vdom.KindElement:
			s.steps++
			frag := s.openElement(node)
			if !vdom.IsVoidElement(node.Tag) {
				s.stack = append(s.stack, workItem{closeTag: node.Tag})
				s.pushChildren(node, item.path)
			}
			return frag, nil

		default:
			s.err = newError(item.path, ErrUnknownKind)
			return Fragment{}, s.err
		}
	}

	return Fragment{}, io.EOF
}

// Steps returns the number of fragments produced so far. Useful for
// asserting that a cancelled consumer did not drive the walk further than
// its pull rate required.
func (s *FragmentStream) Steps() int {
	return s.steps
}

// pushChildren schedules the node's children in document order.
// The stack is LIFO, so they are pushed in reverse.
func (s *FragmentStream) pushChildren(node *vdom.VNode, path string) {
	for i := len(node.Children) - 1; i >= 0; i-- {
		child := node.Children[i]
		if child == nil {
			continue
		}
		s.stack = append(s.stack, workItem{
			node: child,
			path: fmt.Sprintf("%s/%s[%d]", path, nodeLabel(child), i),
		})
	}
}

// openElement renders an element's opening tag, assigning a region ID if
// the element is interactive.
func (s *FragmentStream) openElement(node *vdom.VNode) Fragment {
	var buf bytes.Buffer
	buf.WriteByte('<')
	buf.WriteString(node.Tag)

	writeAttributes(&buf, node)

	var regions []vdom.RegionDecl
	if kind, stateRef, ok := vdom.RegionInfo(node); ok {
		s.regions++
		id := fmt.Sprintf("b%d", s.regions)
		fmt.Fprintf(&buf, ` data-brook-id="%s"`, id)
		regions = append(regions, vdom.RegionDecl{ID: id, Kind: kind, StateRef: stateRef})
	}

	buf.WriteByte('>')
	return Fragment{Markup: buf.Bytes(), Regions: regions}
}

// writeAttributes renders an element's attributes in sorted key order so
// output is deterministic.
func writeAttributes(buf *bytes.Buffer, node *vdom.VNode) {
	if len(node.Props) == 0 {
		return
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		// Internal props never reach the markup.
		if strings.HasPrefix(key, "_") {
			continue
		}

		// Event handlers are announced via data-on-* markers below, not
		// rendered as attribute values.
		if strings.HasPrefix(key, "on") && isEventHandler(value) {
			continue
		}

		switch key {
		case "className":
			key = "class"
		case "htmlFor":
			key = "for"
		}

		if isBooleanAttr(key) {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					buf.WriteByte(' ')
					buf.WriteString(key)
				}
				continue
			}
		}

		if strValue := attrToString(value); strValue != "" {
			fmt.Fprintf(buf, ` %s="%s"`, key, escapeAttr(strValue))
		}
	}

	// Event marker attributes for client-side binding.
	for _, key := range keys {
		if strings.HasPrefix(key, "on") && isEventHandler(node.Props[key]) {
			fmt.Fprintf(buf, ` data-on-%s="true"`, strings.ToLower(key[2:]))
		}
	}
}

// isEventHandler returns true if the value looks like an event handler.
func isEventHandler(value any) bool {
	if value == nil {
		return false
	}
	switch value.(type) {
	case func():
		return true
	case func(any):
		return true
	default:
		return strings.HasPrefix(fmt.Sprintf("%T", value), "func")
	}
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// nodeLabel names a node for error paths.
func nodeLabel(node *vdom.VNode) string {
	switch node.Kind {
	case vdom.KindElement:
		return node.Tag
	case vdom.KindText:
		return "text"
	case vdom.KindFragment:
		return "fragment"
	case vdom.KindComponent:
		return "component"
	case vdom.KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", node.Kind)
	}
}
