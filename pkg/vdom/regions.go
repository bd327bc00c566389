package vdom

// regionProp is the internal prop key carrying an explicit region marker.
const regionProp = "_region"

// RegionDecl describes one interactive region discovered while rendering.
// IDs are assigned by the renderer in document emission order ("b1", "b2",
// ...), so a declaration always refers to markup that precedes it in the
// output stream.
type RegionDecl struct {
	// ID is the stable per-render region identifier. It is written into
	// the markup as a data-brook-id attribute so the client runtime can
	// locate the DOM node.
	ID string `json:"id"`

	// Kind names the client-side behavior to attach. For elements marked
	// with Region it is the marker's kind; for elements that only carry
	// event handler props it defaults to the element tag.
	Kind string `json:"kind"`

	// StateRef is the initial-state key this region reads from, or empty
	// if the region is stateless.
	StateRef string `json:"stateRef,omitempty"`
}

// regionMarker is the value stored under regionProp.
type regionMarker struct {
	kind     string
	stateRef string
}

// Region marks an element as an interactive region with an explicit
// component kind and initial-state reference. The renderer assigns the
// region its ID.
func Region(kind, stateRef string) Attr {
	return Attr{Key: regionProp, Value: regionMarker{kind: kind, stateRef: stateRef}}
}

// RegionInfo extracts the region kind and state reference for a node.
// The second return is false if the node is not interactive.
func RegionInfo(v *VNode) (kind, stateRef string, ok bool) {
	if !v.IsInteractive() {
		return "", "", false
	}
	if m, found := v.Props[regionProp].(regionMarker); found {
		return m.kind, m.stateRef, true
	}
	return v.Tag, "", true
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(node *VNode) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsInteractive() {
		count = 1
	}
	for _, child := range node.Children {
		count += CountInteractive(child)
	}
	return count
}
