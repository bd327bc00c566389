package render

import (
	"bytes"
	"errors"
	"io"

	"github.com/brook-ui/brook/pkg/vdom"
)

// RenderTo renders a tree's body markup to the given writer by draining a
// fragment stream. It is the degenerate, non-streaming path: no chunking,
// no head or footer, no hydration manifest.
func RenderTo(w io.Writer, tree *vdom.VNode) error {
	stream := NewFragmentStream(tree)
	for {
		frag, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(frag.Markup); err != nil {
			return err
		}
	}
}

// RenderToString renders a tree's body markup to a string.
func RenderToString(tree *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := RenderTo(&buf, tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}
