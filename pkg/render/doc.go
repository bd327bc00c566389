// Package render is the markup producer: it converts vdom trees into a
// lazy, forward-only sequence of HTML fragments.
//
// The central type is FragmentStream. Each Next call performs exactly one
// render step, so the walk never runs ahead of its consumer - the property
// the chunk scheduler relies on for backpressure and cancellation:
//
//	stream := render.NewFragmentStream(tree)
//	for {
//	    frag, err := stream.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// Interactive elements receive region IDs in emission order and are
// reported as vdom.RegionDecl values on the fragment carrying their
// opening tag.
//
// All text content is escaped; attribute values use the stricter attribute
// escaping rules. Raw nodes bypass escaping and must only carry trusted
// content.
//
// The package also renders the non-body document structure (head from
// PageMeta, closing footer) used for the Header and Footer chunks, and
// offers RenderToString as the degenerate non-streaming path.
package render
