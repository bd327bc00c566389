// Package vdom defines the render tree that Brook compiles into HTML.
//
// A tree is a closed set of node kinds (element, text, fragment, component,
// raw) built with constructor helpers:
//
//	vdom.Div(vdom.Class("card"),
//	    vdom.H1(vdom.Text("Hello")),
//	    vdom.Button(vdom.OnClick(increment), vdom.Text("+1")),
//	)
//
// Elements carrying event handlers or an explicit vdom.Region marker are
// interactive: the renderer assigns them hydration region IDs and reports
// them as RegionDecl values so a client runtime can re-attach behavior
// after streaming completes.
//
// Trees are request-scoped and immutable once handed to the renderer.
package vdom
