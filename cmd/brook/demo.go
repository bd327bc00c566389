package main

import (
	"encoding/json"
	"net/http"

	"github.com/brook-ui/brook/internal/config"
	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/vdom"
)

// demoPage builds the showcase page the CLI serves and exports. It is
// deliberately long-bodied so chunked delivery is visible, and carries one
// interactive region so hydration can be inspected.
func demoPage(cfg *config.Config) func(r *http.Request) (*vdom.VNode, render.Context, error) {
	return func(r *http.Request) (*vdom.VNode, render.Context, error) {
		tree := vdom.Main(
			vdom.Class("demo"),
			vdom.Header(
				vdom.H1(vdom.Text("Brook streaming demo")),
				vdom.Nav(
					vdom.A(vdom.Href("/"), vdom.Text("Home")),
					vdom.A(vdom.Href("/metrics"), vdom.Text("Metrics")),
				),
			),
			vdom.Section(
				vdom.Class("counter"),
				vdom.H2(vdom.Text("Hydrated counter")),
				vdom.Button(
					vdom.Region("counter", "counter"),
					vdom.OnClick(func() {}),
					vdom.Text("+1"),
				),
			),
			vdom.Section(
				vdom.Class("prose"),
				vdom.Map(make([]int, 64), func(int) *vdom.VNode {
					return vdom.P(vdom.Text("Streets flooded with light, the river kept its own counsel. " +
						"Every paragraph here exists so the page outgrows a single chunk " +
						"and the browser paints while the server is still rendering."))
				}),
			),
		)

		rc := render.Context{
			Meta: render.PageMeta{
				Title:       "Brook demo",
				Description: "Streaming SSR with hydration handoff",
				Keywords:    []string{"go", "ssr", "streaming"},
				Robots:      "index,follow",
				Canonical:   "https://example.com/",
				OpenGraph: map[string]string{
					"title": "Brook demo",
					"type":  "website",
				},
				TwitterCard:    map[string]string{"card": "summary"},
				StructuredData: json.RawMessage(`{"@context":"https://schema.org","@type":"WebPage","name":"Brook demo"}`),
			},
			InitialState:    map[string]any{"counter": 0},
			EnableHydration: cfg.Render.Hydration,
			ClientScript:    cfg.Render.ClientScript,
		}
		return tree, rc, nil
	}
}
