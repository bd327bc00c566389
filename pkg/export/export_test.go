package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/vdom"
)

type fakePublisher struct {
	keys  []string
	pages map[string][]byte
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, html []byte) error {
	if p.err != nil {
		return p.err
	}
	if p.pages == nil {
		p.pages = make(map[string][]byte)
	}
	p.keys = append(p.keys, key)
	p.pages[key] = html
	return nil
}

func TestSnapshot(t *testing.T) {
	tree := vdom.Div(
		vdom.H1(vdom.Text("Static")),
		vdom.Button(vdom.Region("counter", "count"), vdom.Text("+1")),
	)
	rc := render.Context{
		Meta:            render.PageMeta{Title: "Static page"},
		InitialState:    map[string]any{"count": 0},
		EnableHydration: true,
	}

	html, err := Snapshot(context.Background(), tree, rc)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	out := string(html)

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Static page</title>",
		"<h1>Static</h1>",
		`data-brook-id="b1"`,
		`id="__brook_state__"`,
		"</html>\n",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}
}

func TestSnapshotRepeatable(t *testing.T) {
	tree := vdom.Div(vdom.Button(vdom.Region("counter", "n"), vdom.Text("go")))
	rc := render.Context{EnableHydration: true, InitialState: map[string]any{"n": 3}}

	first, err := Snapshot(context.Background(), tree, rc)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	second, err := Snapshot(context.Background(), tree, rc)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("same tree and state snapshot differently")
	}
}

func TestSnapshotRenderError(t *testing.T) {
	bad := vdom.Div(&vdom.VNode{Kind: vdom.Kind(9)})
	if _, err := Snapshot(context.Background(), bad, render.Context{}); err == nil {
		t.Fatal("Snapshot() succeeded on an unrenderable tree")
	}
}

func TestPublishPage(t *testing.T) {
	pub := &fakePublisher{}
	tree := vdom.P(vdom.Text("hello"))

	err := PublishPage(context.Background(), pub, "/about", tree, render.Context{})
	if err != nil {
		t.Fatalf("PublishPage() error: %v", err)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "/about" {
		t.Fatalf("published keys = %v", pub.keys)
	}
	if !strings.Contains(string(pub.pages["/about"]), "<p>hello</p>") {
		t.Errorf("published page = %q", pub.pages["/about"])
	}
}

func TestPublishPageError(t *testing.T) {
	boom := errors.New("bucket gone")
	pub := &fakePublisher{err: boom}

	err := PublishPage(context.Background(), pub, "/", vdom.Div(), render.Context{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestS3ObjectKey(t *testing.T) {
	p := &S3Publisher{prefix: "site"}
	tests := []struct {
		key  string
		want string
	}{
		{"/", "site/index.html"},
		{"/about", "site/about.html"},
		{"/docs/intro.html", "site/docs/intro.html"},
	}
	for _, tt := range tests {
		if got := p.objectKey(tt.key); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
