package export

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/stream"
	"github.com/brook-ui/brook/pkg/vdom"
)

// Publisher stores fully-rendered pages for CDN delivery.
type Publisher interface {
	Publish(ctx context.Context, key string, html []byte) error
}

// Snapshot renders a complete document (header, body, manifest, footer)
// to bytes by draining one chunk stream. Manifests are deterministic per
// render, so a snapshot is a coherent, cacheable page; region IDs are
// never shared across renders.
func Snapshot(ctx context.Context, tree *vdom.VNode, rc render.Context) ([]byte, error) {
	chunks := stream.New(stream.Config{}).Stream(ctx, tree, rc)
	defer chunks.Close()

	var buf bytes.Buffer
	for {
		chunk, err := chunks.Next(ctx)
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		buf.Write(chunk.Payload)
	}
}

// PublishPage snapshots a page and hands it to the publisher.
func PublishPage(ctx context.Context, pub Publisher, key string, tree *vdom.VNode, rc render.Context) error {
	html, err := Snapshot(ctx, tree, rc)
	if err != nil {
		return err
	}
	return pub.Publish(ctx, key, html)
}
