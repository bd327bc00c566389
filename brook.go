// Package brook renders declarative component trees into streamed,
// hydration-ready HTML.
//
// The core is a three-stage pipeline: a lazy markup producer
// (pkg/render), a chunk scheduler with size-or-time flushing and real
// backpressure (pkg/stream), and a hydration coordinator that appends a
// deterministic manifest of interactive regions (pkg/hydrate). This
// package ties the stages together behind three entry points:
//
//	chunks := brook.RenderStream(ctx, tree, rc)        // pull chunks
//	err := brook.RenderPage(ctx, w, tree, rc)          // drain to a writer
//	html, err := brook.RenderToString(tree)            // body markup only
//
// HTTP serving, metrics, and tracing live in pkg/server and
// pkg/middleware.
package brook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/stream"
	"github.com/brook-ui/brook/pkg/vdom"
)

// Context is the per-request render context: SEO metadata, initial client
// state, and the hydration switch.
type Context = render.Context

// PageMeta describes the document head.
type PageMeta = render.PageMeta

// Option adjusts scheduling for one render call.
type Option func(*stream.Config)

// WithTargetChunkBytes sets the Body chunk size bound.
func WithTargetChunkBytes(n int) Option {
	return func(c *stream.Config) { c.TargetChunkBytes = n }
}

// WithMaxLatency bounds how long buffered markup may wait before being
// flushed below the size target. Negative disables the timer.
func WithMaxLatency(d time.Duration) Option {
	return func(c *stream.Config) { c.MaxLatency = d }
}

// RenderStream renders the tree as an ordered chunk sequence. The caller
// pulls chunks via Next and must either drain the stream or Close it.
func RenderStream(ctx context.Context, tree *vdom.VNode, rc Context, opts ...Option) *stream.ChunkStream {
	var cfg stream.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return stream.New(cfg).Stream(ctx, tree, rc)
}

// RenderPage streams a complete document into w, flushing after every
// chunk when w implements http.Flusher. It returns the stream's terminal
// error; on mid-stream failure the partial output already written must be
// treated as an incomplete response.
func RenderPage(ctx context.Context, w io.Writer, tree *vdom.VNode, rc Context, opts ...Option) error {
	flusher, _ := w.(http.Flusher)

	chunks := RenderStream(ctx, tree, rc, opts...)
	defer chunks.Close()

	for {
		chunk, err := chunks.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk.Payload); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// RenderToString renders the tree's body markup to a string: the
// degenerate non-streaming path, equal to the concatenation of the Body
// chunks RenderStream would produce.
func RenderToString(tree *vdom.VNode) (string, error) {
	return render.RenderToString(tree)
}
