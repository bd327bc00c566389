package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/vdom"
)

// collect drains a stream to completion and returns its chunks.
func collect(t *testing.T, cs *ChunkStream) []Chunk {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var chunks []Chunk
	for {
		chunk, err := cs.Next(ctx)
		if errors.Is(err, io.EOF) {
			return chunks
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		chunks = append(chunks, chunk)
	}
}

// kinds extracts the chunk kind sequence.
func kinds(chunks []Chunk) []ChunkKind {
	out := make([]ChunkKind, len(chunks))
	for i, c := range chunks {
		out[i] = c.Kind
	}
	return out
}

// bodyBytes concatenates the Body chunk payloads.
func bodyBytes(chunks []Chunk) []byte {
	var buf bytes.Buffer
	for _, c := range chunks {
		if c.Kind == ChunkBody {
			buf.Write(c.Payload)
		}
	}
	return buf.Bytes()
}

// stubSource yields pre-cooked fragments, then a terminal error.
type stubSource struct {
	frags    []render.Fragment
	terminal error
	calls    atomic.Int64
}

func (s *stubSource) Next() (render.Fragment, error) {
	n := s.calls.Add(1)
	if int(n) <= len(s.frags) {
		return s.frags[n-1], nil
	}
	if s.terminal != nil {
		return render.Fragment{}, s.terminal
	}
	return render.Fragment{}, io.EOF
}

func fragsOfSize(count, size int) []render.Fragment {
	frags := make([]render.Fragment, count)
	for i := range frags {
		frags[i] = render.Fragment{Markup: bytes.Repeat([]byte{'x'}, size)}
	}
	return frags
}

func TestStreamChunkOrder(t *testing.T) {
	tree := vdom.Div(
		vdom.Button(vdom.Region("counter", "count"), vdom.Text("+1")),
		vdom.P(vdom.Text("hello")),
	)
	rc := render.Context{
		Meta:            render.PageMeta{Title: "t"},
		InitialState:    map[string]any{"count": 0},
		EnableHydration: true,
	}

	chunks := collect(t, New(Config{MaxLatency: -1}).Stream(context.Background(), tree, rc))

	got := kinds(chunks)
	want := []ChunkKind{ChunkHeader, ChunkBody, ChunkManifest, ChunkFooter}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}

	for i, c := range chunks {
		if c.Seq != uint64(i+1) {
			t.Errorf("chunk[%d].Seq = %d, want %d", i, c.Seq, i+1)
		}
	}

	if !bytes.HasPrefix(chunks[0].Payload, []byte("<!DOCTYPE html>")) {
		t.Errorf("header payload = %q", chunks[0].Payload)
	}
	if !bytes.HasSuffix(chunks[len(chunks)-1].Payload, []byte("</html>\n")) {
		t.Errorf("footer payload = %q", chunks[len(chunks)-1].Payload)
	}
}

func TestStreamBodyChunkSizing(t *testing.T) {
	// 10000 bytes of markup against a 4096 target: two full chunks and a
	// 1808-byte remainder.
	source := &stubSource{frags: fragsOfSize(10, 1000)}
	sched := New(Config{TargetChunkBytes: 4096, MaxLatency: -1})
	chunks := collect(t, sched.StreamFrom(context.Background(), source, render.Context{}))

	var sizes []int
	for _, c := range chunks {
		if c.Kind == ChunkBody {
			sizes = append(sizes, len(c.Payload))
		}
	}
	want := []int{4096, 4096, 1808}
	if len(sizes) != len(want) {
		t.Fatalf("body sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("body sizes = %v, want %v", sizes, want)
		}
	}
}

func TestStreamNoManifestWithoutHydration(t *testing.T) {
	tree := vdom.Button(vdom.Region("counter", "count"), vdom.Text("+1"))
	chunks := collect(t, New(Config{MaxLatency: -1}).Stream(context.Background(), tree, render.Context{}))

	for _, c := range chunks {
		if c.Kind == ChunkManifest {
			t.Fatal("manifest emitted with hydration disabled")
		}
	}
}

func TestStreamManifestReferencesEmittedRegions(t *testing.T) {
	tree := vdom.Div(
		vdom.Button(vdom.Region("counter", "count"), vdom.Text("+1")),
		vdom.Input(vdom.OnInput(func(any) {})),
	)
	rc := render.Context{EnableHydration: true, InitialState: map[string]any{"count": 1}}
	chunks := collect(t, New(Config{MaxLatency: -1}).Stream(context.Background(), tree, rc))

	var manifest []byte
	var sawBodyBefore bool
	body := bodyBytes(chunks)
	for _, c := range chunks {
		switch c.Kind {
		case ChunkBody:
			if manifest != nil {
				t.Fatal("body chunk after manifest")
			}
			sawBodyBefore = true
		case ChunkManifest:
			manifest = c.Payload
		}
	}
	if manifest == nil || !sawBodyBefore {
		t.Fatalf("kinds = %v, want body then manifest", kinds(chunks))
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(string(manifest),
		`<script type="application/json" id="__brook_state__">`), "</script>\n")
	var payload struct {
		Manifest struct {
			Regions []vdom.RegionDecl `json:"regions"`
		} `json:"manifest"`
	}
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		t.Fatalf("manifest payload: %v", err)
	}
	if len(payload.Manifest.Regions) != 2 {
		t.Fatalf("regions = %+v, want 2", payload.Manifest.Regions)
	}
	// Every region ID refers to markup already delivered in a Body chunk.
	for _, r := range payload.Manifest.Regions {
		if !bytes.Contains(body, []byte(`data-brook-id="`+r.ID+`"`)) {
			t.Errorf("region %s not present in body markup", r.ID)
		}
	}
}

func TestStreamProducerError(t *testing.T) {
	boom := errors.New("fragment 5 failed")
	source := &stubSource{frags: fragsOfSize(4, 100), terminal: boom}
	cs := New(Config{MaxLatency: -1}).StreamFrom(context.Background(), source, render.Context{})

	ctx := context.Background()
	var sawFooter bool
	var finalErr error
	for {
		chunk, err := cs.Next(ctx)
		if err != nil {
			finalErr = err
			break
		}
		if chunk.Kind == ChunkFooter {
			sawFooter = true
		}
	}

	if !errors.Is(finalErr, boom) {
		t.Fatalf("terminal error = %v, want %v", finalErr, boom)
	}
	if sawFooter {
		t.Error("footer emitted after producer failure")
	}
	if cs.State() != StateAborted {
		t.Errorf("State() = %v, want Aborted", cs.State())
	}
	if !errors.Is(cs.Err(), boom) {
		t.Errorf("Err() = %v, want %v", cs.Err(), boom)
	}
}

func TestStreamSerializationErrorBeforeHeader(t *testing.T) {
	rc := render.Context{
		EnableHydration: true,
		InitialState:    map[string]any{"bad": func() {}},
	}
	cs := New(Config{}).Stream(context.Background(), vdom.Div(), rc)

	_, err := cs.Next(context.Background())
	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("Next() error = %v, want *SerializationError", err)
	}
	if serr.What != "initial state" {
		t.Errorf("What = %q", serr.What)
	}
	if cs.State() != StateAborted {
		t.Errorf("State() = %v, want Aborted", cs.State())
	}
}

func TestStreamInvalidStructuredData(t *testing.T) {
	rc := render.Context{Meta: render.PageMeta{StructuredData: json.RawMessage("{not json")}}
	cs := New(Config{}).Stream(context.Background(), vdom.Div(), rc)

	_, err := cs.Next(context.Background())
	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("Next() error = %v, want *SerializationError", err)
	}
	if serr.What != "structured data" {
		t.Errorf("What = %q", serr.What)
	}
}

func TestStreamClose(t *testing.T) {
	children := make([]*vdom.VNode, 500)
	for i := range children {
		children[i] = vdom.Li(vdom.Text("row"))
	}
	cs := New(Config{TargetChunkBytes: 32, MaxLatency: -1}).
		Stream(context.Background(), vdom.Ul(children), render.Context{})

	ctx := context.Background()
	if _, err := cs.Next(ctx); err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	cs.Close()

	// Buffered chunks may still drain; the terminal error must be ErrClosed.
	var err error
	for err == nil {
		_, err = cs.Next(ctx)
	}
	if !errors.Is(err, ErrClosed) {
		t.Errorf("terminal error = %v, want ErrClosed", err)
	}
	if cs.State() != StateAborted {
		t.Errorf("State() = %v, want Aborted", cs.State())
	}

	// Close again is a no-op.
	cs.Close()
}

func TestStreamCancellationBoundsProduction(t *testing.T) {
	// One fragment per chunk: each source call maps to one chunk, so the
	// production overrun after the consumer stops is the channel capacities.
	const target = 64
	source := &stubSource{frags: fragsOfSize(1000, target)}
	ctx, cancel := context.WithCancel(context.Background())
	cs := New(Config{TargetChunkBytes: target, MaxLatency: -1, Buffer: 2}).
		StreamFrom(ctx, source, render.Context{})

	for i := 0; i < 3; i++ {
		if _, err := cs.Next(ctx); err != nil {
			t.Fatalf("Next() #%d error: %v", i, err)
		}
	}
	cancel()
	time.Sleep(50 * time.Millisecond)

	calls := source.calls.Load()
	if calls >= 1000 {
		t.Fatalf("source driven to exhaustion (%d calls) despite cancellation", calls)
	}
	if calls > 10 {
		t.Errorf("source calls = %d, want bounded lookahead", calls)
	}

	// Teardown is settled: no further production.
	time.Sleep(50 * time.Millisecond)
	if later := source.calls.Load(); later != calls {
		t.Errorf("source still running after cancellation: %d -> %d", calls, later)
	}
}

// slowSource emits one small fragment, then stalls until released.
type slowSource struct {
	sent    bool
	release chan struct{}
}

func (s *slowSource) Next() (render.Fragment, error) {
	if !s.sent {
		s.sent = true
		return render.Fragment{Markup: []byte("<p>first</p>")}, nil
	}
	<-s.release
	return render.Fragment{}, io.EOF
}

func TestStreamMaxLatencyFlush(t *testing.T) {
	source := &slowSource{release: make(chan struct{})}
	sched := New(Config{TargetChunkBytes: 4096, MaxLatency: 20 * time.Millisecond})
	cs := sched.StreamFrom(context.Background(), source, render.Context{})

	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCtx()

	header, err := cs.Next(ctx)
	if err != nil || header.Kind != ChunkHeader {
		t.Fatalf("first chunk = %v, %v", header.Kind, err)
	}

	// The buffered fragment is far below the size target; only the latency
	// timer can flush it while the producer is stalled.
	start := time.Now()
	body, err := cs.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if body.Kind != ChunkBody || string(body.Payload) != "<p>first</p>" {
		t.Fatalf("chunk = %v %q", body.Kind, body.Payload)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timer flush took %v", elapsed)
	}

	close(source.release)
	footer, err := cs.Next(ctx)
	if err != nil || footer.Kind != ChunkFooter {
		t.Fatalf("final chunk = %v, %v", footer.Kind, err)
	}
}

func TestStreamStateLifecycle(t *testing.T) {
	tree := vdom.P(vdom.Text("x"))
	rc := render.Context{EnableHydration: true}
	cs := New(Config{MaxLatency: -1}).Stream(context.Background(), tree, rc)

	collect(t, cs)
	if cs.State() != StateClosed {
		t.Errorf("State() after drain = %v, want Closed", cs.State())
	}
	if cs.Err() != nil {
		t.Errorf("Err() after success = %v, want nil", cs.Err())
	}
	// Close after completion stays Closed.
	cs.Close()
	if cs.State() != StateClosed {
		t.Errorf("State() after Close = %v, want Closed", cs.State())
	}
}

func TestStreamProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("body chunks reproduce the string render", prop.ForAll(
		func(paras []string, target int) bool {
			items := make([]*vdom.VNode, len(paras))
			for i, p := range paras {
				items[i] = vdom.P(vdom.Text(p))
			}
			tree := vdom.Div(items)

			want, err := render.RenderToString(tree)
			if err != nil {
				return false
			}

			sched := New(Config{TargetChunkBytes: target, MaxLatency: -1})
			cs := sched.Stream(context.Background(), tree, render.Context{})
			var body bytes.Buffer
			for {
				chunk, err := cs.Next(context.Background())
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return false
				}
				if chunk.Kind == ChunkBody {
					body.Write(chunk.Payload)
				}
			}
			return body.String() == want
		},
		gen.SliceOf(gen.AnyString()),
		gen.IntRange(1, 8192),
	))

	properties.Property("no body chunk exceeds the size target", prop.ForAll(
		func(sizes []int, target int) bool {
			var frags []render.Fragment
			for _, n := range sizes {
				frags = append(frags, render.Fragment{Markup: bytes.Repeat([]byte{'x'}, n)})
			}
			source := &stubSource{frags: frags}

			sched := New(Config{TargetChunkBytes: target, MaxLatency: -1})
			cs := sched.StreamFrom(context.Background(), source, render.Context{})
			for {
				chunk, err := cs.Next(context.Background())
				if errors.Is(err, io.EOF) {
					return true
				}
				if err != nil {
					return false
				}
				if chunk.Kind == ChunkBody && len(chunk.Payload) > target {
					return false
				}
			}
		},
		gen.SliceOf(gen.IntRange(0, 2000)),
		gen.IntRange(1, 4096),
	))

	properties.TestingRun(t)
}
