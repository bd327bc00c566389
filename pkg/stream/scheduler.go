package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/brook-ui/brook/pkg/hydrate"
	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/vdom"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultTargetChunkBytes = 4096
	DefaultMaxLatency       = 50 * time.Millisecond
	DefaultBuffer           = 2
)

// Config controls chunking. It is read-only shared state: one Config may
// serve any number of concurrent streams.
type Config struct {
	// TargetChunkBytes is the Body chunk size bound. Every Body chunk is
	// at most this many bytes; all but the last are flushed at exactly
	// this size when enough markup is buffered. Default 4096.
	TargetChunkBytes int

	// MaxLatency bounds how long buffered markup may wait below
	// TargetChunkBytes before being flushed anyway. Zero uses the
	// default; negative disables the timer (size-only flushing).
	MaxLatency time.Duration

	// Buffer is the chunk channel capacity: how many chunks may be
	// produced ahead of the consumer's pull. Default 2.
	Buffer int
}

func (c Config) withDefaults() Config {
	if c.TargetChunkBytes <= 0 {
		c.TargetChunkBytes = DefaultTargetChunkBytes
	}
	if c.MaxLatency == 0 {
		c.MaxLatency = DefaultMaxLatency
	}
	if c.Buffer <= 0 {
		c.Buffer = DefaultBuffer
	}
	return c
}

// Scheduler slices a fragment sequence into ordered, bounded-size chunks.
type Scheduler struct {
	config Config
}

// New creates a Scheduler, filling config defaults.
func New(config Config) *Scheduler {
	return &Scheduler{config: config.withDefaults()}
}

// Stream renders the tree as a chunk sequence. The returned ChunkStream is
// consumed by exactly one reader via Next. Cancelling ctx or calling Close
// tears the pipeline down promptly: no fragments beyond the bounded
// lookahead are computed once the consumer stops pulling.
func (s *Scheduler) Stream(ctx context.Context, tree *vdom.VNode, rc render.Context) *ChunkStream {
	return s.StreamFrom(ctx, render.NewFragmentStream(tree), rc)
}

// StreamFrom is Stream with a caller-supplied fragment source.
func (s *Scheduler) StreamFrom(ctx context.Context, source render.FragmentSource, rc render.Context) *ChunkStream {
	pctx, cancel := context.WithCancel(ctx)
	cs := &ChunkStream{
		chunks: make(chan Chunk, s.config.Buffer),
		cancel: cancel,
		state:  StateIdle,
	}

	// Serialization failures must surface before the Header chunk so the
	// caller can still produce an error page.
	if err := validate(rc); err != nil {
		cs.abort(err)
		cs.closeChunks()
		return cs
	}

	frags := make(chan fragItem, 1)
	go pump(pctx, source, frags)
	go s.run(pctx, cs, frags, rc)
	return cs
}

// validate rejects render context input that cannot be serialized.
func validate(rc render.Context) error {
	if len(rc.Meta.StructuredData) > 0 && !json.Valid(rc.Meta.StructuredData) {
		return &SerializationError{What: "structured data"}
	}
	if rc.InitialState != nil {
		if _, err := json.Marshal(rc.InitialState); err != nil {
			return &SerializationError{What: "initial state", Err: err}
		}
	}
	return nil
}

// fragItem carries one fragment or the terminal error of the source.
type fragItem struct {
	frag render.Fragment
	err  error
}

// pump drives the fragment source. The channel has capacity one, so the
// producer computes at most one fragment beyond what the scheduler has
// accepted; if the consumer stops pulling, production suspends here.
func pump(ctx context.Context, source render.FragmentSource, frags chan<- fragItem) {
	defer close(frags)
	for {
		frag, err := source.Next()
		select {
		case frags <- fragItem{frag: frag, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// run is the single-threaded scheduling stage: it buffers fragment text,
// flushes on size or time, and brackets the body with header, manifest,
// and footer chunks.
func (s *Scheduler) run(ctx context.Context, cs *ChunkStream, frags <-chan fragItem, rc render.Context) {
	defer cs.finish()

	var head bytes.Buffer
	if err := render.WriteDocumentOpen(&head, rc.Meta); err != nil {
		cs.abort(err)
		return
	}
	if !cs.emit(ctx, ChunkHeader, head.Bytes()) {
		return
	}
	cs.setState(StateHeaderEmitted)

	var (
		buf     bytes.Buffer
		regions []vdom.RegionDecl
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	if s.config.MaxLatency > 0 {
		timer = time.NewTimer(s.config.MaxLatency)
		defer timer.Stop()
		timerC = timer.C
	}
	resetTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.config.MaxLatency)
	}

loop:
	for {
		select {
		case item, ok := <-frags:
			if !ok {
				// Pump exited on cancellation.
				cs.abort(ctx.Err())
				return
			}
			if item.err != nil {
				if errors.Is(item.err, io.EOF) {
					break loop
				}
				// Producer failure: stop emitting, drop buffered markup,
				// signal the terminal error. No Footer follows.
				cs.abort(item.err)
				return
			}
			buf.Write(item.frag.Markup)
			regions = append(regions, item.frag.Regions...)
			for buf.Len() >= s.config.TargetChunkBytes {
				payload := make([]byte, s.config.TargetChunkBytes)
				buf.Read(payload)
				if !cs.emit(ctx, ChunkBody, payload) {
					return
				}
				resetTimer()
			}

		case <-timerC:
			if buf.Len() > 0 {
				payload := append([]byte(nil), buf.Bytes()...)
				buf.Reset()
				if !cs.emit(ctx, ChunkBody, payload) {
					return
				}
			}
			timer.Reset(s.config.MaxLatency)

		case <-ctx.Done():
			cs.abort(ctx.Err())
			return
		}
	}

	if buf.Len() > 0 {
		if !cs.emit(ctx, ChunkBody, append([]byte(nil), buf.Bytes()...)) {
			return
		}
	}

	if rc.EnableHydration {
		tag, err := hydrate.ScriptTag(hydrate.BuildManifest(regions), rc.InitialState)
		if err != nil {
			cs.abort(&SerializationError{What: "initial state", Err: err})
			return
		}
		if !cs.emit(ctx, ChunkManifest, tag) {
			return
		}
		cs.setState(StateManifestEmitted)
	}

	var foot bytes.Buffer
	if err := render.WriteDocumentClose(&foot, rc.ClientScript); err != nil {
		cs.abort(err)
		return
	}
	if !cs.emit(ctx, ChunkFooter, foot.Bytes()) {
		return
	}
	cs.setState(StateFooterEmitted)
}

// ChunkStream is the consumer side of one render pipeline. It is used by
// exactly one reader.
type ChunkStream struct {
	chunks chan Chunk
	cancel context.CancelFunc
	seq    uint64

	closeOnce sync.Once

	mu    sync.Mutex
	state State
	err   error
}

// Next returns the next chunk in sequence. It returns io.EOF after the
// Footer chunk of a completed stream, the terminal error of an aborted
// stream, or ctx.Err() if the caller's context is cancelled first.
func (cs *ChunkStream) Next(ctx context.Context) (Chunk, error) {
	select {
	case chunk, ok := <-cs.chunks:
		if !ok {
			if err := cs.Err(); err != nil {
				return Chunk{}, err
			}
			return Chunk{}, io.EOF
		}
		return chunk, nil
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	}
}

// Close abandons the stream. The pipeline is torn down promptly: the
// producer is no longer driven and no further fragments are computed.
// Close is a no-op on a stream that already completed.
func (cs *ChunkStream) Close() {
	cs.mu.Lock()
	if cs.state != StateClosed && cs.err == nil {
		cs.err = ErrClosed
		cs.state = StateAborted
	}
	cs.mu.Unlock()
	cs.cancel()
}

// State returns the current lifecycle phase.
func (cs *ChunkStream) State() State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

// Err returns the terminal error, or nil while streaming or after success.
func (cs *ChunkStream) Err() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.err
}

// emit hands a chunk to the consumer, respecting its pull rate. It returns
// false if the pipeline was cancelled while waiting.
func (cs *ChunkStream) emit(ctx context.Context, kind ChunkKind, payload []byte) bool {
	cs.seq++
	chunk := Chunk{Seq: cs.seq, Kind: kind, Payload: payload}
	select {
	case cs.chunks <- chunk:
		if kind == ChunkBody {
			cs.setState(StateBodyStreaming)
		}
		return true
	case <-ctx.Done():
		cs.abort(ctx.Err())
		return false
	}
}

// setState advances the lifecycle. Aborted is terminal and never
// overwritten.
func (cs *ChunkStream) setState(state State) {
	cs.mu.Lock()
	if cs.state != StateAborted {
		cs.state = state
	}
	cs.mu.Unlock()
}

// abort records the terminal error and cancels the pipeline.
func (cs *ChunkStream) abort(err error) {
	cs.mu.Lock()
	if cs.err == nil {
		if err == nil {
			err = context.Canceled
		}
		cs.err = err
	}
	cs.state = StateAborted
	cs.mu.Unlock()
	cs.cancel()
}

// finish closes the chunk channel and settles the final state.
func (cs *ChunkStream) finish() {
	cs.mu.Lock()
	if cs.state == StateFooterEmitted {
		cs.state = StateClosed
	}
	cs.mu.Unlock()
	cs.closeChunks()
	cs.cancel()
}

func (cs *ChunkStream) closeChunks() {
	cs.closeOnce.Do(func() { close(cs.chunks) })
}
