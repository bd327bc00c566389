package stream

// ChunkKind identifies a chunk's role in the output document.
type ChunkKind uint8

const (
	// ChunkHeader carries the doctype, html element, full head, and the
	// opening body tag. Exactly one per stream, always first.
	ChunkHeader ChunkKind = iota

	// ChunkBody carries body markup. Zero or more per stream, in document
	// order.
	ChunkBody

	// ChunkManifest carries the hydration manifest script. At most one per
	// stream, after all body chunks.
	ChunkManifest

	// ChunkFooter closes the document. Exactly one per successful stream,
	// always last.
	ChunkFooter
)

// String returns the string representation of the ChunkKind.
func (k ChunkKind) String() string {
	switch k {
	case ChunkHeader:
		return "Header"
	case ChunkBody:
		return "Body"
	case ChunkManifest:
		return "Manifest"
	case ChunkFooter:
		return "Footer"
	default:
		return "Unknown"
	}
}

// Chunk is one unit of streamed output. Chunks are produced in strict
// sequence order; concatenating payloads by Seq reproduces the document.
type Chunk struct {
	// Seq increases monotonically from 1 within one stream.
	Seq uint64

	// Kind is the chunk's role.
	Kind ChunkKind

	// Payload is the markup bytes.
	Payload []byte
}

// State is the lifecycle phase of a chunk stream.
type State uint8

const (
	StateIdle State = iota
	StateHeaderEmitted
	StateBodyStreaming
	StateManifestEmitted
	StateFooterEmitted
	StateClosed
	StateAborted
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateHeaderEmitted:
		return "HeaderEmitted"
	case StateBodyStreaming:
		return "BodyStreaming"
	case StateManifestEmitted:
		return "ManifestEmitted"
	case StateFooterEmitted:
		return "FooterEmitted"
	case StateClosed:
		return "Closed"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}
