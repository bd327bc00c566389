// Package stream is the chunk scheduler: it slices a fragment sequence
// into an ordered sequence of bounded-size chunks suitable for an HTTP
// response, interleaved with the document header, the hydration manifest,
// and the footer.
//
// One render is one pipeline: a pump goroutine drives the markup producer
// through a one-fragment channel, and a scheduling goroutine buffers text
// and flushes Body chunks when the buffer reaches Config.TargetChunkBytes
// or Config.MaxLatency elapses, whichever comes first. The chunk channel
// is small and bounded, so a consumer that stops pulling suspends the
// whole pipeline instead of growing memory, and a consumer that
// disconnects tears it down promptly.
//
// Chunk order is fixed: Header, Body..., optional Manifest, Footer. A
// stream that did not reach its Footer always ends with a non-nil error
// from Next; partial output is never silently truncated.
package stream
