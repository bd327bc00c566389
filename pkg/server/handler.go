package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brook-ui/brook/pkg/render"
	"github.com/brook-ui/brook/pkg/stream"
	"github.com/brook-ui/brook/pkg/vdom"
)

// PageFunc builds the render tree and context for one request. Returning
// an error produces a 500 error page; no partial output is written.
type PageFunc func(r *http.Request) (*vdom.VNode, render.Context, error)

// Page registers a streamed page handler for GET requests on pattern.
func (s *Server) Page(pattern string, page PageFunc) {
	s.router.Get(pattern, s.servePage(page))
}

func (s *Server) servePage(page PageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		tree, rc, err := page(r)
		if err != nil {
			s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("page func failed")
			s.metrics.renders.WithLabelValues("error").Inc()
			s.errorPage(w, http.StatusInternalServerError)
			return
		}
		if rc.EnableHydration && rc.ClientScript == "" {
			rc.ClientScript = s.config.ClientScript
		}

		chunks := s.scheduler.Stream(r.Context(), tree, rc)
		defer chunks.Close()

		// Pull the first chunk before committing the response: failures
		// that precede the Header chunk (serialization) can still fall
		// back to an error page instead of a half-written document.
		first, err := chunks.Next(r.Context())
		if err != nil {
			s.finishErr(w, r, err, false)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)

		if !s.writeChunk(w, flusher, first) {
			s.metrics.renders.WithLabelValues("canceled").Inc()
			return
		}

		for {
			chunk, err := chunks.Next(r.Context())
			if errors.Is(err, io.EOF) {
				s.metrics.renders.WithLabelValues("ok").Inc()
				s.metrics.duration.Observe(time.Since(start).Seconds())
				return
			}
			if err != nil {
				s.finishErr(w, r, err, true)
				return
			}
			if !s.writeChunk(w, flusher, chunk) {
				s.metrics.renders.WithLabelValues("canceled").Inc()
				return
			}
		}
	}
}

// writeChunk writes one chunk and flushes. A write error means the client
// is gone; the pipeline is torn down by the deferred Close.
func (s *Server) writeChunk(w http.ResponseWriter, flusher http.Flusher, chunk stream.Chunk) bool {
	if _, err := w.Write(chunk.Payload); err != nil {
		return false
	}
	s.metrics.chunks.WithLabelValues(chunk.Kind.String()).Inc()
	s.metrics.bytes.Add(float64(len(chunk.Payload)))
	if flusher != nil {
		flusher.Flush()
	}
	return true
}

// finishErr handles a terminal stream error. If the response is already
// committed, the connection is aborted so the client never mistakes the
// partial document for a complete one.
func (s *Server) finishErr(w http.ResponseWriter, r *http.Request, err error, committed bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, stream.ErrClosed) {
		s.logger.Debug().Str("path", r.URL.Path).Msg("render canceled by client")
		s.metrics.renders.WithLabelValues("canceled").Inc()
		return
	}

	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	s.metrics.renders.WithLabelValues("error").Inc()

	if !committed {
		s.errorPage(w, http.StatusInternalServerError)
		return
	}
	panic(http.ErrAbortHandler)
}

// errorPage writes a minimal self-contained error document.
func (s *Server) errorPage(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>\n",
		status, http.StatusText(status), status, http.StatusText(status))
}
