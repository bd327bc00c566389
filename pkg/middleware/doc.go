// Package middleware provides standard net/http middleware for Brook page
// servers: Prometheus metrics and OpenTelemetry tracing. Both compose with
// any router that accepts func(http.Handler) http.Handler.
package middleware
