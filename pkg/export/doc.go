// Package export snapshots fully-rendered pages and publishes them to
// static storage (S3) for CDN-cached delivery. A snapshot drains one
// render end to end, so it carries the same manifest the streamed
// response would have.
package export
