// Package cache implements the full-page response cache that sits between
// the HTTP handlers and the page-rendering pipeline. Rendered pages are
// stored gzip-compressed in a flat directory, keyed by request identity,
// with the file ModTime acting as the sole freshness record. The PageCache
// facade absorbs every internal failure: reads degrade to a miss and writes
// to a no-op, so an unavailable cache can never break page serving.
package cache
