// Package server wires the page cache and the renderer into a Fiber
// application. The request middleware assigns an X-Request-ID, classifies
// the device from the User-Agent and derives the login state from the
// session cookie; the page handler serves from cache when possible and
// renders + stores on a miss. An admin route exposes the bulk cache clear.
package server
