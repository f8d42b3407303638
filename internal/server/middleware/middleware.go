// Package middleware provides small, composable net/http wrappers for
// cross-cutting request concerns: panic recovery, request logging, and
// Basic Auth.
package middleware

import "net/http"

// Middleware wraps a handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h in order, so the first middleware in the
// list is the outermost — it sees the request first and the response last.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
