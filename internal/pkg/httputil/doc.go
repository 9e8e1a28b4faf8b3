// Package httputil provides shared HTTP response/request utilities for
// the API handlers.
//
// Handlers use these helpers instead of writing raw http.ResponseWriter
// calls so every endpoint returns the same JSON envelope and error shape,
// and internal errors are logged without leaking details to the client.
package httputil
