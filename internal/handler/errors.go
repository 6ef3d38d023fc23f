package handler

import (
	"net/http"

	"yatube/internal/httputil"
)

// NotFound is the router's fallback for unmatched paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, "Page not found")
}

// MethodNotAllowed answers a known path requested with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteMethodNotAllowed(w)
}
