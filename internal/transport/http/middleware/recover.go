package middleware

import (
	"log"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"yatube/internal/httputil"
)

// Recoverer turns a panic into the usual INTERNAL_ERROR JSON response and
// logs the stack. http.ErrAbortHandler is re-raised so net/http can abort
// the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			log.Printf("[ERROR] Panic serving %s %s request_id=%s: %v", r.Method, r.URL.Path, chimw.GetReqID(r.Context()), rvr)
			chimw.PrintPrettyStack(rvr)
			httputil.WriteInternalError(w, "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
