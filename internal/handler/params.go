package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yatube/internal/model"
)

// pageParam reads ?page=, falling back to the first page.
func pageParam(r *http.Request) int {
	return model.ParsePageNumber(r.URL.Query().Get("page"))
}

// postIDParam parses the {id} URL segment. A malformed id is treated the
// same as a missing post.
func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
