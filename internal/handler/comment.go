package handler

import (
	"errors"
	"log"
	"net/http"

	"yatube/internal/httputil"
	"yatube/internal/model"
	"yatube/internal/transport/http/middleware"
)

// maxCommentFormBytes caps comment submissions; comments carry no files.
const maxCommentFormBytes = 1 << 20

type CommentHandler struct {
	comments CommentWriter
}

func NewCommentHandler(comments CommentWriter) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Add handles POST /posts/{id}/comment/
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := postIDParam(r)
	if !ok {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	if err := parseForm(w, r, maxCommentFormBytes); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}
	text := r.FormValue("text")

	comment, err := h.comments.Add(r.Context(), userID, postID, text)
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.As(err, &verr):
			httputil.WriteJSON(w, http.StatusOK, model.CommentForm{Text: text, Errors: verr.Fields})
		default:
			log.Printf("[ERROR] Add comment handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}
