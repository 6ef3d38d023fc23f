package handler

import (
	"errors"
	"log"
	"net/http"

	"yatube/internal/httputil"
	"yatube/internal/model"
	"yatube/internal/transport/http/middleware"
)

// maxPostFormBytes leaves room for the text fields next to the image.
const maxPostFormBytes = model.MaxPostImageSizeBytes + 1<<20

type PostHandler struct {
	posts  PostManager
	groups GroupChoices
}

func NewPostHandler(posts PostManager, groups GroupChoices) *PostHandler {
	return &PostHandler{
		posts:  posts,
		groups: groups,
	}
}

// Detail handles GET /posts/{id}/
// Returns the post, its author's post count, a page of comments and an
// empty comment form.
func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	detail, err := h.posts.GetDetail(r.Context(), postID, pageParam(r))
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Post detail handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	detail.CommentForm = &model.CommentForm{}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// CreateForm handles GET /create/
func (h *PostHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	form, ok := h.newForm(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, form)
}

// Create handles POST /create/
// A rejected submission comes back as the form with its errors.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	form, ok := h.newForm(w, r)
	if !ok {
		return
	}

	in, ok := h.readSubmission(w, r, form)
	if !ok {
		return
	}
	defer in.Close()
	form.Text = in.req.Text
	form.Group = in.group

	if in.errors.HasErrors() {
		form.Errors = in.errors.Fields
		httputil.WriteJSON(w, http.StatusOK, form)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, in.req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
			httputil.WriteJSON(w, http.StatusOK, form)
			return
		}
		log.Printf("[ERROR] Create post handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// EditForm handles GET /posts/{id}/edit/
// Only the author gets the prefilled form.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.posts.GetForEdit(r.Context(), userID, postID)
	if err != nil {
		h.writePostError(w, "Edit form", userID, postID, err)
		return
	}

	form, ok := h.newForm(w, r)
	if !ok {
		return
	}
	fillEditForm(form, post)
	httputil.WriteJSON(w, http.StatusOK, form)
}

// Edit handles POST /posts/{id}/edit/
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
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

	// Permission is checked before the body is read.
	existing, err := h.posts.GetForEdit(r.Context(), userID, postID)
	if err != nil {
		h.writePostError(w, "Edit post", userID, postID, err)
		return
	}

	form, ok := h.newForm(w, r)
	if !ok {
		return
	}
	fillEditForm(form, existing)

	in, ok := h.readSubmission(w, r, form)
	if !ok {
		return
	}
	defer in.Close()
	form.Text = in.req.Text
	form.Group = in.group

	if in.errors.HasErrors() {
		form.Errors = in.errors.Fields
		httputil.WriteJSON(w, http.StatusOK, form)
		return
	}

	post, err := h.posts.Edit(r.Context(), userID, postID, in.req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
			httputil.WriteJSON(w, http.StatusOK, form)
			return
		}
		h.writePostError(w, "Edit post", userID, postID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete handles POST /posts/{id}/delete/
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.posts.Delete(r.Context(), userID, postID); err != nil {
		h.writePostError(w, "Delete post", userID, postID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

func (h *PostHandler) newForm(w http.ResponseWriter, r *http.Request) (*model.PostForm, bool) {
	choices, err := h.groups.Choices(r.Context())
	if err != nil {
		log.Printf("[ERROR] Load group choices: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load groups")
		return nil, false
	}
	return &model.PostForm{Choices: choices}, true
}

// readSubmission parses the body. An oversized upload is answered with form
// and an image error.
func (h *PostHandler) readSubmission(w http.ResponseWriter, r *http.Request, form *model.PostForm) (*postFormInput, bool) {
	if err := parseForm(w, r, maxPostFormBytes); err != nil {
		if isTooLarge(err) {
			form.Errors = model.NewValidationError().Add("image", model.MsgImageTooLarge).Fields
			httputil.WriteJSON(w, http.StatusOK, form)
			return nil, false
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return nil, false
	}
	return readPostForm(r), true
}

func (h *PostHandler) writePostError(w http.ResponseWriter, action string, userID, postID int64, err error) {
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrNotPostOwner):
		httputil.WriteForbidden(w, "You can only change your own posts")
	default:
		log.Printf("[ERROR] %s handler: user=%d post=%d err=%v", action, userID, postID, err)
		httputil.WriteInternalError(w, "Failed to process post")
	}
}

func fillEditForm(form *model.PostForm, post *model.Post) {
	id := post.ID
	form.PostID = &id
	form.IsEdit = true
	form.Text = post.Text
	form.Group = post.GroupID
	form.ImageURL = post.ImageURL
}
