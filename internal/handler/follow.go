package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yatube/internal/httputil"
	"yatube/internal/model"
	"yatube/internal/transport/http/middleware"
)

type FollowHandler struct {
	follows FollowManager
}

func NewFollowHandler(follows FollowManager) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Follow handles GET /profile/{username}/follow/
// Following yourself or someone already followed changes nothing.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Follow", h.follows.Follow)
}

// Unfollow handles GET /profile/{username}/unfollow/
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Unfollow", h.follows.Unfollow)
}

func (h *FollowHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error),
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	username := chi.URLParam(r, "username")

	resp, err := apply(r.Context(), userID, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] %s handler: user=%d target=%s err=%v", action, userID, username, err)
		httputil.WriteInternalError(w, "Failed to update follow")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
