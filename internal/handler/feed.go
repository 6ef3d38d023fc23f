package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"yatube/internal/cache"
	"yatube/internal/httputil"
	"yatube/internal/model"
	"yatube/internal/transport/http/middleware"
)

type FeedHandler struct {
	feeds    FeedReader
	cache    cache.PageCache
	cacheTTL time.Duration
}

func NewFeedHandler(feeds FeedReader, pageCache cache.PageCache, cacheTTL time.Duration) *FeedHandler {
	return &FeedHandler{
		feeds:    feeds,
		cache:    pageCache,
		cacheTTL: cacheTTL,
	}
}

// Index handles GET /
// The rendered page is cached per page number for cacheTTL; posts written
// in that window show up once the entry expires.
func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	key := cache.HomePageKey(page)

	body, ok, err := h.cache.Get(r.Context(), key)
	if err != nil {
		log.Printf("[FeedHandler] Cache read failed: key=%s err=%v", key, err)
	} else if ok {
		httputil.WriteRawJSON(w, http.StatusOK, body)
		return
	}

	posts, err := h.feeds.ListAll(r.Context(), page)
	if err != nil {
		log.Printf("[ERROR] Index handler: page=%d err=%v", page, err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	body, err = httputil.EncodeJSON(posts)
	if err != nil {
		log.Printf("[ERROR] Index handler: encode page=%d err=%v", page, err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	if err := h.cache.Put(r.Context(), key, body, h.cacheTTL); err != nil {
		log.Printf("[FeedHandler] Cache write failed: key=%s err=%v", key, err)
	}

	httputil.WriteRawJSON(w, http.StatusOK, body)
}

// GroupPosts handles GET /group/{slug}/
func (h *FeedHandler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	feed, err := h.feeds.ListByGroup(r.Context(), slug, pageParam(r))
	if err != nil {
		if errors.Is(err, model.ErrGroupNotFound) {
			httputil.WriteNotFound(w, "Group not found")
			return
		}
		log.Printf("[ERROR] GroupPosts handler: slug=%s err=%v", slug, err)
		httputil.WriteInternalError(w, "Failed to get group posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}

// Profile handles GET /profile/{username}/
// Authentication is optional; it only decides the "following" flag.
func (h *FeedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	feed, err := h.feeds.ListByAuthor(r.Context(), username, viewerID, pageParam(r))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Profile handler: username=%s err=%v", username, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}

// FollowIndex handles GET /follow/
// Returns posts by the authors the current user follows.
func (h *FeedHandler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	posts, err := h.feeds.ListFollowed(r.Context(), userID, pageParam(r))
	if err != nil {
		log.Printf("[ERROR] FollowIndex handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}
