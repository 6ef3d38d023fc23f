package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"yatube/internal/handler"
	"yatube/internal/httputil"
	httpmw "yatube/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	FeedHandler    *handler.FeedHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	FollowHandler  *handler.FollowHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(httpmw.Recoverer)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup/", cfg.AuthHandler.Signup)
		r.Post("/login/", cfg.AuthHandler.Login)
	})

	// Public pages; a valid token only changes the profile's "following" flag
	r.Group(func(r chi.Router) {
		r.Use(httpmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/", cfg.FeedHandler.Index)
		r.Get("/group/{slug}/", cfg.FeedHandler.GroupPosts)
		r.Get("/profile/{username}/", cfg.FeedHandler.Profile)
		r.Get("/posts/{id}/", cfg.PostHandler.Detail)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(httpmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/create/", cfg.PostHandler.CreateForm)
		r.Post("/create/", cfg.PostHandler.Create)
		r.Get("/posts/{id}/edit/", cfg.PostHandler.EditForm)
		r.Post("/posts/{id}/edit/", cfg.PostHandler.Edit)
		r.Post("/posts/{id}/comment/", cfg.CommentHandler.Add)
		r.Post("/posts/{id}/delete/", cfg.PostHandler.Delete)

		r.Get("/follow/", cfg.FeedHandler.FollowIndex)
		r.Get("/profile/{username}/follow/", cfg.FollowHandler.Follow)
		r.Get("/profile/{username}/unfollow/", cfg.FollowHandler.Unfollow)
	})

	return r
}
