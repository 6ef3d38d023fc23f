package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"yatube/internal/model"
	"yatube/internal/transport/http/middleware"
)

type mockFeeds struct {
	listAll      func(ctx context.Context, page int) (model.Page[model.Post], error)
	listByGroup  func(ctx context.Context, slug string, page int) (*model.GroupFeed, error)
	listByAuthor func(ctx context.Context, username string, viewerID *int64, page int) (*model.ProfileFeed, error)
	listFollowed func(ctx context.Context, userID int64, page int) (model.Page[model.Post], error)
}

func (m *mockFeeds) ListAll(ctx context.Context, page int) (model.Page[model.Post], error) {
	return m.listAll(ctx, page)
}

func (m *mockFeeds) ListByGroup(ctx context.Context, slug string, page int) (*model.GroupFeed, error) {
	return m.listByGroup(ctx, slug, page)
}

func (m *mockFeeds) ListByAuthor(ctx context.Context, username string, viewerID *int64, page int) (*model.ProfileFeed, error) {
	return m.listByAuthor(ctx, username, viewerID, page)
}

func (m *mockFeeds) ListFollowed(ctx context.Context, userID int64, page int) (model.Page[model.Post], error) {
	return m.listFollowed(ctx, userID, page)
}

type mockPosts struct {
	create     func(ctx context.Context, authorID int64, req model.PostRequest) (*model.Post, error)
	getForEdit func(ctx context.Context, requesterID, postID int64) (*model.Post, error)
	getDetail  func(ctx context.Context, postID int64, commentsPage int) (*model.PostDetail, error)
	edit       func(ctx context.Context, requesterID, postID int64, req model.PostRequest) (*model.Post, error)
	delete     func(ctx context.Context, requesterID, postID int64) error
}

func (m *mockPosts) Create(ctx context.Context, authorID int64, req model.PostRequest) (*model.Post, error) {
	return m.create(ctx, authorID, req)
}

func (m *mockPosts) GetForEdit(ctx context.Context, requesterID, postID int64) (*model.Post, error) {
	return m.getForEdit(ctx, requesterID, postID)
}

func (m *mockPosts) GetDetail(ctx context.Context, postID int64, commentsPage int) (*model.PostDetail, error) {
	return m.getDetail(ctx, postID, commentsPage)
}

func (m *mockPosts) Edit(ctx context.Context, requesterID, postID int64, req model.PostRequest) (*model.Post, error) {
	return m.edit(ctx, requesterID, postID, req)
}

func (m *mockPosts) Delete(ctx context.Context, requesterID, postID int64) error {
	return m.delete(ctx, requesterID, postID)
}

type staticChoices []model.GroupChoice

func (c staticChoices) Choices(ctx context.Context) ([]model.GroupChoice, error) {
	return c, nil
}

type mockComments struct {
	add func(ctx context.Context, authorID, postID int64, text string) (*model.Comment, error)
}

func (m *mockComments) Add(ctx context.Context, authorID, postID int64, text string) (*model.Comment, error) {
	return m.add(ctx, authorID, postID, text)
}

type mockFollows struct {
	follow   func(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error)
	unfollow func(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error)
}

func (m *mockFollows) Follow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error) {
	return m.follow(ctx, followerID, username)
}

func (m *mockFollows) Unfollow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error) {
	return m.unfollow(ctx, followerID, username)
}

// serve routes a single request through a chi router so URL params resolve.
// A non-zero userID is attached as if the auth middleware had run.
func serve(method, pattern string, h http.HandlerFunc, target string, body io.Reader, contentType string, userID int64) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const formContentType = "application/x-www-form-urlencoded"
