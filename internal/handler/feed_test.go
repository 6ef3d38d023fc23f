package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/cache"
	"yatube/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// growingFeed returns a home page holding every post "written" so far.
type growingFeed struct {
	mu    sync.Mutex
	posts []model.Post
	calls int
}

func (f *growingFeed) add(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append([]model.Post{{ID: int64(len(f.posts) + 1), Text: text}}, f.posts...)
}

func (f *growingFeed) listAll(ctx context.Context, page int) (model.Page[model.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	items := append([]model.Post(nil), f.posts...)
	return model.NewPage(items, model.NewPageRequest(page, model.PageSize), len(items)), nil
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestIndex_ServesCachedBytesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	feed := &growingFeed{}
	feed.add("first")

	h := NewFeedHandler(&mockFeeds{listAll: feed.listAll}, cache.NewMemoryPageCacheWithClock(clock.Now), 20*time.Second)

	first := serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "application/json", first.Header().Get("Content-Type"))

	feed.add("second")
	clock.Advance(19 * time.Second)

	second := serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, 1, feed.calls)

	clock.Advance(2 * time.Second)

	third := serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)
	require.Equal(t, http.StatusOK, third.Code)
	assert.NotEqual(t, first.Body.Bytes(), third.Body.Bytes())
	assert.Equal(t, 2, feed.calls)

	var page model.Page[model.Post]
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "second", page.Items[0].Text)
}

func TestIndex_CachesEachPageSeparately(t *testing.T) {
	var pages []int
	feeds := &mockFeeds{listAll: func(ctx context.Context, page int) (model.Page[model.Post], error) {
		pages = append(pages, page)
		return model.NewPage([]model.Post{}, model.NewPageRequest(page, model.PageSize), 0), nil
	}}
	h := NewFeedHandler(feeds, cache.NewMemoryPageCache(), time.Minute)

	serve(http.MethodGet, "/", h.Index, "/?page=2", nil, "", 0)
	serve(http.MethodGet, "/", h.Index, "/?page=2", nil, "", 0)
	serve(http.MethodGet, "/", h.Index, "/?page=abc", nil, "", 0)
	serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)

	assert.Equal(t, []int{2, 1}, pages)
}

func TestIndex_CacheFailureFallsBackToRender(t *testing.T) {
	feed := &growingFeed{}
	feed.add("only")
	h := NewFeedHandler(&mockFeeds{listAll: feed.listAll}, failingCache{}, time.Minute)

	rec := serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"only"`)
}

func TestIndex_ServiceError(t *testing.T) {
	feeds := &mockFeeds{listAll: func(ctx context.Context, page int) (model.Page[model.Post], error) {
		return model.Page[model.Post]{}, errors.New("db down")
	}}
	h := NewFeedHandler(feeds, cache.NewMemoryPageCache(), time.Minute)

	rec := serve(http.MethodGet, "/", h.Index, "/", nil, "", 0)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestGroupPosts(t *testing.T) {
	feeds := &mockFeeds{listByGroup: func(ctx context.Context, slug string, page int) (*model.GroupFeed, error) {
		if slug != "cats" {
			return nil, model.ErrGroupNotFound
		}
		return &model.GroupFeed{Group: model.Group{ID: 1, Slug: "cats", Title: "Cats"}}, nil
	}}
	h := NewFeedHandler(feeds, cache.NewMemoryPageCache(), time.Minute)

	rec := serve(http.MethodGet, "/group/{slug}/", h.GroupPosts, "/group/cats/", nil, "", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Cats"`)

	rec = serve(http.MethodGet, "/group/{slug}/", h.GroupPosts, "/group/dogs/", nil, "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_PassesViewer(t *testing.T) {
	var gotViewer *int64
	feeds := &mockFeeds{listByAuthor: func(ctx context.Context, username string, viewerID *int64, page int) (*model.ProfileFeed, error) {
		if username != "leo" {
			return nil, model.ErrUserNotFound
		}
		gotViewer = viewerID
		return &model.ProfileFeed{Author: model.UserSummary{ID: 2, Username: "leo"}, Following: viewerID != nil}, nil
	}}
	h := NewFeedHandler(feeds, cache.NewMemoryPageCache(), time.Minute)

	rec := serve(http.MethodGet, "/profile/{username}/", h.Profile, "/profile/leo/", nil, "", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotViewer)

	rec = serve(http.MethodGet, "/profile/{username}/", h.Profile, "/profile/leo/", nil, "", 5)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotViewer)
	assert.Equal(t, int64(5), *gotViewer)
	assert.Contains(t, rec.Body.String(), `"following":true`)

	rec = serve(http.MethodGet, "/profile/{username}/", h.Profile, "/profile/nobody/", nil, "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowIndex(t *testing.T) {
	var gotUser int64
	feeds := &mockFeeds{listFollowed: func(ctx context.Context, userID int64, page int) (model.Page[model.Post], error) {
		gotUser = userID
		return model.NewPage([]model.Post{}, model.NewPageRequest(page, model.PageSize), 0), nil
	}}
	h := NewFeedHandler(feeds, cache.NewMemoryPageCache(), time.Minute)

	rec := serve(http.MethodGet, "/follow/", h.FollowIndex, "/follow/", nil, "", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(http.MethodGet, "/follow/", h.FollowIndex, "/follow/", nil, "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), gotUser)
}
