package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
	"yatube/internal/queue"
	"yatube/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres schema, including the
// cascade and SET NULL foreign key actions.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	users    map[int64]*model.User
	groups   map[int64]*model.Group
	posts    map[int64]*model.Post
	comments map[int64]*model.Comment
	follows  map[[2]int64]bool

	failPostWrite error
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[int64]*model.User{},
		groups:   map[int64]*model.Group{},
		posts:    map[int64]*model.Post{},
		comments: map[int64]*model.Comment{},
		follows:  map[[2]int64]bool{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addUser(username string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{ID: s.id(), Username: username, CreatedAt: s.tick()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addGroup(slug string) *model.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &model.Group{ID: s.id(), Slug: slug, Title: "Group " + slug}
	s.groups[g.ID] = g
	return g
}

func (s *memStore) followEdges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.follows)
}

func (s *memStore) hydrate(p model.Post) model.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		summary := u.Summary()
		p.Author = &summary
	}
	p.Group = nil
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			p.Group = &model.GroupRef{ID: g.ID, Slug: g.Slug, Title: g.Title}
		}
	}
	return p
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return model.ErrUsernameExists
		}
	}
	u.ID = r.id()
	u.CreatedAt = r.tick()
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

type memGroups struct{ *memStore }

func (r memGroups) Create(ctx context.Context, g *model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.groups {
		if existing.Slug == g.Slug {
			return model.ErrSlugExists
		}
	}
	g.ID = r.id()
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r memGroups) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, model.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (r memGroups) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, model.ErrGroupNotFound
}

func (r memGroups) List(ctx context.Context) ([]model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groups := []model.Group{}
	for _, g := range r.groups {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (r memGroups) DeleteBySlug(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.groups {
		if g.Slug == slug {
			delete(r.groups, id)
			for _, p := range r.posts {
				if p.GroupID != nil && *p.GroupID == id {
					p.GroupID = nil
				}
			}
			return nil
		}
	}
	return model.ErrGroupNotFound
}

type memPosts struct{ *memStore }

func (r memPosts) Create(ctx context.Context, tx *sqlx.Tx, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPostWrite != nil {
		return r.failPostWrite
	}
	p.ID = r.id()
	p.CreatedAt = r.tick()
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r memPosts) Update(ctx context.Context, tx *sqlx.Tx, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPostWrite != nil {
		return r.failPostWrite
	}
	stored, ok := r.posts[p.ID]
	if !ok || stored.AuthorID != p.AuthorID {
		return model.ErrPostNotFound
	}
	stored.Text = p.Text
	stored.GroupID = p.GroupID
	stored.ImageURL = p.ImageURL
	stored.ImageKey = p.ImageKey
	return nil
}

func (r memPosts) Delete(ctx context.Context, tx *sqlx.Tx, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return model.ErrPostNotFound
	}
	delete(r.posts, postID)
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r memPosts) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	h := r.hydrate(*p)
	return &h, nil
}

func (r memPosts) match(f repository.PostFilter, p *model.Post) bool {
	if f.GroupID != nil && (p.GroupID == nil || *p.GroupID != *f.GroupID) {
		return false
	}
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	if f.FollowerID != nil && !r.follows[[2]int64{*f.FollowerID, p.AuthorID}] {
		return false
	}
	return true
}

func (r memPosts) List(ctx context.Context, f repository.PostFilter, limit, offset int) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Post
	for _, p := range r.posts {
		if r.match(f, p) {
			all = append(all, r.hydrate(*p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if offset >= len(all) {
		return []model.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memPosts) Count(ctx context.Context, f repository.PostFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.posts {
		if r.match(f, p) {
			n++
		}
	}
	return n, nil
}

type memComments struct{ *memStore }

func (r memComments) Create(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	c.CreatedAt = r.tick()
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r memComments) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []model.Comment{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memComments) CountByPost(ctx context.Context, postID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

type memFollows struct{ *memStore }

func (r memFollows) Create(ctx context.Context, tx *sqlx.Tx, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == authorID {
		return false, errors.New("violates check constraint")
	}
	key := [2]int64{userID, authorID}
	if r.follows[key] {
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r memFollows) Delete(ctx context.Context, tx *sqlx.Tx, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{userID, authorID}
	if !r.follows[key] {
		return false, nil
	}
	delete(r.follows, key)
	return true, nil
}

func (r memFollows) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[[2]int64{userID, authorID}], nil
}

// fakeImages records uploads and deletions.
type fakeImages struct {
	mu        sync.Mutex
	uploadErr error
	uploaded  []string
	deleted   []string
	n         int
}

func (f *fakeImages) UploadPostImage(ctx context.Context, upload *model.ImageUpload) (*model.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.ReadAll(upload.File); err != nil {
		return nil, err
	}
	f.n++
	key := "posts/img" + string(rune('a'+f.n-1)) + ".jpg"
	f.uploaded = append(f.uploaded, key)
	return &model.UploadResult{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (f *fakeImages) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []queue.Event
}

func (p *fakePublisher) Publish(ctx context.Context, stream string, event queue.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// testEnv wires every service to one memStore.
type testEnv struct {
	store     *memStore
	images    *fakeImages
	publisher *fakePublisher

	posts    *PostService
	feed     *FeedService
	comments *CommentService
	follows  *FollowService
	groups   *GroupService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	images := &fakeImages{}
	publisher := &fakePublisher{}

	users, groups, posts, comments, follows := memUsers{store}, memGroups{store}, memPosts{store}, memComments{store}, memFollows{store}

	commentService := NewCommentService(comments, posts, users, store)

	return &testEnv{
		store:     store,
		images:    images,
		publisher: publisher,
		posts:     NewPostService(posts, groups, commentService, store, images, publisher),
		feed:      NewFeedService(posts, groups, users, follows),
		comments:  commentService,
		follows:   NewFollowService(follows, users, store, publisher),
		groups:    NewGroupService(groups),
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
