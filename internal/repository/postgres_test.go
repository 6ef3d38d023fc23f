package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/database"
	"yatube/internal/model"
)

// setupDB connects to TEST_DATABASE_URL, applies the schema and empties all
// tables. The test is skipped when no database is reachable.
func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.ConnectURL(url)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE follows, comments, posts, post_groups, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHashed: "x"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createPost(t *testing.T, tx Transactor, repo PostRepository, authorID int64, groupID *int64, text string) *model.Post {
	t.Helper()
	p := &model.Post{Text: text, Authored: model.Authored{AuthorID: authorID}, GroupID: groupID}
	err := tx.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		return repo.Create(context.Background(), tx, p)
	})
	require.NoError(t, err)
	return p
}

func TestPostgres_DeletePostRemovesComments(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users, posts, comments, tx := NewUserRepository(db), NewPostRepository(db), NewCommentRepository(db), NewTransactor(db)

	author := createUser(t, users, "leo")
	post := createPost(t, tx, posts, author.ID, nil, "hello")

	err := tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i := 0; i < 3; i++ {
			c := &model.Comment{PostID: post.ID, Text: fmt.Sprintf("c%d", i), Authored: model.Authored{AuthorID: author.ID}}
			if err := comments.Create(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	count, err := comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, tx.WithTx(ctx, func(tx *sqlx.Tx) error { return posts.Delete(ctx, tx, post.ID) }))

	count, err = comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostgres_DeleteGroupKeepsPosts(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users, posts, groups, tx := NewUserRepository(db), NewPostRepository(db), NewGroupRepository(db), NewTransactor(db)

	author := createUser(t, users, "leo")
	group := &model.Group{Title: "Cats", Slug: "cats", Description: "all about cats"}
	require.NoError(t, groups.Create(ctx, group))

	post := createPost(t, tx, posts, author.ID, &group.ID, "meow")
	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Group)
	assert.Equal(t, "cats", got.Group.Slug)

	require.NoError(t, groups.DeleteBySlug(ctx, "cats"))

	got, err = posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)
	assert.Equal(t, "meow", got.Text)
}

func TestPostgres_FollowIsUnique(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users, follows, tx := NewUserRepository(db), NewFollowRepository(db), NewTransactor(db)

	reader := createUser(t, users, "reader")
	author := createUser(t, users, "author")

	var inserted []bool
	for i := 0; i < 2; i++ {
		err := tx.WithTx(ctx, func(tx *sqlx.Tx) error {
			ok, err := follows.Create(ctx, tx, reader.ID, author.ID)
			inserted = append(inserted, ok)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []bool{true, false}, inserted)

	var edges int
	require.NoError(t, db.GetContext(ctx, &edges, `SELECT COUNT(*) FROM follows`))
	assert.Equal(t, 1, edges)

	err := tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := follows.Create(ctx, tx, reader.ID, reader.ID)
		return err
	})
	assert.Error(t, err, "self-follow must violate the check constraint")
}

func TestPostgres_ListPagination(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users, posts, follows, tx := NewUserRepository(db), NewPostRepository(db), NewFollowRepository(db), NewTransactor(db)

	author := createUser(t, users, "author")
	reader := createUser(t, users, "reader")
	for i := 0; i < 13; i++ {
		createPost(t, tx, posts, author.ID, nil, fmt.Sprintf("post %d", i))
	}

	total, err := posts.Count(ctx, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 13, total)

	first, err := posts.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, "post 12", first[0].Text)
	assert.Equal(t, "author", first[0].Author.Username)

	second, err := posts.List(ctx, PostFilter{AuthorID: &author.ID}, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 3)

	feed, err := posts.List(ctx, PostFilter{FollowerID: &reader.ID}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := follows.Create(ctx, tx, reader.ID, author.ID)
		return err
	}))
	n, err := posts.Count(ctx, PostFilter{FollowerID: &reader.ID})
	require.NoError(t, err)
	assert.Equal(t, 13, n)
}

func TestPostgres_UpdateKeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users, posts, tx := NewUserRepository(db), NewPostRepository(db), NewTransactor(db)

	author := createUser(t, users, "author")
	post := createPost(t, tx, posts, author.ID, nil, "draft")
	created := post.CreatedAt

	time.Sleep(10 * time.Millisecond)
	post.Text = "final"
	require.NoError(t, tx.WithTx(ctx, func(tx *sqlx.Tx) error { return posts.Update(ctx, tx, post) }))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.True(t, created.Equal(got.CreatedAt))
}
