package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postSelect = `
	SELECT p.id, p.text, p.author_id, p.created_at, p.group_id, p.image_url, p.image_key,
	       u.username AS author_username, u.display_name AS author_display_name,
	       g.slug AS group_slug, g.title AS group_title
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id
`

// postRow is a posts row joined with its author and group.
type postRow struct {
	ID                int64     `db:"id"`
	Text              string    `db:"text"`
	AuthorID          int64     `db:"author_id"`
	CreatedAt         time.Time `db:"created_at"`
	GroupID           *int64    `db:"group_id"`
	ImageURL          *string   `db:"image_url"`
	ImageKey          *string   `db:"image_key"`
	AuthorUsername    string    `db:"author_username"`
	AuthorDisplayName *string   `db:"author_display_name"`
	GroupSlug         *string   `db:"group_slug"`
	GroupTitle        *string   `db:"group_title"`
}

func (r postRow) toPost() model.Post {
	p := model.Post{
		ID:       r.ID,
		Text:     r.Text,
		Authored: model.Authored{AuthorID: r.AuthorID, CreatedAt: r.CreatedAt},
		GroupID:  r.GroupID,
		ImageURL: r.ImageURL,
		ImageKey: r.ImageKey,
		Author: &model.UserSummary{
			ID:          r.AuthorID,
			Username:    r.AuthorUsername,
			DisplayName: r.AuthorDisplayName,
		},
	}
	if r.GroupID != nil && r.GroupSlug != nil {
		p.Group = &model.GroupRef{ID: *r.GroupID, Slug: *r.GroupSlug, Title: deref(r.GroupTitle)}
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// where renders the filter as a WHERE clause with positional args.
func (f PostFilter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.GroupID != nil {
		add("p.group_id = $%d", *f.GroupID)
	}
	if f.AuthorID != nil {
		add("p.author_id = $%d", *f.AuthorID)
	}
	if f.FollowerID != nil {
		add("p.author_id IN (SELECT author_id FROM follows WHERE user_id = $%d)", *f.FollowerID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *postRepository) Create(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	query := `
		INSERT INTO posts (text, author_id, group_id, image_url, image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query, post.Text, post.AuthorID, post.GroupID, post.ImageURL, post.ImageKey).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Update rewrites the editable columns. created_at and author_id never change.
func (r *postRepository) Update(ctx context.Context, tx *sqlx.Tx, post *model.Post) error {
	query := `
		UPDATE posts
		SET text = $1, group_id = $2, image_url = $3, image_key = $4
		WHERE id = $5 AND author_id = $6
	`
	result, err := tx.ExecContext(ctx, query, post.Text, post.GroupID, post.ImageURL, post.ImageKey, post.ID, post.AuthorID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// Delete removes the post; its comments go with it (ON DELETE CASCADE).
func (r *postRepository) Delete(ctx context.Context, tx *sqlx.Tx, postID int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	var row postRow
	err := r.db.GetContext(ctx, &row, postSelect+` WHERE p.id = $1`, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	post := row.toPost()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]model.Post, error) {
	where, args := filter.where()
	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		postSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toPost())
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int, error) {
	where, args := filter.where()
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts p`+where, args...); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
