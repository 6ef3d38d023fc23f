package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowxContext(ctx, query, c.PostID, c.AuthorID, c.Text).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at,
		       u.username AS author_username, u.display_name AS author_display_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3
	`

	type commentRow struct {
		ID                int64     `db:"id"`
		PostID            int64     `db:"post_id"`
		AuthorID          int64     `db:"author_id"`
		Text              string    `db:"text"`
		CreatedAt         time.Time `db:"created_at"`
		AuthorUsername    string    `db:"author_username"`
		AuthorDisplayName *string   `db:"author_display_name"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID, limit, offset); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, model.Comment{
			ID:       row.ID,
			PostID:   row.PostID,
			Text:     row.Text,
			Authored: model.Authored{AuthorID: row.AuthorID, CreatedAt: row.CreatedAt},
			Author: &model.UserSummary{
				ID:          row.AuthorID,
				Username:    row.AuthorUsername,
				DisplayName: row.AuthorDisplayName,
			},
		})
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}
