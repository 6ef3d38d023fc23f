package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
)

// Transactor runs fn inside one database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// PostFilter narrows a post listing. Nil fields do not filter.
type PostFilter struct {
	GroupID    *int64
	AuthorID   *int64
	FollowerID *int64 // posts by authors this user follows
}

type PostRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, post *model.Post) error
	Update(ctx context.Context, tx *sqlx.Tx, post *model.Post) error
	Delete(ctx context.Context, tx *sqlx.Tx, postID int64) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// List returns posts newest first.
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]model.Post, error)
	Count(ctx context.Context, filter PostFilter) (int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, comment *model.Comment) error
	// ListByPost returns comments oldest first.
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
}

type FollowRepository interface {
	// Create reports whether a new edge was inserted.
	Create(ctx context.Context, tx *sqlx.Tx, userID, authorID int64) (bool, error)
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, tx *sqlx.Tx, userID, authorID int64) (bool, error)
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}
