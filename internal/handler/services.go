package handler

import (
	"context"

	"yatube/internal/model"
)

// The interfaces below are the parts of the service layer each handler uses.

type FeedReader interface {
	ListAll(ctx context.Context, page int) (model.Page[model.Post], error)
	ListByGroup(ctx context.Context, slug string, page int) (*model.GroupFeed, error)
	ListByAuthor(ctx context.Context, username string, viewerID *int64, page int) (*model.ProfileFeed, error)
	ListFollowed(ctx context.Context, userID int64, page int) (model.Page[model.Post], error)
}

type PostManager interface {
	Create(ctx context.Context, authorID int64, req model.PostRequest) (*model.Post, error)
	GetForEdit(ctx context.Context, requesterID, postID int64) (*model.Post, error)
	GetDetail(ctx context.Context, postID int64, commentsPage int) (*model.PostDetail, error)
	Edit(ctx context.Context, requesterID, postID int64, req model.PostRequest) (*model.Post, error)
	Delete(ctx context.Context, requesterID, postID int64) error
}

type GroupChoices interface {
	Choices(ctx context.Context) ([]model.GroupChoice, error)
}

type CommentWriter interface {
	Add(ctx context.Context, authorID, postID int64, text string) (*model.Comment, error)
}

type FollowManager interface {
	Follow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error)
	Unfollow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error)
}

type UserAccounts interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64) (string, error)
	AccessTokenMaxAge() int
}
