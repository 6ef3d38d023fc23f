package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
	"yatube/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		tx:          tx,
	}
}

// Add attaches a comment by authorID to postID.
func (s *CommentService) Add(ctx context.Context, authorID, postID int64, text string) (*model.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewValidationError().Add("text", model.MsgRequired)
	}

	comment := &model.Comment{
		PostID:   postID,
		Text:     text,
		Authored: model.Authored{AuthorID: authorID},
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.commentRepo.Create(ctx, tx, comment)
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	log.Printf("[CommentService] User %d commented on post %d", authorID, postID)

	if author, err := s.userRepo.GetByID(ctx, authorID); err == nil {
		summary := author.Summary()
		comment.Author = &summary
	}

	return comment, nil
}

// ListByPost returns a page of a post's comments, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, page int) (model.Page[model.Comment], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return model.Page[model.Comment]{}, err
	}

	result, err := fetchPage(page,
		func() (int, error) { return s.commentRepo.CountByPost(ctx, postID) },
		func(limit, offset int) ([]model.Comment, error) { return s.commentRepo.ListByPost(ctx, postID, limit, offset) },
	)
	if err != nil {
		return result, fmt.Errorf("list comments: %w", err)
	}
	return result, nil
}
