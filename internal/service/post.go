package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
	"yatube/internal/queue"
	"yatube/internal/repository"
)

// ImageStore uploads and removes post images.
type ImageStore interface {
	UploadPostImage(ctx context.Context, upload *model.ImageUpload) (*model.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

// CommentLister pages through a post's comments.
type CommentLister interface {
	ListByPost(ctx context.Context, postID int64, page int) (model.Page[model.Comment], error)
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	comments  CommentLister
	tx        repository.Transactor
	images    ImageStore      // nil when object storage is not configured
	publisher queue.Publisher // nil when Redis is not configured
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	comments CommentLister,
	tx repository.Transactor,
	images ImageStore,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		comments:  comments,
		tx:        tx,
		images:    images,
		publisher: publisher,
	}
}

// Create validates the form, uploads the image if one was submitted and
// inserts the post.
func (s *PostService) Create(ctx context.Context, authorID int64, req model.PostRequest) (*model.Post, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     strings.TrimSpace(req.Text),
		Authored: model.Authored{AuthorID: authorID},
		GroupID:  req.GroupID,
	}

	uploaded, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	if uploaded != nil {
		post.ImageURL = &uploaded.URL
		post.ImageKey = &uploaded.Key
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.postRepo.Create(ctx, tx, post)
	})
	if err != nil {
		if uploaded != nil {
			s.discardImage(ctx, uploaded.Key)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Printf("[PostService] User %d created post %d", authorID, post.ID)
	publish(ctx, s.publisher, "PostService", queue.NewPostCreatedEvent(post.ID, authorID))

	return s.hydrate(ctx, post), nil
}

// GetByID returns a post with its author and group.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// GetForEdit returns the post if requesterID may edit it.
func (s *PostService) GetForEdit(ctx context.Context, requesterID, postID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, model.ErrNotPostOwner
	}
	return post, nil
}

// GetDetail builds the post page: the post, its author's post count and one
// page of comments, oldest first.
func (s *PostService) GetDetail(ctx context.Context, postID int64, commentsPage int) (*model.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("count author posts: %w", err)
	}

	comments, err := s.comments.ListByPost(ctx, postID, commentsPage)
	if err != nil {
		return nil, err
	}

	return &model.PostDetail{
		Post:            *post,
		AuthorPostCount: count,
		Comments:        comments,
	}, nil
}

// Edit replaces text, group and, when a new file is submitted, the image.
// The stored post is left untouched on any error.
func (s *PostService) Edit(ctx context.Context, requesterID, postID int64, req model.PostRequest) (*model.Post, error) {
	existing, err := s.GetForEdit(ctx, requesterID, postID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Text = strings.TrimSpace(req.Text)
	updated.GroupID = req.GroupID

	uploaded, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	if uploaded != nil {
		updated.ImageURL = &uploaded.URL
		updated.ImageKey = &uploaded.Key
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.postRepo.Update(ctx, tx, &updated)
	})
	if err != nil {
		if uploaded != nil {
			s.discardImage(ctx, uploaded.Key)
		}
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	log.Printf("[PostService] User %d edited post %d", requesterID, postID)

	if uploaded != nil && existing.ImageKey != nil {
		s.release(ctx, queue.NewPostImageReplacedEvent(postID, existing.AuthorID, *existing.ImageKey))
	}

	return s.hydrate(ctx, &updated), nil
}

// Delete removes a post written by requesterID. Comments are removed by the
// foreign key cascade.
func (s *PostService) Delete(ctx context.Context, requesterID, postID int64) error {
	post, err := s.GetForEdit(ctx, requesterID, postID)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.postRepo.Delete(ctx, tx, postID)
	})
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("delete post: %w", err)
	}

	log.Printf("[PostService] User %d deleted post %d", requesterID, postID)

	var key string
	if post.ImageKey != nil {
		key = *post.ImageKey
	}
	s.release(ctx, queue.NewPostDeletedEvent(postID, post.AuthorID, key))
	return nil
}

func (s *PostService) validate(ctx context.Context, req model.PostRequest) error {
	verr := model.NewValidationError()

	if strings.TrimSpace(req.Text) == "" {
		verr.Add("text", model.MsgRequired)
	}

	if req.GroupID != nil {
		_, err := s.groupRepo.GetByID(ctx, *req.GroupID)
		switch {
		case errors.Is(err, model.ErrGroupNotFound):
			verr.Add("group", model.MsgInvalidChoice)
		case err != nil:
			return fmt.Errorf("get group: %w", err)
		}
	}

	if req.Image != nil && s.images == nil {
		verr.Add("image", model.MsgNoImageStore)
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// uploadImage returns nil, nil when no image was submitted.
func (s *PostService) uploadImage(ctx context.Context, upload *model.ImageUpload) (*model.UploadResult, error) {
	if upload == nil {
		return nil, nil
	}

	result, err := s.images.UploadPostImage(ctx, upload)
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		return nil, model.NewValidationError().Add("image", model.MsgImageTooLarge)
	case errors.Is(err, model.ErrInvalidImageType):
		return nil, model.NewValidationError().Add("image", model.MsgInvalidImage)
	case err != nil:
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return result, nil
}

// release hands an event to the worker. Without a queue, or when publishing
// fails, the image it frees is removed inline.
func (s *PostService) release(ctx context.Context, event queue.Event) {
	if publish(ctx, s.publisher, "PostService", event) {
		return
	}
	if event.ImageKey != "" {
		s.discardImage(ctx, event.ImageKey)
	}
}

func (s *PostService) discardImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.DeleteObject(ctx, key); err != nil {
		log.Printf("[PostService] Failed to delete image %s: %v", key, err)
	}
}

// hydrate reloads post with its author and group; on failure the bare row
// is returned.
func (s *PostService) hydrate(ctx context.Context, post *model.Post) *model.Post {
	full, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		log.Printf("[PostService] Failed to reload post %d: %v", post.ID, err)
		return post
	}
	return full
}
