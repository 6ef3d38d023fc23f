package service

import (
	"context"
	"fmt"

	"yatube/internal/model"
	"yatube/internal/repository"
)

// FeedService serves the paginated post listings: everything, one group,
// one author and the authors a user follows. All are newest first.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *FeedService) ListAll(ctx context.Context, page int) (model.Page[model.Post], error) {
	return s.listPosts(ctx, repository.PostFilter{}, page)
}

func (s *FeedService) ListByGroup(ctx context.Context, slug string, page int) (*model.GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	posts, err := s.listPosts(ctx, repository.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}

	return &model.GroupFeed{Group: *group, Page: posts}, nil
}

// ListByAuthor builds a profile page. Following is only ever true for an
// authenticated viewer other than the author who has a follow edge to them.
func (s *FeedService) ListByAuthor(ctx context.Context, username string, viewerID *int64, page int) (*model.ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.listPosts(ctx, repository.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}

	feed := &model.ProfileFeed{
		Author:    author.Summary(),
		PostCount: posts.TotalCount,
		Page:      posts,
	}

	if viewerID != nil && *viewerID != author.ID {
		following, err := s.followRepo.Exists(ctx, *viewerID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("check follow status: %w", err)
		}
		feed.Following = following
	}

	return feed, nil
}

// ListFollowed returns posts written by the authors userID follows.
func (s *FeedService) ListFollowed(ctx context.Context, userID int64, page int) (model.Page[model.Post], error) {
	return s.listPosts(ctx, repository.PostFilter{FollowerID: &userID}, page)
}

func (s *FeedService) listPosts(ctx context.Context, filter repository.PostFilter, page int) (model.Page[model.Post], error) {
	result, err := fetchPage(page,
		func() (int, error) { return s.postRepo.Count(ctx, filter) },
		func(limit, offset int) ([]model.Post, error) { return s.postRepo.List(ctx, filter, limit, offset) },
	)
	if err != nil {
		return result, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}
