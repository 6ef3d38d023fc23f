package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"yatube/internal/model"
	"yatube/internal/queue"
	"yatube/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	tx         repository.Transactor
	publisher  queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		tx:         tx,
		publisher:  publisher,
	}
}

// Follow makes followerID follow the user named username. Following
// yourself or someone you already follow changes nothing.
func (s *FollowService) Follow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := &model.FollowResponse{Author: author.Summary()}
	if author.ID == followerID {
		return resp, nil
	}

	var inserted bool
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		inserted, err = s.followRepo.Create(ctx, tx, followerID, author.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}

	resp.Following = true
	if inserted {
		log.Printf("[FollowService] User %d followed %d", followerID, author.ID)
		publish(ctx, s.publisher, "FollowService", queue.NewUserFollowedEvent(followerID, author.ID))
	}

	return resp, nil
}

// Unfollow removes the edge if there is one.
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, username string) (*model.FollowResponse, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var removed bool
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		removed, err = s.followRepo.Delete(ctx, tx, followerID, author.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unfollow: %w", err)
	}

	if removed {
		log.Printf("[FollowService] User %d unfollowed %d", followerID, author.ID)
		publish(ctx, s.publisher, "FollowService", queue.NewUserUnfollowedEvent(followerID, author.ID))
	}

	return &model.FollowResponse{Author: author.Summary(), Following: false}, nil
}
