package service

import (
	"context"
	"fmt"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository"
)

// GroupService manages groups. Groups are created and removed by
// administrators through cmd/groups.
type GroupService struct {
	repo repository.GroupRepository
}

func NewGroupService(repo repository.GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	if title == "" {
		return nil, model.ErrTitleRequired
	}
	if len([]rune(title)) > model.MaxGroupTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if !model.ValidSlug(slug) {
		return nil, model.ErrInvalidSlug
	}

	group := &model.Group{Title: title, Slug: slug, Description: strings.TrimSpace(description)}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.repo.List(ctx)
}

// Choices lists the groups as options of the post form.
func (s *GroupService) Choices(ctx context.Context) ([]model.GroupChoice, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	choices := make([]model.GroupChoice, 0, len(groups))
	for _, g := range groups {
		choices = append(choices, model.GroupChoice{ID: g.ID, Title: g.Title})
	}
	return choices, nil
}

// Delete removes a group; its posts remain without a group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
