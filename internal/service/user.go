package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"yatube/internal/model"
	"yatube/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// UserService handles business logic for user operations
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new account. Form problems come back as a
// *model.ValidationError; a taken username as model.ErrUsernameExists.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)

	verr := model.NewValidationError()
	switch {
	case username == "":
		verr.Add("username", model.MsgRequired)
	case len(username) > model.MaxUsernameLength || !usernamePattern.MatchString(username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	switch {
	case req.Password == "":
		verr.Add("password", model.MsgRequired)
	case len(req.Password) < model.MinPasswordLength:
		verr.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", model.MinPasswordLength))
	}
	if verr.HasErrors() {
		return nil, verr
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		PasswordHashed: string(hashedPassword),
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) != "" {
		name := strings.TrimSpace(*req.DisplayName)
		user.DisplayName = &name
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether username exists or not
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}
