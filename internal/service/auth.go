package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artique/internal/models"
	"github.com/Skotchmaster/artique/internal/repo"
	"github.com/Skotchmaster/artique/internal/transport"
	"github.com/Skotchmaster/artique/pkg/hash"
	"github.com/Skotchmaster/artique/pkg/logging"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher *hash.Hasher
	Tokens *tokens.Issuer
	Events Publisher
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	_, err := s.Repo.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	pwHash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         req.Role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, UserEvent{
		Type:       EventUserRegistered,
		UserID:     user.ID,
		Role:       user.Role,
		OccurredAt: time.Now().UTC(),
	})
	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.Repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, req.Password) {
		if hash.Malformed(user.PasswordHash) {
			l.Error("stored_hash_malformed", "user_id", user.ID)
		}
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, UserEvent{
		Type:       EventUserLoggedIn,
		UserID:     user.ID,
		Role:       user.Role,
		OccurredAt: time.Now().UTC(),
	})
	l.Info("user_logged_in", "user_id", user.ID)
	return res, nil
}

// Me returns the current profile of an authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
