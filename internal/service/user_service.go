package service

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/apperror"
	"foodgram/internal/auth"
	"foodgram/internal/entity/common"
	"foodgram/internal/entity/converter"
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
	"foodgram/internal/metrics"
	"foodgram/internal/model"
	"foodgram/internal/storage"
	"foodgram/internal/validation"
)

// UserService 用户、认证与订阅相关的业务逻辑
type UserService struct {
	repo      model.Repository
	media     *MediaService
	tokens    *auth.Manager
	validator *validation.Validator
}

// NewUserService 创建用户服务实例
func NewUserService(repo model.Repository, media *MediaService, tokens *auth.Manager, v *validation.Validator) *UserService {
	return &UserService{repo: repo, media: media, tokens: tokens, validator: v}
}

// Register creates an account. The first account becomes an admin.
func (s *UserService) Register(ctx context.Context, req dto.UserCreateRequest) (*dto.UserCreateResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.Validation("password", err.Error())
		}
		return nil, err
	}

	user := &db.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("a user with this email or username already exists")
		}
		return nil, err
	}
	resp := converter.UserToCreateResponse(user)
	return &resp, nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) Login(ctx context.Context, req dto.TokenLoginRequest) (*dto.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	invalid := apperror.Validation("password", "invalid email or password")

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, invalid
	}
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AuthToken: token, ExpiresAt: expiresAt}, nil
}

// Get returns the profile of userID as seen by viewerID (0 for anonymous).
func (s *UserService) Get(ctx context.Context, viewerID, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.repo.SubscribedAuthorIDs(ctx, viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	resp := converter.UserToResponse(user, subscribed[user.ID], s.media.URLFunc())
	return &resp, nil
}

// List returns a page of users with subscription flags for viewerID.
func (s *UserService) List(ctx context.Context, viewerID uint, page common.PageParams) (*dto.UserListResponse, error) {
	users, total, err := s.repo.ListUsers(ctx, page)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := s.repo.SubscribedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Count:   total,
		Results: converter.UsersToResponses(users, subscribed, s.media.URLFunc()),
	}, nil
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uint, req dto.SetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperror.Validation("current_password", "current password is incorrect")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return apperror.Validation("new_password", err.Error())
		}
		return err
	}
	return s.repo.UpdateUser(ctx, userID, db.UserUpdates{PasswordHash: &hash})
}

// SetAvatar stores a new avatar and removes the previous one.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, req dto.AvatarRequest) (*dto.AvatarResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := s.media.SaveImage(ctx, storage.CategoryAvatars, "avatar", req.Avatar)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, userID, db.UserUpdates{Avatar: &key}); err != nil {
		s.media.Remove(ctx, key)
		return nil, err
	}
	if user.Avatar != "" && user.Avatar != key {
		s.media.Remove(ctx, user.Avatar)
	}
	return &dto.AvatarResponse{Avatar: s.media.URLFunc()(key)}, nil
}

// DeleteAvatar clears the avatar. Clearing an empty avatar is a no-op.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	empty := ""
	if err := s.repo.UpdateUser(ctx, userID, db.UserUpdates{Avatar: &empty}); err != nil {
		return err
	}
	s.media.Remove(ctx, user.Avatar)
	return nil
}

// Subscribe makes userID follow authorID and returns the author with a recipe preview.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*dto.SubscriptionResponse, error) {
	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Subscribe(ctx, userID, authorID); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			metrics.RelationConflicts.WithLabelValues("subscription").Inc()
		}
		return nil, err
	}
	items, err := s.subscriptionItems(ctx, []db.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Unsubscribe removes the subscription; NotFound when there was none.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.repo.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	return s.repo.Unsubscribe(ctx, userID, authorID)
}

// ListSubscriptions returns the authors userID follows with their newest recipes.
func (s *UserService) ListSubscriptions(ctx context.Context, userID uint, page common.PageParams, recipesLimit int) (*dto.SubscriptionListResponse, error) {
	authors, total, err := s.repo.ListSubscriptions(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	items, err := s.subscriptionItems(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionListResponse{Count: total, Results: items}, nil
}

// subscriptionItems builds followed-author entries. Every author here is
// followed by the caller, so is_subscribed is always true.
func (s *UserService) subscriptionItems(ctx context.Context, authors []db.User, recipesLimit int) ([]dto.SubscriptionResponse, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.repo.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	urls := s.media.URLFunc()
	items := make([]dto.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		recipes, err := s.repo.ListRecipesByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.SubscriptionResponse{
			UserResponse: converter.UserToResponse(&authors[i], true, urls),
			Recipes:      converter.RecipesToShort(recipes, urls),
			RecipesCount: counts[authors[i].ID],
		})
	}
	return items, nil
}
