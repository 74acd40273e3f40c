package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/common"
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
)

func TestUserServiceRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Register(ctx, dto.UserCreateRequest{
		Email:     " Cook@Example.com ",
		Username:  "cook",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", created.Email)
	assert.NotZero(t, created.ID)

	token, err := env.users.Login(ctx, dto.TokenLoginRequest{Email: "cook@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AuthToken)

	_, err = env.users.Login(ctx, dto.TokenLoginRequest{Email: "cook@example.com", Password: "wrong-password"})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "password", appErr.Field)

	_, err = env.users.Login(ctx, dto.TokenLoginRequest{Email: "nobody@example.com", Password: "password123"})
	requireKind(t, err, apperror.KindValidation)
}

func TestUserServiceRegisterRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "taken")

	tests := []struct {
		name  string
		req   dto.UserCreateRequest
		kind  apperror.Kind
		field string
	}{
		{
			name: "duplicate username",
			req:  dto.UserCreateRequest{Email: "new@example.com", Username: "taken", FirstName: "A", LastName: "B", Password: "password123"},
			kind: apperror.KindConflict,
		},
		{
			name: "duplicate email",
			req:  dto.UserCreateRequest{Email: "TAKEN@example.com", Username: "fresh", FirstName: "A", LastName: "B", Password: "password123"},
			kind: apperror.KindConflict,
		},
		{
			name:  "reserved username",
			req:   dto.UserCreateRequest{Email: "me@example.com", Username: "me", FirstName: "A", LastName: "B", Password: "password123"},
			kind:  apperror.KindValidation,
			field: "username",
		},
		{
			name:  "short password",
			req:   dto.UserCreateRequest{Email: "short@example.com", Username: "short", FirstName: "A", LastName: "B", Password: "123"},
			kind:  apperror.KindValidation,
			field: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tt.req)
			appErr := requireKind(t, err, tt.kind)
			if tt.field != "" {
				assert.Equal(t, tt.field, appErr.Field)
			}
		})
	}
}

func TestUserServiceSetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "cook")

	err := env.users.SetPassword(ctx, user.ID, dto.SetPasswordRequest{NewPassword: "brand-new-pass", CurrentPassword: "nope"})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "current_password", appErr.Field)

	require.NoError(t, env.users.SetPassword(ctx, user.ID, dto.SetPasswordRequest{NewPassword: "brand-new-pass", CurrentPassword: "password123"}))
	_, err = env.users.Login(ctx, dto.TokenLoginRequest{Email: user.Email, Password: "brand-new-pass"})
	require.NoError(t, err)
}

func TestUserServiceAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "cook")

	first, err := env.users.SetAvatar(ctx, user.ID, dto.AvatarRequest{Avatar: pngPayload(t)})
	require.NoError(t, err)
	require.Contains(t, first.Avatar, "/media/avatars/")

	stored, err := env.repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	firstKey := stored.Avatar
	_, err = os.Stat(filepath.Join(env.store.LocalBaseDir(), firstKey))
	require.NoError(t, err)

	_, err = env.users.SetAvatar(ctx, user.ID, dto.AvatarRequest{Avatar: pngPayload(t)})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.store.LocalBaseDir(), firstKey))
	assert.True(t, os.IsNotExist(err), "previous avatar should be removed")

	_, err = env.users.SetAvatar(ctx, user.ID, dto.AvatarRequest{Avatar: "not an image"})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "avatar", appErr.Field)

	require.NoError(t, env.users.DeleteAvatar(ctx, user.ID))
	profile, err := env.users.Get(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.Avatar)
	require.NoError(t, env.users.DeleteAvatar(ctx, user.ID))
}

func TestUserServiceSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	reader := env.createUser(t, "reader")

	for _, name := range []string{"Soup", "Salad", "Stew"} {
		require.NoError(t, env.gdb.Create(&db.Recipe{AuthorID: author.ID, Name: name, Text: "t", CookingTime: 5}).Error)
	}

	sub, err := env.users.Subscribe(ctx, reader.ID, author.ID, 2)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 2)
	assert.EqualValues(t, 3, sub.RecipesCount)

	_, err = env.users.Subscribe(ctx, reader.ID, author.ID, 2)
	requireKind(t, err, apperror.KindConflict)

	_, err = env.users.Subscribe(ctx, reader.ID, reader.ID, 2)
	requireKind(t, err, apperror.KindConflict)

	_, err = env.users.Subscribe(ctx, reader.ID, 9999, 2)
	requireKind(t, err, apperror.KindNotFound)

	profile, err := env.users.Get(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	anonymous, err := env.users.Get(ctx, 0, author.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	list, err := env.users.ListSubscriptions(ctx, reader.ID, common.PageParams{}, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Count)
	assert.Equal(t, author.ID, list.Results[0].ID)
	assert.Len(t, list.Results[0].Recipes, 3)

	require.NoError(t, env.users.Unsubscribe(ctx, reader.ID, author.ID))
	err = env.users.Unsubscribe(ctx, reader.ID, author.ID)
	requireKind(t, err, apperror.KindNotFound)
}

func TestUserServiceList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, name := range []string{"alpha", "beta", "gamma"} {
		env.createUser(t, name)
	}

	page, err := env.users.List(ctx, 0, common.PageParams{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	assert.Len(t, page.Results, 2)
}
