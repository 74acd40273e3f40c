package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodgram/internal/apperror"
	"foodgram/internal/auth"
	"foodgram/internal/entity/db"
	sqlrepo "foodgram/internal/model/sql"
	"foodgram/internal/shortlink"
	"foodgram/internal/storage"
	"foodgram/internal/validation"
)

type testEnv struct {
	repo    *sqlrepo.GormRepository
	gdb     *gorm.DB
	store   *storage.LocalStorage
	users   *UserService
	recipes *RecipeService
	codec   *shortlink.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, sqlrepo.Migrate(gdb))

	repo := sqlrepo.NewGormRepository(gdb)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	media := NewMediaService(store, storage.NewURLBuilder("/media"))

	tokens, err := auth.NewManager("test-secret", "foodgram", time.Hour)
	require.NoError(t, err)
	codec, err := shortlink.New("test-salt", shortlink.DefaultMinLength)
	require.NoError(t, err)
	v := validation.New()

	return &testEnv{
		repo:    repo,
		gdb:     gdb,
		store:   store,
		users:   NewUserService(repo, media, tokens, v),
		recipes: NewRecipeService(repo, media, codec, v, "http://localhost:8080"),
		codec:   codec,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *db.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &db.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: hash,
	}
	require.NoError(t, e.repo.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) createIngredient(t *testing.T, name string, unit *string) db.Ingredient {
	t.Helper()
	item := db.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.gdb.Create(&item).Error)
	return item
}

func (e *testEnv) createTag(t *testing.T, name, slug string) db.Tag {
	t.Helper()
	tag := db.Tag{Name: name, Slug: slug}
	require.NoError(t, e.repo.CreateTag(context.Background(), &tag))
	return tag
}

// pngPayload returns a small data URL encoded png.
func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func strPtr(s string) *string { return &s }

func requireKind(t *testing.T, err error, kind apperror.Kind) *apperror.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.Truef(t, ok, "expected *apperror.Error, got %T: %v", err, err)
	require.Equal(t, kind, appErr.Kind, appErr.Error())
	return appErr
}
