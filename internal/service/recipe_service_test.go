package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/common"
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
	"foodgram/internal/export"
	"foodgram/internal/metrics"
	"foodgram/internal/shortlink"
)

type recipeFixture struct {
	env     *testEnv
	author  *db.User
	reader  *db.User
	tags    []db.Tag
	flour   db.Ingredient
	egg     db.Ingredient
	salt    db.Ingredient
	sugarKg db.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	env := newTestEnv(t)
	return &recipeFixture{
		env:     env,
		author:  env.createUser(t, "author"),
		reader:  env.createUser(t, "reader"),
		tags:    []db.Tag{env.createTag(t, "Завтрак", "breakfast"), env.createTag(t, "Обед", "lunch")},
		flour:   env.createIngredient(t, "Мука", strPtr("г")),
		egg:     env.createIngredient(t, "Яйцо", strPtr("шт")),
		salt:    env.createIngredient(t, "Соль", nil),
		sugarKg: env.createIngredient(t, "Сахар", strPtr("кг")),
	}
}

func (f *recipeFixture) create(t *testing.T, name string, ingredients []dto.RecipeIngredientInput) *dto.RecipeResponse {
	t.Helper()
	resp, err := f.env.recipes.Create(context.Background(), Viewer{ID: f.author.ID}, dto.RecipeCreateRequest{
		Ingredients: ingredients,
		Tags:        []uint{f.tags[0].ID},
		Image:       pngPayload(t),
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 30,
	})
	require.NoError(t, err)
	return resp
}

func TestRecipeServiceCreate(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	resp := f.create(t, "Блины", []dto.RecipeIngredientInput{
		{ID: f.flour.ID, Amount: 200},
		{ID: f.egg.ID, Amount: 2},
	})

	assert.Equal(t, "Блины", resp.Name)
	assert.Equal(t, f.author.ID, resp.Author.ID)
	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, f.flour.ID, resp.Ingredients[0].ID)
	assert.Equal(t, 200, resp.Ingredients[0].Amount)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "breakfast", resp.Tags[0].Slug)
	assert.True(t, strings.HasPrefix(resp.Image, "/media/recipes/"), resp.Image)
	assert.False(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)

	got, err := f.env.recipes.Get(ctx, Viewer{}, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Image, got.Image)
}

func TestRecipeServiceCreateRejects(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	valid := func() dto.RecipeCreateRequest {
		return dto.RecipeCreateRequest{
			Ingredients: []dto.RecipeIngredientInput{{ID: f.flour.ID, Amount: 1}},
			Tags:        []uint{f.tags[0].ID},
			Image:       pngPayload(t),
			Name:        "Pie",
			Text:        "Bake.",
			CookingTime: 10,
		}
	}

	tests := []struct {
		name   string
		mutate func(r *dto.RecipeCreateRequest)
		field  string
	}{
		{name: "no ingredients", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients = nil }, field: "ingredients"},
		{name: "zero amount", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients[0].Amount = 0 }, field: "ingredients[0].amount"},
		{
			name: "duplicate ingredient",
			mutate: func(r *dto.RecipeCreateRequest) {
				r.Ingredients = append(r.Ingredients, dto.RecipeIngredientInput{ID: f.flour.ID, Amount: 3})
			},
			field: "ingredients[1].id",
		},
		{name: "unknown ingredient", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients[0].ID = 9999 }, field: "ingredients[0].id"},
		{name: "unknown tag", mutate: func(r *dto.RecipeCreateRequest) { r.Tags = []uint{9999} }, field: "tags"},
		{name: "duplicate tag", mutate: func(r *dto.RecipeCreateRequest) { r.Tags = []uint{f.tags[0].ID, f.tags[0].ID} }, field: "tags"},
		{name: "zero cooking time", mutate: func(r *dto.RecipeCreateRequest) { r.CookingTime = 0 }, field: "cooking_time"},
		{name: "missing image", mutate: func(r *dto.RecipeCreateRequest) { r.Image = "" }, field: "image"},
		{name: "broken image", mutate: func(r *dto.RecipeCreateRequest) { r.Image = "data:image/png;base64,AAAA" }, field: "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			_, err := f.env.recipes.Create(ctx, Viewer{ID: f.author.ID}, req)
			appErr := requireKind(t, err, apperror.KindValidation)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	var count int64
	require.NoError(t, f.env.gdb.Model(&db.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeServiceUpdate(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created := f.create(t, "Омлет", []dto.RecipeIngredientInput{{ID: f.egg.ID, Amount: 3}})

	before, err := f.env.repo.GetRecipe(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.env.recipes.Update(ctx, Viewer{ID: f.reader.ID}, created.ID, dto.RecipeUpdateRequest{Name: strPtr("Stolen")})
	requireKind(t, err, apperror.KindForbidden)

	_, err = f.env.recipes.Update(ctx, Viewer{ID: f.author.ID}, 9999, dto.RecipeUpdateRequest{Name: strPtr("Ghost")})
	requireKind(t, err, apperror.KindNotFound)

	empty := []dto.RecipeIngredientInput{}
	_, err = f.env.recipes.Update(ctx, Viewer{ID: f.author.ID}, created.ID, dto.RecipeUpdateRequest{Ingredients: &empty})
	requireKind(t, err, apperror.KindValidation)

	ingredients := []dto.RecipeIngredientInput{{ID: f.egg.ID, Amount: 4}, {ID: f.salt.ID, Amount: 1}}
	tags := []uint{f.tags[1].ID}
	image := pngPayload(t)
	updated, err := f.env.recipes.Update(ctx, Viewer{ID: f.author.ID}, created.ID, dto.RecipeUpdateRequest{
		Name:        strPtr("Омлет с солью"),
		Ingredients: &ingredients,
		Tags:        &tags,
		Image:       &image,
	})
	require.NoError(t, err)
	assert.Equal(t, "Омлет с солью", updated.Name)
	assert.Equal(t, "Mix and bake.", updated.Text)
	require.Len(t, updated.Ingredients, 2)
	assert.Nil(t, updated.Ingredients[1].MeasurementUnit)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "lunch", updated.Tags[0].Slug)
	assert.NotEqual(t, created.Image, updated.Image)

	_, err = os.Stat(filepath.Join(f.env.store.LocalBaseDir(), before.Image))
	assert.True(t, os.IsNotExist(err), "replaced image should be removed")
}

func TestRecipeServiceDelete(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created := f.create(t, "Каша", []dto.RecipeIngredientInput{{ID: f.flour.ID, Amount: 50}})
	stored, err := f.env.repo.GetRecipe(ctx, created.ID)
	require.NoError(t, err)

	err = f.env.recipes.Delete(ctx, Viewer{ID: f.reader.ID}, created.ID)
	requireKind(t, err, apperror.KindForbidden)

	require.NoError(t, f.env.recipes.Delete(ctx, Viewer{ID: f.author.ID}, created.ID))
	_, err = f.env.recipes.Get(ctx, Viewer{}, created.ID)
	requireKind(t, err, apperror.KindNotFound)

	_, err = os.Stat(filepath.Join(f.env.store.LocalBaseDir(), stored.Image))
	assert.True(t, os.IsNotExist(err))
}

func TestRecipeServiceFavoritesAndCart(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created := f.create(t, "Суп", []dto.RecipeIngredientInput{{ID: f.salt.ID, Amount: 1}})
	reader := Viewer{ID: f.reader.ID}

	short, err := f.env.recipes.AddFavorite(ctx, reader, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, created.Image, short.Image)

	_, err = f.env.recipes.AddFavorite(ctx, reader, created.ID)
	requireKind(t, err, apperror.KindConflict)

	_, err = f.env.recipes.AddToCart(ctx, reader, created.ID)
	require.NoError(t, err)
	_, err = f.env.recipes.AddToCart(ctx, reader, created.ID)
	requireKind(t, err, apperror.KindConflict)

	_, err = f.env.recipes.AddToCart(ctx, reader, 9999)
	requireKind(t, err, apperror.KindNotFound)

	got, err := f.env.recipes.Get(ctx, reader, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.True(t, got.IsInShoppingCart)

	anonymous, err := f.env.recipes.Get(ctx, Viewer{}, created.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)

	require.NoError(t, f.env.recipes.RemoveFavorite(ctx, reader, created.ID))
	requireKind(t, f.env.recipes.RemoveFavorite(ctx, reader, created.ID), apperror.KindNotFound)
	require.NoError(t, f.env.recipes.RemoveFromCart(ctx, reader, created.ID))
	requireKind(t, f.env.recipes.RemoveFromCart(ctx, reader, created.ID), apperror.KindNotFound)
	requireKind(t, f.env.recipes.RemoveFromCart(ctx, reader, 9999), apperror.KindNotFound)
}

func TestRecipeServiceList(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	first := f.create(t, "Первое", []dto.RecipeIngredientInput{{ID: f.salt.ID, Amount: 1}})
	second := f.create(t, "Второе", []dto.RecipeIngredientInput{{ID: f.egg.ID, Amount: 1}})
	reader := Viewer{ID: f.reader.ID}

	_, err := f.env.recipes.AddToCart(ctx, reader, first.ID)
	require.NoError(t, err)
	_, err = f.env.recipes.AddFavorite(ctx, reader, second.ID)
	require.NoError(t, err)

	one, zero := 1, 0
	tests := []struct {
		name   string
		viewer Viewer
		query  dto.RecipeQuery
		want   []uint
	}{
		{name: "all newest first", viewer: reader, query: dto.RecipeQuery{}, want: []uint{second.ID, first.ID}},
		{name: "in cart", viewer: reader, query: dto.RecipeQuery{IsInShoppingCart: &one}, want: []uint{first.ID}},
		{name: "not in cart", viewer: reader, query: dto.RecipeQuery{IsInShoppingCart: &zero}, want: []uint{second.ID}},
		{name: "favorited", viewer: reader, query: dto.RecipeQuery{IsFavorited: 1}, want: []uint{second.ID}},
		{name: "anonymous ignores favorited", viewer: Viewer{}, query: dto.RecipeQuery{IsFavorited: 1}, want: []uint{second.ID, first.ID}},
		{name: "by tag", viewer: reader, query: dto.RecipeQuery{Tags: []string{"breakfast", " "}}, want: []uint{second.ID, first.ID}},
		{name: "unknown tag", viewer: reader, query: dto.RecipeQuery{Tags: []string{"dinner"}}, want: []uint{}},
		{name: "other author", viewer: reader, query: dto.RecipeQuery{Author: f.reader.ID}, want: []uint{}},
		{name: "paged", viewer: reader, query: dto.RecipeQuery{PageParams: common.PageParams{Limit: 1, Offset: 1}}, want: []uint{first.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.env.recipes.List(ctx, tt.viewer, tt.query)
			require.NoError(t, err)
			ids := make([]uint, 0, len(page.Results))
			for _, r := range page.Results {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRecipeServiceShortLink(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created := f.create(t, "Чай", []dto.RecipeIngredientInput{{ID: f.salt.ID, Amount: 1}})

	link, err := f.env.recipes.ShortLink(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.ShortLink, "http://localhost:8080"+shortlink.PathPrefix), link.ShortLink)

	token := strings.TrimPrefix(link.ShortLink, "http://localhost:8080"+shortlink.PathPrefix)
	id, outcome, err := f.env.recipes.ResolveShortLink(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)
	assert.Equal(t, metrics.OutcomeRedirect, outcome)

	_, outcome, err = f.env.recipes.ResolveShortLink(ctx, "!!!")
	requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, metrics.OutcomeInvalidToken, outcome)

	orphan, err := f.env.codec.Encode(9999)
	require.NoError(t, err)
	_, outcome, err = f.env.recipes.ResolveShortLink(ctx, orphan)
	requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, metrics.OutcomeUnknownRecipe, outcome)

	_, err = f.env.recipes.ShortLink(ctx, 9999)
	requireKind(t, err, apperror.KindNotFound)
}

func TestRecipeServiceDownloadShoppingCart(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	reader := Viewer{ID: f.reader.ID}

	first := f.create(t, "Блины", []dto.RecipeIngredientInput{{ID: f.flour.ID, Amount: 200}, {ID: f.egg.ID, Amount: 2}})
	second := f.create(t, "Оладьи", []dto.RecipeIngredientInput{{ID: f.flour.ID, Amount: 150}, {ID: f.salt.ID, Amount: 1}})
	for _, id := range []uint{first.ID, second.ID} {
		_, err := f.env.recipes.AddToCart(ctx, reader, id)
		require.NoError(t, err)
	}

	doc, err := f.env.recipes.DownloadShoppingCart(ctx, reader, "")
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.txt", doc.Filename)
	want := export.Header + "\n" +
		"1. Мука: 350 г\n" +
		"2. Соль: 1\n" +
		"3. Яйцо: 2 шт\n"
	assert.Equal(t, want, string(doc.Data))

	pdf, err := f.env.recipes.DownloadShoppingCart(ctx, reader, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Data), "%PDF"))

	_, err = f.env.recipes.DownloadShoppingCart(ctx, reader, "docx")
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "format", appErr.Field)

	emptyCart, err := f.env.recipes.DownloadShoppingCart(ctx, Viewer{ID: f.author.ID}, "txt")
	require.NoError(t, err)
	assert.Equal(t, export.Header+"\n", string(emptyCart.Data))
}
