package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/dto"
)

func validRecipe() dto.RecipeCreateRequest {
	return dto.RecipeCreateRequest{
		Ingredients: []dto.RecipeIngredientInput{{ID: 1, Amount: 10}},
		Tags:        []uint{1},
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 30,
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperror.ErrValidation)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	return appErr.Field
}

func TestValidateRecipe(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(r *dto.RecipeCreateRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*dto.RecipeCreateRequest) {}},
		{name: "no ingredients", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients = nil }, wantField: "ingredients"},
		{name: "empty ingredients", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients = []dto.RecipeIngredientInput{} }, wantField: "ingredients"},
		{name: "zero amount", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients[0].Amount = 0 }, wantField: "ingredients[0].amount"},
		{name: "negative amount", mutate: func(r *dto.RecipeCreateRequest) { r.Ingredients[0].Amount = -3 }, wantField: "ingredients[0].amount"},
		{name: "no tags", mutate: func(r *dto.RecipeCreateRequest) { r.Tags = nil }, wantField: "tags"},
		{name: "zero cooking time", mutate: func(r *dto.RecipeCreateRequest) { r.CookingTime = 0 }, wantField: "cooking_time"},
		{name: "missing name", mutate: func(r *dto.RecipeCreateRequest) { r.Name = "" }, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRecipe()
			tt.mutate(&req)
			err := v.Validate(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantField, fieldOf(t, err))
		})
	}
}

func TestValidateTagSlug(t *testing.T) {
	v := New()

	for _, slug := range []string{"breakfast", "main-course", "snack_2"} {
		assert.NoError(t, v.Validate(dto.TagCreateRequest{Name: "Tag", Slug: slug}), slug)
	}
	for _, slug := range []string{"завтрак", "with space", "bad!", "this-slug-is-way-too-long-for-the-column"} {
		assert.Equal(t, "slug", fieldOf(t, v.Validate(dto.TagCreateRequest{Name: "Tag", Slug: slug})), slug)
	}
}

func TestValidateUsername(t *testing.T) {
	v := New()
	base := dto.UserCreateRequest{
		Email:     "cook@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		Password:  "s3cret-pass",
	}

	for _, name := range []string{"cook", "cook.book", "a+b@c-d_e"} {
		req := base
		req.Username = name
		assert.NoError(t, v.Validate(req), name)
	}
	for _, name := range []string{"me", "ME", "has space", "semi;colon"} {
		req := base
		req.Username = name
		assert.Equal(t, "username", fieldOf(t, v.Validate(req)), name)
	}
}
