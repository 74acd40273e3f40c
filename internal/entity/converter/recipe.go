package converter

import (
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
)

// RecipeFlags carries the per-viewer booleans of a recipe.
type RecipeFlags struct {
	Favorited        bool
	InShoppingCart   bool
	AuthorSubscribed bool
}

func TagToDTO(t db.Tag) dto.Tag {
	return dto.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func TagsToDTO(tags []db.Tag) []dto.Tag {
	out := make([]dto.Tag, len(tags))
	for i, t := range tags {
		out[i] = TagToDTO(t)
	}
	return out
}

func IngredientToDTO(i db.Ingredient) dto.Ingredient {
	return dto.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func IngredientsToDTO(items []db.Ingredient) []dto.Ingredient {
	out := make([]dto.Ingredient, len(items))
	for i, item := range items {
		out[i] = IngredientToDTO(item)
	}
	return out
}

// RecipeToResponse converts a recipe loaded with its author, tags and ingredients.
func RecipeToResponse(r *db.Recipe, flags RecipeFlags, urls URLFunc) dto.RecipeResponse {
	if r == nil {
		return dto.RecipeResponse{}
	}
	ingredients := make([]dto.RecipeIngredient, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := dto.RecipeIngredient{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, line)
	}
	return dto.RecipeResponse{
		ID:               r.ID,
		Tags:             TagsToDTO(r.Tags),
		Author:           UserToResponse(r.Author, flags.AuthorSubscribed, urls),
		Ingredients:      ingredients,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InShoppingCart,
		Name:             r.Name,
		Image:            urls.apply(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// RecipeToShort converts a recipe to its compact form.
func RecipeToShort(r *db.Recipe, urls URLFunc) dto.RecipeShort {
	if r == nil {
		return dto.RecipeShort{}
	}
	return dto.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       urls.apply(r.Image),
		CookingTime: r.CookingTime,
	}
}

func RecipesToShort(recipes []db.Recipe, urls URLFunc) []dto.RecipeShort {
	out := make([]dto.RecipeShort, len(recipes))
	for i := range recipes {
		out[i] = RecipeToShort(&recipes[i], urls)
	}
	return out
}
