package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/entity/common"
	"foodgram/internal/entity/db"
)

// CreateRecipe inserts the recipe, its ingredient rows and tag links in one transaction.
// recipe.Ingredients must carry IngredientID and Amount; positions follow slice order.
func (r *GormRepository) CreateRecipe(ctx context.Context, recipe *db.Recipe, tagIDs []uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if recipe == nil {
		return fmt.Errorf("recipe is nil")
	}

	ingredients := recipe.Ingredients
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := replaceRecipeIngredients(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return replaceRecipeTags(tx, recipe.ID, tagIDs)
	})
	return translateError(err, "recipe")
}

// UpdateRecipe applies scalar updates and, when set, replaces tags and ingredients.
func (r *GormRepository) UpdateRecipe(ctx context.Context, id uint, updates db.RecipeUpdates) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if updates.IsEmpty() {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Recipe
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}
		if fields := updates.ToMap(); len(fields) > 0 {
			if err := tx.Model(&db.Recipe{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		if updates.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&db.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceRecipeIngredients(tx, id, updates.Ingredients); err != nil {
				return err
			}
		}
		if updates.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&db.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := replaceRecipeTags(tx, id, updates.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err, "recipe")
}

func replaceRecipeIngredients(tx *gorm.DB, recipeID uint, items []db.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]db.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = db.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
			Position:     i,
		}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func replaceRecipeTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]db.RecipeTag, 0, len(tagIDs))
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}
		links = append(links, db.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Create(&links).Error
}

func preloadRecipe(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Tags", func(q *gorm.DB) *gorm.DB { return q.Order("tags.id ASC") }).
		Preload("Ingredients", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Preload("Ingredients.Ingredient")
}

// GetRecipe loads a recipe with author, tags and ordered ingredients.
func (r *GormRepository) GetRecipe(ctx context.Context, id uint) (*db.Recipe, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	var recipe db.Recipe
	if err := preloadRecipe(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translateError(err, "recipe")
	}
	return &recipe, nil
}

// RecipeExists reports whether a recipe with id is stored.
func (r *GormRepository) RecipeExists(ctx context.Context, id uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, errNotInitialised
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecipes returns a filtered page of recipes, newest first, plus the total match count.
func (r *GormRepository) ListRecipes(ctx context.Context, filter db.RecipeFilter) ([]db.Recipe, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, errNotInitialised
	}
	page := filter.Page.Normalize(common.DefaultPageLimit)

	query := r.db.WithContext(ctx).Model(&db.Recipe{})
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&db.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Model(&db.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf))
	}
	if filter.NotInCartOf != 0 {
		query = query.Where("recipes.id NOT IN (?)",
			r.db.Model(&db.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", filter.NotInCartOf))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []db.Recipe
	err := preloadRecipe(query).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListRecipesByAuthor returns up to limit of the author's newest recipes.
// limit <= 0 returns all of them.
func (r *GormRepository) ListRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]db.Recipe, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []db.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountRecipesByAuthors returns recipe counts keyed by author id.
func (r *GormRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&db.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// DeleteRecipe removes a recipe together with its ingredient rows, tag links,
// favorites and cart entries in one transaction.
func (r *GormRepository) DeleteRecipe(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&db.RecipeIngredient{},
			&db.RecipeTag{},
			&db.Favorite{},
			&db.ShoppingCartEntry{},
		}
		for _, model := range owned {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&db.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err, "recipe")
}
