package sql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/entity/db"
)

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// ListIngredients returns ingredients whose name starts with namePrefix,
// ignoring case. An empty prefix lists everything.
func (r *GormRepository) ListIngredients(ctx context.Context, namePrefix string) ([]db.Ingredient, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	query := r.db.WithContext(ctx).Model(&db.Ingredient{})
	if prefix := strings.TrimSpace(namePrefix); prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}
	var items []db.Ingredient
	if err := query.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetIngredient loads an ingredient by id.
func (r *GormRepository) GetIngredient(ctx context.Context, id uint) (*db.Ingredient, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	var item db.Ingredient
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translateError(err, "ingredient")
	}
	return &item, nil
}

// FindIngredientsByIDs returns the ingredients that exist among ids.
func (r *GormRepository) FindIngredientsByIDs(ctx context.Context, ids []uint) ([]db.Ingredient, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if len(ids) == 0 {
		return []db.Ingredient{}, nil
	}
	var items []db.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertIngredients inserts the (name, unit) pairs that are not present yet
// and returns how many were created. A null unit is matched with IS NULL,
// since the unique index does not cover NULLs.
func (r *GormRepository) UpsertIngredients(ctx context.Context, items []db.Ingredient) (int, error) {
	if r == nil || r.db == nil {
		return 0, errNotInitialised
	}
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			item := items[i]
			item.ID = 0
			item.Name = strings.TrimSpace(item.Name)
			if item.Name == "" {
				continue
			}

			query := tx.Model(&db.Ingredient{}).Where("name = ?", item.Name)
			if item.MeasurementUnit == nil {
				query = query.Where("measurement_unit IS NULL")
			} else {
				query = query.Where("measurement_unit = ?", *item.MeasurementUnit)
			}
			var count int64
			if err := query.Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err, "ingredient")
	}
	return created, nil
}
