package db

import "time"

// Ingredient is immutable reference data seeded by the importer.
// MeasurementUnit is nullable; a nil unit is a distinct value from any unit string.
type Ingredient struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	Name            string  `gorm:"column:name;type:varchar(128);not null;uniqueIndex:idx_ingredient_name_unit,priority:1" json:"name"`
	MeasurementUnit *string `gorm:"column:measurement_unit;type:varchar(64);uniqueIndex:idx_ingredient_name_unit,priority:2" json:"measurement_unit"`
}

// TableName 指定表名
func (Ingredient) TableName() string {
	return "ingredients"
}

// Recipe is owned by its author. Deleting it removes its ingredient rows, tag links,
// favorites and cart entries in the same transaction.
type Recipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorID uint  `gorm:"column:author_id;index;not null" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"-"`

	Name        string `gorm:"column:name;type:varchar(200);uniqueIndex;not null" json:"name"`
	Text        string `gorm:"column:text;type:text;not null" json:"text"`
	CookingTime int    `gorm:"column:cooking_time;not null" json:"cooking_time"`
	Image       string `gorm:"column:image;type:varchar(255)" json:"image"`

	Tags        []Tag              `gorm:"many2many:recipe_tags;foreignKey:ID;joinForeignKey:RecipeID;references:ID;joinReferences:TagID" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

// TableName 指定表名
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient associates an ingredient and its amount with a recipe.
// Position keeps the author's ordering.
type RecipeIngredient struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	RecipeID     uint        `gorm:"column:recipe_id;not null;uniqueIndex:idx_recipe_ingredient,priority:1" json:"recipe_id"`
	IngredientID uint        `gorm:"column:ingredient_id;not null;uniqueIndex:idx_recipe_ingredient,priority:2" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Amount       int         `gorm:"column:amount;not null" json:"amount"`
	Position     int         `gorm:"column:position;not null;default:0" json:"position"`
}

// TableName 指定表名
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// CartIngredientRow is one (recipe, ingredient, amount) triple from a user's cart,
// read with a single join. It is a scan target, not a table.
type CartIngredientRow struct {
	RecipeID        uint
	Name            string
	MeasurementUnit *string
	Amount          int64
}
