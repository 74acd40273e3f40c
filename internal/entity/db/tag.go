package db

// Tag 表示食谱标签。
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// RecipeTag 食谱与标签的关联表。
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey" json:"recipe_id"`
	TagID    uint `gorm:"primaryKey" json:"tag_id"`
}

// TableName 指定表名
func (RecipeTag) TableName() string {
	return "recipe_tags"
}
