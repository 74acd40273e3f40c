package db

// UserUpdates 用户更新字段
type UserUpdates struct {
	PasswordHash *string
	Avatar       *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.Avatar != nil {
		updates["avatar"] = *u.Avatar
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// RecipeUpdates 食谱更新字段。TagIDs 与 Ingredients 非 nil 时整体替换。
type RecipeUpdates struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *string
	TagIDs      []uint
	Ingredients []RecipeIngredient
}

// ToMap 转换标量字段为 GORM 更新 map（内部使用）
func (u RecipeUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Text != nil {
		updates["text"] = *u.Text
	}
	if u.CookingTime != nil {
		updates["cooking_time"] = *u.CookingTime
	}
	if u.Image != nil {
		updates["image"] = *u.Image
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u RecipeUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0 && u.TagIDs == nil && u.Ingredients == nil
}
