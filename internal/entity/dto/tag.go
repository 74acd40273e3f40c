package dto

// Tag is the DTO representation of a tag.
type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagCreateRequest is the admin payload for creating a tag.
type TagCreateRequest struct {
	Name string `json:"name" validate:"required,max=32"`
	Slug string `json:"slug" validate:"required,slug,max=32"`
}

// Ingredient is the DTO representation of an ingredient.
type Ingredient struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit *string `json:"measurement_unit"`
}
