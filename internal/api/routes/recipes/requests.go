package recipes

// IngredientItem is one (ingredient, quantity) pair of the write shape.
// Quantity bounds are checked by the mutation layer, not here, so the
// error message matches the domain rule.
type IngredientItem struct {
	ID     int64 `json:"id" validate:"required,min=1"`
	Amount int32 `json:"amount"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientItem `json:"ingredients" validate:"required,dive"`
	Tags        []int64          `json:"tags" validate:"required"`
	Name        string           `json:"name" validate:"required,max=200"`
	Image       string           `json:"image"`
	Text        string           `json:"text" validate:"required"`
	CookingTime *int32           `json:"cooking_time" validate:"required"`
}

// UpdateRecipeRequest carries the same shape as create. Absent scalars keep
// their stored values; the line-item and tag collections always replace the
// stored ones.
type UpdateRecipeRequest struct {
	Ingredients []IngredientItem `json:"ingredients" validate:"required,dive"`
	Tags        []int64          `json:"tags" validate:"required"`
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Image       *string          `json:"image"`
	Text        *string          `json:"text"`
	CookingTime *int32           `json:"cooking_time"`
}
