package users

import "github.com/avelichko/foodgram/internal/recipe"

// ProfileResponse is the user read shape. IsSubscribed is relative to the
// caller and false for anonymous reads and self-reads.
type ProfileResponse struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionResponse is the author profile returned when subscribing,
// carrying the first page of the author's recipes and the total count.
type SubscriptionResponse struct {
	ProfileResponse
	Recipes      []recipe.ShortView `json:"recipes"`
	RecipesCount int64              `json:"recipes_count"`
}
