package database

import "context"

// Querier is the query surface of the database, implemented by Queries and
// mocked in internal/dbmock for handler tests.
type Querier interface {
	CheckUsersTableExists(ctx context.Context) (bool, error)

	CreateUser(ctx context.Context, arg CreateUserParams) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	SetUserRole(ctx context.Context, arg SetUserRoleParams) error

	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (Tag, error)

	ListIngredients(ctx context.Context, search string) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)

	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	ListAuthorRecipes(ctx context.Context, authorID int64) ([]Recipe, error)
	CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
	CheckRecipeOwnership(ctx context.Context, arg CheckRecipeOwnershipParams) (bool, error)

	CreateAmount(ctx context.Context, arg CreateAmountParams) error
	DeleteRecipeAmounts(ctx context.Context, recipeID int64) error
	ListRecipeAmounts(ctx context.Context, recipeID int64) ([]ListRecipeAmountsRow, error)
	AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error
	DeleteRecipeTags(ctx context.Context, recipeID int64) error
	ListRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error)

	FavoriteExists(ctx context.Context, arg FavoriteExistsParams) (bool, error)
	CreateFavorite(ctx context.Context, arg CreateFavoriteParams) error
	DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error)
	CartEntryExists(ctx context.Context, arg CartEntryExistsParams) (bool, error)
	CreateCartEntry(ctx context.Context, arg CreateCartEntryParams) error
	DeleteCartEntry(ctx context.Context, arg DeleteCartEntryParams) (int64, error)
	ListCartIngredients(ctx context.Context, userID int64) ([]ListCartIngredientsRow, error)

	SubscriptionExists(ctx context.Context, arg SubscriptionExistsParams) (bool, error)
	CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) error
	DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (int64, error)
}

var _ Querier = (*Queries)(nil)
