package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx satisfied by both a pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const checkUsersTableExists = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.tables
    WHERE table_schema = 'public' AND table_name = 'users'
)
`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}

const createUser = `
INSERT INTO users (email, username, first_name, last_name, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createUser,
		arg.Email, arg.Username, arg.FirstName, arg.LastName, arg.PasswordHash).Scan(&id)
	return id, err
}

const getUserByEmail = `
SELECT id, email, username, first_name, last_name, password_hash, role, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, username, first_name, last_name, password_hash, role, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

const setUserRole = `
UPDATE users
SET role = $2
WHERE id = $1
`

type SetUserRoleParams struct {
	ID   int64
	Role Role
}

func (q *Queries) SetUserRole(ctx context.Context, arg SetUserRoleParams) error {
	_, err := q.db.Exec(ctx, setUserRole, arg.ID, arg.Role)
	return err
}

const listTags = `
SELECT id, name, color, slug
FROM tags
ORDER BY id
`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const getTag = `
SELECT id, name, color, slug
FROM tags
WHERE id = $1
`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	var t Tag
	err := q.db.QueryRow(ctx, getTag, id).Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

const listIngredients = `
SELECT id, name, measurement_unit
FROM ingredients
WHERE name ILIKE $1 || '%'
ORDER BY name
`

func (q *Queries) ListIngredients(ctx context.Context, search string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ingredients []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

const getIngredient = `
SELECT id, name, measurement_unit
FROM ingredients
WHERE id = $1
`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	var i Ingredient
	err := q.db.QueryRow(ctx, getIngredient, id).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const createRecipe = `
INSERT INTO recipes (author_id, name, image_url, text, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	ImageUrl    pgtype.Text
	Text        string
	CookingTime int32
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createRecipe,
		arg.AuthorID, arg.Name, arg.ImageUrl, arg.Text, arg.CookingTime).Scan(&id)
	return id, err
}

const updateRecipe = `
UPDATE recipes
SET name = COALESCE($2, name),
    image_url = COALESCE($3, image_url),
    text = COALESCE($4, text),
    cooking_time = COALESCE($5, cooking_time)
WHERE id = $1
`

type UpdateRecipeParams struct {
	ID          int64
	Name        pgtype.Text
	ImageUrl    pgtype.Text
	Text        pgtype.Text
	CookingTime pgtype.Int4
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.Exec(ctx, updateRecipe,
		arg.ID, arg.Name, arg.ImageUrl, arg.Text, arg.CookingTime)
	return err
}

const getRecipe = `
SELECT id, author_id, name, image_url, text, cooking_time, pub_date
FROM recipes
WHERE id = $1
`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	var r Recipe
	err := q.db.QueryRow(ctx, getRecipe, id).Scan(
		&r.ID, &r.AuthorID, &r.Name, &r.ImageUrl, &r.Text, &r.CookingTime, &r.PubDate)
	return r, err
}

const listRecipes = `
SELECT id, author_id, name, image_url, text, cooking_time, pub_date
FROM recipes
ORDER BY pub_date DESC, id DESC
`

func (q *Queries) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

const listAuthorRecipes = `
SELECT id, author_id, name, image_url, text, cooking_time, pub_date
FROM recipes
WHERE author_id = $1
ORDER BY pub_date DESC, id DESC
`

func (q *Queries) ListAuthorRecipes(ctx context.Context, authorID int64) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listAuthorRecipes, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func scanRecipes(rows pgx.Rows) ([]Recipe, error) {
	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Name, &r.ImageUrl,
			&r.Text, &r.CookingTime, &r.PubDate); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const countAuthorRecipes = `
SELECT count(*)
FROM recipes
WHERE author_id = $1
`

func (q *Queries) CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countAuthorRecipes, authorID).Scan(&count)
	return count, err
}

const deleteRecipe = `
DELETE FROM recipes
WHERE id = $1
`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteRecipe, id)
	return err
}

const checkRecipeOwnership = `
SELECT EXISTS (
    SELECT 1 FROM recipes
    WHERE id = $1 AND author_id = $2
)
`

type CheckRecipeOwnershipParams struct {
	ID       int64
	AuthorID int64
}

func (q *Queries) CheckRecipeOwnership(ctx context.Context, arg CheckRecipeOwnershipParams) (bool, error) {
	var owns bool
	err := q.db.QueryRow(ctx, checkRecipeOwnership, arg.ID, arg.AuthorID).Scan(&owns)
	return owns, err
}

const createAmount = `
INSERT INTO amounts (recipe_id, ingredient_id, amount)
VALUES ($1, $2, $3)
`

type CreateAmountParams struct {
	RecipeID     int64
	IngredientID int64
	Amount       int32
}

func (q *Queries) CreateAmount(ctx context.Context, arg CreateAmountParams) error {
	_, err := q.db.Exec(ctx, createAmount, arg.RecipeID, arg.IngredientID, arg.Amount)
	return err
}

const deleteRecipeAmounts = `
DELETE FROM amounts
WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeAmounts(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeAmounts, recipeID)
	return err
}

const listRecipeAmounts = `
SELECT i.id, i.name, i.measurement_unit, a.amount
FROM amounts a
JOIN ingredients i ON i.id = a.ingredient_id
WHERE a.recipe_id = $1
ORDER BY a.id
`

type ListRecipeAmountsRow struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

func (q *Queries) ListRecipeAmounts(ctx context.Context, recipeID int64) ([]ListRecipeAmountsRow, error) {
	rows, err := q.db.Query(ctx, listRecipeAmounts, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var amounts []ListRecipeAmountsRow
	for rows.Next() {
		var a ListRecipeAmountsRow
		if err := rows.Scan(&a.IngredientID, &a.Name, &a.MeasurementUnit, &a.Amount); err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}

const addRecipeTag = `
INSERT INTO recipe_tags (recipe_id, tag_id)
VALUES ($1, $2)
`

type AddRecipeTagParams struct {
	RecipeID int64
	TagID    int64
}

func (q *Queries) AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error {
	_, err := q.db.Exec(ctx, addRecipeTag, arg.RecipeID, arg.TagID)
	return err
}

const deleteRecipeTags = `
DELETE FROM recipe_tags
WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeTags(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeTags, recipeID)
	return err
}

const listRecipeTags = `
SELECT t.id, t.name, t.color, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = $1
ORDER BY t.id
`

func (q *Queries) ListRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listRecipeTags, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const favoriteExists = `
SELECT EXISTS (
    SELECT 1 FROM favorites
    WHERE user_id = $1 AND recipe_id = $2
)
`

type FavoriteExistsParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) FavoriteExists(ctx context.Context, arg FavoriteExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, favoriteExists, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}

const createFavorite = `
INSERT INTO favorites (user_id, recipe_id)
VALUES ($1, $2)
`

type CreateFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CreateFavorite(ctx context.Context, arg CreateFavoriteParams) error {
	_, err := q.db.Exec(ctx, createFavorite, arg.UserID, arg.RecipeID)
	return err
}

const deleteFavorite = `
DELETE FROM favorites
WHERE user_id = $1 AND recipe_id = $2
`

type DeleteFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteFavorite, arg.UserID, arg.RecipeID)
	return tag.RowsAffected(), err
}

const cartEntryExists = `
SELECT EXISTS (
    SELECT 1 FROM shopping_cart
    WHERE user_id = $1 AND recipe_id = $2
)
`

type CartEntryExistsParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CartEntryExists(ctx context.Context, arg CartEntryExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, cartEntryExists, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}

const createCartEntry = `
INSERT INTO shopping_cart (user_id, recipe_id)
VALUES ($1, $2)
`

type CreateCartEntryParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CreateCartEntry(ctx context.Context, arg CreateCartEntryParams) error {
	_, err := q.db.Exec(ctx, createCartEntry, arg.UserID, arg.RecipeID)
	return err
}

const deleteCartEntry = `
DELETE FROM shopping_cart
WHERE user_id = $1 AND recipe_id = $2
`

type DeleteCartEntryParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) DeleteCartEntry(ctx context.Context, arg DeleteCartEntryParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCartEntry, arg.UserID, arg.RecipeID)
	return tag.RowsAffected(), err
}

const listCartIngredients = `
SELECT i.name, i.measurement_unit, sum(a.amount)::bigint AS total
FROM shopping_cart sc
JOIN amounts a ON a.recipe_id = sc.recipe_id
JOIN ingredients i ON i.id = a.ingredient_id
WHERE sc.user_id = $1
GROUP BY i.name, i.measurement_unit
ORDER BY i.name
`

type ListCartIngredientsRow struct {
	Name            string
	MeasurementUnit string
	Total           int64
}

func (q *Queries) ListCartIngredients(ctx context.Context, userID int64) ([]ListCartIngredientsRow, error) {
	rows, err := q.db.Query(ctx, listCartIngredients, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCartIngredientsRow
	for rows.Next() {
		var item ListCartIngredientsRow
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.Total); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const subscriptionExists = `
SELECT EXISTS (
    SELECT 1 FROM subscriptions
    WHERE user_id = $1 AND author_id = $2
)
`

type SubscriptionExistsParams struct {
	UserID   int64
	AuthorID int64
}

func (q *Queries) SubscriptionExists(ctx context.Context, arg SubscriptionExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, subscriptionExists, arg.UserID, arg.AuthorID).Scan(&exists)
	return exists, err
}

const createSubscription = `
INSERT INTO subscriptions (user_id, author_id)
VALUES ($1, $2)
`

type CreateSubscriptionParams struct {
	UserID   int64
	AuthorID int64
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) error {
	_, err := q.db.Exec(ctx, createSubscription, arg.UserID, arg.AuthorID)
	return err
}

const deleteSubscription = `
DELETE FROM subscriptions
WHERE user_id = $1 AND author_id = $2
`

type DeleteSubscriptionParams struct {
	UserID   int64
	AuthorID int64
}

func (q *Queries) DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteSubscription, arg.UserID, arg.AuthorID)
	return tag.RowsAffected(), err
}
