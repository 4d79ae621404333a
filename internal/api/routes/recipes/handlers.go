// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/requestid"
	"github.com/avelichko/foodgram/internal/api/token"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/env"
	fgJson "github.com/avelichko/foodgram/internal/json"
	"github.com/avelichko/foodgram/internal/recipe"
)

const maxBodySize = 10 << 20 // ~10 MB, embedded base64 images included

const uniqueViolation = "23505"

// CreateRecipe godoc
//
//	@Summary	Create a recipe.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//
//	@Param		request	body		CreateRecipeRequest	true	"Recipe write shape"
//
//	@Success	201		{object}	recipe.View
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Failure	404		{object}	apiError.Error	"Ingredient not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes [post]
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Read request
	env.Logger.DebugContext(ctx, "decoding request")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var request CreateRecipeRequest
	if err := fgJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	payload := recipe.WritePayload{
		Name:        &request.Name,
		Text:        &request.Text,
		CookingTime: request.CookingTime,
		Ingredients: lineItems(request.Ingredients),
		Tags:        request.Tags,
	}

	// Store image
	imageKey, ok := storeImage(w, r, request.Image)
	if !ok {
		return
	}
	if imageKey != "" {
		payload.ImageURL = &imageKey
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "creating recipe")
	recipeID, err := recipe.Create(ctx, env.Database, userID, payload)
	if err != nil {
		if imageKey != "" {
			_ = env.FileStore.DeleteURLPath(imageKey)
		}
		encodeMutationError(w, r, err)
		return
	}

	writeRecipeView(w, r, recipeID, userID, http.StatusCreated)
}

// UpdateRecipe godoc
//
//	@Summary	Update a recipe.
//	@Description	Scalar fields are partial-update; line items and tags replace
//	@Description	the stored collections wholesale.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//
//	@Param		id		path		int					true	"Recipe ID"
//	@Param		request	body		UpdateRecipeRequest	true	"Recipe write shape"
//
//	@Success	200		{object}	recipe.View
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Failure	403		{object}	apiError.Error	"Caller does not own the recipe"
//	@Failure	404		{object}	apiError.Error	"Recipe or ingredient not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [patch]
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	row, ok := ownedRecipe(w, r, userID)
	if !ok {
		return
	}

	// Read request
	env.Logger.DebugContext(ctx, "decoding request")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var request UpdateRecipeRequest
	if err := fgJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	payload := recipe.WritePayload{
		Name:        request.Name,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		Ingredients: lineItems(request.Ingredients),
		Tags:        request.Tags,
	}

	// Store replacement image
	var imageKey string
	if request.Image != nil {
		imageKey, ok = storeImage(w, r, *request.Image)
		if !ok {
			return
		}
		if imageKey != "" {
			payload.ImageURL = &imageKey
		}
	}

	// Update recipe
	env.Logger.DebugContext(ctx, "updating recipe")
	if err := recipe.Update(ctx, env.Database, row.ID, payload); err != nil {
		if imageKey != "" {
			_ = env.FileStore.DeleteURLPath(imageKey)
		}
		encodeMutationError(w, r, err)
		return
	}
	if imageKey != "" && row.ImageUrl.Valid {
		if err := env.FileStore.DeleteURLPath(row.ImageUrl.String); err != nil {
			env.Logger.ErrorContext(ctx, "failed to delete replaced image", slog.Any("error", err))
		}
	}

	writeRecipeView(w, r, row.ID, userID, http.StatusOK)
}

// DeleteRecipe godoc
//
//	@Summary	Delete a recipe with its line items, tags and stored images.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"Caller does not own the recipe"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id} [delete]
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	row, ok := ownedRecipe(w, r, userID)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "deleting recipe")
	if err := env.Database.DeleteRecipe(ctx, row.ID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if row.ImageUrl.Valid {
		if err := env.FileStore.DeleteURLPath(row.ImageUrl.String); err != nil {
			env.Logger.ErrorContext(ctx, "failed to delete recipe image", slog.Any("error", err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRecipes godoc
//
//	@Summary	List recipes, newest publication first.
//	@Tags		Recipes
//	@Produce	json
//
//	@Success	200	{array}		recipe.View
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes [get]
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	caller := callerFromCtx(r)

	env.Logger.DebugContext(ctx, "listing recipes")
	rows, err := env.Database.ListRecipes(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	views := make([]recipe.View, 0, len(rows))
	for _, row := range rows {
		view, err := recipe.Render(ctx, env.Database, env.FileStore, row, caller)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to render recipe", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		views = append(views, view)
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// GetRecipe godoc
//
//	@Summary	Retrieve a single recipe in the full read shape.
//	@Tags		Recipes
//	@Produce	json
//
//	@Param		id	path		int	true	"Recipe ID"
//
//	@Success	200	{object}	recipe.View
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{id} [get]
func GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	caller := callerFromCtx(r)

	row, ok := recipeFromPath(w, r)
	if !ok {
		return
	}

	view, err := recipe.Render(ctx, env.Database, env.FileStore, row, caller)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to render recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// AddFavorite godoc
//
//	@Summary	Add a recipe to the caller's favorites.
//	@Tags		Recipes, Favorites
//	@Produce	json
//
//	@Param		id	path		int	true	"Recipe ID"
//
//	@Success	201	{object}	recipe.ShortView
//	@Failure	400	{object}	apiError.Error	"Already in favorites"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/favorite [post]
func AddFavorite(w http.ResponseWriter, r *http.Request) {
	addRelation(w, r, relation{
		name:      "favorite",
		duplicate: "already in favorites",
		exists: func(q database.Querier, userID, recipeID int64) (bool, error) {
			return q.FavoriteExists(r.Context(), database.FavoriteExistsParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		},
		create: func(q database.Querier, userID, recipeID int64) error {
			return q.CreateFavorite(r.Context(), database.CreateFavoriteParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		},
	})
}

// RemoveFavorite godoc
//
//	@Summary	Remove a recipe from the caller's favorites.
//	@Tags		Recipes, Favorites
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Favorite not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/favorite [delete]
func RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	removeRelation(w, r, apiError.FavoriteNotFound, "favorite not found",
		func(q database.Querier, userID, recipeID int64) (int64, error) {
			return q.DeleteFavorite(r.Context(), database.DeleteFavoriteParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		})
}

// AddCartEntry godoc
//
//	@Summary	Add a recipe to the caller's shopping cart.
//	@Tags		Recipes, ShoppingCart
//	@Produce	json
//
//	@Param		id	path		int	true	"Recipe ID"
//
//	@Success	201	{object}	recipe.ShortView
//	@Failure	400	{object}	apiError.Error	"Already in shopping cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/shopping_cart [post]
func AddCartEntry(w http.ResponseWriter, r *http.Request) {
	addRelation(w, r, relation{
		name:      "cart entry",
		duplicate: "already in shopping cart",
		exists: func(q database.Querier, userID, recipeID int64) (bool, error) {
			return q.CartEntryExists(r.Context(), database.CartEntryExistsParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		},
		create: func(q database.Querier, userID, recipeID int64) error {
			return q.CreateCartEntry(r.Context(), database.CreateCartEntryParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		},
	})
}

// RemoveCartEntry godoc
//
//	@Summary	Remove a recipe from the caller's shopping cart.
//	@Tags		Recipes, ShoppingCart
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Cart entry not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{id}/shopping_cart [delete]
func RemoveCartEntry(w http.ResponseWriter, r *http.Request) {
	removeRelation(w, r, apiError.CartEntryNotFound, "cart entry not found",
		func(q database.Querier, userID, recipeID int64) (int64, error) {
			return q.DeleteCartEntry(r.Context(), database.DeleteCartEntryParams{
				UserID:   userID,
				RecipeID: recipeID,
			})
		})
}

// DownloadShoppingCart godoc
//
//	@Summary	Download the caller's aggregated shopping list.
//	@Description	Amounts are summed per (ingredient, measurement unit) across
//	@Description	every carted recipe and rendered as a plain-text attachment.
//	@Tags		Recipes, ShoppingCart
//	@Produce	plain
//
//	@Success	200
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/download_shopping_cart [get]
func DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "aggregating shopping cart")
	items, err := env.Database.ListCartIngredients(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to aggregate shopping cart", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Total); err != nil {
			env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
			return
		}
	}
}

// callerFromCtx builds the render caller from the optional-auth context.
func callerFromCtx(r *http.Request) recipe.Caller {
	userID, err := token.UserIDFromCtx(r.Context())
	if err != nil {
		return recipe.Caller{}
	}
	return recipe.Caller{ID: userID, Authenticated: true}
}

func lineItems(items []IngredientItem) []recipe.LineItem {
	out := make([]recipe.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, recipe.LineItem{IngredientID: item.ID, Amount: item.Amount})
	}
	return out
}

// storeImage decodes and stores an embedded base64 image along with its
// thumbnail. An empty payload stores nothing. On failure the error response
// has already been written and ok is false.
func storeImage(w http.ResponseWriter, r *http.Request, payload string) (key string, ok bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	if payload == "" {
		return "", true
	}

	env.Logger.DebugContext(ctx, "decoding image")
	img, err := recipe.DecodeImage(payload)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode image", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid image", requestID)
		return "", false
	}

	env.Logger.DebugContext(ctx, "storing image")
	key, _, err = env.FileStore.WriteRecipeImage(img.Suffix, img.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to store image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return "", false
	}

	// Thumbnails are derived data; losing one is not worth failing the write.
	if thumb, err := img.Thumbnail(); err != nil {
		env.Logger.DebugContext(ctx, "skipping thumbnail", slog.Any("error", err))
	} else if _, _, err := env.FileStore.WriteRecipeThumbnail(key, thumb.Data); err != nil {
		env.Logger.ErrorContext(ctx, "failed to store thumbnail", slog.Any("error", err))
	}

	return key, true
}

// recipeFromPath resolves the {id} path parameter into a recipe row, writing
// the 404 envelope when it cannot.
func recipeFromPath(w http.ResponseWriter, r *http.Request) (database.Recipe, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, false
	}

	row, err := env.Database.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, false
	}
	return row, true
}

// ownedRecipe resolves the path recipe and enforces authorship.
func ownedRecipe(w http.ResponseWriter, r *http.Request, userID int64) (database.Recipe, bool) {
	ctx := r.Context()
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	row, ok := recipeFromPath(w, r)
	if !ok {
		return database.Recipe{}, false
	}
	if row.AuthorID != userID {
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "recipe not owned by user", requestID)
		return database.Recipe{}, false
	}
	return row, true
}

// encodeMutationError maps mutation-layer errors onto the API envelope.
func encodeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var ingredientErr *recipe.IngredientNotFoundError
	switch {
	case errors.Is(err, recipe.ErrCookingTime), errors.Is(err, recipe.ErrQuantity):
		_ = apiError.EncodeError(w, apiError.ValidationError, err.Error(), requestID)
	case errors.As(err, &ingredientErr):
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, ingredientErr.Error(), requestID)
	default:
		env.Logger.ErrorContext(ctx, "recipe mutation failed", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
}

// writeRecipeView renders the stored recipe in the full read shape.
func writeRecipeView(w http.ResponseWriter, r *http.Request, recipeID, userID int64, status int) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	row, err := env.Database.GetRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	view, err := recipe.Render(ctx, env.Database, env.FileStore, row,
		recipe.Caller{ID: userID, Authenticated: true})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to render recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// relation abstracts the favorite and shopping-cart tables, whose write
// contracts are identical.
type relation struct {
	name      string
	duplicate string
	exists    func(q database.Querier, userID, recipeID int64) (bool, error)
	create    func(q database.Querier, userID, recipeID int64) error
}

func addRelation(w http.ResponseWriter, r *http.Request, rel relation) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	row, ok := recipeFromPath(w, r)
	if !ok {
		return
	}

	exists, err := rel.exists(env.Database, userID, row.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check "+rel.name, slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if exists {
		_ = apiError.EncodeError(w, apiError.ValidationError, rel.duplicate, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating "+rel.name)
	if err := rel.create(env.Database, userID, row.ID); err != nil {
		// Unique constraint backstop for concurrent duplicates.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			_ = apiError.EncodeError(w, apiError.ValidationError, rel.duplicate, requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to create "+rel.name, slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(recipe.RenderShort(env.FileStore, row)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

func removeRelation(w http.ResponseWriter, r *http.Request, code apiError.ErrorCode, missing string,
	remove func(q database.Querier, userID, recipeID int64) (int64, error)) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, code, missing, requestID)
		return
	}

	removed, err := remove(env.Database, userID, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to remove relation", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if removed == 0 {
		_ = apiError.EncodeError(w, code, missing, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
