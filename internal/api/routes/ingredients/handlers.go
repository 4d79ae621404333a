// Package ingredients contains handlers for the ingredients endpoint.
package ingredients

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/requestid"
	"github.com/avelichko/foodgram/internal/env"
)

// IngredientResponse is the read shape of a reference ingredient.
type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ListIngredients godoc
//
//	@Summary	List reference ingredients, optionally filtered by name prefix.
//	@Tags		Ingredients
//	@Produce	json
//
//	@Param		search	query		string	false	"Case-insensitive name prefix"
//
//	@Success	200		{array}		IngredientResponse
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients [get]
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "listing ingredients")
	ingredients, err := env.Database.ListIngredients(ctx, r.URL.Query().Get("search"))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	views := make([]IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		views = append(views, IngredientResponse{
			ID:              i.ID,
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
		})
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// GetIngredient godoc
//
//	@Summary	Retrieve a single reference ingredient.
//	@Tags		Ingredients
//	@Produce	json
//
//	@Param		id	path		int	true	"Ingredient ID"
//
//	@Success	200	{object}	IngredientResponse
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients/{id} [get]
func GetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "retrieving ingredient")
	ingredient, err := env.Database.GetIngredient(ctx, ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}
